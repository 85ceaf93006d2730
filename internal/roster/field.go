package roster

import (
	"net/url"
	"strconv"
)

// FieldName namespaces a form field for the player block at index.
func FieldName(base string, index int) string {
	return base + strconv.Itoa(index)
}

type Field struct {
	Base string
	Name string
}

// Block describes the fields of one player entry without a document.
type Block struct {
	Index  int
	Fields []Field
}

func NewBlock(index int, bases ...string) Block {
	fields := make([]Field, 0, len(bases))
	for _, base := range bases {
		fields = append(fields, Field{
			Base: base,
			Name: FieldName(base, index),
		})
	}

	return Block{
		Index:  index,
		Fields: fields,
	}
}

// Collect reads submitted blocks back out of form values, in index order.
// It stops at the first index where none of the block's fields was posted.
// The returned rows hold one value per base, in the order of bases.
func Collect(values url.Values, bases ...string) [][]string {
	if len(bases) == 0 {
		return nil
	}

	rows := make([][]string, 0)

	for index := 0; ; index++ {
		block := NewBlock(index, bases...)

		row := make([]string, len(block.Fields))
		present := false

		for i, f := range block.Fields {
			if _, ok := values[f.Name]; ok {
				present = true
				row[i] = values.Get(f.Name)
			}
		}

		if !present {
			return rows
		}

		rows = append(rows, row)
	}
}
