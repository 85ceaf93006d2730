// Package views holds the page templates and builds the new championship
// form.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"net/url"

	"championship-be/internal/roster"

	"golang.org/x/net/html"
)

const FORM_ID = "new_champ"

// Base names of the inputs in one player block.
const (
	FIELD_PLAYER = "player_"
	FIELD_NUMBER = "num_"
)

var PlayerFields = []string{FIELD_PLAYER, FIELD_NUMBER}

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed forms/new_champ.html
var newChampPage []byte

// Templates returns the page templates for the view engine.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err)
	}

	return sub
}

// RenderNewChamp writes the new championship page with the given number of
// player blocks. Submitted values, if any, are written back into the form.
func RenderNewChamp(w io.Writer, players int, values url.Values) error {
	doc, err := html.Parse(bytes.NewReader(newChampPage))
	if err != nil {
		return fmt.Errorf("parse new championship page: %w", err)
	}

	adder := roster.NewAdder(doc, roster.DefaultLayout)
	for adder.Count() < players {
		if err := adder.AddPlayer(); err != nil {
			return fmt.Errorf("add player block %d: %w", adder.Count(), err)
		}
	}

	if len(values) > 0 {
		form := roster.FindByID(doc, FORM_ID)
		if form == nil {
			return &roster.MissingElementError{Role: "form", ID: FORM_ID}
		}
		fillForm(form, values)
	}

	return html.Render(w, doc)
}

func fillForm(form *html.Node, values url.Values) {
	roster.Walk(form, func(n *html.Node) {
		name, ok := roster.Attr(n, "name")
		if !ok {
			return
		}
		if _, posted := values[name]; !posted {
			return
		}

		switch n.Data {
		case "input":
			roster.SetAttr(n, "value", values.Get(name))
		case "select":
			selectOption(n, values.Get(name))
		}
	})
}

func selectOption(sel *html.Node, value string) {
	roster.Walk(sel, func(n *html.Node) {
		if n.Data != "option" {
			return
		}

		roster.RemoveAttr(n, "selected")
		if v, _ := roster.Attr(n, "value"); v == value {
			roster.SetAttr(n, "selected", "")
		}
	})
}
