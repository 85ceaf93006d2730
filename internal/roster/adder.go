// Package roster grows the player section of the new championship form.
//
// The page carries one hidden template block of player inputs. Every call to
// Adder.AddPlayer clones that block, suffixes each field name with the
// player index and inserts the clone before a fixed anchor element, so that
// posted form data stays distinguishable per player.
package roster

import (
	"fmt"

	"golang.org/x/net/html"
)

const DISPLAY_FORMAT = "Number of players: %d"

// Layout names the well-known element ids the adder works with.
type Layout struct {
	TemplateID string
	AnchorID   string
	DisplayID  string
}

var DefaultLayout = Layout{
	TemplateID: "player_stuff",
	AnchorID:   "new_players",
	DisplayID:  "player_num",
}

// Adder owns the player counter for one document. It is not safe for
// concurrent use.
type Adder struct {
	doc    *html.Node
	layout Layout
	count  int
}

func NewAdder(doc *html.Node, layout Layout) *Adder {
	return &Adder{
		doc:    doc,
		layout: layout,
	}
}

// Count returns how many player blocks have been added.
func (a *Adder) Count() int {
	return a.count
}

// AddPlayer appends one renamed copy of the template block before the
// anchor and refreshes the counter display. On error nothing is changed.
func (a *Adder) AddPlayer() error {
	tmpl := FindByID(a.doc, a.layout.TemplateID)
	if tmpl == nil {
		return &MissingElementError{Role: ROLE_TEMPLATE, ID: a.layout.TemplateID}
	}

	anchor := FindByID(a.doc, a.layout.AnchorID)
	if anchor == nil {
		return &MissingElementError{Role: ROLE_ANCHOR, ID: a.layout.AnchorID}
	}
	if anchor.Parent == nil {
		return &MissingElementError{Role: ROLE_ANCHOR_PARENT, ID: a.layout.AnchorID}
	}

	display := FindByID(a.doc, a.layout.DisplayID)
	if display == nil {
		return &MissingElementError{Role: ROLE_DISPLAY, ID: a.layout.DisplayID}
	}

	block := cloneDeep(tmpl)
	RemoveAttr(block, "id")
	show(block)

	Walk(block, func(n *html.Node) {
		if name, ok := Attr(n, "name"); ok && name != "" {
			SetAttr(n, "name", FieldName(name, a.count))
		}
	})

	anchor.Parent.InsertBefore(block, anchor)

	a.count++

	SetText(display, fmt.Sprintf(DISPLAY_FORMAT, a.count))

	return nil
}
