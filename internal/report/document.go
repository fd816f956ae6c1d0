// Package report turns a profile into a paginated tabular document and
// renders it as PDF or XLSX.
package report

import (
	"time"

	"github.com/vladimiradmaev/health-tracker/internal/domain"
)

// ElementKind distinguishes the things placed on a page.
type ElementKind int

const (
	ElementText ElementKind = iota
	ElementTable
)

// Text is a single line placed at a baseline position in millimetres.
type Text struct {
	Content  string
	FontSize float64
	X, Y     float64
}

// Table is one page's segment of a reading table. A table that does not fit
// on its page continues on the next one with Continued set.
type Table struct {
	Section   domain.ReadingType
	Head      []string
	Rows      [][]string
	X         float64
	StartY    float64
	FinalY    float64
	Continued bool
}

// Element is either a Text or a Table, per Kind.
type Element struct {
	Kind  ElementKind
	Text  *Text
	Table *Table
}

// Page holds elements in drawing order.
type Page struct {
	Elements []Element
}

// Document is the output of Build.
type Document struct {
	Title       string
	Subtitle    string
	Filename    string // without extension
	GeneratedAt time.Time
	Pages       []Page
}

// Tables returns one table per reading section, joining continued segments.
func (d *Document) Tables() []Table {
	var out []Table
	for _, page := range d.Pages {
		for _, el := range page.Elements {
			if el.Kind != ElementTable {
				continue
			}
			if el.Table.Continued && len(out) > 0 {
				last := &out[len(out)-1]
				last.Rows = append(last.Rows, el.Table.Rows...)
				last.FinalY = el.Table.FinalY
				continue
			}
			t := *el.Table
			t.Rows = append([][]string(nil), el.Table.Rows...)
			out = append(out, t)
		}
	}
	return out
}

// Texts returns every text line in document order.
func (d *Document) Texts() []Text {
	var out []Text
	for _, page := range d.Pages {
		for _, el := range page.Elements {
			if el.Kind == ElementText {
				out = append(out, *el.Text)
			}
		}
	}
	return out
}
