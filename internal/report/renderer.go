package report

import (
	"fmt"
	"strings"
)

// Renderer serializes a laid-out document into a file format.
type Renderer interface {
	Render(doc *Document) ([]byte, error)
	Extension() string
	ContentType() string
}

// NewRenderer returns the renderer for format ("pdf" or "xlsx").
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "pdf":
		return PDFRenderer{}, nil
	case "xlsx":
		return XLSXRenderer{}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}
