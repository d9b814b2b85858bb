package render

import (
	"encoding/json"
	"io"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// JSON writes the outline tree as indented JSON.
type JSON struct{}

func (JSON) ContentType() string { return "application/json" }

func (JSON) Render(w io.Writer, o *doctree.Outline) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(o)
}
