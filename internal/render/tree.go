package render

import (
	"fmt"
	"io"

	"github.com/xlab/treeprint"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Tree draws the section hierarchy as an indented ASCII tree, headings only.
type Tree struct{}

func (Tree) ContentType() string { return "text/plain; charset=utf-8" }

func (Tree) Render(w io.Writer, o *doctree.Outline) error {
	root := treeprint.NewWithRoot(o.Title)
	var add func(parent treeprint.Tree, s *doctree.Section)
	add = func(parent treeprint.Tree, s *doctree.Section) {
		label := fmt.Sprintf("%d %s", s.Tier, s.Heading)
		if s.Page > 0 {
			label += fmt.Sprintf(" (p. %d)", s.Page)
		}
		branch := parent.AddBranch(label)
		for _, sub := range s.Subsections {
			add(branch, sub)
		}
	}
	for _, s := range o.Sections {
		add(root, s)
	}
	_, err := io.WriteString(w, root.String())
	return err
}
