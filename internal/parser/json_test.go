package parser

import (
	"strings"
	"testing"
)

const dump = `{
  "pages": [{
    "width": 612, "height": 792,
    "tokens": [
      {"text": "TITLE", "fontname": "Bold", "bottom": 50, "x0": 72, "x1": 110, "doctop": 50,
       "chars": [{"text": "T", "size": 18, "top": 32}]}
    ]
  }]
}`

func TestJSONParser_Basic(t *testing.T) {
	doc, err := (&JSONParser{}).Parse(strings.NewReader(dump), "act.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "act" {
		t.Errorf("expected title %q, got %q", "act", doc.Title)
	}
	if len(doc.Pages) != 1 || doc.Pages[0].Number != 1 {
		t.Fatalf("expected one page numbered 1, got %+v", doc.Pages)
	}
	tok := doc.Pages[0].Tokens[0]
	if tok.Font != "Bold" || tok.Chars[0].Size != 18 {
		t.Errorf("unexpected token %+v", tok)
	}
}

func TestJSONParser_Errors(t *testing.T) {
	cases := map[string]string{
		"malformed":   `{"pages": [`,
		"no pages":    `{"pages": []}`,
		"no width":    `{"pages": [{"tokens": []}]}`,
		"bare token":  `{"pages": [{"width": 612, "tokens": [{"text": "x"}]}]}`,
		"empty token": `{"pages": [{"width": 612, "tokens": [{"chars": [{"text": "x", "size": 1}]}]}]}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := (&JSONParser{}).Parse(strings.NewReader(in), "x.json"); err == nil {
				t.Error("expected error")
			}
		})
	}
}
