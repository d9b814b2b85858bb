package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func sample(t *testing.T) *doctree.Outline {
	t.Helper()
	title, err := doctree.NewSection("TITLE I", 1)
	require.NoError(t, err)
	title.AppendContent("Short title & purpose.")
	chapter, err := doctree.NewSection("CHAPTER 1", 2)
	require.NoError(t, err)
	chapter.AppendContent("First line")
	chapter.AppendContent("Second line")
	require.True(t, title.AddSubsection(chapter))

	return &doctree.Outline{
		Title:    "Act <2025>",
		Preamble: "Be it enacted",
		Sections: []*doctree.Section{title},
		Headings: []doctree.Heading{
			{Text: "TITLE I", Tier: 1, Page: 1},
			{Text: "CHAPTER 1", Tier: 2, Page: 2},
			{Text: "(a) IN GENERAL", Tier: 0, Page: 2},
		},
	}
}

func renderString(t *testing.T, format string, o *doctree.Outline) string {
	t.Helper()
	r, err := ForFormat(format)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, o))
	return buf.String()
}

func TestForFormat(t *testing.T) {
	for _, name := range Formats() {
		r, err := ForFormat(name)
		require.NoError(t, err)
		require.NotEmpty(t, r.ContentType())
	}
	_, err := ForFormat("Markdown")
	require.NoError(t, err)
	_, err = ForFormat("pdf")
	require.ErrorContains(t, err, "unsupported output format")
}

func TestTagged(t *testing.T) {
	got := renderString(t, "tagged", sample(t))
	require.Equal(t, "Be it enacted\n\n"+
		"<h1>TITLE I</h1>\n\nShort title &amp; purpose.\n\n"+
		"<h2>CHAPTER 1</h2>\n\nFirst line\nSecond line\n\n", got)
}

func TestTaggedRoundTrip(t *testing.T) {
	in := sample(t)
	out, err := ReadTagged(strings.NewReader(renderString(t, "tagged", in)), in.Title)
	require.NoError(t, err)

	require.Equal(t, in.Preamble, out.Preamble)
	require.Len(t, out.Sections, 1)
	require.Equal(t, "Short title & purpose.", out.Sections[0].Content)
	require.Len(t, out.Sections[0].Subsections, 1)
	sub := out.Sections[0].Subsections[0]
	require.Equal(t, "CHAPTER 1", sub.Heading)
	require.Equal(t, 2, sub.Tier)
	require.Equal(t, "First line\nSecond line", sub.Content)
	require.Len(t, out.Headings, 2)
}

func TestReadTaggedDeepTiers(t *testing.T) {
	out, err := ReadTagged(strings.NewReader("<h1>A</h1>\n\nx\n\n<h7>B</h7>\n\ny\n\n<h2>C</h2>\n\nz\n\n"), "t")
	require.NoError(t, err)
	require.Len(t, out.Sections, 1)
	a := out.Sections[0]
	require.Len(t, a.Subsections, 2)
	require.Equal(t, 7, a.Subsections[0].Tier)
	require.Equal(t, "y", a.Subsections[0].Content)
	require.Equal(t, "z", a.Subsections[1].Content)
}

func TestMarkdown(t *testing.T) {
	got := renderString(t, "markdown", sample(t))
	require.Contains(t, got, "Be it enacted\n\n# TITLE I\n\n")
	require.Contains(t, got, "## CHAPTER 1\n\nFirst line\n\nSecond line\n\n")
}

func TestMarkdownClampsDeepTiers(t *testing.T) {
	deep, err := doctree.NewSection("DEEP", 9)
	require.NoError(t, err)
	got := renderString(t, "markdown", &doctree.Outline{Sections: []*doctree.Section{deep}})
	require.Equal(t, "###### DEEP\n\n", got)
}

func literalSample(t *testing.T) *doctree.Outline {
	t.Helper()
	sec, err := doctree.NewSection("2. Definitions", 1)
	require.NoError(t, err)
	for _, line := range []string{"- item", "*bold* and _under_", "3) third", "<b>x</b> [ref]", "---"} {
		sec.AppendContent(line)
	}
	return &doctree.Outline{Sections: []*doctree.Section{sec}}
}

func TestMarkdownEscapesExtractedText(t *testing.T) {
	got := renderString(t, "markdown", literalSample(t))
	for _, want := range []string{
		"# 2\\. Definitions\n\n",
		"\\- item\n\n",
		"\\*bold\\* and \\_under\\_\n\n",
		"3\\) third\n\n",
		"\\<b>x\\</b> \\[ref\\]\n\n",
		"\\---\n\n",
	} {
		require.Contains(t, got, want)
	}
}

func TestHTMLKeepsExtractedTextLiteral(t *testing.T) {
	got := renderString(t, "html", literalSample(t))

	doc, err := html.Parse(strings.NewReader(got))
	require.NoError(t, err)

	var elems []string
	var paras []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p":
				paras = append(paras, textContent(n))
			case "h1":
				require.Equal(t, "2. Definitions", textContent(n))
			default:
				elems = append(elems, n.Data)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for _, e := range elems {
		require.NotContains(t, []string{"ol", "ul", "li", "em", "strong", "b", "hr", "a"}, e)
	}
	require.Equal(t, []string{"- item", "*bold* and _under_", "3) third", "<b>x</b> [ref]", "---"}, paras)
}

func TestHTML(t *testing.T) {
	got := renderString(t, "html", sample(t))

	doc, err := html.Parse(strings.NewReader(got))
	require.NoError(t, err)

	var tags []string
	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "h1", "h2":
				tags = append(tags, n.Data+":"+textContent(n))
			case "title":
				title = textContent(n)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	require.Equal(t, "Act <2025>", title)
	require.Equal(t, []string{"h1:TITLE I", "h2:CHAPTER 1"}, tags)
}

func TestDOCX(t *testing.T) {
	got := renderString(t, "docx", sample(t))
	require.True(t, strings.HasPrefix(got, "PK"), "docx output should be a zip archive")
	require.Equal(t, "36", docxHeadingSize(1))
	require.Equal(t, "22", docxHeadingSize(12))
}

func TestJSON(t *testing.T) {
	var decoded doctree.Outline
	require.NoError(t, json.Unmarshal([]byte(renderString(t, "json", sample(t))), &decoded))
	require.Equal(t, "TITLE I", decoded.Sections[0].Heading)
	require.Equal(t, "CHAPTER 1", decoded.Sections[0].Subsections[0].Heading)
	require.Len(t, decoded.Headings, 3)
}

func TestHeadings(t *testing.T) {
	got := renderString(t, "headings", sample(t))
	require.Equal(t, "1 TITLE I (p. 1)\n  2 CHAPTER 1 (p. 2)\n- (a) IN GENERAL (p. 2)\n", got)
}

func TestTree(t *testing.T) {
	o := sample(t)
	o.Sections[0].Page = 1
	got := renderString(t, "tree", o)
	require.Contains(t, got, "Act <2025>\n")
	require.Contains(t, got, "└── 1 TITLE I (p. 1)\n")
	require.Contains(t, got, "    └── 2 CHAPTER 1\n")
	require.NotContains(t, got, "IN GENERAL")
}
