package typography

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// Role names a typographic role of a document.
type Role string

const (
	RoleContent             Role = "content"
	RoleContentAlt1         Role = "content_alt_1"
	RoleIntroductorySection Role = "introductory_section"
	RoleLineNumber          Role = "line_number"
	RolePreamble            Role = "preamble"
	RoleTOCItem             Role = "toc_item"
	RoleTOCHeading          Role = "toc_heading"
	RolePageNumber          Role = "page_number"
	RoleFilePath            Role = "file_path"
	RoleDivisionHeading1    Role = "division_heading_1"
	RoleDivisionHeading2    Role = "division_heading_2"
	RoleDivisionSubheading1 Role = "division_subheading_1"
	RoleDivisionSubheading2 Role = "division_subheading_2"
	RoleDivisionSubheading3 Role = "division_subheading_3"
	RoleLawSection          Role = "law_section"
)

// ErrMissingSignature is returned when a group references an unknown role.
var ErrMissingSignature = errors.New("missing signature for role")

// Catalog binds roles to signatures and groups them by how the classifier
// treats them. A Catalog is read-only once validated and safe to share.
type Catalog struct {
	Signatures       map[Role]Characteristics `yaml:"signatures" json:"signatures"`
	Body             Role                     `yaml:"body" json:"body"`
	Headings         []Role                   `yaml:"headings" json:"headings"`
	PossibleHeadings []Role                   `yaml:"possible_headings" json:"possible_headings"`
	Ignorable        []Role                   `yaml:"ignorable" json:"ignorable"`
	Content          []Role                   `yaml:"content" json:"content"`
	Hierarchy        []Role                   `yaml:"hierarchy" json:"hierarchy"`
}

// DefaultCatalog returns the built-in signature table for the
// legislative print layout this tool was tuned on.
func DefaultCatalog() *Catalog {
	const (
		body   = "JJGECB+DeVinne"
		italic = "JJGECE+DeVinne-Italic"
		bold   = "JJGECG+NewCenturySchlbk-Bold"
		roman  = "JJGECF+Times-Roman"
	)
	return &Catalog{
		Signatures: map[Role]Characteristics{
			RoleContent:             {Font: body, Size: 14, Casing: CasingNormal},
			RoleContentAlt1:         {Font: italic, Size: 14, Casing: CasingNormal},
			RoleIntroductorySection: {Font: bold, Size: 10, Casing: CasingNormal},
			RoleLineNumber:          {Font: roman, Size: 14, Casing: CasingUnknown},
			RolePreamble:            {Font: italic, Size: 14, Casing: CasingNormal},
			RoleTOCItem:             {Font: body, Size: 10, Casing: CasingNormal},
			RoleTOCHeading:          {Font: body, Size: 10, Casing: CasingAllCaps},
			RolePageNumber:          {Font: body, Size: 14, Casing: CasingNormal},
			RoleFilePath:            {Font: roman, Size: 10, Casing: CasingNormal},
			RoleDivisionHeading1:    {Font: bold, Size: 18, Casing: CasingAllCaps},
			RoleDivisionHeading2:    {Font: bold, Size: 14, Casing: CasingAllCaps},
			RoleDivisionSubheading1: {Font: body, Size: 14, Casing: CasingAllCaps},
			RoleDivisionSubheading2: {Font: body, Size: 14, Casing: CasingSmallCaps},
			RoleDivisionSubheading3: {Font: body, Size: 10.5, Casing: CasingAllCaps},
			RoleLawSection:          {Font: bold, Size: 10, Casing: CasingAllCaps},
		},
		Body: RoleContent,
		Headings: []Role{
			RoleDivisionHeading1,
			RoleDivisionHeading2,
			RoleDivisionSubheading2,
			RoleDivisionSubheading3,
			RoleLawSection,
		},
		PossibleHeadings: []Role{RoleDivisionSubheading1},
		Ignorable:        []Role{RoleLineNumber},
		Content: []Role{
			RoleContent,
			RoleContentAlt1,
			RolePreamble,
			RoleIntroductorySection,
			RoleTOCItem,
			RoleTOCHeading,
		},
		Hierarchy: []Role{
			RoleDivisionHeading1,
			RoleDivisionHeading2,
			RoleLawSection,
			RoleDivisionSubheading1,
			RoleDivisionSubheading2,
			RoleDivisionSubheading3,
		},
	}
}

// LoadCatalog decodes a YAML catalog and validates it.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// WriteYAML encodes the catalog in the format LoadCatalog reads.
func (c *Catalog) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

// Validate checks that every referenced role has a signature.
func (c *Catalog) Validate() error {
	if len(c.Hierarchy) == 0 {
		return errors.New("catalog: hierarchy is empty")
	}
	if c.Body == "" {
		return errors.New("catalog: body role is not set")
	}
	groups := map[string][]Role{
		"body":              {c.Body},
		"headings":          c.Headings,
		"possible_headings": c.PossibleHeadings,
		"ignorable":         c.Ignorable,
		"content":           c.Content,
		"hierarchy":         c.Hierarchy,
	}
	for group, roles := range groups {
		for _, role := range roles {
			sig, ok := c.Signatures[role]
			if !ok {
				return fmt.Errorf("catalog %s: %w %q", group, ErrMissingSignature, role)
			}
			if sig.Font == "" || sig.Size <= 0 {
				return fmt.Errorf("catalog %s: role %q needs a font and a positive size", group, role)
			}
		}
	}
	return nil
}

func (c *Catalog) anyMatch(roles []Role, w Word, tol Tolerance) bool {
	for _, role := range roles {
		if c.Signatures[role].Match(w.Characteristics, tol) {
			return true
		}
	}
	return false
}

// IsIgnorable reports words the classifier skips outright, such as line numbers.
func (c *Catalog) IsIgnorable(w Word) bool {
	return c.anyMatch(c.Ignorable, w, Tolerance{})
}

// IsHeading reports a definite heading signature.
func (c *Catalog) IsHeading(w Word) bool {
	return c.anyMatch(c.Headings, w, Tolerance{})
}

// IsPossibleHeading reports a signature shared by headings and something else.
func (c *Catalog) IsPossibleHeading(w Word) bool {
	return c.anyMatch(c.PossibleHeadings, w, Tolerance{})
}

// IsBodyContent reports a body-text signature; digits and acronyms
// (unknown casing) are accepted.
func (c *Catalog) IsBodyContent(w Word) bool {
	return c.anyMatch(c.Content, w, Tolerance{Casings: []Casing{CasingUnknown}})
}

// IsProse is body content containing at least one lowercase letter.
func (c *Catalog) IsProse(w Word) bool {
	return c.IsBodyContent(w) && w.HasLowercase()
}

// HasBodyFontAndSize compares font and size against the plain body role exactly.
func (c *Catalog) HasBodyFontAndSize(w Word) bool {
	body := c.Signatures[c.Body]
	return body.Font == w.Characteristics.Font && body.Size == w.Size
}

// Tier returns the 1-based position of the first hierarchy role consistent
// with every word, or 0 when none is.
func (c *Catalog) Tier(words []Word) int {
	if len(words) == 0 {
		return 0
	}
	for i, role := range c.Hierarchy {
		sig := c.Signatures[role]
		consistent := true
		for _, w := range words {
			if !sig.Consistent(w.Characteristics) {
				consistent = false
				break
			}
		}
		if consistent {
			return i + 1
		}
	}
	return 0
}

// Depth is the number of tiers the hierarchy defines.
func (c *Catalog) Depth() int {
	return len(c.Hierarchy)
}

// RoleAt returns the hierarchy role for a tier.
func (c *Catalog) RoleAt(tier int) (Role, bool) {
	if tier < 1 || tier > len(c.Hierarchy) {
		return "", false
	}
	return c.Hierarchy[tier-1], true
}

// SameSize compares two sizes within SizeTolerance.
func SameSize(a, b float64) bool {
	return math.Abs(a-b) < SizeTolerance
}
