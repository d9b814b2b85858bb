package typography

import (
	"errors"
	"fmt"
	"regexp"
	"unicode"

	"github.com/dgallion1/docoutline/internal/token"
	"gopkg.in/yaml.v3"
)

// Casing is the letter-case class of a rendered word.
type Casing int

const (
	CasingUnknown Casing = iota
	CasingNormal
	CasingAllCaps
	CasingSmallCaps
)

// ErrUnknownCasing is returned when a casing name cannot be parsed.
var ErrUnknownCasing = errors.New("unknown casing")

var casingNames = map[Casing]string{
	CasingUnknown:   "unknown",
	CasingNormal:    "normal",
	CasingAllCaps:   "all_caps",
	CasingSmallCaps: "small_caps",
}

func (c Casing) String() string {
	if s, ok := casingNames[c]; ok {
		return s
	}
	return fmt.Sprintf("casing(%d)", int(c))
}

// ParseCasing converts a casing name back into a Casing.
func ParseCasing(s string) (Casing, error) {
	for c, name := range casingNames {
		if name == s {
			return c, nil
		}
	}
	return CasingUnknown, fmt.Errorf("%w: %q", ErrUnknownCasing, s)
}

func (c Casing) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Casing) UnmarshalText(b []byte) error {
	parsed, err := ParseCasing(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Casing) MarshalYAML() (any, error) {
	return c.String(), nil
}

func (c *Casing) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	return c.UnmarshalText([]byte(s))
}

var acronymRe = regexp.MustCompile(`^([A-Z]\.)+$`)

// ClassifyCasing derives a word's casing from its characters and their sizes.
// Small caps are detected from size alone: the lead capital is set at full
// cap height and the remaining letters smaller.
func ClassifyCasing(t token.Token) Casing {
	hasDigit := false
	for _, r := range t.Text {
		if unicode.IsLower(r) {
			return CasingNormal
		}
		if unicode.IsDigit(r) {
			hasDigit = true
		}
	}
	if hasDigit || acronymRe.MatchString(t.Text) {
		return CasingUnknown
	}
	for _, ch := range t.Chars {
		if ch.Size != t.Chars[0].Size {
			return CasingSmallCaps
		}
	}
	return CasingAllCaps
}
