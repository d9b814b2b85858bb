package typography

import (
	"fmt"
	"math"
	"slices"
)

// SizeTolerance is the largest size difference still treated as equal.
const SizeTolerance = 0.1

// Characteristics is the typographic signature of a word or a catalog role.
type Characteristics struct {
	Font   string  `yaml:"font" json:"font"`
	Size   float64 `yaml:"size" json:"size"`
	Casing Casing  `yaml:"casing" json:"casing"`
}

func (c Characteristics) String() string {
	return fmt.Sprintf("%s %.1fpt %s", c.Font, c.Size, c.Casing)
}

// Tolerance relaxes a Match.
type Tolerance struct {
	Casings  []Casing // Extra casings accepted on the other side
	SizeDiff bool     // Ignore size entirely
}

// Match compares c against another signature. Fonts must be identical.
// A small-caps signature also accepts smaller all-caps words, since the
// reduced letters of a small-caps heading render below the lead capital.
func (c Characteristics) Match(other Characteristics, tol Tolerance) bool {
	if c.Font != other.Font {
		return false
	}
	if c.Casing != other.Casing && !slices.Contains(tol.Casings, other.Casing) {
		return false
	}
	if tol.SizeDiff || math.Abs(c.Size-other.Size) < SizeTolerance {
		return true
	}
	return c.Casing == CasingSmallCaps && other.Casing == CasingAllCaps && other.Size < c.Size
}

// Matches is Match without any tolerance.
func (c Characteristics) Matches(other Characteristics) bool {
	return c.Match(other, Tolerance{})
}

// Consistent is the relaxed comparison used when resolving a heading's tier:
// all-caps and unknown casings are always accepted.
func (c Characteristics) Consistent(other Characteristics) bool {
	return c.Match(other, Tolerance{Casings: []Casing{CasingAllCaps, CasingUnknown}})
}
