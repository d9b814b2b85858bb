package typography

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	base := Characteristics{Font: "F", Size: 14, Casing: CasingAllCaps}
	small := Characteristics{Font: "F", Size: 14, Casing: CasingSmallCaps}

	tests := []struct {
		name  string
		c     Characteristics
		other Characteristics
		tol   Tolerance
		want  bool
	}{
		{"identical", base, base, Tolerance{}, true},
		{"within size tolerance", base, Characteristics{"F", 14.05, CasingAllCaps}, Tolerance{}, true},
		{"different font", base, Characteristics{"G", 14, CasingAllCaps}, Tolerance{}, false},
		{"different size", base, Characteristics{"F", 12, CasingAllCaps}, Tolerance{}, false},
		{"size ignored", base, Characteristics{"F", 12, CasingAllCaps}, Tolerance{SizeDiff: true}, true},
		{"different casing", base, Characteristics{"F", 14, CasingNormal}, Tolerance{}, false},
		{"casing tolerated", base, Characteristics{"F", 14, CasingNormal}, Tolerance{Casings: []Casing{CasingNormal}}, true},
		{"small caps takes smaller capitals", small, Characteristics{"F", 11, CasingAllCaps}, Tolerance{Casings: []Casing{CasingAllCaps}}, true},
		{"small caps refuses larger capitals", small, Characteristics{"F", 16, CasingAllCaps}, Tolerance{Casings: []Casing{CasingAllCaps}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.c.Match(tt.other, tt.tol))
		})
	}
}

func TestConsistent(t *testing.T) {
	sig := Characteristics{Font: "F", Size: 14, Casing: CasingSmallCaps}
	require.True(t, sig.Consistent(Characteristics{"F", 14, CasingSmallCaps}))
	require.True(t, sig.Consistent(Characteristics{"F", 14, CasingUnknown}))
	require.True(t, sig.Consistent(Characteristics{"F", 11, CasingAllCaps}))
	require.False(t, sig.Consistent(Characteristics{"F", 14, CasingNormal}))
	require.False(t, sig.Matches(Characteristics{"F", 14, CasingUnknown}))
}

func TestCharacteristicsString(t *testing.T) {
	c := Characteristics{Font: "F", Size: 10.5, Casing: CasingAllCaps}
	require.Equal(t, "F 10.5pt all_caps", c.String())
}
