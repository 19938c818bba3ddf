package textshape

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func reverseRunes(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func TestReshape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []rune
	}{
		{"isolated letter", "ب", []rune{0xFE8F}},
		{"two joined letters", "بب", []rune{0xFE91, 0xFE90}},
		{"three joined letters", "ببب", []rune{0xFE91, 0xFE92, 0xFE90}},
		{"right-joining letter breaks the chain", "ممتاز", []rune{0xFEE3, 0xFEE4, 0xFE98, 0xFE8E, 0xFEAF}},
		{"lam alef ligature", "لا", []rune{0xFEFB}},
		{"joined lam alef ligature", "سلام", []rune{0xFEB3, 0xFEFC, 0xFEE1}},
		{"hamza never joins", "بءب", []rune{0xFE8F, 0xFE80, 0xFE8F}},
		{"space separates words", "بب بب", []rune{0xFE91, 0xFE90, ' ', 0xFE91, 0xFE90}},
		{"harakat are transparent", "بَب", []rune{0xFE91, 0x064E, 0xFE90}},
		{"tatweel joins", "بـب", []rune{0xFE91, 'ـ', 0xFE90}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, string(tt.want), Reshape(tt.in))
		})
	}
}

func TestReshape_LeavesOtherScriptsAlone(t *testing.T) {
	for _, s := range []string{"", "OK!", "Stop 123", "ñandú"} {
		require.Equal(t, s, Reshape(s))
	}
}

func TestVisual(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got, err := Visual("", RTL)
		require.NoError(t, err)
		require.Empty(t, got)
	})

	t.Run("latin text keeps its order", func(t *testing.T) {
		got, err := Visual("hello", RTL)
		require.NoError(t, err)
		require.Equal(t, "hello", got)
	})

	t.Run("arabic word is reversed", func(t *testing.T) {
		word := Reshape("ممتاز")
		got, err := Visual(word, RTL)
		require.NoError(t, err)
		require.Equal(t, reverseRunes(word), got)
	})
}

func TestShape(t *testing.T) {
	require.Equal(t, reverseRunes(Reshape("توقف")), Shape("توقف"))
	require.Equal(t, "Stop", Shape("Stop"))
}

func TestShaper_Caches(t *testing.T) {
	s := NewShaper()

	first := s.Shape("أعجبني")
	second := s.Shape("أعجبني")

	require.Equal(t, first, second)
	require.Equal(t, Shape("أعجبني"), first)
	require.Len(t, s.cache, 1)
}

func TestDirection_String(t *testing.T) {
	require.Equal(t, "rtl", RTL.String())
	require.Equal(t, "ltr", LTR.String())
}
