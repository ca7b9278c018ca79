package braille

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	// the Unicode braille block is built from the same dot numbering, so the
	// canonical cells can be written down directly
	want := map[Letter]rune{
		'A': '⠁', 'B': '⠃', 'C': '⠉', 'D': '⠙', 'E': '⠑', 'F': '⠋',
		'G': '⠛', 'H': '⠓', 'I': '⠊', 'J': '⠚', 'K': '⠅', 'L': '⠇',
		'M': '⠍', 'N': '⠝', 'O': '⠕', 'P': '⠏', 'Q': '⠟', 'R': '⠗',
		'S': '⠎', 'T': '⠞', 'U': '⠥', 'V': '⠧', 'W': '⠺', 'X': '⠭',
		'Y': '⠽', 'Z': '⠵',
	}
	require.Len(t, want, 26)

	for l, r := range want {
		assert.Equal(t, string(r), Encode(l).String(), "letter %s", l)
	}
}

func TestEncode_OutsideAlphabet(t *testing.T) {
	for _, l := range []Letter{0, '@', '[', 'a', 'z', '1', ' ', 0xff} {
		assert.Equal(t, Pattern{}, Encode(l), "value %d", l)
		assert.Equal(t, IndexSet(0), Positions(Encode(l)))
	}
}

func TestPositions(t *testing.T) {
	t.Run("B lights the top two dots of the left column", func(t *testing.T) {
		assert.Equal(t, []int{12, 17}, Positions(Encode('B')).Indices())
	})

	t.Run("full cell uses the six dot LEDs", func(t *testing.T) {
		s := Positions(Pattern{true, true, true, true, true, true})
		assert.Equal(t, 6, s.Len())
		assert.Equal(t, []int{7, 8, 11, 12, 17, 18}, s.Indices())
		for i := 0; i < 6; i++ {
			assert.True(t, s.Has(DotLED(i)))
		}
	})

	t.Run("out of range indices are never members", func(t *testing.T) {
		s := IndexSet(0xffffffff)
		assert.False(t, s.Has(-1))
		assert.False(t, s.Has(NumLEDs))
		assert.Equal(t, NumLEDs, s.Len())
	})
}

func TestParse(t *testing.T) {
	l, err := Parse("b")
	require.NoError(t, err)
	assert.Equal(t, Letter('B'), l)

	l, err = Parse("Q")
	require.NoError(t, err)
	assert.Equal(t, Letter('Q'), l)

	for _, bad := range []string{"", "AB", "1", "é", "?", " b", "b ", " Q ", "\n"} {
		_, err := Parse(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestLetterString(t *testing.T) {
	assert.Equal(t, "K", Letter('K').String())
	assert.Equal(t, "?", Letter('k').String())
}
