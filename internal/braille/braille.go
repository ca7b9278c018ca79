// Package braille maps the letters A to Z onto six-dot braille cells and onto
// the LEDs of the 5x5 matrix that displays them.
package braille

import (
	"fmt"
	"strings"
)

// Letter is a single uppercase letter between 'A' and 'Z'.  Any other value
// is treated as "no letter" by the functions in this package.
type Letter byte

// Valid reports whether l is one of the 26 letters A to Z.
func (l Letter) Valid() bool {
	return l >= 'A' && l <= 'Z'
}

func (l Letter) String() string {
	if !l.Valid() {
		return "?"
	}
	return string(rune(l))
}

// MarshalText encodes the letter as itself, or as the empty string when it
// is not a letter.
func (l Letter) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return []byte{}, nil
	}
	return []byte{byte(l)}, nil
}

// UnmarshalText is the inverse of MarshalText.
func (l *Letter) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*l = 0
		return nil
	}
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// Parse accepts exactly one ASCII letter, in either case, and returns it upper
// cased.  Surrounding white space is not stripped: " b" is two characters.
// Transports use it to validate what arrives over the network before handing
// the letter to the trainer.
func Parse(s string) (Letter, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("expected a single letter, got %q", s)
	}
	l := Letter(strings.ToUpper(s)[0])
	if !l.Valid() {
		return 0, fmt.Errorf("%q is not a letter between A and Z", s)
	}
	return l, nil
}

// Pattern is a braille cell.  Element i holds dot i+1 in the standard
// numbering: dots 1-3 run down the left column, dots 4-6 down the right.
type Pattern [6]bool

// Rune returns the cell as a character from the Unicode braille block.
func (p Pattern) Rune() rune {
	r := rune(0x2800)
	for i, on := range p {
		if on {
			r |= 1 << i
		}
	}
	return r
}

func (p Pattern) String() string {
	return string(p.Rune())
}

// table is indexed by letter - 'A'.
var table = [26]Pattern{
	{true, false, false, false, false, false}, // A
	{true, true, false, false, false, false},  // B
	{true, false, false, true, false, false},  // C
	{true, false, false, true, true, false},   // D
	{true, false, false, false, true, false},  // E
	{true, true, false, true, false, false},   // F
	{true, true, false, true, true, false},    // G
	{true, true, false, false, true, false},   // H
	{false, true, false, true, false, false},  // I
	{false, true, false, true, true, false},   // J
	{true, false, true, false, false, false},  // K
	{true, true, true, false, false, false},   // L
	{true, false, true, true, false, false},   // M
	{true, false, true, true, true, false},    // N
	{true, false, true, false, true, false},   // O
	{true, true, true, true, false, false},    // P
	{true, true, true, true, true, false},     // Q
	{true, true, true, false, true, false},    // R
	{false, true, true, true, false, false},   // S
	{false, true, true, true, true, false},    // T
	{true, false, true, false, false, true},   // U
	{true, true, true, false, false, true},    // V
	{false, true, false, true, true, true},    // W
	{true, false, true, true, false, true},    // X
	{true, false, true, true, true, true},     // Y
	{true, false, true, false, true, true},    // Z
}

// Encode returns the braille cell for l.  Values outside A to Z have no
// pattern and encode to a cell with every dot off.
func Encode(l Letter) Pattern {
	if !l.Valid() {
		return Pattern{}
	}
	return table[l-'A']
}

// NumLEDs is the number of LEDs in the 5x5 matrix.
const NumLEDs = 25

// dotLEDs maps dot position to the physical LED index.  The cell occupies
// the middle two columns of rows 1 to 3 of the matrix.
var dotLEDs = [6]int{17, 12, 7, 18, 11, 8}

// DotLED returns the matrix index that shows dot i (0 based).
func DotLED(i int) int {
	return dotLEDs[i]
}

// IndexSet is a set of LED matrix indices, one bit per LED.
type IndexSet uint32

// Has reports whether index i is in the set.
func (s IndexSet) Has(i int) bool {
	if i < 0 || i >= NumLEDs {
		return false
	}
	return s&(1<<uint(i)) != 0
}

// Len returns the number of indices in the set.
func (s IndexSet) Len() int {
	n := 0
	for i := 0; i < NumLEDs; i++ {
		if s.Has(i) {
			n++
		}
	}
	return n
}

// Indices returns the members of the set in ascending order.
func (s IndexSet) Indices() []int {
	idx := make([]int, 0, s.Len())
	for i := 0; i < NumLEDs; i++ {
		if s.Has(i) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Positions returns the LEDs to light for the raised dots of p.
func Positions(p Pattern) IndexSet {
	var s IndexSet
	for i, on := range p {
		if on {
			s |= 1 << uint(DotLED(i))
		}
	}
	return s
}
