// Package render draws the trainer on a terminal: the 5x5 LED matrix as a
// grid of dots and the display as plain text lines.
package render

import "bitbraille/internal/braille"

// RGB is a 24 bit colour, 0xRRGGBB.
type RGB uint32

const (
	Off   RGB = 0x000000
	Green RGB = 0x00ff00
)

// Layout gives the LED index at each row and column of the matrix, top row
// first.  The LEDs are chained in a serpentine starting at the bottom right.
var Layout = [5][5]int{
	{24, 23, 22, 21, 20},
	{15, 16, 17, 18, 19},
	{14, 13, 12, 11, 10},
	{5, 6, 7, 8, 9},
	{4, 3, 2, 1, 0},
}

// Frame is the write-back buffer for the matrix, indexed by LED.
type Frame [braille.NumLEDs]RGB

// Set colours one LED.  Indices outside the matrix are ignored.
func (f *Frame) Set(index int, c RGB) {
	if index >= 0 && index < len(f) {
		f[index] = c
	}
}

// Clear turns every LED off.
func (f *Frame) Clear() {
	for i := range f {
		f[i] = Off
	}
}

// Lit returns the indices that are not off.
func (f Frame) Lit() braille.IndexSet {
	var s braille.IndexSet
	for i, c := range f {
		if c != Off {
			s |= 1 << uint(i)
		}
	}
	return s
}
