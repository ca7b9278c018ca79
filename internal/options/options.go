// Package options holds the three multiple-choice letters offered to the
// user and the cursor that highlights one of them.
package options

import "bitbraille/internal/braille"

// Count is the number of candidate letters on offer.
const Count = 3

// Slots are the candidate letters in display order.
type Slots [Count]braille.Letter

// Contains reports whether l occupies any slot.
func (s Slots) Contains(l braille.Letter) bool {
	for _, c := range s {
		if c == l {
			return true
		}
	}
	return false
}

// Source supplies random numbers in the range [0,n).  *rand.Rand from
// math/rand satisfies it.
type Source interface {
	Intn(n int) int
}

// Move is a cursor step.  Steps are always positive so that the modulo
// never sees a negative operand: moving back one slot is the same as moving
// forward two.
type Move int

const (
	MoveNext Move = 1
	MovePrev Move = Count - 1
)

// Set is the option menu: three slots and a cursor.  The zero value is an
// empty menu with the cursor on slot 0.
type Set struct {
	slots  Slots
	cursor int
}

// Generate seeds the menu with the correct letter and two letters drawn
// uniformly from A to Z, then shuffles the slots and resets the cursor.
// The drawn letters may repeat each other or the correct letter.
func (s *Set) Generate(correct braille.Letter, src Source) {
	s.slots[0] = correct
	s.slots[1] = braille.Letter('A' + src.Intn(26))
	s.slots[2] = braille.Letter('A' + src.Intn(26))
	Shuffle(&s.slots, src)
	s.cursor = 0
}

// Shuffle permutes the slots in place with a Fisher-Yates shuffle, so each
// of the six orderings is equally likely.
func Shuffle(slots *Slots, src Source) {
	for i := Count - 1; i > 0; i-- {
		j := src.Intn(i + 1)
		slots[i], slots[j] = slots[j], slots[i]
	}
}

// Move advances the cursor, wrapping around the three slots.
func (s *Set) Move(m Move) {
	s.cursor = ((s.cursor+int(m))%Count + Count) % Count
}

// Current returns the letter under the cursor.
func (s Set) Current() braille.Letter {
	return s.slots[s.cursor]
}

// Cursor returns the highlighted slot, always in the range 0 to 2.
func (s Set) Cursor() int {
	return s.cursor
}

// Slots returns a copy of the candidate letters.
func (s Set) Slots() Slots {
	return s.slots
}
