package options

import (
	"math/rand"
	"testing"

	"bitbraille/internal/braille"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequence returns its values in order, reduced into range.
type sequence struct {
	vals []int
	next int
}

func (s *sequence) Intn(n int) int {
	v := s.vals[s.next%len(s.vals)]
	s.next++
	return v % n
}

func TestGenerate_ContainsCorrect(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var set Set
	for i := 0; i < 5000; i++ {
		correct := braille.Letter('A' + i%26)
		set.Move(MoveNext)
		set.Generate(correct, rng)

		assert.True(t, set.Slots().Contains(correct), "iteration %d", i)
		assert.Equal(t, 0, set.Cursor())
		for _, l := range set.Slots() {
			assert.True(t, l.Valid())
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	// distractors A and C, then swaps (2,0) and (1,0)
	var set Set
	set.Generate('B', &sequence{vals: []int{0, 2, 0, 0}})

	assert.Equal(t, Slots{'A', 'C', 'B'}, set.Slots())
	assert.Equal(t, braille.Letter('A'), set.Current())
}

func TestGenerate_DuplicatesAllowed(t *testing.T) {
	// both distractors drawn as the correct letter and no swaps taking place
	var set Set
	set.Generate('B', &sequence{vals: []int{1, 1, 2, 1}})

	assert.Equal(t, Slots{'B', 'B', 'B'}, set.Slots())
}

func TestShuffle_Distribution(t *testing.T) {
	const rounds = 60000
	rng := rand.New(rand.NewSource(42))
	counts := make(map[Slots]int)

	for i := 0; i < rounds; i++ {
		s := Slots{'A', 'B', 'C'}
		Shuffle(&s, rng)
		counts[s]++
	}

	require.Len(t, counts, 6, "every ordering should be reachable")
	expected := rounds / 6
	for perm, n := range counts {
		assert.InDelta(t, expected, n, float64(expected)/10, "ordering %v", perm)
	}
}

func TestMove(t *testing.T) {
	var set Set
	set.Generate('M', &sequence{vals: []int{0}})

	t.Run("wraps forwards", func(t *testing.T) {
		seen := []int{}
		for i := 0; i < 4; i++ {
			set.Move(MoveNext)
			seen = append(seen, set.Cursor())
		}
		assert.Equal(t, []int{1, 2, 0, 1}, seen)
	})

	t.Run("round trip from every position", func(t *testing.T) {
		for start := 0; start < Count; start++ {
			for set.Cursor() != start {
				set.Move(MoveNext)
			}
			set.Move(MoveNext)
			set.Move(MovePrev)
			assert.Equal(t, start, set.Cursor())

			set.Move(MovePrev)
			set.Move(MoveNext)
			assert.Equal(t, start, set.Cursor())
		}
	})

	t.Run("arbitrary steps stay in range", func(t *testing.T) {
		for _, m := range []Move{-7, -1, 0, 5, 100} {
			set.Move(m)
			assert.GreaterOrEqual(t, set.Cursor(), 0)
			assert.Less(t, set.Cursor(), Count)
		}
	})

	t.Run("current follows the cursor", func(t *testing.T) {
		for i := 0; i < Count; i++ {
			assert.Equal(t, set.Slots()[set.Cursor()], set.Current())
			set.Move(MoveNext)
		}
	})
}
