package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"

	"bitbraille/internal/braille"
	"bitbraille/internal/options"
)

var (
	green = color.New(color.FgGreen, color.Bold)
	red   = color.New(color.FgRed, color.Bold)
	dim   = color.New(color.Faint)
)

// Console renders to a terminal.  It is safe for concurrent use.
type Console struct {
	mu        sync.Mutex
	out       io.Writer
	frame     Frame
	highlight RGB
}

// NewConsole returns a console drawing on out with braille dots in green.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out, highlight: Green}
}

// RenderBraille lights exactly the given LEDs and redraws the matrix.
func (c *Console) RenderBraille(leds braille.IndexSet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frame.Clear()
	for _, i := range leds.Indices() {
		c.frame.Set(i, c.highlight)
	}
	c.drawMatrix()
}

// RenderOptions draws the menu with '#' against the highlighted letter.
func (c *Console) RenderOptions(slots options.Slots, cursor int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var b strings.Builder
	b.WriteString("Letter:\n")
	for i, l := range slots {
		if i == cursor {
			b.WriteString(green.Sprintf("# %s", l))
		} else {
			fmt.Fprintf(&b, "  %s", l)
		}
		b.WriteString("\n")
	}
	_, _ = io.WriteString(c.out, b.String())
}

// RenderFeedback draws the verdict.
func (c *Console) RenderFeedback(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if success {
		green.Fprintln(c.out, "Correct!")
	} else {
		red.Fprintln(c.out, "Incorrect!")
	}
}

// Message draws free text, one line per argument.  Used for the start-up
// screens.
func (c *Console) Message(lines ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, l := range lines {
		fmt.Fprintln(c.out, l)
	}
}

// Frame returns a copy of the matrix as last drawn.
func (c *Console) Frame() Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frame
}

func (c *Console) drawMatrix() {
	var b strings.Builder
	lit := c.frame.Lit()
	for _, row := range Layout {
		for col, idx := range row {
			if col > 0 {
				b.WriteByte(' ')
			}
			if lit.Has(idx) {
				b.WriteString(green.Sprint("●"))
			} else {
				b.WriteString(dim.Sprint("·"))
			}
		}
		b.WriteByte('\n')
	}
	_, _ = io.WriteString(c.out, b.String())
}
