//go:build tinygo

package trainer

import (
	"runtime/interrupt"
	"sync"
)

// interruptMask masks interrupts for the length of a transition.  Button
// handlers run in interrupt context on a microcontroller and must never wait
// on a lock, so the main loop keeps them out instead.  Sections never nest.
type interruptMask struct {
	state interrupt.State
}

func (m *interruptMask) Lock()   { m.state = interrupt.Disable() }
func (m *interruptMask) Unlock() { interrupt.Restore(m.state) }

func criticalSection() sync.Locker {
	return &interruptMask{}
}
