//go:build !tinygo

package trainer

import "sync"

// criticalSection returns the guard that makes each transition indivisible.
// On a hosted build button edges, HTTP requests and the main loop are all
// goroutines, so a mutex held for the length of one transition serves.
func criticalSection() sync.Locker {
	return &sync.Mutex{}
}
