// Package tabguard blocks navigation away from a form with unsaved changes.
package tabguard

import (
	"net/url"
	"sync"
)

// Modal is the confirmation dialog opened when a navigation is blocked.
type Modal interface {
	Open()
}

type Decision int

const (
	// Proceed lets the navigation happen.
	Proceed Decision = iota
	// Blocked cancels it; the modal has been opened.
	Blocked
)

func (d Decision) String() string {
	if d == Blocked {
		return "blocked"
	}
	return "proceed"
}

// Guard compares serialized form data against the last saved snapshot.
type Guard struct {
	mu       sync.Mutex
	snapshot string
	modal    Modal
}

func New(initial url.Values, modal Modal) *Guard {
	return &Guard{snapshot: initial.Encode(), modal: modal}
}

// Dirty reports whether current differs from the snapshot.
func (g *Guard) Dirty(current url.Values) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return current.Encode() != g.snapshot
}

// Click handles a tab click with the form in state current.
func (g *Guard) Click(current url.Values) Decision {
	if !g.Dirty(current) {
		return Proceed
	}
	if g.modal != nil {
		g.modal.Open()
	}
	return Blocked
}

// Reset takes current as the new saved state.
func (g *Guard) Reset(current url.Values) {
	g.mu.Lock()
	g.snapshot = current.Encode()
	g.mu.Unlock()
}

// Confirm is called when the user accepts losing the changes. The
// abandoned state becomes the snapshot so the next Click proceeds.
func (g *Guard) Confirm(current url.Values) Decision {
	g.Reset(current)
	return Proceed
}
