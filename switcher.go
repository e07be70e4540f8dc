// switcher.go - Template switch controller with a timed loading transition
package main

import (
	"errors"
	"sync"
	"time"
)

const defaultSwitchDelay = 3000 * time.Millisecond

var ErrSwitcherStopped = errors.New("switcher stopped")

// stopper is the part of *time.Timer the switcher needs.
type stopper interface {
	Stop() bool
}

// clock schedules the end of a transition. Tests swap in a manual clock.
type clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) stopper
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}

// SwitchState is a point-in-time copy of a Switcher.
type SwitchState struct {
	Current   TemplateID    `json:"current"`
	Pending   TemplateID    `json:"pending,omitempty"`
	Loading   bool          `json:"loading"`
	Remaining time.Duration `json:"-"`
}

// Switcher holds the active template and at most one in-flight switch.
// A request that arrives while loading replaces the pending template but
// does not restart the timer.
type Switcher struct {
	mu       sync.Mutex
	clock    clock
	delay    time.Duration
	current  TemplateID
	pending  TemplateID
	loading  bool
	deadline time.Time
	timer    stopper
	gen      uint64
	stopped  bool
	onSettle func(from, to TemplateID)
}

// NewSwitcher returns an idle switcher showing initial.
func NewSwitcher(initial TemplateID, delay time.Duration) *Switcher {
	if delay <= 0 {
		delay = defaultSwitchDelay
	}
	return &Switcher{
		clock:   realClock{},
		delay:   delay,
		current: initial,
	}
}

// OnSettle registers a hook called after each committed switch.
func (s *Switcher) OnSettle(f func(from, to TemplateID)) {
	s.mu.Lock()
	s.onSettle = f
	s.mu.Unlock()
}

// Switch requests a change to id. It reports whether a transition is now
// in flight because of this call; switching to the current template is a no-op.
func (s *Switcher) Switch(id TemplateID) (bool, error) {
	if _, ok := renderers[id]; !ok {
		return false, ErrUnknownTemplate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false, ErrSwitcherStopped
	}
	if id == s.current {
		return false, nil
	}

	s.pending = id
	if s.loading {
		return true, nil
	}

	s.loading = true
	s.gen++
	gen := s.gen
	s.deadline = s.clock.Now().Add(s.delay)
	s.timer = s.clock.AfterFunc(s.delay, func() { s.commit(gen) })
	return true, nil
}

func (s *Switcher) commit(gen uint64) {
	s.mu.Lock()
	if s.stopped || !s.loading || gen != s.gen {
		s.mu.Unlock()
		return
	}
	from, to := s.current, s.pending
	s.current = to
	s.pending = ""
	s.loading = false
	s.timer = nil
	hook := s.onSettle
	s.mu.Unlock()

	if hook != nil && from != to {
		hook(from, to)
	}
}

// State returns a snapshot of the switcher.
func (s *Switcher) State() SwitchState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := SwitchState{
		Current: s.current,
		Pending: s.pending,
		Loading: s.loading,
	}
	if s.loading {
		if left := s.deadline.Sub(s.clock.Now()); left > 0 {
			st.Remaining = left
		}
	}
	return st
}

// Delay is the length of a transition.
func (s *Switcher) Delay() time.Duration {
	return s.delay
}

// Stop cancels any pending transition. Later requests fail with
// ErrSwitcherStopped and a timer that already fired is ignored.
func (s *Switcher) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}
