// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides a channel to wait on.
// A true read means a single wake up, a false read (closed channel) means a broadcast.
type Waiter interface {
	C() <-chan bool
}

// Signal is a channel based rendezvous point. Unlike sync.Cond it can take part in a select.
type Signal struct {
	mu sync.Mutex
	ch chan bool
}

// current returns the channel of the current generation. Caller must hold mu.
func (s *Signal) current() chan bool {
	if s.ch == nil {
		s.ch = make(chan bool, 1)
	}
	return s.ch
}

// Signal wakes at most one waiter. Signals are not accumulated.
func (s *Signal) Signal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case s.current() <- true:
	default:
	}
}

// Broadcast wakes every waiter of the current generation and starts a new one.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	defer s.mu.Unlock()

	close(s.current())
	s.ch = make(chan bool, 1)
}

// NewWaiter returns a Waiter bound to the current generation.
// Each call of C after the first one follows the newest generation.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	ref := s.current()
	s.mu.Unlock()

	return waiterFunc(func() <-chan bool {
		ch := ref

		s.mu.Lock()
		ref = s.current()
		s.mu.Unlock()

		return ch
	})
}

type waiterFunc func() <-chan bool

func (w waiterFunc) C() <-chan bool {
	return w()
}
