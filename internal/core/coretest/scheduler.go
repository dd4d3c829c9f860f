// Package coretest provides deterministic fakes of the collaborators the
// conference session depends on.
package coretest

import (
	"sort"
	"time"

	"github.com/dkeye/confbox/internal/core"
	"github.com/jonboulle/clockwork"
)

var epoch = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

// Scheduler is a core.Scheduler driven by Advance. Callbacks run
// synchronously on the caller's goroutine, in deadline order.
type Scheduler struct {
	clock   clockwork.Clock
	advance func(time.Duration)
	timers  []*timer
	seq     int
}

type timer struct {
	s       *Scheduler
	at      time.Time
	every   time.Duration
	fn      func()
	seq     int
	stopped bool
}

func (t *timer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	t.s.drop(t)
	return true
}

func NewScheduler() *Scheduler {
	fc := clockwork.NewFakeClockAt(epoch)
	return &Scheduler{clock: fc, advance: fc.Advance}
}

func (s *Scheduler) Clock() clockwork.Clock { return s.clock }
func (s *Scheduler) Now() time.Time         { return s.clock.Now() }

// Elapsed is the virtual time since the scheduler was created.
func (s *Scheduler) Elapsed() time.Duration { return s.clock.Since(epoch) }

func (s *Scheduler) AfterFunc(d time.Duration, fn func()) core.Timer {
	return s.add(d, 0, fn)
}

func (s *Scheduler) Every(d time.Duration, fn func()) core.Timer {
	return s.add(d, d, fn)
}

// Pending is the number of armed timers.
func (s *Scheduler) Pending() int { return len(s.timers) }

// Advance moves virtual time forward by d, firing every callback that falls due.
func (s *Scheduler) Advance(d time.Duration) {
	target := s.Now().Add(d)
	for {
		next := s.next()
		if next == nil || next.at.After(target) {
			break
		}
		if wait := next.at.Sub(s.Now()); wait > 0 {
			s.advance(wait)
		}
		if next.every > 0 {
			next.at = next.at.Add(next.every)
		} else {
			next.stopped = true
			s.drop(next)
		}
		next.fn()
	}
	if rest := target.Sub(s.Now()); rest > 0 {
		s.advance(rest)
	}
}

// Flush runs the callbacks that are already due (zero-delay timers).
func (s *Scheduler) Flush() { s.Advance(0) }

func (s *Scheduler) add(d, every time.Duration, fn func()) *timer {
	s.seq++
	t := &timer{s: s, at: s.Now().Add(d), every: every, fn: fn, seq: s.seq}
	s.timers = append(s.timers, t)
	return t
}

func (s *Scheduler) next() *timer {
	if len(s.timers) == 0 {
		return nil
	}
	sort.SliceStable(s.timers, func(i, j int) bool {
		if s.timers[i].at.Equal(s.timers[j].at) {
			return s.timers[i].seq < s.timers[j].seq
		}
		return s.timers[i].at.Before(s.timers[j].at)
	})
	return s.timers[0]
}

func (s *Scheduler) drop(t *timer) {
	for i, x := range s.timers {
		if x == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}
