package app

import (
	"sync"
	"time"

	"github.com/dkeye/confbox/internal/core"
	"github.com/jonboulle/clockwork"
)

// LoopScheduler is a core.Scheduler whose callbacks are posted onto the
// session loop instead of running on timer goroutines.
type LoopScheduler struct {
	Clock clockwork.Clock
	Post  func(func())
}

func NewLoopScheduler(clock clockwork.Clock, post func(func())) *LoopScheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &LoopScheduler{Clock: clock, Post: post}
}

func (s *LoopScheduler) Now() time.Time { return s.Clock.Now() }

func (s *LoopScheduler) AfterFunc(d time.Duration, fn func()) core.Timer {
	t := &loopTimer{}
	t.timer = s.Clock.AfterFunc(d, func() {
		s.Post(func() {
			if t.isStopped() {
				return
			}
			fn()
		})
	})
	return t
}

func (s *LoopScheduler) Every(d time.Duration, fn func()) core.Timer {
	ticker := s.Clock.NewTicker(d)
	t := &loopTimer{ticker: ticker, done: make(chan struct{})}
	go func() {
		for {
			select {
			case <-t.done:
				return
			case <-ticker.Chan():
				s.Post(func() {
					if t.isStopped() {
						return
					}
					fn()
				})
			}
		}
	}()
	return t
}

// loopTimer guards against callbacks that were already posted when Stop ran.
type loopTimer struct {
	mu      sync.Mutex
	stopped bool
	timer   clockwork.Timer
	ticker  clockwork.Ticker
	done    chan struct{}
}

func (t *loopTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.ticker != nil {
		t.ticker.Stop()
		close(t.done)
	}
	return true
}

func (t *loopTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
