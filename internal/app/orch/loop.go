package orch

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

var ErrLoopClosed = errors.New("session loop closed")

// Loop is the single thread of control of a session. Every signaling
// callback, timer firing and rendering command runs as a closure posted
// here, one at a time, in arrival order.
type Loop struct {
	inbox chan func()
	done  chan struct{}
	once  sync.Once
}

func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = 256
	}
	return &Loop{
		inbox: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post queues fn. It blocks while the mailbox is full and drops fn once
// the loop has stopped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.done:
		log.Debug().Str("module", "orch.loop").Msg("post after close dropped")
	case l.inbox <- fn:
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	case l.inbox <- wrapped:
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	case <-finished:
		return nil
	}
}

// Run executes posted closures until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.close()
	log.Info().Str("module", "orch.loop").Msg("loop started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "orch.loop").Msg("loop ctx done")
			return ctx.Err()
		case fn := <-l.inbox:
			l.exec(fn)
		}
	}
}

func (l *Loop) Done() <-chan struct{} { return l.done }

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "orch.loop").Interface("panic", r).Msg("handler panicked")
		}
	}()
	fn()
}

func (l *Loop) close() {
	l.once.Do(func() { close(l.done) })
}
