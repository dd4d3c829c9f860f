package app

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, posted <-chan func()) {
	t.Helper()
	select {
	case fn := <-posted:
		fn()
	case <-time.After(time.Second):
		t.Fatal("nothing was posted")
	}
}

func TestLoopScheduler_AfterFuncPostsToLoop(t *testing.T) {
	req := require.New(t)
	fc := clockwork.NewFakeClock()
	posted := make(chan func(), 4)
	s := NewLoopScheduler(fc, func(fn func()) { posted <- fn })
	fired := 0

	s.AfterFunc(time.Second, func() { fired++ })
	fc.Advance(time.Second)
	drain(t, posted)

	req.Equal(1, fired)
}

func TestLoopScheduler_StoppedTimerDropsPostedCallback(t *testing.T) {
	req := require.New(t)
	fc := clockwork.NewFakeClock()
	posted := make(chan func(), 4)
	s := NewLoopScheduler(fc, func(fn func()) { posted <- fn })
	fired := 0

	timer := s.AfterFunc(time.Second, func() { fired++ })
	fc.Advance(time.Second)

	var fn func()
	select {
	case fn = <-posted:
	case <-time.After(time.Second):
		t.Fatal("nothing was posted")
	}
	req.True(timer.Stop())
	fn()

	req.Zero(fired)
	req.False(timer.Stop())
}

func TestLoopScheduler_Every(t *testing.T) {
	req := require.New(t)
	fc := clockwork.NewFakeClock()
	posted := make(chan func(), 4)
	s := NewLoopScheduler(fc, func(fn func()) { posted <- fn })
	ticks := 0

	ticker := s.Every(300*time.Millisecond, func() { ticks++ })
	fc.Advance(300 * time.Millisecond)
	drain(t, posted)
	req.Equal(1, ticks)

	req.True(ticker.Stop())
}
