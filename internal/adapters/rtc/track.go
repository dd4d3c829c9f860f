package rtc

import (
	"errors"
	"sync/atomic"

	"github.com/dkeye/confbox/internal/domain"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

var ErrTrackEnded = errors.New("track ended")

type TrackState int32

const (
	TrackStateLive TrackState = iota
	TrackStateMuted
	TrackStateEnded
)

// LocalTrack is a local capture track. Packets written while the track is
// disabled are dropped, which is what muting means on the wire.
type LocalTrack struct {
	Track   *webrtc.TrackLocalStaticRTP
	state   atomic.Int32 // Zero by default (TrackStateLive)
	sent    atomic.Uint64
	dropped atomic.Uint64
}

func NewLocalTrack(track *webrtc.TrackLocalStaticRTP) *LocalTrack {
	return &LocalTrack{Track: track}
}

func (t *LocalTrack) Kind() domain.TrackKind {
	if t.Track.Kind() == webrtc.RTPCodecTypeAudio {
		return domain.KindAudio
	}
	return domain.KindVideo
}

func (t *LocalTrack) GetState() TrackState {
	return TrackState(t.state.Load())
}

func (t *LocalTrack) Enabled() bool {
	return t.GetState() == TrackStateLive
}

// SetEnabled mutes or unmutes the track. Ended tracks stay ended.
func (t *LocalTrack) SetEnabled(enabled bool) {
	next := TrackStateMuted
	if enabled {
		next = TrackStateLive
	}
	for {
		cur := t.state.Load()
		if TrackState(cur) == TrackStateEnded {
			return
		}
		if t.state.CompareAndSwap(cur, int32(next)) {
			return
		}
	}
}

func (t *LocalTrack) MarkEnded() {
	t.state.Store(int32(TrackStateEnded))
}

// WriteRTP forwards pkt to every bound peer unless the track is muted.
func (t *LocalTrack) WriteRTP(pkt *rtp.Packet) error {
	switch t.GetState() {
	case TrackStateEnded:
		return ErrTrackEnded
	case TrackStateMuted:
		t.dropped.Add(1)
		return nil
	}
	if err := t.Track.WriteRTP(pkt); err != nil {
		return err
	}
	t.sent.Add(1)
	return nil
}

func (t *LocalTrack) Sent() uint64    { return t.sent.Load() }
func (t *LocalTrack) Dropped() uint64 { return t.dropped.Load() }
