package rtc

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

var (
	audioCodec = webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2}
	videoCodec = webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}
)

// LocalStream is the local camera and microphone of the box.
type LocalStream struct {
	id     string
	audio  *LocalTrack
	video  *LocalTrack
	scaled atomic.Uint64 // float64 bits of the resolution scale-down factor
}

// NewLocalStream creates an Opus audio track and a VP8 video track under
// the stream id.
func NewLocalStream(id string) (*LocalStream, error) {
	audio, err := webrtc.NewTrackLocalStaticRTP(audioCodec, "audio", id)
	if err != nil {
		return nil, fmt.Errorf("audio track: %w", err)
	}
	video, err := webrtc.NewTrackLocalStaticRTP(videoCodec, "video", id)
	if err != nil {
		return nil, fmt.Errorf("video track: %w", err)
	}
	s := &LocalStream{id: id, audio: NewLocalTrack(audio), video: NewLocalTrack(video)}
	s.scaled.Store(math.Float64bits(1))
	return s, nil
}

func (s *LocalStream) ID() string { return s.id }

func (s *LocalStream) Tracks(kind domain.TrackKind) []core.Track {
	switch kind {
	case domain.KindAudio:
		return []core.Track{s.audio}
	case domain.KindVideo:
		return []core.Track{s.video}
	}
	return nil
}

func (s *LocalStream) Audio() *LocalTrack { return s.audio }
func (s *LocalStream) Video() *LocalTrack { return s.video }

// Scale records the resolution hint for the video encoder.
func (s *LocalStream) Scale(factor float64) {
	if factor <= 0 {
		return
	}
	s.scaled.Store(math.Float64bits(factor))
	log.Debug().Str("module", "rtc").Str("stream", s.id).Float64("factor", factor).Msg("local video scaled")
}

func (s *LocalStream) ScaleFactor() float64 {
	return math.Float64frombits(s.scaled.Load())
}

// Close ends both tracks.
func (s *LocalStream) Close() {
	s.audio.MarkEnded()
	s.video.MarkEnded()
	log.Info().Str("module", "rtc").Str("stream", s.id).Msg("local stream closed")
}
