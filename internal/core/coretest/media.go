package coretest

import (
	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
)

type Track struct {
	kind    domain.TrackKind
	enabled bool
	Sets    int
}

func NewTrack(kind domain.TrackKind) *Track {
	return &Track{kind: kind, enabled: true}
}

func (t *Track) Kind() domain.TrackKind { return t.kind }
func (t *Track) Enabled() bool          { return t.enabled }
func (t *Track) SetEnabled(v bool) {
	t.enabled = v
	t.Sets++
}

type Stream struct {
	id     string
	tracks []core.Track
}

// NewStream builds a stream holding the given tracks.
func NewStream(id string, tracks ...core.Track) *Stream {
	return &Stream{id: id, tracks: tracks}
}

func (s *Stream) ID() string { return s.id }

func (s *Stream) Tracks(kind domain.TrackKind) []core.Track {
	var out []core.Track
	for _, t := range s.tracks {
		if t.Kind() == kind {
			out = append(out, t)
		}
	}
	return out
}

// Sink records what the controller did with a video element.
type Sink struct {
	Attached []core.Stream
	Plays    int
	Pauses   int
}

func (s *Sink) Attach(st core.Stream) { s.Attached = append(s.Attached, st) }
func (s *Sink) Play()                 { s.Plays++ }
func (s *Sink) Pause()                { s.Pauses++ }

// Fullscreen is an in-memory fullscreen capability.
type Fullscreen struct {
	Supported bool
	On        bool
	Targets   []string
	Exits     int
}

func (f *Fullscreen) IsFullscreenSupported() bool { return f.Supported }
func (f *Fullscreen) IsFullScreen() bool          { return f.On }
func (f *Fullscreen) ToggleFullscreen(target string) {
	f.Targets = append(f.Targets, target)
	f.On = !f.On
}
func (f *Fullscreen) ExitFullscreen() {
	f.Exits++
	f.On = false
}

// Renderer keeps every snapshot it was given.
type Renderer struct {
	Frames []core.Snapshot
}

func (r *Renderer) Render(s core.Snapshot) { r.Frames = append(r.Frames, s) }

func (r *Renderer) Last() core.Snapshot {
	if len(r.Frames) == 0 {
		return core.Snapshot{}
	}
	return r.Frames[len(r.Frames)-1]
}

// Sounds records played cues.
type Sounds struct {
	Played []domain.Sound
}

func (s *Sounds) Play(sound domain.Sound) { s.Played = append(s.Played, sound) }
