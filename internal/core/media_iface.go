package core

import "github.com/dkeye/confbox/internal/domain"

// Stream is an opaque media stream handle owned by the signaling layer.
type Stream interface {
	ID() string
	Tracks(kind domain.TrackKind) []Track
}

// Track is a single local or remote track.
type Track interface {
	Kind() domain.TrackKind
	Enabled() bool
	SetEnabled(bool)
}

// MediaSink is a video element owned by the rendering layer.
type MediaSink interface {
	Attach(Stream)
	Play()
	Pause()
}

// SupportsFullscreen is the fullscreen capability of the rendering surface.
type SupportsFullscreen interface {
	IsFullscreenSupported() bool
	IsFullScreen() bool
	ToggleFullscreen(target string)
	ExitFullscreen()
}

// FirstTrack returns the first track of the given kind of the first stream.
func FirstTrack(streams []Stream, kind domain.TrackKind) (Track, bool) {
	if len(streams) == 0 || streams[0] == nil {
		return nil, false
	}
	tracks := streams[0].Tracks(kind)
	if len(tracks) == 0 {
		return nil, false
	}
	return tracks[0], true
}
