package core

import (
	"github.com/dkeye/confbox/internal/domain"
	"github.com/rs/zerolog/log"
)

// MuteController toggles the local audio and video tracks.
// Every call flips state; there is no set-to semantics.
type MuteController struct {
	streams    func() []Stream
	audioMuted bool
	videoMuted bool
}

func NewMuteController(streams func() []Stream) *MuteController {
	return &MuteController{streams: streams}
}

func (m *MuteController) AudioMuted() bool { return m.audioMuted }
func (m *MuteController) VideoMuted() bool { return m.videoMuted }

// MuteAudio toggles the microphone. ok is false when there is no local
// audio track, in which case nothing changes.
func (m *MuteController) MuteAudio() (muted, ok bool) {
	m.audioMuted, ok = m.toggle(domain.KindAudio, m.audioMuted)
	return m.audioMuted, ok
}

// MuteVideo toggles the camera; see MuteAudio.
func (m *MuteController) MuteVideo() (muted, ok bool) {
	m.videoMuted, ok = m.toggle(domain.KindVideo, m.videoMuted)
	return m.videoMuted, ok
}

func (m *MuteController) toggle(kind domain.TrackKind, muted bool) (bool, bool) {
	track, ok := FirstTrack(m.streams(), kind)
	if !ok {
		return muted, false
	}
	muted = !muted
	track.SetEnabled(!muted)
	log.Debug().Str("module", "core.mute").Str("kind", string(kind)).Bool("muted", muted).Msg("toggled local track")
	return muted, true
}
