package orch

import (
	"github.com/rs/zerolog/log"
)

// MuteAudio toggles the local microphone.
func (o *Orchestrator) MuteAudio() {
	if !o.mounted {
		return
	}
	if muted, ok := o.mute.MuteAudio(); ok {
		log.Info().Str("module", "orch").Bool("muted", muted).Msg("microphone toggled")
		o.render()
	}
}

// MuteVideo toggles the local camera.
func (o *Orchestrator) MuteVideo() {
	if !o.mounted {
		return
	}
	if muted, ok := o.mute.MuteVideo(); ok {
		log.Info().Str("module", "orch").Bool("muted", muted).Msg("camera toggled")
		o.render()
	}
}

func (o *Orchestrator) ToggleFullscreen() {
	if !o.mounted || o.Fullscreen == nil || !o.Fullscreen.IsFullscreenSupported() {
		return
	}
	o.Fullscreen.ToggleFullscreen(FullscreenTarget)
	o.render()
}

func (o *Orchestrator) showSelfLarge() {
	streams := o.Call.LocalStreams()
	if len(streams) == 0 || streams[0] == nil {
		return
	}
	if o.LargeVideo != nil {
		o.LargeVideo.Attach(streams[0])
		o.LargeVideo.Play()
	}
	o.selfLarge = true
	log.Debug().Str("module", "orch").Str("stream", streams[0].ID()).Msg("local video shown large")
}
