package orch

import (
	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/rs/zerolog/log"
)

// ParticipantJoined registers p and attaches its media. A repeated join
// of the same id is ignored.
func (o *Orchestrator) ParticipantJoined(p core.Participant) {
	if !o.mounted {
		return
	}
	log.Info().Str("module", "orch").Str("participant", string(p.ID())).Str("uri", p.Identity().URI).Msg("participant joined")
	if o.registry.Add(p) {
		o.play(domain.SoundParticipantJoined)
		o.Metrics.IncJoins()
	}
	o.render()
}

// ParticipantLeft detaches p for good and drops it from the featured slots.
func (o *Orchestrator) ParticipantLeft(p core.Participant) {
	if !o.mounted {
		return
	}
	log.Info().Str("module", "orch").Str("participant", string(p.ID())).Str("uri", p.Identity().URI).Msg("participant left")
	o.play(domain.SoundParticipantLeft)
	o.speakers.Drop(p.ID())
	if o.registry.Remove(p) {
		o.Metrics.IncLeaves()
	}
	o.render()
}

// RoomConfigured adopts the speaker set echoed by the room.
func (o *Orchestrator) RoomConfigured(cfg core.RoomConfig) {
	if !o.mounted {
		return
	}
	o.speakers.Apply(cfg)
	o.maybeSwitchLargeVideo()
	o.render()
}

// SelectSpeaker puts the participant with id into slot. domain.NoneID clears
// the slot and the call id selects the local party. Unknown ids are ignored.
func (o *Orchestrator) SelectSpeaker(id domain.ParticipantID, slot domain.Slot) bool {
	if !o.mounted {
		return false
	}
	target, ok := o.featured(id)
	if !ok {
		log.Debug().Str("module", "orch").Str("participant", string(id)).Msg("select of unknown participant")
		return false
	}
	o.speakers.Select(target, slot)
	o.Metrics.IncSpeakerSelections()
	o.render()
	return true
}

func (o *Orchestrator) featured(id domain.ParticipantID) (core.Featured, bool) {
	switch id {
	case domain.NoneID:
		return core.None, true
	case o.self.ID():
		return o.self, true
	}
	p, ok := o.registry.Get(id)
	if !ok {
		return nil, false
	}
	return p, true
}

// configureFailed runs the selector's failure report on the session loop.
func (o *Orchestrator) configureFailed(report func()) {
	o.Dispatch(func() {
		if !o.mounted {
			return
		}
		report()
		o.Metrics.IncConfigureFailures()
		o.render()
	})
}

// stateObserver is installed on every participant by the registry.
func (o *Orchestrator) stateObserver(p core.Participant, from, to domain.ConnState) {
	o.Dispatch(func() {
		if !o.mounted {
			return
		}
		log.Debug().Str("module", "orch").Str("participant", string(p.ID())).Str("from", string(from)).Str("to", string(to)).Msg("participant state changed")
		if to.TriggersLargeVideoCheck() {
			o.maybeSwitchLargeVideo()
		}
		o.render()
	})
}

func (o *Orchestrator) membershipChanged() {
	o.Metrics.SetParticipants(o.registry.Len())
	o.maybeSwitchLargeVideo()
	o.changeResolution()
}

// maybeSwitchLargeVideo shows the local feed large while no remote
// participant is present.
func (o *Orchestrator) maybeSwitchLargeVideo() {
	if o.registry.Len() == 0 {
		if !o.selfLarge {
			o.showSelfLarge()
		}
		return
	}
	if o.selfLarge {
		o.selfLarge = false
		log.Debug().Str("module", "orch").Msg("local video no longer large")
	}
}

func (o *Orchestrator) changeResolution() {
	if !o.opts.ScaleLocalVideo {
		return
	}
	streams := o.Call.LocalStreams()
	if len(streams) == 0 {
		return
	}
	o.Call.ScaleLocalTrack(streams[0], o.Policy.ScaleFor(o.registry.Len()))
}

func (o *Orchestrator) play(s domain.Sound) {
	if o.Sounds != nil {
		o.Sounds.Play(s)
	}
}
