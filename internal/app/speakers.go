package app

import (
	"slices"

	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

const nobody = "Nobody"

// SpeakerSelector maintains the featured speakers (primary, secondary).
// It is not safe for concurrent use; the session loop owns it.
type SpeakerSelector struct {
	room     core.RoomConfigurer
	events   *core.EventLog
	local    domain.Identity
	dispatch func(func())

	speakers []core.Featured
}

// NewSpeakerSelector creates a selector that commands room. dispatch
// delivers ConfigureRoom completions back onto the session loop.
func NewSpeakerSelector(room core.RoomConfigurer, events *core.EventLog, local domain.Identity, dispatch func(func())) *SpeakerSelector {
	if dispatch == nil {
		dispatch = func(fn func()) { fn() }
	}
	return &SpeakerSelector{room: room, events: events, local: local, dispatch: dispatch}
}

// Current returns the featured speakers, primary first. The slice is a copy.
func (s *SpeakerSelector) Current() []core.Featured {
	return slices.Clone(s.speakers)
}

// Reset replaces the list without commanding the room.
func (s *SpeakerSelector) Reset(speakers []core.Featured) {
	s.speakers = capSpeakers(speakers)
}

// Select puts target into slot, or clears the slot when target is core.None.
// The new list is applied locally right away and sent to the room; the
// room's RoomConfigured echo is authoritative.
func (s *SpeakerSelector) Select(target core.Featured, slot domain.Slot) []core.Featured {
	next := Pick(s.speakers, target, slot)
	s.speakers = next

	publishers := lo.Map(next, func(f core.Featured, _ int) domain.PublisherID { return f.PublisherID() })
	log.Info().Str("module", "app.speakers").Str("slot", slot.String()).Str("target", string(targetID(target))).Int("count", len(next)).Msg("select speaker")

	s.room.ConfigureRoom(publishers, func(err error) {
		if err == nil {
			return
		}
		s.dispatch(func() {
			log.Error().Err(err).Str("module", "app.speakers").Msg("configure room failed")
			s.events.Error("set speakers failed", nil, s.local)
		})
	})
	return s.Current()
}

// Apply adopts the room's authoritative speaker set and records it.
func (s *SpeakerSelector) Apply(cfg core.RoomConfig) {
	s.speakers = capSpeakers(cfg.ActiveParticipants)
	s.events.Info("set speakers to", SpeakerNames(s.speakers), cfg.Originator)
}

// Drop removes a participant that left from the featured list.
func (s *SpeakerSelector) Drop(id domain.ParticipantID) bool {
	n := len(s.speakers)
	s.speakers = slices.DeleteFunc(s.speakers, func(f core.Featured) bool { return f.ID() == id })
	return len(s.speakers) != n
}

// Contains reports whether id currently holds a slot.
func (s *SpeakerSelector) Contains(id domain.ParticipantID) bool {
	return slices.ContainsFunc(s.speakers, func(f core.Featured) bool { return f.ID() == id })
}

// Pick computes the speaker list after selecting target for slot.
//
// Clearing the primary slot shifts the secondary up. A secondary pick on an
// empty list lands in the primary slot.
func Pick(current []core.Featured, target core.Featured, slot domain.Slot) []core.Featured {
	next := slices.Clone(current)
	if core.IsNone(target) {
		switch slot {
		case domain.SlotPrimary:
			if len(next) > 0 {
				next = next[1:]
			}
		case domain.SlotSecondary:
			if len(next) > 1 {
				next = slices.Delete(next, 1, 2)
			}
		}
		return next
	}

	idx := 0
	if slot == domain.SlotSecondary && len(next) >= 1 {
		idx = 1
	}
	if idx < len(next) {
		next[idx] = target
	} else {
		next = append(next, target)
	}
	return capSpeakers(next)
}

// SpeakerNames is the drawer text for a speaker set.
func SpeakerNames(speakers []core.Featured) []string {
	if len(speakers) == 0 {
		return []string{nobody}
	}
	return lo.Map(speakers, func(f core.Featured, _ int) string { return f.Identity().Name() })
}

func capSpeakers(in []core.Featured) []core.Featured {
	out := slices.Clone(in)
	if len(out) > domain.MaxActiveSpeakers {
		out = out[:domain.MaxActiveSpeakers]
	}
	return out
}

func targetID(f core.Featured) domain.ParticipantID {
	if f == nil {
		return domain.NoneID
	}
	return f.ID()
}
