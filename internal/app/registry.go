package app

import (
	"slices"

	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry is the authoritative, join-ordered set of remote participants.
// It is not safe for concurrent use; the session loop owns it.
type Registry struct {
	order []core.Participant
	byID  map[domain.ParticipantID]core.Participant

	onState  func(p core.Participant, from, to domain.ConnState)
	onChange func()
}

// NewRegistry wires the registry to the session: onState is installed as
// every participant's state observer and onChange runs after each
// successful add or remove.
func NewRegistry(onState func(p core.Participant, from, to domain.ConnState), onChange func()) *Registry {
	return &Registry{
		byID:     make(map[domain.ParticipantID]core.Participant),
		onState:  onState,
		onChange: onChange,
	}
}

// Add appends p, observes its state and attaches its media. Adding an id
// that is already present is a no-op.
func (r *Registry) Add(p core.Participant) bool {
	if _, ok := r.byID[p.ID()]; ok {
		log.Debug().Str("module", "app.registry").Str("participant", string(p.ID())).Msg("already present")
		return false
	}
	r.order = append(r.order, p)
	r.byID[p.ID()] = p

	if r.onState != nil {
		p.OnStateChanged(func(from, to domain.ConnState) { r.onState(p, from, to) })
	}
	p.Attach()
	log.Info().Str("module", "app.registry").Str("participant", string(p.ID())).Str("uri", p.Identity().URI).Msg("participant added")

	if r.onChange != nil {
		r.onChange()
	}
	return true
}

// Remove drops the participant with p's id and releases its media.
// Removing an unknown participant is a no-op.
func (r *Registry) Remove(p core.Participant) bool {
	cur, ok := r.byID[p.ID()]
	if !ok {
		log.Debug().Str("module", "app.registry").Str("participant", string(p.ID())).Msg("remove of unknown participant")
		return false
	}
	delete(r.byID, p.ID())
	r.order = slices.DeleteFunc(r.order, func(x core.Participant) bool { return x.ID() == p.ID() })

	cur.Detach(true)
	log.Info().Str("module", "app.registry").Str("participant", string(p.ID())).Msg("participant removed")

	if r.onChange != nil {
		r.onChange()
	}
	return true
}

func (r *Registry) Get(id domain.ParticipantID) (core.Participant, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Current returns the participants in join order. The slice is a copy.
func (r *Registry) Current() []core.Participant {
	return slices.Clone(r.order)
}

func (r *Registry) Len() int { return len(r.order) }

// DetachAll stops receiving every participant's media without dropping them.
func (r *Registry) DetachAll() {
	for _, p := range r.order {
		p.Detach(false)
	}
}
