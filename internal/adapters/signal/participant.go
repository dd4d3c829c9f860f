package signal

import (
	"sync"

	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/rs/zerolog/log"
)

// RemoteParticipant is a participant announced by the focus.
type RemoteParticipant struct {
	id          domain.ParticipantID
	publisherID domain.PublisherID
	identity    domain.Identity
	client      *Client

	mu       sync.Mutex
	state    domain.ConnState
	onChange func(from, to domain.ConnState)
	attached bool
}

func (c *Client) newParticipant(info participantInfo) *RemoteParticipant {
	state := info.State
	if state == "" {
		state = domain.StateNew
	}
	return &RemoteParticipant{
		id:          info.ID,
		publisherID: info.PublisherID,
		identity:    info.Identity,
		client:      c,
		state:       state,
	}
}

func (p *RemoteParticipant) ID() domain.ParticipantID        { return p.id }
func (p *RemoteParticipant) PublisherID() domain.PublisherID { return p.publisherID }
func (p *RemoteParticipant) Identity() domain.Identity       { return p.identity }

func (p *RemoteParticipant) State() domain.ConnState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Streams is empty: remote media is delivered to the browser directly.
func (p *RemoteParticipant) Streams() []core.Stream { return nil }

func (p *RemoteParticipant) OnStateChanged(fn func(from, to domain.ConnState)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

func (p *RemoteParticipant) Attach() {
	p.mu.Lock()
	if p.attached {
		p.mu.Unlock()
		return
	}
	p.attached = true
	p.mu.Unlock()
	p.client.attach(p.id)
}

func (p *RemoteParticipant) Detach(final bool) {
	p.mu.Lock()
	wasAttached := p.attached
	p.attached = false
	p.mu.Unlock()
	if !wasAttached && !final {
		return
	}
	p.client.detach(p.id, final)
}

func (p *RemoteParticipant) setState(to domain.ConnState) {
	p.mu.Lock()
	from := p.state
	if from == to {
		p.mu.Unlock()
		return
	}
	p.state = to
	fn := p.onChange
	p.mu.Unlock()

	log.Debug().Str("module", "adapters.signal").Str("participant", string(p.id)).
		Str("from", string(from)).Str("to", string(to)).Msg("participant state")
	if fn != nil {
		fn(from, to)
	}
}
