package coretest

import (
	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
)

// Participant is a remote participant whose state is driven by the test.
type Participant struct {
	id          domain.ParticipantID
	publisherID domain.PublisherID
	identity    domain.Identity
	state       domain.ConnState
	streams     []core.Stream
	onState     func(from, to domain.ConnState)

	Attaches int
	Detaches []bool
}

func NewParticipant(id string) *Participant {
	return &Participant{
		id:          domain.ParticipantID(id),
		publisherID: domain.PublisherID("pub-" + id),
		identity:    domain.Identity{URI: id + "@example.com", DisplayName: id},
		state:       domain.StateNew,
	}
}

func (p *Participant) ID() domain.ParticipantID        { return p.id }
func (p *Participant) PublisherID() domain.PublisherID { return p.publisherID }
func (p *Participant) Identity() domain.Identity       { return p.identity }
func (p *Participant) State() domain.ConnState         { return p.state }
func (p *Participant) Streams() []core.Stream          { return p.streams }
func (p *Participant) Attach()                         { p.Attaches++ }
func (p *Participant) Detach(final bool)               { p.Detaches = append(p.Detaches, final) }

func (p *Participant) OnStateChanged(fn func(from, to domain.ConnState)) { p.onState = fn }

// SetState moves the participant to s and fires the registered callback.
func (p *Participant) SetState(s domain.ConnState) {
	old := p.state
	p.state = s
	if p.onState != nil {
		p.onState(old, s)
	}
}

// Observed reports whether a state callback is registered.
func (p *Participant) Observed() bool { return p.onState != nil }

type Scale struct {
	Stream core.Stream
	Factor float64
}

type ConfigureRequest struct {
	Publishers []domain.PublisherID
	Done       func(error)
}

// Call is an in-memory core.Call. ConfigureRoom requests are queued until
// the test completes them.
type Call struct {
	CallID     string
	Local      domain.Identity
	Remote     domain.Identity
	Initial    []core.Participant
	Active     []core.Featured
	Streams    []core.Stream
	Observer   core.CallObserver
	Configures []ConfigureRequest
	Scales     []Scale
	HungUp     int
}

func NewCall(streams ...core.Stream) *Call {
	return &Call{
		CallID:  "call-1",
		Local:   domain.Identity{URI: "me@example.com", DisplayName: "Me"},
		Remote:  domain.Identity{URI: "standup@conference.example.com"},
		Streams: streams,
	}
}

func (c *Call) ID() string                          { return c.CallID }
func (c *Call) LocalIdentity() domain.Identity      { return c.Local }
func (c *Call) RemoteIdentity() domain.Identity     { return c.Remote }
func (c *Call) Participants() []core.Participant    { return c.Initial }
func (c *Call) ActiveParticipants() []core.Featured { return c.Active }
func (c *Call) LocalStreams() []core.Stream         { return c.Streams }
func (c *Call) Subscribe(o core.CallObserver)       { c.Observer = o }
func (c *Call) Hangup()                             { c.HungUp++ }

func (c *Call) ScaleLocalTrack(s core.Stream, factor float64) {
	c.Scales = append(c.Scales, Scale{Stream: s, Factor: factor})
}

func (c *Call) ConfigureRoom(publishers []domain.PublisherID, done func(error)) {
	c.Configures = append(c.Configures, ConfigureRequest{Publishers: publishers, Done: done})
}

// Complete finishes the oldest pending ConfigureRoom with err.
func (c *Call) Complete(err error) {
	if len(c.Configures) == 0 {
		return
	}
	req := c.Configures[0]
	c.Configures = c.Configures[1:]
	req.Done(err)
}

// LastConfigure returns the publishers of the newest ConfigureRoom request.
func (c *Call) LastConfigure() []domain.PublisherID {
	if len(c.Configures) == 0 {
		return nil
	}
	return c.Configures[len(c.Configures)-1].Publishers
}
