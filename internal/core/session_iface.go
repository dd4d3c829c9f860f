package core

import "github.com/dkeye/confbox/internal/domain"

// Featured is anything that can occupy a speaker slot: a remote
// participant or the local party.
type Featured interface {
	ID() domain.ParticipantID
	PublisherID() domain.PublisherID
	Identity() domain.Identity
}

// Participant is a remote party handle owned by the signaling layer.
type Participant interface {
	Featured

	State() domain.ConnState
	Streams() []Stream
	// OnStateChanged sets the callback for connection state transitions.
	OnStateChanged(func(from, to domain.ConnState))
	// Attach starts receiving the participant media.
	Attach()
	// Detach stops receiving media; final releases the underlying resources.
	Detach(final bool)
}

type none struct{}

func (none) ID() domain.ParticipantID        { return domain.NoneID }
func (none) PublisherID() domain.PublisherID { return domain.PublisherID(domain.NoneID) }
func (none) Identity() domain.Identity       { return domain.Identity{} }

// None is the "clear this slot" sentinel.
var None Featured = none{}

// IsNone reports whether f is the sentinel (or nil).
func IsNone(f Featured) bool {
	return f == nil || f.ID() == domain.NoneID
}

// Self is the local party as it appears in the speaker list: its id and
// publisher id are both the call id.
type Self struct {
	CallID string
	Ident  domain.Identity
}

func (s Self) ID() domain.ParticipantID        { return domain.ParticipantID(s.CallID) }
func (s Self) PublisherID() domain.PublisherID { return domain.PublisherID(s.CallID) }
func (s Self) Identity() domain.Identity       { return s.Ident }
