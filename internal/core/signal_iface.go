package core

import "github.com/dkeye/confbox/internal/domain"

// Call is the signaling-layer session the box is mounted on.
// Owned by the adapter; the controller only reads from it and issues commands.
type Call interface {
	RoomConfigurer

	ID() string
	LocalIdentity() domain.Identity
	// RemoteIdentity is the conference room the call is connected to.
	RemoteIdentity() domain.Identity
	// Participants returns the remote participants already present at mount time.
	Participants() []Participant
	// ActiveParticipants returns the featured speakers at mount time.
	ActiveParticipants() []Featured
	LocalStreams() []Stream
	// ScaleLocalTrack is a resolution hint; failures are not reported.
	ScaleLocalTrack(stream Stream, factor float64)
	// Subscribe registers the observer for call level events.
	Subscribe(CallObserver)
	Hangup()
}

// CallObserver receives call level events, one method per event kind.
type CallObserver interface {
	ParticipantJoined(Participant)
	ParticipantLeft(Participant)
	RoomConfigured(RoomConfig)
}

// RoomConfig is the authoritative speaker set echoed by the signaling layer.
type RoomConfig struct {
	ActiveParticipants []Featured
	Originator         domain.Identity
}
