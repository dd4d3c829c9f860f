package domain

type (
	ParticipantID string
	PublisherID   string
)

// NoneID marks the "clear this slot" sentinel.
const NoneID ParticipantID = "none"

// ConnState is the connection state reported by the signaling layer.
// StateEnded also covers the null state.
type ConnState string

const (
	StateNew         ConnState = "new"
	StateConnecting  ConnState = "connecting"
	StateEstablished ConnState = "established"
	StateEnded       ConnState = "ended"
)

// TriggersLargeVideoCheck reports whether a transition into s must re-evaluate
// who is shown in the large video slot.
func (s ConnState) TriggersLargeVideoCheck() bool {
	return s == StateEstablished || s == StateEnded || s == ""
}

// Slot is one of the two featured positions.
type Slot int

const (
	SlotPrimary Slot = iota
	SlotSecondary
)

func (s Slot) String() string {
	if s == SlotSecondary {
		return "secondary"
	}
	return "primary"
}

// MaxActiveSpeakers is the number of featured slots.
const MaxActiveSpeakers = 2

type TrackKind string

const (
	KindAudio TrackKind = "audio"
	KindVideo TrackKind = "video"
)

type Sound string

const (
	SoundParticipantJoined Sound = "participant_joined"
	SoundParticipantLeft   Sound = "participant_left"
)
