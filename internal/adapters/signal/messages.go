package signal

import "github.com/dkeye/confbox/internal/domain"

type participantInfo struct {
	ID          domain.ParticipantID `json:"id"`
	PublisherID domain.PublisherID   `json:"publisher_id"`
	Identity    domain.Identity      `json:"identity"`
	State       domain.ConnState     `json:"state,omitempty"`
}

// outgoing

type joinMsg struct {
	Type     string          `json:"type"`
	Room     domain.Identity `json:"room"`
	Identity domain.Identity `json:"identity"`
	Streams  []string        `json:"streams"`
}

type configureRoomMsg struct {
	Type       string               `json:"type"`
	RequestID  string               `json:"request_id"`
	Publishers []domain.PublisherID `json:"publishers"`
}

type mediaMsg struct {
	Type        string               `json:"type"`
	Participant domain.ParticipantID `json:"participant"`
	Final       bool                 `json:"final,omitempty"`
}

type scaleMsg struct {
	Type   string  `json:"type"`
	Stream string  `json:"stream"`
	Factor float64 `json:"factor"`
}

type typeMsg struct {
	Type string `json:"type"`
}

// incoming

type joinedMsg struct {
	CallID             string                 `json:"call_id"`
	Participants       []participantInfo      `json:"participants"`
	ActiveParticipants []domain.ParticipantID `json:"active_participants"`
}

type participantJoinedMsg struct {
	Participant participantInfo `json:"participant"`
}

type participantLeftMsg struct {
	ID domain.ParticipantID `json:"id"`
}

type participantStateMsg struct {
	ID    domain.ParticipantID `json:"id"`
	State domain.ConnState     `json:"state"`
}

type roomConfiguredMsg struct {
	ActiveParticipants []domain.ParticipantID `json:"active_participants"`
	Originator         domain.Identity        `json:"originator"`
}

type responseMsg struct {
	RequestID string `json:"request_id"`
	Error     string `json:"error,omitempty"`
}

type inviteMsg struct {
	Originator domain.Identity `json:"originator"`
	Room       string          `json:"room"`
}

type missedCallMsg struct {
	Originator domain.Identity `json:"originator"`
}
