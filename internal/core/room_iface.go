package core

import (
	"time"

	"github.com/dkeye/confbox/internal/domain"
)

// Renderer is the rendering layer. It receives read-only snapshots and
// must not keep references into controller state.
type Renderer interface {
	Render(Snapshot)
}

// ParticipantDTO is a read-only view of a participant tile (no media handles).
type ParticipantDTO struct {
	ID          domain.ParticipantID `json:"id"`
	PublisherID domain.PublisherID   `json:"publisher_id"`
	Name        string               `json:"name"`
	URI         string               `json:"uri"`
	State       domain.ConnState     `json:"state,omitempty"`
	Featured    bool                 `json:"featured"`
	IsLocal     bool                 `json:"is_local"`
}

// EntryDTO is a read-only view of an event log entry.
type EntryDTO struct {
	ID         string    `json:"id"`
	Seq        uint64    `json:"seq"`
	Level      Level     `json:"level"`
	Action     string    `json:"action"`
	Messages   []string  `json:"messages"`
	Originator string    `json:"originator"`
	At         time.Time `json:"at"`
}

// OverlayDTO carries the transient UI visibility flags.
type OverlayDTO struct {
	Visible     bool `json:"visible"`
	ShareOpen   bool `json:"share_open"`
	DrawerOpen  bool `json:"drawer_open"`
	InviteModal bool `json:"invite_modal"`
}

// Snapshot is everything the rendering layer needs for one frame.
type Snapshot struct {
	Room                domain.RoomName  `json:"room"`
	CallURL             string           `json:"call_url"`
	EmailLink           string           `json:"email_link"`
	Mounted             bool             `json:"mounted"`
	Participants        []ParticipantDTO `json:"participants"`
	ActiveSpeakers      []ParticipantDTO `json:"active_speakers"`
	ParticipantCount    int              `json:"participant_count"`
	SelfThumbnail       bool             `json:"self_thumbnail"`
	SelfDisplayedLarge  bool             `json:"self_displayed_large"`
	AudioMuted          bool             `json:"audio_muted"`
	VideoMuted          bool             `json:"video_muted"`
	Overlay             OverlayDTO       `json:"overlay"`
	Duration            string           `json:"duration"`
	FullscreenSupported bool             `json:"fullscreen_supported"`
	Fullscreen          bool             `json:"fullscreen"`
	EventLog            []EntryDTO       `json:"event_log"`
}
