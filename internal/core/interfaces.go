//go:generate go run go.uber.org/mock/mockgen -source=interfaces.go -destination=../mocks/mock_core.go -package=mocks
package core

import "github.com/dkeye/confbox/internal/domain"

// RoomConfigurer issues the speaker selection command. done is invoked
// once, never on the caller's goroutine.
type RoomConfigurer interface {
	ConfigureRoom(publishers []domain.PublisherID, done func(error))
}

// NotificationOptions mirrors the options of a system notification.
// Zero fields take the notifier defaults.
type NotificationOptions struct {
	Icon    string `json:"icon"`
	Body    string `json:"body"`
	Timeout int    `json:"timeout"`
	Silent  *bool  `json:"silent,omitempty"`
}

// Notifier posts user notifications. All methods are fire-and-forget.
type Notifier interface {
	PostSystemNotification(title string, opts NotificationOptions)
	PostConferenceInvite(originator domain.Identity, room string, accept func(room string))
	PostMissedCall(originator domain.Identity, accept func(uri string))
}

// Sharer reaches the clipboard and the mail client of the rendering host.
type Sharer interface {
	CopyToClipboard(text string) error
	OpenURL(url string) error
}

// Sounds plays short audio cues.
type Sounds interface {
	Play(domain.Sound)
}
