// Package notify posts system notifications and in-app notices through the
// rendering host.
package notify

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

var ErrPermissionDenied = errors.New("notification permission denied")

const (
	DefaultIcon    = "assets/images/blink-48.png"
	DefaultTimeout = 5

	titleInvite = "Conference Invite"
	titleMissed = "Missed Call"
	positionBR  = "br"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
)

// SystemNotification is a native notification of the rendering host.
type SystemNotification struct {
	Title string `json:"title"`
	core.NotificationOptions
}

type Action struct {
	Label string `json:"label"`
}

// Notice is an in-app notification. AutoDismiss 0 keeps it until the user
// closes it.
type Notice struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	Level       Level   `json:"level"`
	Position    string  `json:"position"`
	AutoDismiss int     `json:"auto_dismiss"`
	Action      *Action `json:"action,omitempty"`
}

// Delivery is the rendering host that displays notifications.
type Delivery interface {
	UserAgent() string
	NeedsPermission() bool
	// RequestPermission asks the user; done receives ErrPermissionDenied on refusal.
	RequestPermission(done func(error))
	ShowSystem(SystemNotification)
	ShowNotice(Notice)
}

type Config struct {
	Icon        string
	GuestDomain string
}

// Center implements core.Notifier on top of a Delivery.
type Center struct {
	delivery Delivery
	cfg      Config
	clock    clockwork.Clock

	mu      sync.Mutex
	actions map[string]func()
}

func NewCenter(delivery Delivery, cfg Config, clock clockwork.Clock) *Center {
	if cfg.Icon == "" {
		cfg.Icon = DefaultIcon
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Center{
		delivery: delivery,
		cfg:      cfg,
		clock:    clock,
		actions:  make(map[string]func()),
	}
}

// PostSystemNotification shows a native notification. Platforms that
// cannot show one are skipped and a refused permission is swallowed.
func (c *Center) PostSystemNotification(title string, opts core.NotificationOptions) {
	ua := c.delivery.UserAgent()
	if !SupportsSystemNotifications(ua) {
		log.Debug().Str("module", "notify").Str("user_agent", ua).Msg("system notifications unsupported")
		return
	}
	n := SystemNotification{Title: title, NotificationOptions: c.withDefaults(opts)}
	if !c.delivery.NeedsPermission() {
		c.delivery.ShowSystem(n)
		return
	}
	c.delivery.RequestPermission(func(err error) {
		if err != nil {
			log.Debug().Err(err).Str("module", "notify").Msg("system notification dropped")
			return
		}
		c.delivery.ShowSystem(n)
	})
}

// PostConferenceInvite offers to join room. Invites from guests and rooms
// without a domain are dropped.
func (c *Center) PostConferenceInvite(originator domain.Identity, room string, accept func(room string)) {
	if originator.IsGuest(c.cfg.GuestDomain) {
		log.Debug().Str("module", "notify").Str("uri", originator.URI).Msg("invite from guest ignored")
		return
	}
	name, _, ok := strings.Cut(room, "@")
	if !ok {
		log.Debug().Str("module", "notify").Str("room", room).Msg("invite without domain ignored")
		return
	}
	id := uuid.NewString()
	c.register(id, func() { accept(room) })
	c.delivery.ShowNotice(Notice{
		ID:       id,
		Title:    titleInvite,
		Message:  fmt.Sprintf("%s invited you to join conference room %s\nOn %s", originator.Name(), name, FormatDate(c.clock.Now())),
		Level:    LevelSuccess,
		Position: positionBR,
		Action:   &Action{Label: "Join"},
	})
}

// PostMissedCall reports a missed call. Calling back is not offered to guests.
func (c *Center) PostMissedCall(originator domain.Identity, accept func(uri string)) {
	n := Notice{
		ID:       uuid.NewString(),
		Title:    titleMissed,
		Message:  fmt.Sprintf("From %s\nOn %s", originator.Name(), FormatDate(c.clock.Now())),
		Level:    LevelInfo,
		Position: positionBR,
	}
	if !originator.IsGuest(c.cfg.GuestDomain) {
		c.register(n.ID, func() { accept(originator.URI) })
		n.Action = &Action{Label: "Call"}
	}
	c.delivery.ShowNotice(n)
}

// Accept runs the action of notice id. Each action runs at most once.
func (c *Center) Accept(id string) bool {
	c.mu.Lock()
	fn, ok := c.actions[id]
	delete(c.actions, id)
	c.mu.Unlock()
	if !ok {
		return false
	}
	fn()
	return true
}

func (c *Center) register(id string, fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.actions[id] = fn
}

func (c *Center) withDefaults(opts core.NotificationOptions) core.NotificationOptions {
	if opts.Icon == "" {
		opts.Icon = c.cfg.Icon
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Silent == nil {
		opts.Silent = lo.ToPtr(true)
	}
	return opts
}

// SupportsSystemNotifications is false for iOS Safari and Chrome on Android.
func SupportsSystemNotifications(userAgent string) bool {
	ua := strings.ToLower(userAgent)
	has := func(s string) bool { return strings.Contains(ua, s) }

	iOS := has("ipad") || has("iphone")
	iOSSafari := iOS && has("webkit") && !has("crios")
	chromeAndroid := has("android") && has("chrome")
	return !iOSSafari && !chromeAndroid
}

// FormatDate renders t like "March 3rd 2025 at 10:04:05".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%s %s %d at %s", t.Month(), humanize.Ordinal(t.Day()), t.Year(), t.Format("15:04:05"))
}
