package ui

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/confbox/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// command is the envelope of everything a browser sends. Only the fields of
// the given type are read.
type command struct {
	Type string `json:"type" validate:"required"`

	Participant    domain.ParticipantID `json:"participant,omitempty"`
	Slot           string               `json:"slot,omitempty"`
	OverThumbnails bool                 `json:"over_thumbnails,omitempty"`
	ID             string               `json:"id,omitempty"`
	Granted        bool                 `json:"granted,omitempty"`

	FullscreenSupported bool   `json:"fullscreen_supported,omitempty"`
	Fullscreen          bool   `json:"fullscreen,omitempty"`
	Permission          string `json:"permission,omitempty" validate:"omitempty,oneof=default granted denied"`
}

type selectSpeaker struct {
	Participant domain.ParticipantID `validate:"required"`
	Slot        string               `validate:"omitempty,oneof=primary secondary"`
}

type notificationAction struct {
	ID string `validate:"required"`
}

func (h *Hub) handleCommand(cl *client, data []byte) error {
	var cmd command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return fmt.Errorf("decode command: %w", err)
	}
	if err := validate.Struct(cmd); err != nil {
		return fmt.Errorf("command %q: %w", cmd.Type, err)
	}

	// host state reports are not user actions
	switch cmd.Type {
	case "ping":
		h.sendJSON(cl, typeFrame{Type: "pong"})
		return nil
	case "hello":
		h.hello(cmd)
		return nil
	case "fullscreen_changed":
		h.mu.Lock()
		h.fullscreen = cmd.Fullscreen
		h.mu.Unlock()
		return nil
	case "permission":
		h.resolvePermission(cmd.Granted)
		return nil
	}

	// pointer movement streams at mousemove rate and must not starve user actions
	if cmd.Type != "pointer_moved" && !h.cfg.Limiter.Allow(cl.token) {
		h.cfg.Metrics.IncUICommandsRejected()
		return fmt.Errorf("command %q: %w", cmd.Type, ErrRateLimited)
	}

	h.mu.RLock()
	ctrl, notices := h.ctrl, h.notices
	h.mu.RUnlock()
	if ctrl == nil {
		return ErrNotBound
	}

	var run func()
	switch cmd.Type {
	case "mute_audio":
		run = ctrl.MuteAudio
	case "mute_video":
		run = ctrl.MuteVideo
	case "hangup":
		run = ctrl.Hangup
	case "select_speaker":
		req := selectSpeaker{Participant: cmd.Participant, Slot: cmd.Slot}
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("select_speaker: %w", err)
		}
		slot := domain.SlotPrimary
		if req.Slot == domain.SlotSecondary.String() {
			slot = domain.SlotSecondary
		}
		run = func() {
			if !ctrl.SelectSpeaker(req.Participant, slot) {
				log.Warn().Str("module", "adapters.ui").Str("participant", string(req.Participant)).Msg("select of unknown participant")
			}
		}
	case "toggle_drawer":
		run = ctrl.ToggleDrawer
	case "share_opened":
		run = ctrl.ShareOpened
	case "share_closed":
		run = ctrl.ShareClosed
	case "pointer_moved":
		over := cmd.OverThumbnails
		run = func() { ctrl.PointerMoved(over) }
	case "copy_link":
		run = ctrl.CopyLink
	case "email_link":
		run = ctrl.EmailLink
	case "toggle_invite_modal":
		run = ctrl.ToggleInviteModal
	case "toggle_fullscreen":
		run = ctrl.ToggleFullscreen
	case "notification_action":
		req := notificationAction{ID: cmd.ID}
		if err := validate.Struct(req); err != nil {
			return fmt.Errorf("notification_action: %w", err)
		}
		if notices == nil {
			return ErrNotBound
		}
		run = func() {
			if !notices.Accept(req.ID) {
				log.Debug().Str("module", "adapters.ui").Str("notice", req.ID).Msg("notice action already used")
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
	}

	h.cfg.Metrics.IncUICommand(cmd.Type)
	h.cfg.Post(run)
	return nil
}

func (h *Hub) hello(cmd command) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fullscreenSupported = cmd.FullscreenSupported
	h.fullscreen = cmd.Fullscreen
	if cmd.Permission != "" {
		h.permission = cmd.Permission
	}
}
