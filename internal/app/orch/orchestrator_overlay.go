package orch

import (
	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/rs/zerolog/log"
)

const linkCopied = "Link copied to the clipboard"

// PointerMoved reports pointer activity. Movement over the thumbnail strip
// does not keep the overlay up.
func (o *Orchestrator) PointerMoved(overThumbnails bool) {
	if !o.mounted || overThumbnails {
		return
	}
	wasVisible := o.overlay.Visible()
	o.overlay.Activity()
	if !wasVisible && o.overlay.Visible() {
		o.render()
	}
}

func (o *Orchestrator) ToggleDrawer() {
	if !o.mounted {
		return
	}
	o.overlay.ToggleDrawer()
	o.render()
}

func (o *Orchestrator) ShareOpened() {
	if !o.mounted {
		return
	}
	o.overlay.ShareOpened()
	o.render()
}

func (o *Orchestrator) ShareClosed() {
	if !o.mounted || !o.overlay.ShareOpen() {
		return
	}
	o.overlay.ShareClosed()
	o.render()
}

// CopyLink puts the call URL on the clipboard and closes the share popover.
func (o *Orchestrator) CopyLink() {
	if !o.mounted {
		return
	}
	if o.Sharer != nil {
		if err := o.Sharer.CopyToClipboard(o.room.CallURL(o.opts.PublicURL)); err != nil {
			log.Warn().Err(err).Str("module", "orch").Msg("copy link failed")
		}
	}
	if o.Notifier != nil {
		o.Notifier.PostSystemNotification(domain.InviteSubject, core.NotificationOptions{Body: linkCopied})
	}
	o.closeShare()
	o.render()
}

// EmailLink opens the invitation mail and closes the share popover.
func (o *Orchestrator) EmailLink() {
	if !o.mounted {
		return
	}
	if o.Sharer != nil {
		if err := o.Sharer.OpenURL(o.room.EmailLink(o.opts.PublicURL)); err != nil {
			log.Warn().Err(err).Str("module", "orch").Msg("open email link failed")
		}
	}
	o.closeShare()
	o.render()
}

func (o *Orchestrator) ToggleInviteModal() {
	if !o.mounted {
		return
	}
	o.inviteModal = !o.inviteModal
	o.closeShare()
	o.render()
}

func (o *Orchestrator) closeShare() {
	if o.overlay.ShareOpen() {
		o.overlay.ShareClosed()
	}
}
