package ui

import (
	"github.com/dkeye/confbox/internal/app/notify"
	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	permissionDefault = "default"
	permissionGranted = "granted"
	permissionDenied  = "denied"
)

type snapshotFrame struct {
	Type     string        `json:"type"`
	Snapshot core.Snapshot `json:"snapshot"`
}

type largeVideoFrame struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Stream string `json:"stream,omitempty"`
}

type fullscreenFrame struct {
	Type   string `json:"type"`
	Target string `json:"target,omitempty"`
	On     bool   `json:"on"`
}

type linkFrame struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	URL  string `json:"url,omitempty"`
}

type soundFrame struct {
	Type  string       `json:"type"`
	Sound domain.Sound `json:"sound"`
}

type systemFrame struct {
	Type         string                    `json:"type"`
	Notification notify.SystemNotification `json:"notification"`
}

type noticeFrame struct {
	Type   string        `json:"type"`
	Notice notify.Notice `json:"notice"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

type typeFrame struct {
	Type string `json:"type"`
}

// Render implements core.Renderer. The latest frame is replayed to browsers
// that connect later.
func (h *Hub) Render(s core.Snapshot) {
	h.broadcast(snapshotFrame{Type: "snapshot", Snapshot: s}, true)
}

// LargeVideo is the large video element of the connected browsers. The
// attached stream and its play state are replayed to browsers that connect
// later.
func (h *Hub) LargeVideo() core.MediaSink { return largeVideo{h} }

type largeVideo struct{ h *Hub }

func (v largeVideo) Attach(s core.Stream) {
	v.h.publish(largeVideoFrame{Type: "large_video", Action: "attach", Stream: s.ID()}, func(b []byte) {
		v.h.large = [][]byte{b}
	})
}

func (v largeVideo) Play() {
	v.h.publish(largeVideoFrame{Type: "large_video", Action: "play"}, func(b []byte) {
		if len(v.h.large) > 0 {
			v.h.large = [][]byte{v.h.large[0], b}
		}
	})
}

func (v largeVideo) Pause() {
	v.h.publish(largeVideoFrame{Type: "large_video", Action: "pause"}, func([]byte) {
		if len(v.h.large) > 1 {
			v.h.large = v.h.large[:1]
		}
	})
}

func (h *Hub) IsFullscreenSupported() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.fullscreenSupported
}

func (h *Hub) IsFullScreen() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.fullscreen
}

func (h *Hub) ToggleFullscreen(target string) {
	h.mu.Lock()
	h.fullscreen = !h.fullscreen
	on := h.fullscreen
	h.mu.Unlock()
	h.broadcast(fullscreenFrame{Type: "fullscreen", Target: target, On: on}, false)
}

func (h *Hub) ExitFullscreen() {
	h.mu.Lock()
	h.fullscreen = false
	h.mu.Unlock()
	h.broadcast(fullscreenFrame{Type: "fullscreen"}, false)
}

func (h *Hub) CopyToClipboard(text string) error {
	if h.broadcast(linkFrame{Type: "clipboard", Text: text}, false) == 0 {
		return ErrNoClients
	}
	return nil
}

func (h *Hub) OpenURL(url string) error {
	if h.broadcast(linkFrame{Type: "open_url", URL: url}, false) == 0 {
		return ErrNoClients
	}
	return nil
}

// Play implements core.Sounds.
func (h *Hub) Play(sound domain.Sound) {
	h.broadcast(soundFrame{Type: "sound", Sound: sound}, false)
}

// UserAgent is the user agent of the most recently connected browser.
func (h *Hub) UserAgent() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.userAgent
}

func (h *Hub) NeedsPermission() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.permission != permissionGranted
}

// RequestPermission asks the browsers for notification permission. done
// runs once with the first answer.
func (h *Hub) RequestPermission(done func(error)) {
	h.mu.Lock()
	switch {
	case h.permission == permissionGranted:
		h.mu.Unlock()
		done(nil)
		return
	case h.permission == permissionDenied:
		h.mu.Unlock()
		done(notify.ErrPermissionDenied)
		return
	case len(h.clients) == 0:
		h.mu.Unlock()
		done(ErrNoClients)
		return
	}
	h.waiters = append(h.waiters, done)
	first := len(h.waiters) == 1
	h.mu.Unlock()

	if first {
		h.broadcast(typeFrame{Type: "request_permission"}, false)
	}
}

func (h *Hub) ShowSystem(n notify.SystemNotification) {
	h.broadcast(systemFrame{Type: "system_notification", Notification: n}, false)
}

func (h *Hub) ShowNotice(n notify.Notice) {
	h.broadcast(noticeFrame{Type: "notice", Notice: n}, false)
}

func (h *Hub) resolvePermission(granted bool) {
	h.mu.Lock()
	h.permission = permissionDenied
	if granted {
		h.permission = permissionGranted
	}
	waiters := h.waiters
	h.waiters = nil
	h.mu.Unlock()

	log.Info().Str("module", "adapters.ui").Bool("granted", granted).Msg("notification permission")
	var err error
	if !granted {
		err = notify.ErrPermissionDenied
	}
	for _, done := range waiters {
		done(err)
	}
}
