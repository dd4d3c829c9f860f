// Package ui serves the browser rendering host over a websocket: session
// snapshots and host effects go out, user commands come back in.
package ui

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/confbox/internal/domain"
	"github.com/dkeye/confbox/internal/platform/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure   = errors.New("backpressure")
	ErrUnknownCommand = errors.New("unknown command")
	ErrRateLimited    = errors.New("rate limited")
	ErrNoClients      = errors.New("no ui client connected")
	ErrNotBound       = errors.New("ui hub not bound to a session")
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 32
)

// Controller is the session surface driven by UI commands.
type Controller interface {
	MuteAudio()
	MuteVideo()
	Hangup()
	SelectSpeaker(id domain.ParticipantID, slot domain.Slot) bool
	ToggleDrawer()
	ShareOpened()
	ShareClosed()
	PointerMoved(overThumbnails bool)
	CopyLink()
	EmailLink()
	ToggleInviteModal()
	ToggleFullscreen()
}

// NoticeAcceptor runs the action of an in-app notice.
type NoticeAcceptor interface {
	Accept(id string) bool
}

type Config struct {
	// Post runs session commands on the session loop. Nil runs them in place.
	Post       func(func())
	Limiter    *RateLimiter
	Metrics    *metrics.Metrics
	ReadLimit  int64
	PingPeriod time.Duration
}

// Hub fans session output out to every connected browser and feeds their
// commands back to the session.
type Hub struct {
	cfg      Config
	upgrader websocket.Upgrader

	mu                  sync.RWMutex
	ctrl                Controller
	notices             NoticeAcceptor
	clients             map[*client]struct{}
	last                []byte
	large               [][]byte
	userAgent           string
	fullscreenSupported bool
	fullscreen          bool
	permission          string
	waiters             []func(error)
}

func NewHub(cfg Config) *Hub {
	if cfg.Post == nil {
		cfg.Post = func(fn func()) { fn() }
	}
	return &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients:    make(map[*client]struct{}),
		permission: permissionDefault,
	}
}

// Bind attaches the session the hub drives. notices may be nil.
func (h *Hub) Bind(ctrl Controller, notices NoticeAcceptor) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctrl = ctrl
	h.notices = notices
}

// Clients is the number of connected browsers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

type client struct {
	token string
	conn  *websocket.Conn
	send  chan []byte
	once  sync.Once
}

func (c *client) TrySend(b []byte) error {
	select {
	case c.send <- b:
		return nil
	default:
		return ErrBackpressure
	}
}

func (c *client) Close() {
	c.once.Do(func() {
		close(c.send)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// HandleUI upgrades the request and serves one browser until it goes away
// or ctx is cancelled.
func (h *Hub) HandleUI(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ui").Msg("ws upgrade")
		return
	}
	if h.cfg.ReadLimit > 0 {
		ws.SetReadLimit(h.cfg.ReadLimit)
	}

	cl := &client{token: token, conn: ws, send: make(chan []byte, sendBuffer)}
	h.register(cl, c.Request.UserAgent())
	log.Info().Str("module", "adapters.ui").Str("sid", token).Int("clients", h.Clients()).Msg("ui connected")

	ctx, cancel := context.WithCancel(ctx)
	go h.writePump(ctx, cl)
	go h.readPump(ctx, cancel, cl)
}

func (h *Hub) register(cl *client, userAgent string) {
	h.mu.Lock()
	h.clients[cl] = struct{}{}
	if userAgent != "" {
		h.userAgent = userAgent
	}
	var replay [][]byte
	if h.last != nil {
		replay = append(replay, h.last)
	}
	replay = append(replay, h.large...)
	h.mu.Unlock()

	h.cfg.Metrics.AddUIClients(1)
	for _, b := range replay {
		_ = cl.TrySend(b)
	}
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, cl)
	sameToken := false
	for other := range h.clients {
		if other.token == cl.token {
			sameToken = true
			break
		}
	}
	var waiters []func(error)
	if len(h.clients) == 0 {
		waiters, h.waiters = h.waiters, nil
	}
	h.mu.Unlock()

	h.cfg.Metrics.AddUIClients(-1)
	if !sameToken {
		h.cfg.Limiter.Forget(cl.token)
	}
	for _, done := range waiters {
		done(ErrNoClients)
	}
	cl.Close()
}

func (h *Hub) writePump(ctx context.Context, cl *client) {
	var ping <-chan time.Time
	if h.cfg.PingPeriod > 0 {
		ticker := time.NewTicker(h.cfg.PingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "adapters.ui").Str("sid", cl.token).Msg("writePump ctx done")
			return
		case data, ok := <-cl.send:
			if !ok {
				return
			}
			if err := cl.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Warn().Err(err).Str("module", "adapters.ui").Msg("writePump set deadline")
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Warn().Err(err).Str("module", "adapters.ui").Msg("writePump write error")
				return
			}
		case <-ping:
			if err := cl.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *Hub) readPump(ctx context.Context, cancel context.CancelFunc, cl *client) {
	defer func() {
		log.Info().Str("module", "adapters.ui").Str("sid", cl.token).Msg("ui disconnected")
		cancel()
		h.unregister(cl)
	}()

	if h.cfg.PingPeriod > 0 {
		pongWait := 2 * h.cfg.PingPeriod
		_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		cl.conn.SetPongHandler(func(string) error {
			return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
		})
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := cl.conn.ReadMessage()
			if err != nil {
				return
			}
			if err := h.handleCommand(cl, data); err != nil {
				log.Warn().Err(err).Str("module", "adapters.ui").Str("sid", cl.token).Msg("command rejected")
				h.sendJSON(cl, errorFrame{Type: "error", Error: err.Error()})
			}
		}
	}
}

func (h *Hub) sendJSON(cl *client, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ui").Msg("sendJSON marshal")
		return
	}
	if err := cl.TrySend(b); err != nil {
		log.Warn().Err(err).Str("module", "adapters.ui").Str("sid", cl.token).Msg("frame dropped")
	}
}

// broadcast sends v to every client and returns how many there were. keep
// stores the frame for clients that connect later. Clients are only closed
// after they leave the set, so sends under the lock never hit a closed channel.
func (h *Hub) broadcast(v any, keep bool) int {
	return h.publish(v, func(b []byte) {
		if keep {
			h.last = b
		}
	})
}

// publish is broadcast with update applied to the marshalled frame under the
// hub lock, before any client sees it.
func (h *Hub) publish(v any, update func(b []byte)) int {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ui").Msg("broadcast marshal")
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if update != nil {
		update(b)
	}
	for cl := range h.clients {
		if err := cl.TrySend(b); err != nil {
			log.Warn().Err(err).Str("module", "adapters.ui").Str("sid", cl.token).Msg("frame dropped")
		}
	}
	return len(h.clients)
}
