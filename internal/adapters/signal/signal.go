package signal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrNotConnected = errors.New("signaling not connected")
	ErrRejected     = errors.New("request rejected")
)

type Config struct {
	URL        string
	Room       domain.Identity
	Local      domain.Identity
	Streams    []core.Stream
	ReadLimit  int64
	PingPeriod time.Duration
}

// Handlers receive the events that are not part of core.CallObserver.
// Each is optional and runs on the read goroutine.
type Handlers struct {
	OnInvite     func(originator domain.Identity, room string)
	OnMissedCall func(originator domain.Identity)
	// OnEnded runs once when the focus ends the call or the connection drops.
	OnEnded func()
}

// Client is a core.Call backed by a JSON websocket to the conference focus.
type Client struct {
	cfg      Config
	handlers Handlers
	dialer   *websocket.Dialer

	conn   *websocket.Conn
	send   chan []byte
	joined chan struct{}
	done   chan struct{}
	seq    atomic.Uint64

	mu       sync.RWMutex
	closed   bool
	hungUp   bool
	callID   string
	order    []*RemoteParticipant
	byID     map[domain.ParticipantID]*RemoteParticipant
	active   []domain.ParticipantID
	observer core.CallObserver
	pending  map[string]func(error)
}

func New(cfg Config, handlers Handlers) *Client {
	return &Client{
		cfg:      cfg,
		handlers: handlers,
		dialer:   websocket.DefaultDialer,
		joined:   make(chan struct{}),
		done:     make(chan struct{}),
		byID:     make(map[domain.ParticipantID]*RemoteParticipant),
		pending:  make(map[string]func(error)),
	}
}

// Connect dials the focus, joins the room and waits for the join answer.
// ctx bounds the handshake only; the connection lives until Close, Hangup
// or the focus ends the call.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.cfg.URL, err)
	}
	if c.cfg.ReadLimit > 0 {
		conn.SetReadLimit(c.cfg.ReadLimit)
	}
	c.conn = conn
	c.send = make(chan []byte, 32)
	log.Info().Str("module", "adapters.signal").Str("url", c.cfg.URL).Str("room", c.cfg.Room.URI).Msg("connected")

	go c.writePump()
	go c.readPump()

	streams := make([]string, 0, len(c.cfg.Streams))
	for _, s := range c.cfg.Streams {
		streams = append(streams, s.ID())
	}
	if err := c.sendJSON(joinMsg{Type: "join", Room: c.cfg.Room, Identity: c.cfg.Local, Streams: streams}); err != nil {
		c.Close()
		return fmt.Errorf("join: %w", err)
	}

	select {
	case <-c.joined:
		return nil
	case <-c.done:
		return fmt.Errorf("join: %w", ErrNotConnected)
	case <-ctx.Done():
		c.Close()
		return ctx.Err()
	}
}

func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) TrySend(b []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed || c.send == nil {
		return ErrNotConnected
	}
	select {
	case c.send <- b:
	default:
		return ErrBackpressure
	}
	return nil
}

// Close stops the client. Queued messages are still flushed and pending
// requests fail with ErrNotConnected.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	if c.send != nil {
		close(c.send)
	}
	pending := c.pending
	c.pending = make(map[string]func(error))
	c.mu.Unlock()

	if len(pending) > 0 {
		go func() {
			for _, done := range pending {
				done(ErrNotConnected)
			}
		}()
	}
}

func (c *Client) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.callID
}

func (c *Client) LocalIdentity() domain.Identity  { return c.cfg.Local }
func (c *Client) RemoteIdentity() domain.Identity { return c.cfg.Room }
func (c *Client) LocalStreams() []core.Stream     { return c.cfg.Streams }

func (c *Client) Participants() []core.Participant {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]core.Participant, 0, len(c.order))
	for _, p := range c.order {
		out = append(out, p)
	}
	return out
}

func (c *Client) ActiveParticipants() []core.Featured {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.featuredLocked(c.active)
}

func (c *Client) Subscribe(o core.CallObserver) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = o
}

// featuredLocked resolves ids to participants or the local party. Unknown
// ids are skipped.
func (c *Client) featuredLocked(ids []domain.ParticipantID) []core.Featured {
	out := make([]core.Featured, 0, len(ids))
	for _, id := range ids {
		if c.callID != "" && string(id) == c.callID {
			out = append(out, core.Self{CallID: c.callID, Ident: c.cfg.Local})
			continue
		}
		if p, ok := c.byID[id]; ok {
			out = append(out, p)
			continue
		}
		log.Warn().Str("module", "adapters.signal").Str("participant", string(id)).Msg("unknown active participant")
	}
	return out
}
