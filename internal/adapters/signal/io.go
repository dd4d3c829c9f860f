package signal

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (c *Client) writePump() {
	var ping <-chan time.Time
	if c.cfg.PingPeriod > 0 {
		ticker := time.NewTicker(c.cfg.PingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer func() { _ = c.conn.Close() }()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				_ = c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "adapters.signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.signal").Msg("writePump write error")
				return
			}
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "adapters.signal").Msg("writePump ping error")
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		log.Info().Str("module", "adapters.signal").Str("call", c.ID()).Msg("readPump closing")
		c.shutdown()
	}()

	if c.cfg.PingPeriod > 0 {
		pongWait := 2 * c.cfg.PingPeriod
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(pongWait))
		})
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("module", "adapters.signal").Msg("readPump read error")
			}
			return
		}
		c.handleSignal(data)
	}
}

func (c *Client) handleSignal(data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("bad json")
		return
	}

	switch env.Type {
	case "joined":
		c.handleJoined(data)
	case "participant_joined":
		c.handleParticipantJoined(data)
	case "participant_left":
		c.handleParticipantLeft(data)
	case "participant_state":
		c.handleParticipantState(data)
	case "room_configured":
		c.handleRoomConfigured(data)
	case "response":
		c.handleResponse(data)
	case "conference_invite":
		c.handleInvite(data)
	case "missed_call":
		c.handleMissedCall(data)
	case "ended":
		log.Info().Str("module", "adapters.signal").Str("call", c.ID()).Msg("call ended by focus")
		c.Close()
	case "pong":
	default:
		log.Warn().Str("module", "adapters.signal").Str("type", env.Type).Msg("unknown signal")
	}
}

func (c *Client) sendJSON(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("sendJSON marshal")
		return err
	}
	return c.TrySend(b)
}

// shutdown runs once the read side is gone.
func (c *Client) shutdown() {
	c.Close()
	c.mu.RLock()
	hungUp := c.hungUp
	c.mu.RUnlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
	}
	if !hungUp && c.handlers.OnEnded != nil {
		c.handlers.OnEnded()
	}
}
