package signal

import (
	"fmt"

	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/rs/zerolog/log"
)

// RequestError is a request the focus answered with an error.
type RequestError struct {
	RequestID string
	Reason    string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request %s: %s", e.RequestID, e.Reason)
}

func (e *RequestError) Unwrap() error { return ErrRejected }

// ConfigureRoom asks the focus to feature the given publishers. done runs
// once with the focus answer, or with the send error, on another goroutine.
func (c *Client) ConfigureRoom(publishers []domain.PublisherID, done func(error)) {
	if done == nil {
		done = func(error) {}
	}
	id := c.nextRequestID()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		go done(ErrNotConnected)
		return
	}
	c.pending[id] = done
	c.mu.Unlock()

	if publishers == nil {
		publishers = []domain.PublisherID{}
	}
	if err := c.sendJSON(configureRoomMsg{Type: "configure_room", RequestID: id, Publishers: publishers}); err != nil {
		c.mu.Lock()
		_, still := c.pending[id]
		delete(c.pending, id)
		c.mu.Unlock()
		if still {
			go done(err)
		}
	}
}

type scaler interface {
	Scale(factor float64)
}

// ScaleLocalTrack applies the factor to the local stream and forwards the
// hint to the focus. Failures are logged only.
func (c *Client) ScaleLocalTrack(stream core.Stream, factor float64) {
	if stream == nil {
		return
	}
	if s, ok := stream.(scaler); ok {
		s.Scale(factor)
	}
	if err := c.sendJSON(scaleMsg{Type: "scale", Stream: stream.ID(), Factor: factor}); err != nil {
		log.Warn().Err(err).Str("module", "adapters.signal").Str("stream", stream.ID()).Float64("factor", factor).Msg("scale hint not sent")
	}
}

// Hangup leaves the call. OnEnded does not fire for a local hangup.
func (c *Client) Hangup() {
	c.mu.Lock()
	if c.hungUp {
		c.mu.Unlock()
		return
	}
	c.hungUp = true
	c.mu.Unlock()

	if err := c.sendJSON(typeMsg{Type: "hangup"}); err != nil {
		log.Warn().Err(err).Str("module", "adapters.signal").Msg("hangup not sent")
	}
	c.Close()
}

func (c *Client) attach(id domain.ParticipantID) {
	if err := c.sendJSON(mediaMsg{Type: "attach", Participant: id}); err != nil {
		log.Warn().Err(err).Str("module", "adapters.signal").Str("participant", string(id)).Msg("attach not sent")
	}
}

func (c *Client) detach(id domain.ParticipantID, final bool) {
	if err := c.sendJSON(mediaMsg{Type: "detach", Participant: id, Final: final}); err != nil {
		log.Debug().Err(err).Str("module", "adapters.signal").Str("participant", string(id)).Msg("detach not sent")
	}
}

func (c *Client) nextRequestID() string {
	return fmt.Sprintf("req-%d", c.seq.Add(1))
}
