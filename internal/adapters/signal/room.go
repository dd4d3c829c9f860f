package signal

import (
	"encoding/json"
	"slices"

	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/rs/zerolog/log"
)

func (c *Client) handleJoined(data []byte) {
	var m joinedMsg
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("bad joined payload")
		return
	}

	c.mu.Lock()
	c.callID = m.CallID
	for _, info := range m.Participants {
		if _, ok := c.byID[info.ID]; ok {
			continue
		}
		p := c.newParticipant(info)
		c.order = append(c.order, p)
		c.byID[p.id] = p
	}
	c.active = m.ActiveParticipants
	c.mu.Unlock()

	log.Info().Str("module", "adapters.signal").Str("call", m.CallID).Int("participants", len(m.Participants)).Msg("joined")
	select {
	case <-c.joined:
	default:
		close(c.joined)
	}
}

func (c *Client) handleParticipantJoined(data []byte) {
	var m participantJoinedMsg
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("bad participant_joined payload")
		return
	}

	c.mu.Lock()
	if _, ok := c.byID[m.Participant.ID]; ok {
		c.mu.Unlock()
		log.Warn().Str("module", "adapters.signal").Str("participant", string(m.Participant.ID)).Msg("duplicate join")
		return
	}
	p := c.newParticipant(m.Participant)
	c.order = append(c.order, p)
	c.byID[p.id] = p
	obs := c.observer
	c.mu.Unlock()

	if obs != nil {
		obs.ParticipantJoined(p)
	}
}

func (c *Client) handleParticipantLeft(data []byte) {
	var m participantLeftMsg
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("bad participant_left payload")
		return
	}

	c.mu.Lock()
	p, ok := c.byID[m.ID]
	if !ok {
		c.mu.Unlock()
		log.Warn().Str("module", "adapters.signal").Str("participant", string(m.ID)).Msg("leave of unknown participant")
		return
	}
	delete(c.byID, m.ID)
	c.order = slices.DeleteFunc(c.order, func(x *RemoteParticipant) bool { return x == p })
	c.active = slices.DeleteFunc(c.active, func(id domain.ParticipantID) bool { return id == m.ID })
	obs := c.observer
	c.mu.Unlock()

	if obs != nil {
		obs.ParticipantLeft(p)
	}
}

func (c *Client) handleParticipantState(data []byte) {
	var m participantStateMsg
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("bad participant_state payload")
		return
	}

	c.mu.RLock()
	p, ok := c.byID[m.ID]
	c.mu.RUnlock()
	if !ok {
		return
	}
	p.setState(m.State)
}

func (c *Client) handleRoomConfigured(data []byte) {
	var m roomConfiguredMsg
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("bad room_configured payload")
		return
	}

	c.mu.Lock()
	c.active = m.ActiveParticipants
	featured := c.featuredLocked(m.ActiveParticipants)
	obs := c.observer
	c.mu.Unlock()

	if obs != nil {
		obs.RoomConfigured(core.RoomConfig{ActiveParticipants: featured, Originator: m.Originator})
	}
}

func (c *Client) handleResponse(data []byte) {
	var m responseMsg
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("bad response payload")
		return
	}

	c.mu.Lock()
	done, ok := c.pending[m.RequestID]
	delete(c.pending, m.RequestID)
	c.mu.Unlock()
	if !ok {
		log.Warn().Str("module", "adapters.signal").Str("request_id", m.RequestID).Msg("response to unknown request")
		return
	}
	if m.Error != "" {
		done(&RequestError{RequestID: m.RequestID, Reason: m.Error})
		return
	}
	done(nil)
}

func (c *Client) handleInvite(data []byte) {
	var m inviteMsg
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("bad conference_invite payload")
		return
	}
	log.Info().Str("module", "adapters.signal").Str("originator", m.Originator.URI).Str("room", m.Room).Msg("conference invite")
	if c.handlers.OnInvite != nil {
		c.handlers.OnInvite(m.Originator, m.Room)
	}
}

func (c *Client) handleMissedCall(data []byte) {
	var m missedCallMsg
	if err := json.Unmarshal(data, &m); err != nil {
		log.Error().Err(err).Str("module", "adapters.signal").Msg("bad missed_call payload")
		return
	}
	log.Info().Str("module", "adapters.signal").Str("originator", m.Originator.URI).Msg("missed call")
	if c.handlers.OnMissedCall != nil {
		c.handlers.OnMissedCall(m.Originator)
	}
}
