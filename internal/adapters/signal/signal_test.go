package signal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dkeye/confbox/internal/adapters/rtc"
	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

const joinedFrame = `{"type":"joined","call_id":"call-7","participants":[
	{"id":"p1","publisher_id":"pub1","identity":{"uri":"alice@example.com","display_name":"Alice"},"state":"established"},
	{"id":"p2","publisher_id":"pub2","identity":{"uri":"bob@example.com"}}],
	"active_participants":["p2","call-7","ghost"]}`

// focus is a fake conference focus: it answers the join and records
// everything the client sends afterwards.
type focus struct {
	srv      *httptest.Server
	conns    chan *websocket.Conn
	received chan map[string]any
}

func newFocus(t *testing.T) *focus {
	t.Helper()
	f := &focus{conns: make(chan *websocket.Conn, 1), received: make(chan map[string]any, 64)}
	up := websocket.Upgrader{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var join map[string]any
		if err := conn.ReadJSON(&join); err != nil {
			return
		}
		f.received <- join
		if err := conn.WriteMessage(websocket.TextMessage, []byte(joinedFrame)); err != nil {
			return
		}
		f.conns <- conn
		for {
			var m map[string]any
			if err := conn.ReadJSON(&m); err != nil {
				return
			}
			f.received <- m
		}
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func (f *focus) url() string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http")
}

func (f *focus) expect(t *testing.T, typ string) map[string]any {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-f.received:
			if m["type"] == typ {
				return m
			}
		case <-deadline:
			t.Fatalf("focus never received %q", typ)
			return nil
		}
	}
}

type recObserver struct{ events chan string }

func (r recObserver) ParticipantJoined(p core.Participant) { r.events <- "joined:" + string(p.ID()) }
func (r recObserver) ParticipantLeft(p core.Participant)   { r.events <- "left:" + string(p.ID()) }
func (r recObserver) RoomConfigured(cfg core.RoomConfig) {
	ids := make([]string, 0, len(cfg.ActiveParticipants))
	for _, f := range cfg.ActiveParticipants {
		ids = append(ids, string(f.ID()))
	}
	r.events <- "configured:" + strings.Join(ids, ",") + " by " + cfg.Originator.URI
}

func recv[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
	var zero T
	return zero
}

func connect(t *testing.T, f *focus, h Handlers) (*Client, *websocket.Conn) {
	t.Helper()
	stream, err := rtc.NewLocalStream("local-1")
	require.NoError(t, err)
	c := New(Config{
		URL:     f.url(),
		Room:    domain.Identity{URI: "standup@conference.example.com"},
		Local:   domain.Identity{URI: "me@example.com", DisplayName: "Me"},
		Streams: []core.Stream{stream},
	}, h)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Connect(ctx))
	t.Cleanup(c.Close)
	return c, recv(t, f.conns)
}

func send(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func TestConnect_JoinsAndLoadsRoster(t *testing.T) {
	f := newFocus(t)
	c, _ := connect(t, f, Handlers{})

	join := recv(t, f.received)
	require.Equal(t, "join", join["type"])
	require.Equal(t, []any{"local-1"}, join["streams"])

	require.Equal(t, "call-7", c.ID())
	parts := c.Participants()
	require.Len(t, parts, 2)
	require.Equal(t, domain.ParticipantID("p1"), parts[0].ID())
	require.Equal(t, domain.StateEstablished, parts[0].State())
	require.Equal(t, domain.StateNew, parts[1].State())
	require.Equal(t, "Alice", parts[0].Identity().Name())

	active := c.ActiveParticipants()
	require.Len(t, active, 2)
	require.Equal(t, domain.PublisherID("pub2"), active[0].PublisherID())
	require.Equal(t, core.Self{CallID: "call-7", Ident: c.LocalIdentity()}, active[1])
}

func TestConnect_DialFailure(t *testing.T) {
	c := New(Config{URL: "ws://127.0.0.1:1/ws"}, Handlers{})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.Error(t, c.Connect(ctx))
	require.ErrorIs(t, c.TrySend([]byte("{}")), ErrNotConnected)
}

func TestRoomEvents_ReachObserver(t *testing.T) {
	f := newFocus(t)
	c, conn := connect(t, f, Handlers{})
	obs := recObserver{events: make(chan string, 8)}
	c.Subscribe(obs)

	send(t, conn, `{"type":"participant_joined","participant":{"id":"p3","publisher_id":"pub3","identity":{"uri":"carol@example.com"}}}`)
	require.Equal(t, "joined:p3", recv(t, obs.events))
	require.Len(t, c.Participants(), 3)

	send(t, conn, `{"type":"participant_joined","participant":{"id":"p3","publisher_id":"pub3"}}`)
	send(t, conn, `{"type":"participant_left","id":"p1"}`)
	require.Equal(t, "left:p1", recv(t, obs.events))
	require.Len(t, c.Participants(), 2)

	send(t, conn, `{"type":"participant_left","id":"nobody"}`)
	send(t, conn, `{"type":"room_configured","active_participants":["p3","call-7"],"originator":{"uri":"bob@example.com"}}`)
	require.Equal(t, "configured:p3,call-7 by bob@example.com", recv(t, obs.events))
	require.Len(t, c.ActiveParticipants(), 2)
}

func TestParticipantState_FiresOnChange(t *testing.T) {
	f := newFocus(t)
	c, conn := connect(t, f, Handlers{})
	transitions := make(chan string, 4)
	p := c.Participants()[1]
	p.OnStateChanged(func(from, to domain.ConnState) { transitions <- string(from) + ">" + string(to) })

	send(t, conn, `{"type":"participant_state","id":"p2","state":"connecting"}`)
	require.Equal(t, "new>connecting", recv(t, transitions))

	send(t, conn, `{"type":"participant_state","id":"p2","state":"connecting"}`)
	send(t, conn, `{"type":"participant_state","id":"p2","state":"established"}`)
	require.Equal(t, "connecting>established", recv(t, transitions))
	require.Equal(t, domain.StateEstablished, p.State())
}

func TestConfigureRoom_ResolvesRequests(t *testing.T) {
	f := newFocus(t)
	c, conn := connect(t, f, Handlers{})
	results := make(chan error, 2)

	c.ConfigureRoom([]domain.PublisherID{"pub1", "pub2"}, func(err error) { results <- err })
	req := f.expect(t, "configure_room")
	require.Equal(t, []any{"pub1", "pub2"}, req["publishers"])
	send(t, conn, `{"type":"response","request_id":"`+req["request_id"].(string)+`"}`)
	require.NoError(t, recv(t, results))

	c.ConfigureRoom(nil, func(err error) { results <- err })
	req = f.expect(t, "configure_room")
	require.Equal(t, []any{}, req["publishers"])
	send(t, conn, `{"type":"response","request_id":"`+req["request_id"].(string)+`","error":"forbidden"}`)
	err := recv(t, results)
	require.ErrorIs(t, err, ErrRejected)
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, "forbidden", reqErr.Reason)
}

func TestConfigureRoom_PendingFailsOnClose(t *testing.T) {
	f := newFocus(t)
	c, _ := connect(t, f, Handlers{})
	results := make(chan error, 2)

	c.ConfigureRoom([]domain.PublisherID{"pub1"}, func(err error) { results <- err })
	f.expect(t, "configure_room")
	c.Close()
	require.ErrorIs(t, recv(t, results), ErrNotConnected)

	c.ConfigureRoom([]domain.PublisherID{"pub1"}, func(err error) { results <- err })
	require.ErrorIs(t, recv(t, results), ErrNotConnected)
}

func TestConfigureRoom_CallbacksNeverRunInline(t *testing.T) {
	f := newFocus(t)
	c, _ := connect(t, f, Handlers{})
	release := make(chan struct{})
	results := make(chan error, 2)
	done := func(err error) {
		<-release
		results <- err
	}

	c.ConfigureRoom([]domain.PublisherID{"pub1"}, done)
	f.expect(t, "configure_room")

	returned := make(chan struct{})
	go func() {
		c.Close()
		c.ConfigureRoom([]domain.PublisherID{"pub2"}, done)
		close(returned)
	}()
	recv(t, returned)

	close(release)
	require.ErrorIs(t, recv(t, results), ErrNotConnected)
	require.ErrorIs(t, recv(t, results), ErrNotConnected)
}

func TestScaleLocalTrack(t *testing.T) {
	f := newFocus(t)
	c, _ := connect(t, f, Handlers{})

	stream := c.LocalStreams()[0]
	c.ScaleLocalTrack(stream, 2)
	msg := f.expect(t, "scale")
	require.Equal(t, "local-1", msg["stream"])
	require.InDelta(t, 2.0, msg["factor"], 0.0001)
	require.InDelta(t, 2.0, stream.(*rtc.LocalStream).ScaleFactor(), 0.0001)
}

func TestAttachDetach(t *testing.T) {
	f := newFocus(t)
	c, _ := connect(t, f, Handlers{})
	p := c.Participants()[0]

	p.Attach()
	p.Attach()
	require.Equal(t, "p1", f.expect(t, "attach")["participant"])
	p.Detach(true)
	msg := f.expect(t, "detach")
	require.Equal(t, "p1", msg["participant"])
	require.Equal(t, true, msg["final"])
	require.Nil(t, p.Streams())
}

func TestHangup_DoesNotReportEnded(t *testing.T) {
	f := newFocus(t)
	var ended atomic.Bool
	c, _ := connect(t, f, Handlers{OnEnded: func() { ended.Store(true) }})

	c.Hangup()
	f.expect(t, "hangup")
	recv(t, c.Done())
	require.False(t, ended.Load())
	require.ErrorIs(t, c.TrySend([]byte("{}")), ErrNotConnected)
}

func TestRemoteEnd_ReportsEnded(t *testing.T) {
	f := newFocus(t)
	ended := make(chan struct{}, 1)
	c, conn := connect(t, f, Handlers{OnEnded: func() { ended <- struct{}{} }})

	send(t, conn, `{"type":"ended"}`)
	recv(t, ended)
	recv(t, c.Done())
}

func TestDroppedConnection_ReportsEnded(t *testing.T) {
	f := newFocus(t)
	ended := make(chan struct{}, 1)
	_, conn := connect(t, f, Handlers{OnEnded: func() { ended <- struct{}{} }})

	require.NoError(t, conn.Close())
	recv(t, ended)
}

func TestInviteAndMissedCall(t *testing.T) {
	f := newFocus(t)
	invites := make(chan string, 1)
	missed := make(chan string, 1)
	_, conn := connect(t, f, Handlers{
		OnInvite:     func(o domain.Identity, room string) { invites <- o.URI + " " + room },
		OnMissedCall: func(o domain.Identity) { missed <- o.URI },
	})

	send(t, conn, `{"type":"conference_invite","originator":{"uri":"alice@example.com"},"room":"retro@conference.example.com"}`)
	require.Equal(t, "alice@example.com retro@conference.example.com", recv(t, invites))
	send(t, conn, `{"type":"missed_call","originator":{"uri":"bob@example.com"}}`)
	require.Equal(t, "bob@example.com", recv(t, missed))
}
