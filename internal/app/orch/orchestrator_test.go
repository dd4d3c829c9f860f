package orch

import (
	"errors"
	"testing"
	"time"

	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/core/coretest"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/dkeye/confbox/internal/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const publicURL = "https://meet.example.com"

type fixture struct {
	sched    *coretest.Scheduler
	call     *coretest.Call
	audio    *coretest.Track
	video    *coretest.Track
	stream   *coretest.Stream
	sink     *coretest.Sink
	renderer *coretest.Renderer
	sounds   *coretest.Sounds
	fs       *coretest.Fullscreen
	o        *Orchestrator
}

func newFixture(t *testing.T, initial []core.Participant, opts Options, with ...func(*Deps)) *fixture {
	t.Helper()
	f := &fixture{
		sched:    coretest.NewScheduler(),
		audio:    coretest.NewTrack(domain.KindAudio),
		video:    coretest.NewTrack(domain.KindVideo),
		sink:     &coretest.Sink{},
		renderer: &coretest.Renderer{},
		sounds:   &coretest.Sounds{},
		fs:       &coretest.Fullscreen{Supported: true},
	}
	f.stream = coretest.NewStream("local", f.audio, f.video)
	f.call = coretest.NewCall(f.stream)
	f.call.Initial = initial
	if opts.PublicURL == "" {
		opts.PublicURL = publicURL
	}
	deps := Deps{
		Call:       f.call,
		Sched:      f.sched,
		Renderer:   f.renderer,
		LargeVideo: f.sink,
		Fullscreen: f.fs,
		Sounds:     f.sounds,
	}
	for _, fn := range with {
		fn(&deps)
	}
	f.o = New(deps, opts)
	return f
}

func (f *fixture) mount() *fixture {
	f.o.Mount()
	f.sched.Flush()
	return f
}

func speakerIDs(s core.Snapshot) []domain.ParticipantID {
	out := []domain.ParticipantID{}
	for _, p := range s.ActiveSpeakers {
		out = append(out, p.ID)
	}
	return out
}

func TestMount_AloneShowsSelfLarge(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{})

	f.o.Mount()
	req.Empty(f.sink.Attached, "local feed is attached on the next turn")

	f.sched.Flush()
	snap := f.renderer.Last()
	req.True(snap.Mounted)
	req.True(snap.SelfDisplayedLarge)
	req.Equal([]core.Stream{f.stream}, f.sink.Attached)
	req.Equal(1, f.sink.Plays)
	req.True(snap.Overlay.Visible)
	req.Equal(1, snap.ParticipantCount)
	req.Equal(domain.RoomName("standup"), snap.Room)
	req.Equal(publicURL+"/conference/standup", snap.CallURL)
	req.NotNil(f.call.Observer)
}

func TestMount_AttachesInitialParticipants(t *testing.T) {
	req := require.New(t)
	alice := coretest.NewParticipant("alice")
	f := newFixture(t, []core.Participant{alice}, Options{}).mount()

	req.Equal(1, alice.Attaches)
	req.True(alice.Observed())
	req.Empty(f.sink.Attached)
	snap := f.renderer.Last()
	req.False(snap.SelfDisplayedLarge)
	req.Equal(2, snap.ParticipantCount)
	req.True(snap.SelfThumbnail)
}

func TestMount_Twice(t *testing.T) {
	f := newFixture(t, nil, Options{}).mount()
	f.o.Mount()
	f.sched.Flush()
	require.Len(t, f.sink.Attached, 1)
}

func TestParticipantJoinLeave_SwitchesLargeVideo(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{}).mount()
	alice := coretest.NewParticipant("alice")

	f.call.Observer.ParticipantJoined(alice)
	snap := f.renderer.Last()
	req.False(snap.SelfDisplayedLarge)
	req.Len(snap.Participants, 1)
	req.Equal("alice", snap.Participants[0].Name)
	req.Equal([]domain.Sound{domain.SoundParticipantJoined}, f.sounds.Played)

	f.call.Observer.ParticipantLeft(alice)
	snap = f.renderer.Last()
	req.True(snap.SelfDisplayedLarge)
	req.Empty(snap.Participants)
	req.Equal([]bool{true}, alice.Detaches)
	req.Len(f.sink.Attached, 2)
	req.Equal(domain.SoundParticipantLeft, f.sounds.Played[1])
}

func TestParticipantJoin_Duplicate(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{}).mount()
	alice := coretest.NewParticipant("alice")

	f.o.ParticipantJoined(alice)
	f.o.ParticipantJoined(alice)

	req.Len(f.renderer.Last().Participants, 1)
	req.Equal(1, alice.Attaches)
	req.Len(f.sounds.Played, 1)
}

func TestParticipantLeft_UnknownIsNoop(t *testing.T) {
	req := require.New(t)
	alice := coretest.NewParticipant("alice")
	f := newFixture(t, []core.Participant{alice}, Options{}).mount()
	ghost := coretest.NewParticipant("ghost")

	f.o.ParticipantLeft(ghost)

	req.Empty(ghost.Detaches)
	req.Len(f.renderer.Last().Participants, 1)
}

func TestParticipantLeft_DropsSpeaker(t *testing.T) {
	req := require.New(t)
	alice := coretest.NewParticipant("alice")
	bob := coretest.NewParticipant("bob")
	f := newFixture(t, []core.Participant{alice, bob}, Options{}).mount()

	f.o.SelectSpeaker("alice", domain.SlotPrimary)
	f.o.SelectSpeaker("bob", domain.SlotSecondary)
	req.Equal([]domain.ParticipantID{"alice", "bob"}, speakerIDs(f.renderer.Last()))

	f.o.ParticipantLeft(alice)
	req.Equal([]domain.ParticipantID{"bob"}, speakerIDs(f.renderer.Last()))
}

func TestParticipantState_IsRendered(t *testing.T) {
	req := require.New(t)
	alice := coretest.NewParticipant("alice")
	f := newFixture(t, []core.Participant{alice}, Options{}).mount()

	alice.SetState(domain.StateEstablished)

	snap := f.renderer.Last()
	req.Equal(domain.StateEstablished, snap.Participants[0].State)
	req.False(snap.SelfDisplayedLarge)
}

func TestParticipantState_EndedRechecksLargeVideo(t *testing.T) {
	req := require.New(t)
	alice := coretest.NewParticipant("alice")
	f := newFixture(t, []core.Participant{alice}, Options{}).mount()
	req.Empty(f.sink.Attached)

	// local feed not available yet when alice leaves
	f.call.Streams = nil
	f.o.ParticipantLeft(alice)
	req.Empty(f.sink.Attached)
	req.False(f.renderer.Last().SelfDisplayedLarge)

	f.call.Streams = []core.Stream{f.stream}
	alice.SetState(domain.StateConnecting)
	req.Empty(f.sink.Attached)
	req.False(f.renderer.Last().SelfDisplayedLarge)

	alice.SetState(domain.StateEnded)
	req.Equal([]core.Stream{f.stream}, f.sink.Attached)
	req.Equal(1, f.sink.Plays)
	req.True(f.renderer.Last().SelfDisplayedLarge)
}

func TestSelectSpeaker_OptimisticAndPublisherIDs(t *testing.T) {
	req := require.New(t)
	alice := coretest.NewParticipant("alice")
	bob := coretest.NewParticipant("bob")
	f := newFixture(t, []core.Participant{alice, bob}, Options{}).mount()

	req.True(f.o.SelectSpeaker("alice", domain.SlotPrimary))
	req.True(f.o.SelectSpeaker("bob", domain.SlotSecondary))

	req.Equal([]domain.PublisherID{"pub-alice", "pub-bob"}, f.call.LastConfigure())
	snap := f.renderer.Last()
	req.Equal([]domain.ParticipantID{"alice", "bob"}, speakerIDs(snap))
	req.True(snap.Participants[0].Featured)
	req.Empty(snap.EventLog)
}

func TestSelectSpeaker_ClearPrimaryTwice(t *testing.T) {
	req := require.New(t)
	alice := coretest.NewParticipant("alice")
	bob := coretest.NewParticipant("bob")
	f := newFixture(t, []core.Participant{alice, bob}, Options{}).mount()
	f.o.SelectSpeaker("alice", domain.SlotPrimary)
	f.o.SelectSpeaker("bob", domain.SlotSecondary)

	f.o.SelectSpeaker(domain.NoneID, domain.SlotPrimary)
	req.Equal([]domain.ParticipantID{"bob"}, speakerIDs(f.renderer.Last()))

	f.o.SelectSpeaker(domain.NoneID, domain.SlotPrimary)
	req.Empty(speakerIDs(f.renderer.Last()))
	req.Empty(f.call.LastConfigure())
}

func TestSelectSpeaker_SecondaryOnEmptyIsPrimary(t *testing.T) {
	carol := coretest.NewParticipant("carol")
	f := newFixture(t, []core.Participant{carol}, Options{}).mount()

	f.o.SelectSpeaker("carol", domain.SlotSecondary)

	require.Equal(t, []domain.ParticipantID{"carol"}, speakerIDs(f.renderer.Last()))
}

func TestSelectSpeaker_Self(t *testing.T) {
	req := require.New(t)
	alice := coretest.NewParticipant("alice")
	f := newFixture(t, []core.Participant{alice}, Options{}).mount()

	req.True(f.o.SelectSpeaker("call-1", domain.SlotPrimary))

	req.Equal([]domain.PublisherID{"call-1"}, f.call.LastConfigure())
	snap := f.renderer.Last()
	req.True(snap.ActiveSpeakers[0].IsLocal)
	req.False(snap.SelfThumbnail)
}

func TestSelectSpeaker_Unknown(t *testing.T) {
	f := newFixture(t, nil, Options{}).mount()

	require.False(t, f.o.SelectSpeaker("mallory", domain.SlotPrimary))
	require.Empty(t, f.call.Configures)
}

func TestSelectSpeaker_FailureKeepsListAndLogs(t *testing.T) {
	req := require.New(t)
	alice := coretest.NewParticipant("alice")
	f := newFixture(t, []core.Participant{alice}, Options{}).mount()

	f.o.SelectSpeaker("alice", domain.SlotPrimary)
	f.call.Complete(errors.New("rejected"))

	snap := f.renderer.Last()
	req.Equal([]domain.ParticipantID{"alice"}, speakerIDs(snap))
	req.Len(snap.EventLog, 1)
	req.Equal(core.LevelError, snap.EventLog[0].Level)
	req.Equal("set speakers failed", snap.EventLog[0].Action)
	req.Equal("Me", snap.EventLog[0].Originator)
}

func TestSelectSpeaker_FailureAfterHangupIsDiscarded(t *testing.T) {
	alice := coretest.NewParticipant("alice")
	f := newFixture(t, []core.Participant{alice}, Options{}).mount()

	f.o.SelectSpeaker("alice", domain.SlotPrimary)
	f.o.Hangup()
	frames := len(f.renderer.Frames)
	f.call.Complete(errors.New("rejected"))

	require.Len(t, f.renderer.Frames, frames)
	require.Empty(t, f.o.Snapshot().EventLog)
}

func TestRoomConfigured_IsAuthoritative(t *testing.T) {
	req := require.New(t)
	alice := coretest.NewParticipant("alice")
	bob := coretest.NewParticipant("bob")
	f := newFixture(t, []core.Participant{alice, bob}, Options{}).mount()
	focus := domain.Identity{URI: "focus@conference.example.com"}

	f.o.SelectSpeaker("alice", domain.SlotPrimary)
	f.call.Observer.RoomConfigured(core.RoomConfig{ActiveParticipants: []core.Featured{bob}, Originator: focus})

	snap := f.renderer.Last()
	req.Equal([]domain.ParticipantID{"bob"}, speakerIDs(snap))
	req.Equal("set speakers to", snap.EventLog[0].Action)
	req.Equal([]string{"bob"}, snap.EventLog[0].Messages)
	req.Equal(focus.URI, snap.EventLog[0].Originator)
}

func TestRoomConfigured_EmptyIsNobody(t *testing.T) {
	f := newFixture(t, nil, Options{}).mount()

	f.o.RoomConfigured(core.RoomConfig{})

	require.Equal(t, []string{"Nobody"}, f.renderer.Last().EventLog[0].Messages)
}

func TestMute_ToggleTwiceRestores(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{}).mount()

	f.o.MuteAudio()
	req.True(f.renderer.Last().AudioMuted)
	req.False(f.audio.Enabled())

	f.o.MuteAudio()
	req.False(f.renderer.Last().AudioMuted)
	req.True(f.audio.Enabled())

	f.o.MuteVideo()
	req.True(f.renderer.Last().VideoMuted)
	req.False(f.video.Enabled())
	req.True(f.audio.Enabled())
}

func TestMute_NoTrackIsNoop(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{})
	f.call.Streams = []core.Stream{coretest.NewStream("audio-only", f.audio)}
	f.mount()
	frames := len(f.renderer.Frames)

	f.o.MuteVideo()

	req.Len(f.renderer.Frames, frames)
	req.False(f.o.Snapshot().VideoMuted)
}

func TestOverlay_HidesAndReturnsOnActivity(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{}).mount()

	f.sched.Advance(3999 * time.Millisecond)
	req.True(f.renderer.Last().Overlay.Visible)

	f.sched.Advance(time.Millisecond)
	req.False(f.renderer.Last().Overlay.Visible)

	f.o.PointerMoved(true)
	req.False(f.o.Snapshot().Overlay.Visible)

	f.o.PointerMoved(false)
	req.True(f.renderer.Last().Overlay.Visible)

	f.sched.Advance(3999 * time.Millisecond)
	f.o.PointerMoved(false)
	f.sched.Advance(3999 * time.Millisecond)
	req.True(f.o.Snapshot().Overlay.Visible)
	f.sched.Advance(time.Millisecond)
	req.False(f.o.Snapshot().Overlay.Visible)
}

func TestOverlay_DrawerHoldsOverlay(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{}).mount()
	f.sched.Advance(4 * time.Second)
	req.False(f.o.Snapshot().Overlay.Visible)

	f.o.ToggleDrawer()
	f.sched.Advance(10 * time.Second)
	snap := f.renderer.Last()
	req.True(snap.Overlay.Visible)
	req.True(snap.Overlay.DrawerOpen)

	f.o.ToggleDrawer()
	f.sched.Advance(4 * time.Second)
	req.False(f.o.Snapshot().Overlay.Visible)
}

func TestOverlay_ShareHoldsOverlay(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{}).mount()

	f.o.ShareOpened()
	f.sched.Advance(10 * time.Second)
	req.True(f.o.Snapshot().Overlay.Visible)

	f.o.ShareClosed()
	req.False(f.o.Snapshot().Overlay.ShareOpen)
	f.sched.Advance(4 * time.Second)
	req.False(f.o.Snapshot().Overlay.Visible)
}

func TestDuration_PushedOnlyWhileVisible(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{}).mount()

	f.sched.Advance(1500 * time.Millisecond)
	req.Equal("00:00:01", f.renderer.Last().Duration)

	f.sched.Advance(2500 * time.Millisecond)
	req.False(f.renderer.Last().Overlay.Visible)
	frames := len(f.renderer.Frames)

	f.sched.Advance(3 * time.Second)
	req.Len(f.renderer.Frames, frames)
	req.Equal("00:00:06", f.o.Snapshot().Duration)
}

func TestHangup_TearsDown(t *testing.T) {
	req := require.New(t)
	alice := coretest.NewParticipant("alice")
	f := newFixture(t, []core.Participant{alice}, Options{}).mount()
	f.o.ToggleFullscreen()
	req.True(f.fs.On)

	f.o.Hangup()

	req.Equal([]bool{false}, alice.Detaches)
	req.Equal(1, f.sink.Pauses)
	req.Equal(1, f.call.HungUp)
	req.Zero(f.sched.Pending())
	req.Equal(1, f.fs.Exits)
	req.False(f.o.Mounted())
	req.False(f.renderer.Last().Mounted)

	frames := len(f.renderer.Frames)
	f.o.ParticipantJoined(coretest.NewParticipant("bob"))
	f.o.Hangup()
	f.sched.Advance(time.Minute)
	req.Len(f.renderer.Frames, frames)
	req.Equal(1, f.call.HungUp)
}

func TestHangup_BeforeLocalFeedAttached(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.o.Mount()
	f.o.Hangup()
	f.sched.Flush()

	require.Empty(t, f.sink.Attached)
	require.Zero(t, f.sched.Pending())
}

func TestUnmount_KeepsCall(t *testing.T) {
	f := newFixture(t, nil, Options{}).mount()
	f.o.Unmount()

	require.Zero(t, f.call.HungUp)
	require.False(t, f.o.Mounted())
}

func TestCopyLink(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	sharer := mocks.NewMockSharer(ctrl)
	notifier := mocks.NewMockNotifier(ctrl)
	f := newFixture(t, nil, Options{}, func(d *Deps) {
		d.Sharer = sharer
		d.Notifier = notifier
	}).mount()

	gomock.InOrder(
		sharer.EXPECT().CopyToClipboard(publicURL+"/conference/standup").Return(nil),
		notifier.EXPECT().PostSystemNotification("Join me, maybe?", core.NotificationOptions{Body: "Link copied to the clipboard"}),
	)

	f.o.ShareOpened()
	f.o.CopyLink()

	req.False(f.renderer.Last().Overlay.ShareOpen)
	// duration ticker plus the re-armed hide timer
	req.Equal(2, f.sched.Pending())
}

func TestEmailLink_FailureStillClosesShare(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	sharer := mocks.NewMockSharer(ctrl)
	f := newFixture(t, nil, Options{}, func(d *Deps) { d.Sharer = sharer }).mount()

	sharer.EXPECT().OpenURL(f.o.Snapshot().EmailLink).Return(errors.New("no mail client"))

	f.o.ShareOpened()
	f.o.EmailLink()

	req.False(f.renderer.Last().Overlay.ShareOpen)
}

func TestToggleInviteModal(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{}).mount()
	f.o.ShareOpened()

	f.o.ToggleInviteModal()
	snap := f.renderer.Last()
	req.True(snap.Overlay.InviteModal)
	req.False(snap.Overlay.ShareOpen)

	f.o.ToggleInviteModal()
	req.False(f.renderer.Last().Overlay.InviteModal)
}

func TestToggleFullscreen_Unsupported(t *testing.T) {
	f := newFixture(t, nil, Options{})
	f.fs.Supported = false
	f.mount()

	f.o.ToggleFullscreen()

	require.Empty(t, f.fs.Targets)
	require.False(t, f.renderer.Last().FullscreenSupported)
}

func TestToggleFullscreen(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{}).mount()

	f.o.ToggleFullscreen()

	req.Equal([]string{FullscreenTarget}, f.fs.Targets)
	req.True(f.renderer.Last().Fullscreen)
}

func TestScaleLocalVideo(t *testing.T) {
	req := require.New(t)
	f := newFixture(t, nil, Options{ScaleLocalVideo: true}).mount()

	for _, id := range []string{"a", "b", "c", "d", "e"} {
		f.o.ParticipantJoined(coretest.NewParticipant(id))
	}

	factors := []float64{}
	for _, s := range f.call.Scales {
		req.Equal(f.stream, s.Stream)
		factors = append(factors, s.Factor)
	}
	req.Equal([]float64{1.5, 2, 2, 2, 1}, factors)
}

func TestScaleLocalVideo_Off(t *testing.T) {
	f := newFixture(t, nil, Options{}).mount()
	f.o.ParticipantJoined(coretest.NewParticipant("a"))
	require.Empty(t, f.call.Scales)
}

func TestDispatch_EventsWaitForTheLoop(t *testing.T) {
	req := require.New(t)
	var queue []func()
	f := newFixture(t, nil, Options{}, func(d *Deps) {
		d.Dispatch = func(fn func()) { queue = append(queue, fn) }
	}).mount()
	alice := coretest.NewParticipant("alice")

	f.call.Observer.ParticipantJoined(alice)
	f.call.Observer.ParticipantLeft(alice)
	req.Empty(f.o.Snapshot().Participants)
	req.Len(queue, 2)

	for _, fn := range queue {
		fn()
	}
	req.Empty(f.o.Snapshot().Participants)
	req.Equal([]bool{true}, alice.Detaches)
}
