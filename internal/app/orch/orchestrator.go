package orch

import (
	"time"

	"github.com/dkeye/confbox/internal/app"
	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/dkeye/confbox/internal/platform/metrics"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// FullscreenTarget is the surface toggled by the fullscreen command.
const FullscreenTarget = "body"

// Deps are the collaborators of a conference session. Only Call and Sched
// are required.
type Deps struct {
	Call       core.Call
	Sched      core.Scheduler
	Renderer   core.Renderer
	LargeVideo core.MediaSink
	Fullscreen core.SupportsFullscreen
	Sharer     core.Sharer
	Notifier   core.Notifier
	Sounds     core.Sounds
	Policy     app.ResolutionPolicy
	Metrics    *metrics.Metrics
	// Dispatch delivers callbacks from foreign goroutines onto the session
	// loop. Nil runs them in place.
	Dispatch func(func())
}

type Options struct {
	PublicURL       string
	OverlayTimeout  time.Duration
	DurationTick    time.Duration
	ScaleLocalVideo bool
}

// Orchestrator is the conference session controller. It owns the session
// state and must only be driven from one goroutine (see Loop).
type Orchestrator struct {
	Deps
	opts Options

	room     domain.Room
	self     core.Self
	events   *core.EventLog
	registry *app.Registry
	speakers *app.SpeakerSelector
	mute     *core.MuteController
	overlay  *core.OverlayTimer
	duration *core.CallDurationClock

	mounted     bool
	selfLarge   bool
	inviteModal bool
	largeTimer  core.Timer
}

func New(deps Deps, opts Options) *Orchestrator {
	if deps.Dispatch == nil {
		deps.Dispatch = func(fn func()) { fn() }
	}
	if deps.Policy == nil {
		deps.Policy = app.StepPolicy{}
	}
	o := &Orchestrator{
		Deps: deps,
		opts: opts,
		room: domain.NewRoom(deps.Call.RemoteIdentity().URI),
		self: core.Self{CallID: deps.Call.ID(), Ident: deps.Call.LocalIdentity()},
	}
	o.events = core.NewEventLog(deps.Sched.Now)
	o.registry = app.NewRegistry(o.stateObserver, o.membershipChanged)
	o.speakers = app.NewSpeakerSelector(deps.Call, o.events, o.self.Ident, o.configureFailed)
	o.mute = core.NewMuteController(deps.Call.LocalStreams)
	o.overlay = core.NewOverlayTimer(deps.Sched, opts.OverlayTimeout, o.render)
	o.duration = core.NewCallDurationClock(deps.Sched, opts.DurationTick, o.overlay.Visible, func(string) { o.render() })
	return o
}

// Mount starts the session on the call: initial participants are attached,
// call events are subscribed and the overlay and duration timers start.
func (o *Orchestrator) Mount() {
	if o.mounted {
		return
	}
	o.mounted = true
	log.Info().Str("module", "orch").Str("call", o.self.CallID).Str("room", string(o.room.Name)).Msg("mount")

	// subscribe first: a join racing the roster read is then seen twice,
	// and the registry ignores the duplicate
	o.Call.Subscribe(observer{o})
	o.speakers.Reset(o.Call.ActiveParticipants())
	for _, p := range o.Call.Participants() {
		o.registry.Add(p)
	}

	o.overlay.Start()
	o.duration.Start()

	// show ourselves first if nobody else is here
	if o.registry.Len() == 0 {
		o.largeTimer = o.Sched.AfterFunc(0, func() {
			o.largeTimer = nil
			if !o.mounted {
				return
			}
			o.maybeSwitchLargeVideo()
			o.render()
		})
	}
	o.render()
}

// Hangup releases every participant's media and ends the call.
func (o *Orchestrator) Hangup() {
	if !o.mounted {
		return
	}
	log.Info().Str("module", "orch").Str("call", o.self.CallID).Msg("hangup")
	o.registry.DetachAll()
	if o.LargeVideo != nil {
		o.LargeVideo.Pause()
	}
	o.Call.Hangup()
	o.teardown()
}

// Unmount tears the session down without hanging up, for calls that were
// ended by the other side.
func (o *Orchestrator) Unmount() {
	if !o.mounted {
		return
	}
	o.teardown()
}

func (o *Orchestrator) teardown() {
	o.overlay.Stop()
	o.duration.Stop()
	if o.largeTimer != nil {
		o.largeTimer.Stop()
		o.largeTimer = nil
	}
	if o.Fullscreen != nil && o.Fullscreen.IsFullScreen() {
		o.Fullscreen.ExitFullscreen()
	}
	o.mounted = false
	if o.Renderer != nil {
		o.Renderer.Render(o.Snapshot())
	}
	log.Info().Str("module", "orch").Str("call", o.self.CallID).Msg("session torn down")
}

func (o *Orchestrator) Mounted() bool { return o.mounted }

// Snapshot is a read-only copy of the session state.
func (o *Orchestrator) Snapshot() core.Snapshot {
	participants := o.registry.Current()
	snap := core.Snapshot{
		Room:               o.room.Name,
		CallURL:            o.room.CallURL(o.opts.PublicURL),
		EmailLink:          o.room.EmailLink(o.opts.PublicURL),
		Mounted:            o.mounted,
		ParticipantCount:   len(participants) + 1,
		SelfThumbnail:      len(participants) > 0 && !o.speakers.Contains(o.self.ID()),
		SelfDisplayedLarge: o.selfLarge,
		AudioMuted:         o.mute.AudioMuted(),
		VideoMuted:         o.mute.VideoMuted(),
		Overlay: core.OverlayDTO{
			Visible:     o.overlay.Visible(),
			ShareOpen:   o.overlay.ShareOpen(),
			DrawerOpen:  o.overlay.DrawerOpen(),
			InviteModal: o.inviteModal,
		},
		Duration: o.duration.Formatted(),
		EventLog: o.events.Snapshot(),
	}
	snap.Participants = lo.Map(participants, func(p core.Participant, _ int) core.ParticipantDTO {
		return o.participantDTO(p)
	})
	snap.ActiveSpeakers = lo.Map(o.speakers.Current(), func(f core.Featured, _ int) core.ParticipantDTO {
		return o.participantDTO(f)
	})
	if o.Fullscreen != nil {
		snap.FullscreenSupported = o.Fullscreen.IsFullscreenSupported()
		snap.Fullscreen = o.Fullscreen.IsFullScreen()
	}
	return snap
}

func (o *Orchestrator) participantDTO(f core.Featured) core.ParticipantDTO {
	ident := f.Identity()
	dto := core.ParticipantDTO{
		ID:          f.ID(),
		PublisherID: f.PublisherID(),
		Name:        ident.Name(),
		URI:         ident.URI,
		Featured:    o.speakers.Contains(f.ID()),
		IsLocal:     f.ID() == o.self.ID(),
	}
	if p, ok := f.(core.Participant); ok {
		dto.State = p.State()
	}
	return dto
}

func (o *Orchestrator) render() {
	o.Metrics.SetEventLogEntries(o.events.Len())
	if o.Renderer == nil || !o.mounted {
		return
	}
	o.Renderer.Render(o.Snapshot())
}

// observer receives call events and hands them to the session loop.
type observer struct{ o *Orchestrator }

func (ob observer) ParticipantJoined(p core.Participant) {
	ob.o.Dispatch(func() { ob.o.ParticipantJoined(p) })
}

func (ob observer) ParticipantLeft(p core.Participant) {
	ob.o.Dispatch(func() { ob.o.ParticipantLeft(p) })
}

func (ob observer) RoomConfigured(cfg core.RoomConfig) {
	ob.o.Dispatch(func() { ob.o.RoomConfigured(cfg) })
}
