package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	router "github.com/dkeye/confbox/internal/adapters/http"
	"github.com/dkeye/confbox/internal/adapters/rtc"
	sig "github.com/dkeye/confbox/internal/adapters/signal"
	"github.com/dkeye/confbox/internal/adapters/ui"
	"github.com/dkeye/confbox/internal/app"
	"github.com/dkeye/confbox/internal/app/notify"
	"github.com/dkeye/confbox/internal/app/orch"
	"github.com/dkeye/confbox/internal/config"
	"github.com/dkeye/confbox/internal/core"
	"github.com/dkeye/confbox/internal/domain"
	"github.com/dkeye/confbox/internal/platform/metrics"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
)

const (
	connectTimeout  = 15 * time.Second
	shutdownTimeout = 5 * time.Second
)

func newServeCmd() *cobra.Command {
	var (
		port int
		room string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Join the configured room and serve the session UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// early console logger so config loading can report
			setupLogging("debug", zerolog.InfoLevel.String())

			cfg, err := config.Load(envName)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("room") {
				cfg.Room = room
			}
			setupLogging(cfg.Mode, cfg.LogLevel)

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "HTTP port, overrides the config")
	cmd.Flags().StringVar(&room, "room", "", "conference room URI, overrides the config")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	local, err := domain.NewIdentity(cfg.LocalURI, cfg.LocalDisplayName)
	if err != nil {
		return fmt.Errorf("local identity: %w", err)
	}
	remote, err := domain.NewIdentity(cfg.Room, "")
	if err != nil {
		return fmt.Errorf("room identity: %w", err)
	}

	m := metrics.New()
	clock := clockwork.NewRealClock()
	loop := orch.NewLoop(0)

	stream, err := rtc.NewLocalStream(uuid.NewString())
	if err != nil {
		return fmt.Errorf("local stream: %w", err)
	}
	defer stream.Close()

	hub := ui.NewHub(ui.Config{
		Post:       loop.Post,
		Limiter:    ui.NewRateLimiter(cfg.CommandRateLimit, cfg.CommandRateInterval, clock),
		Metrics:    m,
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
	})
	center := notify.NewCenter(hub, notify.Config{Icon: cfg.NotificationIcon, GuestDomain: cfg.GuestDomain}, clock)

	// The call outlives ctx so a signal can still hang up cleanly.
	callCtx, endCall := context.WithCancel(context.WithoutCancel(ctx))
	defer endCall()

	var session *orch.Orchestrator
	client := sig.New(sig.Config{
		URL:        cfg.SignalingURL,
		Room:       remote,
		Local:      local,
		Streams:    []core.Stream{stream},
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
	}, sig.Handlers{
		OnInvite: func(originator domain.Identity, room string) {
			loop.Post(func() {
				center.PostConferenceInvite(originator, room, func(room string) {
					if err := hub.OpenURL(domain.NewRoom(room).CallURL(cfg.PublicURL)); err != nil {
						log.Warn().Err(err).Str("module", "main").Str("room", room).Msg("invite not opened")
					}
				})
			})
		},
		OnMissedCall: func(originator domain.Identity) {
			loop.Post(func() {
				center.PostMissedCall(originator, func(uri string) {
					log.Info().Str("module", "main").Str("uri", uri).Msg("call back requested")
				})
			})
		},
		OnEnded: func() {
			loop.Post(func() {
				if session != nil {
					session.Unmount()
				}
			})
		},
	})

	go func() {
		<-callCtx.Done()
		client.Close()
	}()
	connectCtx, cancelConnect := context.WithTimeout(ctx, connectTimeout)
	defer cancelConnect()
	if err := client.Connect(connectCtx); err != nil {
		return fmt.Errorf("join %s: %w", cfg.Room, err)
	}

	session = orch.New(orch.Deps{
		Call:       client,
		Sched:      app.NewLoopScheduler(clock, loop.Post),
		Renderer:   hub,
		LargeVideo: hub.LargeVideo(),
		Fullscreen: hub,
		Sharer:     hub,
		Notifier:   center,
		Sounds:     hub,
		Policy:     app.StepPolicy{},
		Metrics:    m,
		Dispatch:   loop.Post,
	}, orch.Options{
		PublicURL:       cfg.PublicURL,
		OverlayTimeout:  cfg.OverlayTimeout,
		DurationTick:    cfg.DurationTick,
		ScaleLocalVideo: cfg.ScaleLocalVideo,
	})
	hub.Bind(session, center)
	loop.Post(session.Mount)

	r := router.SetupRouter(ctx, cfg, router.Deps{
		Hub: hub,
		Snapshot: func(ctx context.Context) (core.Snapshot, error) {
			var snap core.Snapshot
			err := loop.Do(ctx, func() { snap = session.Snapshot() })
			return snap, err
		},
		Metrics: m,
	})
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	p := pool.New().WithErrors().WithContext(ctx)
	for _, feed := range []struct {
		addr  string
		track *rtc.LocalTrack
	}{
		{cfg.AudioRTPAddr, stream.Audio()},
		{cfg.VideoRTPAddr, stream.Video()},
	} {
		feed := feed
		if feed.addr == "" {
			continue
		}
		src, err := rtc.ListenUDP(feed.addr)
		if err != nil {
			endCall()
			return err
		}
		log.Info().Str("module", "main").Str("addr", feed.addr).Str("kind", string(feed.track.Kind())).Msg("local feed listening")
		p.Go(func(context.Context) error {
			if err := rtc.Ingest(callCtx, src, feed.track); err != nil {
				log.Warn().Err(err).Str("module", "main").Msg("local feed stopped")
			}
			return nil
		})
	}
	p.Go(func(context.Context) error {
		if err := loop.Run(callCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	p.Go(func(context.Context) error {
		log.Info().Str("module", "main").Str("addr", addr).Str("room", cfg.Room).Msg("confbox server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			endCall()
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "main").Msg("shutting down")
			hangupCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			if err := loop.Do(hangupCtx, session.Hangup); err != nil {
				log.Warn().Err(err).Str("module", "main").Msg("hangup on shutdown")
			}
			cancel()
		case <-client.Done():
			log.Info().Str("module", "main").Msg("call ended")
		case <-callCtx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Str("module", "main").Msg("server forced to shutdown")
		}
		endCall()
		return nil
	})

	err = p.Wait()
	log.Info().Str("module", "main").Msg("confbox exited")
	return err
}
