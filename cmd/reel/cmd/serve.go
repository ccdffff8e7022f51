package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-drift/reel/cmd/reel/internal/stream"
	"github.com/go-drift/reel/pkg/animation"
	"github.com/go-drift/reel/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "serve",
		Short: "Stream playback to WebSocket clients",
		Long: `Run a sprite on a real-time frame loop and stream it over WebSocket.

Clients connected to /frames receive the fitted bounds, the cell style and a
frame event on every change. /control accepts play, part, range, stop, loop
and resize commands. /health reports status as JSON.`,
		Usage: "reel serve [-config reel.yaml] [-addr :8080] [-part name] [-w 400 -h 100]",
		Run:   runServe,
	})
}

type serveOptions struct {
	config string
	addr   string
	part   string
	width  float64
	height float64
}

func parseServeArgs(args []string) (serveOptions, error) {
	var opts serveOptions
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.config, "config", "", "descriptor path (default ./"+config.DefaultFileName+")")
	fs.StringVar(&opts.addr, "addr", "", "listen address, overrides player.serve.addr")
	fs.StringVar(&opts.part, "part", "", "part to play on start instead of the whole sheet")
	fs.Float64Var(&opts.width, "w", 0, "viewport width (default frame width)")
	fs.Float64Var(&opts.height, "h", 0, "viewport height (default frame height)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.width < 0 || opts.height < 0 {
		return opts, fmt.Errorf("-w and -h must not be negative")
	}
	return opts, nil
}

func runServe(args []string) error {
	opts, err := parseServeArgs(args)
	if err != nil {
		return err
	}
	desc, err := loadDescriptor(opts.config)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		desc.Player.Serve.Addr = opts.addr
	}
	logger := setupLogging(desc.Player.LogLevel)

	sched := animation.NewScheduler(nil)
	s, err := newSprite(desc, sched, logger)
	if err != nil {
		return err
	}
	vp := viewportFor(desc, opts.width, opts.height)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	detach, err := attachPublisher(ctx, desc.Player.MQTT, s, logger)
	if err != nil {
		return err
	}

	srv := stream.NewServer(s, vp, sched, time.Now, logger.With().Str("component", "stream").Logger())
	httpSrv := &http.Server{
		Addr:         desc.Player.Serve.Addr,
		Handler:      srv.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var startErr error
	sched.Dispatch(func() {
		s.Mount(vp)
		if opts.part != "" {
			if _, startErr = startPlayback(s, opts.part); startErr != nil {
				cancel()
			}
		}
	})

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		_ = sched.Run(ctx, desc.Player.FrameRate)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpSrv.Addr).Msg("HTTP server starting")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	case err = <-serveErr:
		cancel()
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	srv.Close()
	_ = httpSrv.Shutdown(shutdownCtx)

	cancel()
	<-loopDone
	detach()
	s.Unmount()

	if startErr != nil {
		return startErr
	}
	return err
}
