package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-drift/reel/cmd/reel/internal/publish"
	"github.com/go-drift/reel/pkg/animation"
	"github.com/go-drift/reel/pkg/config"
	"github.com/go-drift/reel/pkg/sprite"
)

func init() {
	RegisterCommand(&Command{
		Name:  "play",
		Short: "Play a sprite headlessly and log its frames",
		Long: `Play a sprite described by a descriptor on a real-time frame loop.

Frame and status changes are logged. With an MQTT broker configured, in the
descriptor or with -mqtt, every change is also published as a binary frame
event. Playback without looping exits once it completes; looping playback
runs until interrupted or until -duration elapses.`,
		Usage: "reel play [-config reel.yaml] [-part name] [-duration 10s] [-mqtt tcp://host:1883] [-w 400 -h 100]",
		Run:   runPlay,
	})
}

type playOptions struct {
	config   string
	part     string
	duration time.Duration
	broker   string
	width    float64
	height   float64
}

func parsePlayArgs(args []string) (playOptions, error) {
	var opts playOptions
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.config, "config", "", "descriptor path (default ./"+config.DefaultFileName+")")
	fs.StringVar(&opts.part, "part", "", "part to play instead of the whole sheet")
	fs.DurationVar(&opts.duration, "duration", 0, "stop after this long (0 runs until done)")
	fs.StringVar(&opts.broker, "mqtt", "", "MQTT broker URL, overrides player.mqtt.broker")
	fs.Float64Var(&opts.width, "w", 0, "viewport width (default frame width)")
	fs.Float64Var(&opts.height, "h", 0, "viewport height (default frame height)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.duration < 0 || opts.width < 0 || opts.height < 0 {
		return opts, fmt.Errorf("-duration, -w and -h must not be negative")
	}
	return opts, nil
}

func runPlay(args []string) error {
	opts, err := parsePlayArgs(args)
	if err != nil {
		return err
	}
	desc, err := loadDescriptor(opts.config)
	if err != nil {
		return err
	}
	if opts.broker != "" {
		desc.Player.MQTT.Broker = opts.broker
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
	if opts.duration > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, opts.duration)
		defer cancelTimeout()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.AddFrameListener(func(frame int) {
		logger.Info().Int("frame", frame).Msg("frame")
	})
	s.AddStatusListener(func(st sprite.Status) {
		logger.Info().Stringer("status", st).Uint64("generation", s.Generation()).Msg("status")
	})
	s.AddCompleteListener(func(*sprite.Playback) {
		if !s.Loop() {
			cancel()
		}
	})

	detach, err := attachPublisher(ctx, desc.Player.MQTT, s, logger)
	if err != nil {
		return err
	}
	defer detach()

	var startErr error
	sched.Dispatch(func() {
		s.Mount(vp)
		if opts.part != "" || !s.IsPlaying() {
			if _, startErr = startPlayback(s, opts.part); startErr != nil {
				cancel()
			}
		}
	})

	logger.Info().
		Int("frames", desc.Frames).
		Float64("fps", desc.FPS).
		Bool("loop", s.Loop()).
		Float64("frame_rate", desc.Player.FrameRate).
		Msg("playing")

	err = sched.Run(ctx, desc.Player.FrameRate)
	// The loop has stopped, so this goroutine owns the sprite again.
	s.Unmount()
	if startErr != nil {
		return startErr
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	logger.Info().Stringer("status", s.Status()).Msg("playback finished")
	return nil
}

// viewportFor returns a viewport of the given size, defaulting to one frame.
func viewportFor(d *config.Descriptor, width, height float64) *sprite.Viewport {
	if width == 0 {
		width = d.FrameSize.Width
	}
	if height == 0 {
		height = d.FrameSize.Height
	}
	return sprite.NewViewport(width, height)
}

// attachPublisher publishes s's frame events when cfg names a broker. The
// publisher runs until ctx is done. The returned function detaches and
// disconnects.
func attachPublisher(ctx context.Context, cfg config.MQTTConfig, s *sprite.Sprite, logger zerolog.Logger) (func(), error) {
	if cfg.Broker == "" {
		return func() {}, nil
	}
	client, err := publish.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}
	pub := publish.New(client, cfg, logger)
	detach := pub.Attach(s, time.Now)
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = pub.Run(ctx)
	}()
	return func() {
		detach()
		<-done
		client.Disconnect(250)
	}, nil
}
