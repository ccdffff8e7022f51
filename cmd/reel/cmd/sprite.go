package cmd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/go-drift/reel/pkg/animation"
	"github.com/go-drift/reel/pkg/config"
	"github.com/go-drift/reel/pkg/sprite"
)

// loadDescriptor reads path, or reel.yaml in the working directory when
// path is empty.
func loadDescriptor(path string) (*config.Descriptor, error) {
	if path != "" {
		return config.Load(path)
	}
	d, err := config.LoadOptional(".")
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("no descriptor: pass -config or create %s", config.DefaultFileName)
	}
	return d, nil
}

// newSprite builds a sprite from d driven by sched.
func newSprite(d *config.Descriptor, sched animation.FrameScheduler, logger zerolog.Logger) (*sprite.Sprite, error) {
	opts, err := d.Options()
	if err != nil {
		return nil, err
	}
	opts.Scheduler = sched
	spriteLog := logger.With().Str("component", "sprite").Logger()
	opts.Logger = &spriteLog
	return sprite.New(d.Sheet(), opts)
}

// startPlayback plays part, or the whole sheet when part is empty. It must
// run on the frame loop.
func startPlayback(s *sprite.Sprite, part string) (*sprite.Playback, error) {
	if part == "" {
		return s.Play(), nil
	}
	return s.PlayPart(part)
}
