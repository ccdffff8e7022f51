package cmd

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/go-drift/reel/pkg/animation"
	"github.com/go-drift/reel/pkg/config"
	"github.com/go-drift/reel/pkg/geometry"
	"github.com/go-drift/reel/pkg/present"
	"github.com/go-drift/reel/pkg/sprite"
)

// maxRenderFrames bounds how many images one render writes.
const maxRenderFrames = 10000

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Render one playback to PNG files",
		Long: `Render a single playback of a sprite to numbered PNG files.

The sheet image (PNG, JPEG, GIF, BMP or WebP) is decoded once. Playback is
stepped on a simulated clock at the sheet's frame rate, one image per step,
so the output does not depend on machine speed. Looping is disabled.`,
		Usage: "reel render [-config reel.yaml] [-sheet walk.png] [-out frames] [-part name] [-w 400 -h 100]",
		Run:   runRender,
	})
}

type renderOptions struct {
	config string
	sheet  string
	out    string
	part   string
	width  float64
	height float64
}

func parseRenderArgs(args []string) (renderOptions, error) {
	var opts renderOptions
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.config, "config", "", "descriptor path (default ./"+config.DefaultFileName+")")
	fs.StringVar(&opts.sheet, "sheet", "", "sheet image path (default the descriptor url)")
	fs.StringVar(&opts.out, "out", "frames", "output directory")
	fs.StringVar(&opts.part, "part", "", "part to render instead of the whole sheet")
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

func runRender(args []string) error {
	opts, err := parseRenderArgs(args)
	if err != nil {
		return err
	}
	desc, err := loadDescriptor(opts.config)
	if err != nil {
		return err
	}
	logger := setupLogging(desc.Player.LogLevel)

	path := opts.sheet
	if path == "" {
		path = desc.URL
	}
	if path == "" {
		return fmt.Errorf("no sheet image: pass -sheet or set url in the descriptor")
	}
	img, format, err := decodeImage(path)
	if err != nil {
		return err
	}
	logger.Debug().Str("path", path).Str("format", format).Stringer("size", img.Bounds().Size()).Msg("sheet decoded")

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return err
	}

	written, err := renderFrames(desc, img, opts, logger)
	if err != nil {
		return err
	}
	logger.Info().Int("images", written).Str("out", opts.out).Msg("render complete")
	return nil
}

func decodeImage(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return img, format, nil
}

// renderFrames steps one playback on a simulated clock and writes one PNG
// per step. It returns the number of images written.
func renderFrames(desc *config.Descriptor, img image.Image, opts renderOptions, logger zerolog.Logger) (int, error) {
	desc.Loop = sprite.Bool(false)
	desc.AutoPlay = sprite.Bool(false)

	now := time.Unix(0, 0)
	sched := animation.NewScheduler(animation.ClockFunc(func() time.Time { return now }))

	s, err := newSprite(desc, sched, logger)
	if err != nil {
		return 0, err
	}
	vp := viewportFor(desc, opts.width, opts.height)
	s.Mount(vp)
	defer s.Unmount()

	pb, err := startPlayback(s, opts.part)
	if err != nil {
		return 0, err
	}

	container := vp.Bounds().Size()
	step := time.Duration(float64(time.Second) / desc.FPS)
	painter := present.Painter{}
	for i := 0; i < maxRenderFrames; i++ {
		sched.StepFrame()
		if err := writeFrame(filepath.Join(opts.out, frameName(i)), painter, container, img, s); err != nil {
			return i, err
		}
		select {
		case <-pb.Done():
			return i + 1, nil
		default:
		}
		now = now.Add(step)
	}
	return maxRenderFrames, fmt.Errorf("playback did not complete within %d frames", maxRenderFrames)
}

func frameName(i int) string {
	return fmt.Sprintf("frame_%03d.png", i)
}

func writeFrame(path string, painter present.Painter, container geometry.Size, img image.Image, s *sprite.Sprite) error {
	out, err := painter.Render(container, img, s.Sheet(), s.View())
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
