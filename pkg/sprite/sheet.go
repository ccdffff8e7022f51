package sprite

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-drift/reel/pkg/geometry"
)

var (
	// ErrInvalidSheet is wrapped by errors describing a malformed Sheet.
	ErrInvalidSheet = errors.New("invalid sprite sheet")
	// ErrUnknownPart is wrapped by errors from PlayPart for undefined names.
	ErrUnknownPart = errors.New("unknown part")
	// ErrFrameOutOfRange is wrapped by errors for frame indices outside the sheet.
	ErrFrameOutOfRange = errors.New("frame out of range")
)

// Sheet describes the layout and timing of a sprite sheet: a grid of
// Columns x Rows cells of FrameSize pixels, of which the first Frames are
// animation frames played at FPS frames per second.
type Sheet struct {
	Columns   int
	Rows      int
	Frames    int
	FPS       float64
	FrameSize geometry.Size
}

// Part is an inclusive range of frames, such as a "walk" cycle.
type Part struct {
	Start int
	End   int
}

// Validate reports the first problem with the sheet, wrapping ErrInvalidSheet.
func (s Sheet) Validate() error {
	switch {
	case s.Columns <= 0:
		return fmt.Errorf("%w: columns must be positive, got %d", ErrInvalidSheet, s.Columns)
	case s.Rows <= 0:
		return fmt.Errorf("%w: rows must be positive, got %d", ErrInvalidSheet, s.Rows)
	case s.Frames <= 0:
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidSheet, s.Frames)
	case s.Frames > s.Columns*s.Rows:
		return fmt.Errorf("%w: %d frames do not fit a %dx%d grid", ErrInvalidSheet, s.Frames, s.Columns, s.Rows)
	case !isPositive(s.FPS):
		return fmt.Errorf("%w: fps must be positive, got %v", ErrInvalidSheet, s.FPS)
	case !isPositive(s.FrameSize.Width) || !isPositive(s.FrameSize.Height):
		return fmt.Errorf("%w: frame size must be positive, got %vx%v", ErrInvalidSheet, s.FrameSize.Width, s.FrameSize.Height)
	}
	return nil
}

func isPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// AspectRatio returns the width/height ratio of one frame.
func (s Sheet) AspectRatio() float64 {
	return s.FrameSize.AspectRatio()
}

// LastFrame returns the index of the final animation frame.
func (s Sheet) LastFrame() int {
	return s.Frames - 1
}

// Duration returns how long playing from start to end takes:
// (end-start) frames at FPS. It is negative when end < start.
func (s Sheet) Duration(start, end int) time.Duration {
	return time.Duration(float64(end-start) * float64(time.Second) / s.FPS)
}

// Contains reports whether frame is a valid frame index.
func (s Sheet) Contains(frame int) bool {
	return frame >= 0 && frame < s.Frames
}

func (s Sheet) checkPart(name string, p Part) error {
	if !s.Contains(p.Start) || !s.Contains(p.End) {
		return fmt.Errorf("%w: part %q [%d, %d] outside [0, %d]", ErrFrameOutOfRange, name, p.Start, p.End, s.LastFrame())
	}
	return nil
}
