package sprite

import (
	"github.com/rs/zerolog"

	"github.com/go-drift/reel/pkg/animation"
)

// Options configures a Sprite beyond its sheet.
type Options struct {
	// Parts maps names to frame ranges for PlayPart.
	Parts map[string]Part
	// Loop restarts playback from the first frame after each completion.
	// Defaults to true.
	Loop *bool
	// AutoPlay starts playback on Mount. Defaults to true.
	AutoPlay *bool
	// Debug asks presentation layers to tint the viewport and cell.
	Debug bool
	// URL references the sheet image. It is opaque to playback.
	URL string
	// Curve eases the virtual frame. Nil plays at constant speed.
	Curve animation.Curve
	// Scheduler drives playback. Nil uses animation.DefaultScheduler().
	Scheduler animation.FrameScheduler
	// Logger receives debug events. Nil disables logging.
	Logger *zerolog.Logger
}

// Bool returns a pointer to v, for the optional fields of Options.
func Bool(v bool) *bool {
	return &v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
