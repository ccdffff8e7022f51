package sprite

import "fmt"

// Status is the playback state of a sprite.
//
//	         Play()              end reached
//	Idle ─────────────► Playing ─────────────► Completed
//	                      │  ▲                     │
//	               Stop() │  └─────────────────────┘
//	                      ▼    loop, next frame
//	                   Stopped
//
// With looping enabled, Completed is transient: the restart is queued for
// the next frame and the sprite returns to Playing.
type Status int32

const (
	// StatusIdle means nothing has played yet.
	StatusIdle Status = iota
	// StatusPlaying means a session is advancing frames.
	StatusPlaying
	// StatusStopped means the last session was cancelled by Stop.
	StatusStopped
	// StatusCompleted means the last session reached its end frame.
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPlaying:
		return "playing"
	case StatusStopped:
		return "stopped"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("Status(%d)", int32(s))
	}
}

// MarshalText encodes the status as its name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *Status) UnmarshalText(text []byte) error {
	for _, candidate := range []Status{StatusIdle, StatusPlaying, StatusStopped, StatusCompleted} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("sprite: unknown status %q", text)
}
