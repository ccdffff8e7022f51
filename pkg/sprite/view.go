package sprite

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-drift/reel/pkg/geometry"
)

// View is everything a presentation layer needs to paint the current frame.
type View struct {
	// Frame is the displayed frame index.
	Frame int
	// Bounds is the fitted cell rectangle inside the container.
	Bounds geometry.Bounds
	// SheetSize is the whole sheet scaled so one cell matches Bounds.
	SheetSize geometry.Size
	// CellOffset moves the scaled sheet so Frame's cell fills Bounds.
	CellOffset geometry.Offset
	// URL references the sheet image.
	URL string
	// Debug requests debug tints.
	Debug bool
}

// View returns a snapshot of the sprite's presentation state.
func (s *Sprite) View() View {
	frame := s.Frame()
	bounds := s.Bounds()
	return View{
		Frame:      frame,
		Bounds:     bounds,
		SheetSize:  bounds.Scale(s.sheet.Columns, s.sheet.Rows),
		CellOffset: geometry.CellOffset(bounds, frame, s.sheet.Columns),
		URL:        s.url,
		Debug:      s.debug,
	}
}

// FrameEvent reports a frame or status change to remote consumers.
type FrameEvent struct {
	Generation uint64    `json:"generation"`
	Frame      int       `json:"frame"`
	Status     Status    `json:"status"`
	Time       time.Time `json:"time"`
}

// Event returns a FrameEvent describing the sprite at now. Call it on the
// frame loop goroutine, typically from a frame or status listener.
func (s *Sprite) Event(now time.Time) FrameEvent {
	return FrameEvent{
		Generation: s.generation,
		Frame:      s.Frame(),
		Status:     s.Status(),
		Time:       now,
	}
}

// frameEventSize is the length of a binary FrameEvent:
// generation (8) + frame (4) + status (1) + unix nanoseconds (8).
const frameEventSize = 21

// MarshalBinary encodes the event in little-endian order.
func (e FrameEvent) MarshalBinary() ([]byte, error) {
	data := make([]byte, frameEventSize)
	binary.LittleEndian.PutUint64(data[0:], e.Generation)
	binary.LittleEndian.PutUint32(data[8:], uint32(e.Frame))
	data[12] = byte(e.Status)
	binary.LittleEndian.PutUint64(data[13:], uint64(e.Time.UnixNano()))
	return data, nil
}

// UnmarshalBinary decodes an event produced by MarshalBinary.
func (e *FrameEvent) UnmarshalBinary(data []byte) error {
	if len(data) != frameEventSize {
		return fmt.Errorf("sprite: frame event is %d bytes, want %d", len(data), frameEventSize)
	}
	e.Generation = binary.LittleEndian.Uint64(data[0:])
	e.Frame = int(binary.LittleEndian.Uint32(data[8:]))
	e.Status = Status(data[12])
	e.Time = time.Unix(0, int64(binary.LittleEndian.Uint64(data[13:]))).UTC()
	return nil
}
