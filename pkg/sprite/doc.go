// Package sprite plays sprite-sheet animations inside a resizable viewport.
//
// A [Sprite] combines a playback engine with the geometry needed to present
// it. Playback interpolates a floating "virtual frame" between two frame
// indices over wall-clock time; the displayed frame is its floor. Geometry
// fits one sheet cell into the host container at the sheet's aspect ratio
// and derives the background offset that reveals the current cell.
//
// # Playback
//
//	s, err := sprite.New(sheet, sprite.Options{
//	    Parts: map[string]sprite.Part{"walk": {Start: 2, End: 5}},
//	})
//	pb, err := s.PlayPart("walk")
//	<-pb.Done()
//
// Each play call replaces the current session. Sessions are tagged with a
// generation number, so ticks and deferred loop restarts belonging to a
// replaced session have no effect. Looping restarts are posted to the
// scheduler's dispatch queue and run at the start of the next frame.
//
// # Hosting
//
// Hosts call [Sprite.Mount] with a [Container], [Sprite.Update] when their
// configuration changes, and [Sprite.Unmount] when the sprite goes away.
// Presentation layers subscribe with AddFrameListener and AddBoundsListener
// and read a [View] snapshot to paint.
package sprite
