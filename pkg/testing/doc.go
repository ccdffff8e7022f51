// Package testing provides a deterministic frame harness for Reel playback.
//
// # Quick Start
//
// Create a tester, hand its scheduler to a sprite, then advance time and
// pump frames:
//
//	func TestWalk(t *testing.T) {
//	    tester := reeltest.NewTesterWithT(t)
//	    s, _ := sprite.New(sheet, sprite.Options{Scheduler: tester.Scheduler()})
//
//	    s.Play()
//	    tester.Pump()
//	    tester.Clock().Advance(500 * time.Millisecond)
//	    tester.Pump()
//
//	    if s.Frame() != 4 {
//	        t.Errorf("expected frame 4, got %d", s.Frame())
//	    }
//	}
//
// # Trace Snapshots
//
// Record the frame and status after each pump and compare against a golden
// file:
//
//	trace := tester.Record(10, 100*time.Millisecond, func() (int, string) {
//	    return s.Frame(), s.Status().String()
//	})
//	trace.MatchesFile(t, "testdata/walk.trace.json")
//
// Update snapshots with:
//
//	REEL_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import reeltest "github.com/go-drift/reel/pkg/testing"
package testing
