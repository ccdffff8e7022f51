package sprite_test

import (
	"fmt"
	"time"

	"github.com/go-drift/reel/pkg/geometry"
	"github.com/go-drift/reel/pkg/sprite"
	reeltest "github.com/go-drift/reel/pkg/testing"
)

func ExampleSprite_PlayPart() {
	tester := reeltest.NewTester()
	defer tester.Cleanup()

	s, _ := sprite.New(sprite.Sheet{
		Columns:   4,
		Rows:      2,
		Frames:    8,
		FPS:       8,
		FrameSize: geometry.Size{Width: 200, Height: 100},
	}, sprite.Options{
		Parts:     map[string]sprite.Part{"walk": {Start: 2, End: 5}},
		Loop:      sprite.Bool(false),
		Scheduler: tester.Scheduler(),
	})
	s.AddFrameListener(func(frame int) { fmt.Println("frame", frame) })

	pb, _ := s.PlayPart("walk")
	tester.Pump()
	for i := 0; i < 3; i++ {
		tester.PumpFor(125 * time.Millisecond)
	}
	fmt.Println(pb.Result())

	// Output:
	// frame 2
	// frame 3
	// frame 4
	// frame 5
	// completed
}

func ExampleSprite_View() {
	tester := reeltest.NewTester()
	defer tester.Cleanup()

	s, _ := sprite.New(sprite.Sheet{
		Columns:   4,
		Rows:      2,
		Frames:    8,
		FPS:       8,
		FrameSize: geometry.Size{Width: 200, Height: 100},
	}, sprite.Options{AutoPlay: sprite.Bool(false), Scheduler: tester.Scheduler()})
	s.Mount(sprite.NewViewport(400, 100))

	s.PlayRange(6, 7)
	tester.Pump()

	v := s.View()
	fmt.Printf("bounds %v,%v %vx%v\n", v.Bounds.X, v.Bounds.Y, v.Bounds.Width, v.Bounds.Height)
	fmt.Printf("sheet %vx%v\n", v.SheetSize.Width, v.SheetSize.Height)
	fmt.Printf("frame %d offset %v,%v\n", v.Frame, v.CellOffset.X, v.CellOffset.Y)

	// Output:
	// bounds 100,0 200x100
	// sheet 800x200
	// frame 6 offset -400,-100
}
