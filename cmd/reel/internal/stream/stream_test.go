package stream

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/go-drift/reel/pkg/geometry"
	"github.com/go-drift/reel/pkg/sprite"
	reeltest "github.com/go-drift/reel/pkg/testing"
)

type fixture struct {
	tester *reeltest.Tester
	sprite *sprite.Sprite
	vp     *sprite.Viewport
	srv    *Server
	ts     *httptest.Server
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tester := reeltest.NewTesterWithT(t)
	s, err := sprite.New(sprite.Sheet{
		Columns:   4,
		Rows:      2,
		Frames:    8,
		FPS:       8,
		FrameSize: geometry.Size{Width: 200, Height: 100},
	}, sprite.Options{
		Parts:     map[string]sprite.Part{"walk": {Start: 2, End: 5}},
		Loop:      sprite.Bool(false),
		AutoPlay:  sprite.Bool(false),
		Scheduler: tester.Scheduler(),
	})
	if err != nil {
		t.Fatal(err)
	}
	vp := sprite.NewViewport(400, 100)
	s.Mount(vp)

	srv := NewServer(s, vp, tester.Scheduler(), tester.Clock().Now, zerolog.Nop())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(srv.Close)

	// The frame loop owns playback from here on.
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		tick := time.NewTicker(2 * time.Millisecond)
		defer tick.Stop()
		for {
			select {
			case <-stop:
				return
			case <-tick.C:
				tester.Pump()
			}
		}
	}()
	t.Cleanup(func() {
		close(stop)
		<-done
	})

	return &fixture{tester: tester, sprite: s, vp: vp, srv: srv, ts: ts}
}

// onLoop runs fn on the frame loop and waits for it.
func (f *fixture) onLoop(fn func()) {
	done := make(chan struct{})
	f.tester.Scheduler().Dispatch(func() {
		fn()
		close(done)
	})
	<-done
}

func (f *fixture) dial(t *testing.T, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.ts.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) Message {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg Message
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

// readUntil reads frame messages until match returns true.
func readUntil(t *testing.T, conn *websocket.Conn, match func(Message) bool) Message {
	t.Helper()
	for i := 0; i < 100; i++ {
		msg := readMessage(t, conn)
		if match(msg) {
			return msg
		}
	}
	t.Fatal("no matching message")
	return Message{}
}

func control(t *testing.T, conn *websocket.Conn, ctl any) Ack {
	t.Helper()
	if err := conn.WriteJSON(ctl); err != nil {
		t.Fatal(err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ack Ack
	if err := conn.ReadJSON(&ack); err != nil {
		t.Fatalf("read ack: %v", err)
	}
	return ack
}

func TestFrames_Hello(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "/frames")

	msg := readMessage(t, conn)
	if msg.Type != "hello" {
		t.Fatalf("expected hello, got %q", msg.Type)
	}
	if _, err := uuid.Parse(msg.ClientID); err != nil {
		t.Errorf("expected uuid client id, got %q", msg.ClientID)
	}
	if !strings.Contains(msg.Style, "left: 100px") || !strings.Contains(msg.Style, "width: 200px") {
		t.Errorf("unexpected style %q", msg.Style)
	}
	if f.srv.Clients() != 1 {
		t.Errorf("expected 1 client, got %d", f.srv.Clients())
	}
}

func TestControl_RangeStreamsFrames(t *testing.T) {
	f := newFixture(t)
	frames := f.dial(t, "/frames")
	readMessage(t, frames)
	ctl := f.dial(t, "/control")

	ack := control(t, ctl, Control{Action: "range", Start: 2, End: 5})
	if ack.Type != "ack" || ack.Action != "range" || ack.Error != "" {
		t.Fatalf("unexpected ack %+v", ack)
	}

	msg := readUntil(t, frames, func(m Message) bool {
		return m.Event != nil && m.Event.Frame == 2
	})
	if msg.Type != "frame" || msg.Event.Status != sprite.StatusPlaying {
		t.Errorf("unexpected frame message %+v", msg)
	}
	if !strings.Contains(msg.Style, "background-position: -400px 0px") {
		t.Errorf("expected offset of cell 2 in %q", msg.Style)
	}

	f.tester.Clock().Advance(time.Second)
	readUntil(t, frames, func(m Message) bool {
		return m.Event != nil && m.Event.Status == sprite.StatusCompleted && m.Event.Frame == 5
	})
}

func TestControl_PartAndStop(t *testing.T) {
	f := newFixture(t)
	ctl := f.dial(t, "/control")

	if ack := control(t, ctl, Control{Action: "part", Part: "walk"}); ack.Error != "" {
		t.Fatalf("part: %s", ack.Error)
	}
	if !f.sprite.IsPlaying() {
		t.Error("expected playing after part")
	}
	if ack := control(t, ctl, Control{Action: "stop"}); ack.Error != "" {
		t.Fatalf("stop: %s", ack.Error)
	}
	if f.sprite.Status() != sprite.StatusStopped {
		t.Errorf("expected stopped, got %v", f.sprite.Status())
	}
}

func TestControl_Errors(t *testing.T) {
	f := newFixture(t)
	ctl := f.dial(t, "/control")

	tests := []struct {
		name string
		msg  any
		want string
	}{
		{"unknown part", Control{Action: "part", Part: "jump"}, "unknown part"},
		{"out of range", Control{Action: "range", Start: 0, End: 9}, "frame out of range"},
		{"unknown action", Control{Action: "rewind"}, "unknown action"},
		{"missing loop", Control{Action: "loop"}, "missing"},
		{"negative size", Control{Action: "resize", Width: -1}, "negative"},
		{"bad json", "not an object", "invalid control message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ack := control(t, ctl, tt.msg)
			if !strings.Contains(ack.Error, tt.want) {
				t.Errorf("expected error containing %q, got %q", tt.want, ack.Error)
			}
		})
	}
	if f.sprite.Status() != sprite.StatusIdle {
		t.Errorf("failed commands changed status to %v", f.sprite.Status())
	}
}

func TestControl_ResizeBroadcastsBounds(t *testing.T) {
	f := newFixture(t)
	frames := f.dial(t, "/frames")
	readMessage(t, frames)
	ctl := f.dial(t, "/control")

	if ack := control(t, ctl, Control{Action: "resize", Width: 200, Height: 200}); ack.Error != "" {
		t.Fatalf("resize: %s", ack.Error)
	}

	msg := readUntil(t, frames, func(m Message) bool { return m.Type == "bounds" })
	if !strings.Contains(msg.Style, "top: 50px") || !strings.Contains(msg.Style, "left: 0px") {
		t.Errorf("unexpected bounds style %q", msg.Style)
	}
	if got := f.sprite.Bounds(); got != (geometry.Bounds{X: 0, Y: 50, Width: 200, Height: 100}) {
		t.Errorf("unexpected sprite bounds %+v", got)
	}
}

func TestControl_Loop(t *testing.T) {
	f := newFixture(t)
	ctl := f.dial(t, "/control")

	loop := true
	if ack := control(t, ctl, Control{Action: "loop", Loop: &loop}); ack.Error != "" {
		t.Fatalf("loop: %s", ack.Error)
	}
	var enabled bool
	f.onLoop(func() { enabled = f.sprite.Loop() })
	if !enabled {
		t.Error("expected loop enabled")
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)

	resp, err := http.Get(f.ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected CORS header, got %q", got)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "idle" {
		t.Errorf("expected idle status, got %v", body["status"])
	}
	if body["clients"] != float64(0) {
		t.Errorf("expected 0 clients, got %v", body["clients"])
	}
}

func TestFrames_Disconnect(t *testing.T) {
	f := newFixture(t)
	conn := f.dial(t, "/frames")
	readMessage(t, conn)

	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for f.srv.Clients() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if f.srv.Clients() != 0 {
		t.Errorf("expected client unregistered, got %d", f.srv.Clients())
	}
}

func TestApply_RejectsNonFiniteResize(t *testing.T) {
	f := newFixture(t)

	for _, size := range [][2]float64{{math.NaN(), 100}, {100, math.Inf(1)}, {-1, 100}} {
		err := f.srv.Apply(Control{Action: "resize", Width: size[0], Height: size[1]})
		if err == nil {
			t.Errorf("resize %vx%v: expected error", size[0], size[1])
		}
	}
	if got := f.vp.Bounds(); got != (geometry.Bounds{Width: 400, Height: 100}) {
		t.Errorf("viewport changed to %+v", got)
	}
}
