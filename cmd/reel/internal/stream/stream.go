// Package stream serves sprite playback to WebSocket clients.
//
// Routes:
//
//	/frames   frame and bounds updates, one JSON message per change
//	/control  JSON commands (play, part, range, stop, loop, resize) with acks
//	/health   JSON status
//
// Playback commands are dispatched onto the frame loop; resize goes straight
// to the viewport, which may be resized from any goroutine.
package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	reelerrors "github.com/go-drift/reel/pkg/errors"
	"github.com/go-drift/reel/pkg/geometry"
	"github.com/go-drift/reel/pkg/present"
	"github.com/go-drift/reel/pkg/sprite"
)

const (
	sendBuffer     = 32
	writeTimeout   = 10 * time.Second
	controlTimeout = 5 * time.Second
)

// Dispatcher queues work on the frame loop.
type Dispatcher interface {
	Dispatch(callback func())
}

// Message is sent to /frames clients.
type Message struct {
	// Type is "hello", "frame" or "bounds".
	Type     string             `json:"type"`
	ClientID string             `json:"clientId,omitempty"`
	Event    *sprite.FrameEvent `json:"event,omitempty"`
	// Style and ContainerStyle are inline CSS for the cell and container.
	Style          string `json:"style"`
	ContainerStyle string `json:"containerStyle,omitempty"`
}

// Control is a command read from /control.
type Control struct {
	Action string  `json:"action"`
	Part   string  `json:"part,omitempty"`
	Start  int     `json:"start,omitempty"`
	End    int     `json:"end,omitempty"`
	Loop   *bool   `json:"loop,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

// Ack answers a Control.
type Ack struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Error  string `json:"error,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Server fans out sprite updates to WebSocket clients.
type Server struct {
	sprite   *sprite.Sprite
	viewport *sprite.Viewport
	loop     Dispatcher
	now      func() time.Time
	log      zerolog.Logger
	upgrader websocket.Upgrader
	started  time.Time

	mu      sync.RWMutex
	clients map[string]*client

	sent    atomic.Uint64
	dropped atomic.Uint64
}

// NewServer creates a server for s, which must be mounted in vp and driven
// by loop. now stamps frame events.
func NewServer(s *sprite.Sprite, vp *sprite.Viewport, loop Dispatcher, now func() time.Time, logger zerolog.Logger) *Server {
	srv := &Server{
		sprite:   s,
		viewport: vp,
		loop:     loop,
		now:      now,
		log:      logger.With().Str("component", "stream").Logger(),
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		started:  now(),
		clients:  make(map[string]*client),
	}
	s.AddFrameListener(func(int) { srv.broadcastEvent() })
	s.AddStatusListener(func(sprite.Status) { srv.broadcastEvent() })
	s.AddBoundsListener(func(geometry.Bounds) { srv.broadcastBounds() })
	return srv
}

// Handler returns the HTTP routes.
func (srv *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/frames", srv.HandleFrames)
	mux.HandleFunc("/control", srv.HandleControl)
	mux.HandleFunc("/health", srv.HandleHealth)
	return withCORS(mux)
}

// Clients returns the number of connected /frames clients.
func (srv *Server) Clients() int {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	return len(srv.clients)
}

// HandleFrames upgrades to a WebSocket and streams updates until the client
// goes away.
func (srv *Server) HandleFrames(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.log.Debug().Err(err).Msg("frames upgrade failed")
		return
	}
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}

	hello := srv.viewMessage("hello")
	hello.ClientID = c.id
	if data, err := json.Marshal(hello); err == nil {
		c.send <- data
	}

	srv.mu.Lock()
	srv.clients[c.id] = c
	srv.mu.Unlock()
	srv.log.Info().Str("client", c.id).Str("remote", r.RemoteAddr).Msg("client connected")

	go srv.writeLoop(c)

	defer func() {
		srv.mu.Lock()
		delete(srv.clients, c.id)
		close(c.send)
		srv.mu.Unlock()
		conn.Close()
		srv.log.Info().Str("client", c.id).Msg("client disconnected")
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (srv *Server) writeLoop(c *client) {
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			srv.log.Debug().Err(err).Str("client", c.id).Msg("write failed")
			// Unblock the reader so the client is unregistered.
			c.conn.Close()
			for range c.send {
			}
			return
		}
	}
}

// HandleControl reads commands and acknowledges each one after it has run.
func (srv *Server) HandleControl(w http.ResponseWriter, r *http.Request) {
	conn, err := srv.upgrader.Upgrade(w, r, nil)
	if err != nil {
		srv.log.Debug().Err(err).Msg("control upgrade failed")
		return
	}
	defer conn.Close()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var ctl Control
		ack := Ack{Type: "ack"}
		if err := json.Unmarshal(data, &ctl); err != nil {
			ack.Error = fmt.Sprintf("invalid control message: %v", err)
		} else {
			ack.Action = ctl.Action
			if err := srv.Apply(ctl); err != nil {
				ack.Error = err.Error()
			}
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(ack); err != nil {
			return
		}
	}
}

// Apply runs ctl. Playback commands run on the frame loop and Apply waits
// for them.
func (srv *Server) Apply(ctl Control) error {
	if ctl.Action == "resize" {
		if !validExtent(ctl.Width) || !validExtent(ctl.Height) {
			return fmt.Errorf("resize: size %vx%v must be finite and not negative", ctl.Width, ctl.Height)
		}
		srv.viewport.SetSize(ctl.Width, ctl.Height)
		return nil
	}

	var run func() error
	switch ctl.Action {
	case "play":
		run = func() error { srv.sprite.Play(); return nil }
	case "part":
		run = func() error { _, err := srv.sprite.PlayPart(ctl.Part); return err }
	case "range":
		run = func() error { _, err := srv.sprite.PlayRange(ctl.Start, ctl.End); return err }
	case "stop":
		run = func() error { srv.sprite.Stop(); return nil }
	case "loop":
		if ctl.Loop == nil {
			return errors.New("loop: missing \"loop\" value")
		}
		loop := *ctl.Loop
		run = func() error { srv.sprite.SetLoop(loop); return nil }
	default:
		return fmt.Errorf("unknown action %q", ctl.Action)
	}

	done := make(chan error, 1)
	srv.loop.Dispatch(func() { done <- run() })
	select {
	case err := <-done:
		return err
	case <-time.After(controlTimeout):
		return reelerrors.New("stream.Apply", reelerrors.KindTransport,
			fmt.Errorf("%s: frame loop did not respond within %v", ctl.Action, controlTimeout))
	}
}

// HandleHealth reports server and playback status.
func (srv *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"status":   srv.sprite.Status().String(),
		"frame":    srv.sprite.Frame(),
		"clients":  srv.Clients(),
		"sent":     srv.sent.Load(),
		"dropped":  srv.dropped.Load(),
		"uptime_s": srv.now().Sub(srv.started).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// broadcastEvent runs on the frame loop.
func (srv *Server) broadcastEvent() {
	msg := srv.viewMessage("frame")
	ev := srv.sprite.Event(srv.now())
	msg.Event = &ev
	srv.broadcast(msg)
}

// broadcastBounds may run on any goroutine, so it carries no event.
func (srv *Server) broadcastBounds() {
	srv.broadcast(srv.viewMessage("bounds"))
}

func (srv *Server) viewMessage(kind string) Message {
	style := present.StyleFor(srv.sprite.View())
	return Message{Type: kind, Style: style.CSS(), ContainerStyle: style.ContainerCSS()}
}

func (srv *Server) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		srv.log.Error().Err(err).Msg("marshal message")
		return
	}
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	for _, c := range srv.clients {
		select {
		case c.send <- data:
			srv.sent.Add(1)
		default:
			srv.dropped.Add(1)
		}
	}
}

// Close disconnects every client.
func (srv *Server) Close() {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	for _, c := range srv.clients {
		c.conn.Close()
	}
}

func validExtent(v float64) bool {
	return v >= 0 && !math.IsInf(v, 1)
}

func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h.ServeHTTP(w, r)
	})
}
