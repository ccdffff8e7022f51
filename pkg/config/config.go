// Package config loads sprite descriptors from YAML.
//
// A descriptor carries the sheet layout and playback options recognized by
// [sprite.New], plus an optional player section used by the reel command:
//
//	version: v1
//	frames: 8
//	fps: 8
//	columns: 4
//	rows: 2
//	frameSize: {width: 200, height: 100}
//	url: sheets/walk.png
//	parts:
//	  walk: [2, 5]
//	loop: true
//	autoPlay: true
//	easing: linear
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/reel/pkg/animation"
	"github.com/go-drift/reel/pkg/geometry"
	"github.com/go-drift/reel/pkg/sprite"
)

// DefaultFileName is the descriptor LoadOptional looks for.
const DefaultFileName = "reel.yaml"

// SupportedVersion is the newest descriptor format this package reads.
const SupportedVersion = "v1"

// Player defaults.
const (
	DefaultFrameRate = 60
	DefaultTopic     = "reel/frames"
	DefaultAddr      = ":8080"
	DefaultLogLevel  = "info"

	// MaxFrameRate bounds player.frameRate, in Hz.
	MaxFrameRate = 1000
)

// ErrUnsupportedVersion is returned for descriptors written for a newer
// major format.
var ErrUnsupportedVersion = errors.New("unsupported descriptor version")

// Descriptor is the YAML form of a sprite.
type Descriptor struct {
	Version   string           `yaml:"version,omitempty"`
	Frames    int              `yaml:"frames"`
	FPS       float64          `yaml:"fps"`
	Columns   int              `yaml:"columns"`
	Rows      int              `yaml:"rows"`
	FrameSize SizeConfig       `yaml:"frameSize"`
	URL       string           `yaml:"url,omitempty"`
	Parts     map[string][]int `yaml:"parts,omitempty"`
	Loop      *bool            `yaml:"loop,omitempty"`
	AutoPlay  *bool            `yaml:"autoPlay,omitempty"`
	Debug     bool             `yaml:"debug,omitempty"`
	Easing    string           `yaml:"easing,omitempty"`
	Player    PlayerConfig     `yaml:"player,omitempty"`
}

// SizeConfig is the pixel size of one frame.
type SizeConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlayerConfig holds settings for the reel command. None of them affect
// playback semantics.
type PlayerConfig struct {
	// FrameRate is how often the frame loop steps, in Hz.
	FrameRate float64     `yaml:"frameRate,omitempty"`
	LogLevel  string      `yaml:"logLevel,omitempty"`
	MQTT      MQTTConfig  `yaml:"mqtt,omitempty"`
	Serve     ServeConfig `yaml:"serve,omitempty"`
}

// MQTTConfig configures frame event publishing.
type MQTTConfig struct {
	Broker   string `yaml:"broker,omitempty"`
	Topic    string `yaml:"topic,omitempty"`
	ClientID string `yaml:"clientId,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	QoS      byte   `yaml:"qos,omitempty"`
	Retained bool   `yaml:"retained,omitempty"`
}

// ServeConfig configures the WebSocket server.
type ServeConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Load reads and validates the descriptor at path.
func Load(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return d, nil
}

// LoadOptional reads reel.yaml from dir if present. A missing file yields a
// nil descriptor and no error.
func LoadOptional(dir string) (*Descriptor, error) {
	d, err := Load(filepath.Join(dir, DefaultFileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return d, err
}

// Parse decodes a descriptor, applies defaults and validates it. Unknown
// keys are rejected.
func Parse(data []byte) (*Descriptor, error) {
	var d Descriptor
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	d.applyDefaults()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Descriptor) applyDefaults() {
	if d.Version == "" {
		d.Version = SupportedVersion
	}
	if d.Loop == nil {
		d.Loop = sprite.Bool(true)
	}
	if d.AutoPlay == nil {
		d.AutoPlay = sprite.Bool(true)
	}
	p := &d.Player
	if p.FrameRate == 0 {
		p.FrameRate = DefaultFrameRate
	}
	if p.LogLevel == "" {
		p.LogLevel = DefaultLogLevel
	}
	if p.MQTT.Topic == "" {
		p.MQTT.Topic = DefaultTopic
	}
	if p.Serve.Addr == "" {
		p.Serve.Addr = DefaultAddr
	}
}

// Validate checks the version, the sheet, the parts and the easing name.
func (d *Descriptor) Validate() error {
	if err := checkVersion(d.Version); err != nil {
		return err
	}
	sheet := d.Sheet()
	if err := sheet.Validate(); err != nil {
		return err
	}
	opts, err := d.Options()
	if err != nil {
		return err
	}
	for name, p := range opts.Parts {
		if !sheet.Contains(p.Start) || !sheet.Contains(p.End) {
			return fmt.Errorf("%w: part %q [%d, %d] outside [0, %d]", sprite.ErrFrameOutOfRange, name, p.Start, p.End, sheet.LastFrame())
		}
	}
	if rate := d.Player.FrameRate; !(rate > 0) || rate > MaxFrameRate {
		return fmt.Errorf("player.frameRate must be in (0, %d], got %v", MaxFrameRate, rate)
	}
	if d.Player.MQTT.QoS > 2 {
		return fmt.Errorf("player.mqtt.qos must be 0, 1 or 2, got %d", d.Player.MQTT.QoS)
	}
	return nil
}

func checkVersion(v string) error {
	if !semver.IsValid(v) {
		return fmt.Errorf("invalid descriptor version %q", v)
	}
	if semver.Compare(semver.Major(v), SupportedVersion) > 0 {
		return fmt.Errorf("%w: %s (newest is %s)", ErrUnsupportedVersion, v, SupportedVersion)
	}
	return nil
}

// Sheet returns the sheet layout.
func (d *Descriptor) Sheet() sprite.Sheet {
	return sprite.Sheet{
		Columns:   d.Columns,
		Rows:      d.Rows,
		Frames:    d.Frames,
		FPS:       d.FPS,
		FrameSize: geometry.Size{Width: d.FrameSize.Width, Height: d.FrameSize.Height},
	}
}

// Options converts the playback fields to sprite options. The scheduler and
// logger are left for the caller.
func (d *Descriptor) Options() (sprite.Options, error) {
	opts := sprite.Options{
		Loop:     d.Loop,
		AutoPlay: d.AutoPlay,
		Debug:    d.Debug,
		URL:      d.URL,
	}
	if len(d.Parts) > 0 {
		opts.Parts = make(map[string]sprite.Part, len(d.Parts))
		for _, name := range sortedKeys(d.Parts) {
			r := d.Parts[name]
			if len(r) != 2 {
				return sprite.Options{}, fmt.Errorf("part %q must be [start, end], got %v", name, r)
			}
			opts.Parts[name] = sprite.Part{Start: r[0], End: r[1]}
		}
	}
	// Linear playback keeps the exact interpolation path.
	if name := strings.TrimSpace(d.Easing); name != "" && !strings.EqualFold(name, "linear") {
		curve, ok := animation.CurveByName(d.Easing)
		if !ok {
			return sprite.Options{}, fmt.Errorf("unknown easing %q (want one of %s)", d.Easing, strings.Join(animation.CurveNames(), ", "))
		}
		opts.Curve = curve
	}
	return opts, nil
}

func sortedKeys(m map[string][]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
