// Package publish sends sprite frame events to an MQTT broker.
//
// Events are queued from the frame loop and published by a separate
// goroutine, so a slow broker never stalls playback. When the queue is full
// the newest event is dropped.
package publish

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-drift/reel/pkg/config"
	reelerrors "github.com/go-drift/reel/pkg/errors"
	"github.com/go-drift/reel/pkg/sprite"
)

// DefaultQueueSize is how many events may wait for the broker.
const DefaultQueueSize = 64

// publishTimeout bounds how long one publish may wait for the broker.
const publishTimeout = 5 * time.Second

// Client is the part of mqtt.Client the publisher uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Publisher queues frame events and publishes them as 21-byte binary
// payloads.
type Publisher struct {
	client   Client
	topic    string
	qos      byte
	retained bool
	queue    chan sprite.FrameEvent
	log      zerolog.Logger
}

// New creates a publisher for client. It does not connect.
func New(client Client, cfg config.MQTTConfig, logger zerolog.Logger) *Publisher {
	topic := cfg.Topic
	if topic == "" {
		topic = config.DefaultTopic
	}
	return &Publisher{
		client:   client,
		topic:    topic,
		qos:      cfg.QoS,
		retained: cfg.Retained,
		queue:    make(chan sprite.FrameEvent, DefaultQueueSize),
		log:      logger.With().Str("component", "publish").Str("topic", topic).Logger(),
	}
}

// Connect dials the broker in cfg and returns the connected client.
func Connect(cfg config.MQTTConfig, logger zerolog.Logger) (mqtt.Client, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "reel-" + uuid.NewString()
	}
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(clientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetAutoReconnect(true).
		SetOnConnectHandler(func(mqtt.Client) {
			logger.Info().Str("broker", cfg.Broker).Str("client_id", clientID).Msg("mqtt connected")
		}).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			logger.Warn().Err(err).Str("broker", cfg.Broker).Msg("mqtt connection lost")
		})

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, reelerrors.New("publish.Connect", reelerrors.KindTransport,
			fmt.Errorf("timed out connecting to %s", cfg.Broker))
	}
	if err := token.Error(); err != nil {
		return nil, reelerrors.New("publish.Connect", reelerrors.KindTransport, err)
	}
	return client, nil
}

// Enqueue queues ev for publishing. It never blocks and reports whether the
// event was accepted.
func (p *Publisher) Enqueue(ev sprite.FrameEvent) bool {
	select {
	case p.queue <- ev:
		return true
	default:
		p.log.Warn().Uint64("generation", ev.Generation).Int("frame", ev.Frame).Msg("publish queue full; dropping event")
		return false
	}
}

// Run publishes queued events until ctx is done.
func (p *Publisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-p.queue:
			if err := p.publish(ev); err != nil {
				reelerrors.Report(err)
			}
		}
	}
}

func (p *Publisher) publish(ev sprite.FrameEvent) *reelerrors.ReelError {
	payload, err := ev.MarshalBinary()
	if err != nil {
		return reelerrors.New("publish.Publish", reelerrors.KindTransport, err)
	}
	token := p.client.Publish(p.topic, p.qos, p.retained, payload)
	if !token.WaitTimeout(publishTimeout) {
		return reelerrors.New("publish.Publish", reelerrors.KindTransport, fmt.Errorf("timed out publishing to %s", p.topic))
	}
	if err := token.Error(); err != nil {
		return reelerrors.New("publish.Publish", reelerrors.KindTransport, err)
	}
	p.log.Debug().Uint64("generation", ev.Generation).Int("frame", ev.Frame).Stringer("status", ev.Status).Msg("published")
	return nil
}

// Attach enqueues an event whenever s changes frame or status. Listeners
// run on the frame loop, so events are read there too. The returned
// function detaches.
func (p *Publisher) Attach(s *sprite.Sprite, now func() time.Time) (detach func()) {
	offFrame := s.AddFrameListener(func(int) { p.Enqueue(s.Event(now())) })
	offStatus := s.AddStatusListener(func(sprite.Status) { p.Enqueue(s.Event(now())) })
	return func() {
		offFrame()
		offStatus()
	}
}
