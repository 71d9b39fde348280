package bus

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"bonnetje/internal/domain"
)

// inboxSize matches the request capacity the daemon has always used. A
// publish arriving while the inbox is full is dropped.
const inboxSize = 10

// HandlerFunc adapts a function to domain.MessageHandler.
type HandlerFunc func(ctx context.Context, msg domain.RawMessage) error

func (f HandlerFunc) Handle(ctx context.Context, msg domain.RawMessage) error { return f(ctx, msg) }

// Stats counts handled messages.
type Stats struct {
	Received int
	Ignored  int
	Failed   int
	Dropped  int
}

// Subscriber runs the receive loop. A Subscriber runs once.
type Subscriber struct {
	cfg     Config
	handler domain.MessageHandler
	dial    Dialer
	logger  *slog.Logger

	inbox chan domain.RawMessage
	lost  chan error
	done  chan struct{}
	stats Stats

	dropped atomic.Int64 // written from Paho's goroutine
}

// NewSubscriber constructs a Subscriber. A nil dial uses PahoDialer.
func NewSubscriber(cfg Config, handler domain.MessageHandler, dial Dialer, logger *slog.Logger) *Subscriber {
	if dial == nil {
		dial = PahoDialer
	}
	return &Subscriber{
		cfg:     cfg,
		handler: handler,
		dial:    dial,
		logger:  logger.With("broker", cfg.Broker(), "topic", cfg.Topic),
		inbox:   make(chan domain.RawMessage, inboxSize),
		lost:    make(chan error, 1),
		done:    make(chan struct{}),
	}
}

// Run connects, subscribes and handles messages until ctx is cancelled
// (returns nil) or the connection fails (returns an error wrapping
// domain.ErrConnectivity).
func (s *Subscriber) Run(ctx context.Context) error {
	opts := ClientOptions(s.cfg).SetConnectionLostHandler(s.onConnectionLost)

	client, err := connect(ctx, s.dial, opts, s.cfg.Broker())
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnectivity, err)
	}
	defer client.Disconnect(disconnectQuiesce)
	defer close(s.done)

	if err := wait(ctx, client.Subscribe(s.cfg.Topic, s.cfg.QoS, s.onMessage)); err != nil {
		return fmt.Errorf("%w: subscribe %s: %w", domain.ErrConnectivity, s.cfg.Topic, err)
	}
	s.logger.Info("subscribed", "qos", s.cfg.QoS, "client_id", s.cfg.ClientID)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shutting down",
				"received", s.stats.Received,
				"ignored", s.stats.Ignored,
				"failed", s.stats.Failed,
				"dropped", s.dropped.Load(),
			)
			return nil
		case err := <-s.lost:
			return fmt.Errorf("%w: connection lost: %w", domain.ErrConnectivity, err)
		case msg := <-s.inbox:
			if err := s.dispatch(ctx, msg); err != nil {
				return err
			}
		}
	}
}

// Stats returns counters for the messages seen so far. Only valid once Run
// has returned.
func (s *Subscriber) Stats() Stats {
	st := s.stats
	st.Dropped = int(s.dropped.Load())
	return st
}

func (s *Subscriber) dispatch(ctx context.Context, msg domain.RawMessage) error {
	if !TopicMatches(s.cfg.Topic, msg.Topic) {
		s.stats.Ignored++
		s.logger.Debug("ignoring message on unsubscribed topic", "message_topic", msg.Topic)
		return nil
	}
	s.stats.Received++
	err := s.handler.Handle(ctx, msg)
	if err == nil {
		return nil
	}
	if !domain.Recoverable(err) {
		return err
	}
	s.stats.Failed++
	s.logger.Debug("message skipped, waiting for next", "err", err)
	return nil
}

// onMessage runs on Paho's receive path and must never block it, or keep-alive
// responses stall behind a slow print and the broker drops the connection.
func (s *Subscriber) onMessage(_ mqtt.Client, m mqtt.Message) {
	msg := domain.RawMessage{Topic: m.Topic(), Payload: bytes.Clone(m.Payload())}
	select {
	case s.inbox <- msg:
	case <-s.done:
	default:
		s.dropped.Add(1)
		s.logger.Warn("inbox full, dropping message",
			"message_topic", msg.Topic,
			"bytes", len(msg.Payload),
		)
	}
}

func (s *Subscriber) onConnectionLost(_ mqtt.Client, err error) {
	select {
	case s.lost <- err:
	default:
	}
}
