// Package bustest provides an in-memory MQTT client for tests.
package bustest

import (
	"context"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"bonnetje/internal/bus"
)

// Published is one recorded Publish call.
type Published struct {
	Topic   string
	QoS     byte
	Payload []byte
}

// Client implements bus.Client. Use Dial as the bus.Dialer.
type Client struct {
	ConnectErr   error
	SubscribeErr error
	PublishErr   error

	mu           sync.Mutex
	opts         *mqtt.ClientOptions
	handler      mqtt.MessageHandler
	subTopic     string
	subQoS       byte
	published    []Published
	disconnected bool
	subscribed   chan struct{}
}

// NewClient returns a client that accepts every operation.
func NewClient() *Client {
	return &Client{subscribed: make(chan struct{})}
}

// Dial records opts and returns c.
func (c *Client) Dial(opts *mqtt.ClientOptions) bus.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts = opts
	return c
}

func (c *Client) Connect() mqtt.Token { return done(c.ConnectErr) }

func (c *Client) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	if c.SubscribeErr != nil {
		return done(c.SubscribeErr)
	}
	c.mu.Lock()
	c.handler = callback
	c.subTopic = topic
	c.subQoS = qos
	c.mu.Unlock()
	close(c.subscribed)
	return done(nil)
}

func (c *Client) Publish(topic string, qos byte, _ bool, payload interface{}) mqtt.Token {
	if c.PublishErr != nil {
		return done(c.PublishErr)
	}
	var b []byte
	switch p := payload.(type) {
	case []byte:
		b = append([]byte(nil), p...)
	case string:
		b = []byte(p)
	}
	c.mu.Lock()
	c.published = append(c.published, Published{Topic: topic, QoS: qos, Payload: b})
	c.mu.Unlock()
	return done(nil)
}

func (c *Client) Disconnect(uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disconnected = true
}

// WaitSubscribed blocks until Subscribe succeeded or ctx is done.
func (c *Client) WaitSubscribed(ctx context.Context) error {
	select {
	case <-c.subscribed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Deliver invokes the subscription callback as the broker would.
func (c *Client) Deliver(topic string, payload []byte) {
	c.mu.Lock()
	h := c.handler
	c.mu.Unlock()
	h(nil, &message{topic: topic, payload: payload})
}

// Lose fires the connection-lost handler.
func (c *Client) Lose(err error) {
	c.mu.Lock()
	opts := c.opts
	c.mu.Unlock()
	opts.OnConnectionLost(nil, err)
}

// Options returns the options passed to Dial.
func (c *Client) Options() *mqtt.ClientOptions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opts
}

// Subscription returns the subscribed topic and QoS.
func (c *Client) Subscription() (string, byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.subTopic, c.subQoS
}

// PublishedMessages returns every publish so far.
func (c *Client) PublishedMessages() []Published {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Published(nil), c.published...)
}

// Disconnected reports whether Disconnect was called.
func (c *Client) Disconnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disconnected
}

var _ bus.Client = (*Client)(nil)

type token struct {
	err error
	ch  chan struct{}
}

func done(err error) *token {
	t := &token{err: err, ch: make(chan struct{})}
	close(t.ch)
	return t
}

func (t *token) Wait() bool                     { return true }
func (t *token) WaitTimeout(time.Duration) bool { return true }
func (t *token) Done() <-chan struct{}          { return t.ch }
func (t *token) Error() error                   { return t.err }

type message struct {
	topic   string
	payload []byte
}

func (m *message) Duplicate() bool   { return false }
func (m *message) Qos() byte         { return 0 }
func (m *message) Retained() bool    { return false }
func (m *message) Topic() string     { return m.topic }
func (m *message) MessageID() uint16 { return 0 }
func (m *message) Payload() []byte   { return m.payload }
func (m *message) Ack()              {}
