package bus

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Config holds broker connection settings.
type Config struct {
	Host           string
	Port           uint16
	Username       string
	Password       string
	ClientID       string
	Topic          string
	QoS            byte
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
}

// Broker returns the broker URL.
func (c Config) Broker() string {
	return "tcp://" + net.JoinHostPort(c.Host, strconv.Itoa(int(c.Port)))
}

// Client is the part of mqtt.Client the daemon uses.
type Client interface {
	Connect() mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Disconnect(quiesce uint)
}

// Dialer builds a client from options without connecting.
type Dialer func(opts *mqtt.ClientOptions) Client

// PahoDialer builds a real Paho client.
func PahoDialer(opts *mqtt.ClientOptions) Client { return mqtt.NewClient(opts) }

// disconnectQuiesce is how long Disconnect waits for in-flight work, in ms.
const disconnectQuiesce = 250

// ClientOptions maps c onto Paho options. Reconnection is disabled: a lost
// connection is surfaced to the caller instead.
func ClientOptions(c Config) *mqtt.ClientOptions {
	return mqtt.NewClientOptions().
		AddBroker(c.Broker()).
		SetClientID(c.ClientID).
		SetUsername(c.Username).
		SetPassword(c.Password).
		SetKeepAlive(c.KeepAlive).
		SetConnectTimeout(c.ConnectTimeout).
		SetCleanSession(true).
		SetOrderMatters(true).
		SetAutoReconnect(false).
		SetConnectRetry(false)
}

// wait blocks until t completes or ctx is done.
func wait(ctx context.Context, t mqtt.Token) error {
	select {
	case <-t.Done():
		return t.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func connect(ctx context.Context, dial Dialer, opts *mqtt.ClientOptions, broker string) (Client, error) {
	if dial == nil {
		dial = PahoDialer
	}
	client := dial(opts)
	if err := wait(ctx, client.Connect()); err != nil {
		return nil, fmt.Errorf("connect %s: %w", broker, err)
	}
	return client, nil
}
