package bus

import (
	"context"
	"fmt"

	"bonnetje/internal/domain"
)

// publisherSuffix keeps the publisher from taking over the daemon's client ID.
const publisherSuffix = "-publish"

// Publisher sends payloads over its own connection.
type Publisher struct {
	client Client
	qos    byte
}

// DialPublisher connects a publisher. A nil dial uses PahoDialer.
func DialPublisher(ctx context.Context, cfg Config, dial Dialer) (*Publisher, error) {
	opts := ClientOptions(cfg).SetClientID(cfg.ClientID + publisherSuffix)
	client, err := connect(ctx, dial, opts, cfg.Broker())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrConnectivity, err)
	}
	return &Publisher{client: client, qos: cfg.QoS}, nil
}

// Publish sends payload to topic and waits for the client to hand it off.
func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := wait(ctx, p.client.Publish(topic, p.qos, false, payload)); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Close disconnects from the broker.
func (p *Publisher) Close() { p.client.Disconnect(disconnectQuiesce) }

var _ domain.Publisher = (*Publisher)(nil)
