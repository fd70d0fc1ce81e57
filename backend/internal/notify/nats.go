package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
)

// NATSPublisher publishes match events as JSON on
// <prefix>.match.<target category>.
type NATSPublisher struct {
	nc     *nats.Conn
	prefix string
	owned  bool
}

// NewNATSPublisher connects to natsURL.
func NewNATSPublisher(natsURL, prefix string) (*NATSPublisher, error) {
	nc, err := nats.Connect(natsURL, nats.Name("foundira"))
	if err != nil {
		return nil, fmt.Errorf("connect to nats: %w", err)
	}
	p := NewNATSPublisherWithConn(nc, prefix)
	p.owned = true
	return p, nil
}

// NewNATSPublisherWithConn publishes over an existing connection, which the
// caller keeps ownership of.
func NewNATSPublisherWithConn(nc *nats.Conn, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = "foundira"
	}
	return &NATSPublisher{nc: nc, prefix: prefix}
}

// Subject returns the subject an event is published on.
func (p *NATSPublisher) Subject(event MatchEvent) string {
	category := strings.ToLower(strings.TrimSpace(string(event.TargetCategory)))
	if category == "" {
		category = "unknown"
	}
	return p.prefix + ".match." + category
}

func (p *NATSPublisher) NotifyMatch(ctx context.Context, event MatchEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal match event: %w", err)
	}
	if err := p.nc.Publish(p.Subject(event), data); err != nil {
		return fmt.Errorf("publish match event: %w", err)
	}
	return nil
}

// Close drains the connection when the publisher opened it.
func (p *NATSPublisher) Close() {
	if p.owned && p.nc != nil {
		_ = p.nc.Drain()
	}
}
