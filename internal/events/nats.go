package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/jonathan/hiring-agent/internal/logger"
)

// StreamName is the JetStream stream holding action events.
const StreamName = "AGENT"

// NATSPublisher publishes action events to NATS JetStream.
type NATSPublisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// NewNATSPublisher connects to url and makes sure the AGENT stream exists.
func NewNATSPublisher(ctx context.Context, url string, log *zap.Logger) (*NATSPublisher, error) {
	log = logger.OrNop(log)

	nc, err := nats.Connect(url,
		nats.Name("hiring-agent"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(streamCtx, jetstream.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{"agent.>"},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.LimitsPolicy,
		MaxAge:    7 * 24 * time.Hour,
	})
	if err != nil {
		// The stream may already exist with different settings; publishing still works.
		log.Warn("failed to ensure NATS stream", zap.String("stream", StreamName), zap.Error(err))
	}

	return &NATSPublisher{nc: nc, js: js}, nil
}

// Publish sends the event on its action subject.
func (p *NATSPublisher) Publish(ctx context.Context, event ActionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := event.Subject()
	// the action id doubles as the JetStream dedup id
	if _, err := p.js.Publish(ctx, subject, data, jetstream.WithMsgID(event.ActionID.String())); err != nil {
		return fmt.Errorf("failed to publish event to subject %s: %w", subject, err)
	}
	return nil
}

// Close drains and closes the NATS connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil {
		_ = p.nc.Drain()
	}
}
