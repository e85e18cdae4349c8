package emitter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/vietddude/dispatcher/internal/core/domain"
)

// Config holds NATS emitter configuration.
type Config struct {
	URL     string `json:"url"     yaml:"url"`
	Subject string `json:"subject" yaml:"subject"`
}

// NATSEmitter publishes successful outcome records to a NATS subject so
// downstream consumers pick them up as they are produced.
type NATSEmitter struct {
	nc      *nats.Conn
	subject string
}

// Connect creates a NATS emitter.
func Connect(cfg Config) (*NATSEmitter, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	subject := cfg.Subject
	if subject == "" {
		subject = "dispatcher.results"
	}
	return &NATSEmitter{nc: nc, subject: subject}, nil
}

// Emit publishes one success record.
func (e *NATSEmitter) Emit(o domain.Outcome) error {
	b, err := json.Marshal(o.Record())
	if err != nil {
		return err
	}
	return e.nc.Publish(e.subject, b)
}

// Close drains the connection.
func (e *NATSEmitter) Close() {
	if e.nc != nil {
		_ = e.nc.Drain()
	}
}
