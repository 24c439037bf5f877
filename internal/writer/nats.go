package writer

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/nats-io/nats.go"

	"QuicSieve/internal/config"
	core "QuicSieve/internal/core/model"
	"QuicSieve/internal/model"
)

// NATSWriter publishes each output record as a JSON message, one message per
// record, on "<subject>.<variant>". Downstream consumers subscribe per
// dataset variant.
type NATSWriter struct {
	nc      *nats.Conn
	subject string
}

// NewNATSWriter connects to the NATS server.
func NewNATSWriter(cfg config.NATSConfig) (model.Writer, error) {
	nc, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, err
	}
	log.Printf("Connected to NATS server at %s", cfg.URL)
	return &NATSWriter{nc: nc, subject: cfg.Subject}, nil
}

// Write publishes the records of one (capture file, variant) pair.
func (w *NATSWriter) Write(sourceFile, variant string, records []*core.OutputRecord) error {
	subject := fmt.Sprintf("%s.%s", w.subject, variant)
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("failed to marshal record for '%s': %w", sourceFile, err)
		}
		if err := w.nc.Publish(subject, data); err != nil {
			return fmt.Errorf("failed to publish record to '%s': %w", subject, err)
		}
	}
	return nil
}

// Close drains and closes the NATS connection.
func (w *NATSWriter) Close() error {
	if w.nc != nil {
		if err := w.nc.Drain(); err != nil {
			return err
		}
		log.Println("NATS connection drained and closed.")
	}
	return nil
}
