// Package writer provides the output sinks consuming emitted records: CSV
// datasets on disk, gob snapshots, a ClickHouse table and a NATS subject.
package writer

import (
	"log"

	"QuicSieve/internal/config"
	"QuicSieve/internal/model"
)

// NewWriters creates all enabled writers from the configuration. An unknown
// or misconfigured writer is logged and skipped rather than failing the run.
func NewWriters(cfg *config.Config) []model.Writer {
	writers := make([]model.Writer, 0, len(cfg.Writers))
	for _, def := range cfg.Writers {
		if !def.Enabled {
			continue
		}

		var w model.Writer
		var err error
		switch def.Type {
		case "csv":
			w = NewCSVWriter(def.CSV.RootPath)
		case "gob":
			w = NewGobWriter(def.Gob.RootPath)
		case "clickhouse":
			w, err = NewClickHouseWriter(def.ClickHouse)
		case "nats":
			w, err = NewNATSWriter(def.NATS)
		default:
			log.Printf("Warning: unknown writer type '%s' in config, skipping.", def.Type)
			continue
		}
		if err != nil {
			log.Printf("Warning: failed to create writer type '%s': %v, skipping.", def.Type, err)
			continue
		}
		writers = append(writers, w)
	}
	return writers
}

// CloseAll closes every writer, logging failures.
func CloseAll(writers []model.Writer) {
	for _, w := range writers {
		if err := w.Close(); err != nil {
			log.Printf("Error closing writer: %v", err)
		}
	}
}
