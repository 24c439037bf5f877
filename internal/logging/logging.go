// Package logging configures the standard logger, optionally routing it to
// a size-rotated file.
package logging

import (
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"QuicSieve/internal/config"
)

// Setup points the standard logger at the configured destination and
// returns a cleanup function to call on shutdown. With no file path
// configured, logging stays on stderr.
func Setup(cfg config.LoggingConfig) (func() error, error) {
	if cfg.FilePath == "" {
		log.SetOutput(os.Stderr)
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, err
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}
	log.SetOutput(lj)
	return lj.Close, nil
}
