package model

import (
	core "QuicSieve/internal/core/model"
)

// Writer defines a generic interface for persisting the records of one
// dataset variant of one capture file. Writes for distinct (file, variant)
// pairs are independent and carry no ordering guarantee across files.
type Writer interface {
	// Write persists the records of one (capture file, variant) pair.
	// sourceFile is the capture file identifier; variant is "full" or a
	// decimal window size.
	Write(sourceFile, variant string, records []*core.OutputRecord) error

	// Close releases any underlying resources once the batch is done.
	Close() error
}
