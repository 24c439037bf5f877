package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	core "QuicSieve/internal/core/model"
	"QuicSieve/internal/model"
)

// CSVWriter writes one CSV file per (capture file, variant) pair, organized
// by variant directory: <root>/<variant>/<file>.csv. Every row carries the
// full metadata-plus-schema column set.
type CSVWriter struct {
	rootPath string
}

// NewCSVWriter creates a CSV dataset writer rooted at rootPath.
func NewCSVWriter(rootPath string) model.Writer {
	return &CSVWriter{rootPath: rootPath}
}

// Write persists the records of one dataset variant of one capture file.
func (w *CSVWriter) Write(sourceFile, variant string, records []*core.OutputRecord) error {
	if len(records) == 0 {
		return nil
	}

	dir := filepath.Join(w.rootPath, variant)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create variant directory: %w", err)
	}

	base := sourceFile
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	path := filepath.Join(dir, base+".csv")

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create dataset file '%s': %w", path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)

	header := append(append([]string{}, core.MetadataNames...), core.FeatureNames...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header to '%s': %w", path, err)
	}

	for _, rec := range records {
		row := rec.MetadataValues()
		for _, v := range rec.Features.Values() {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write record to '%s': %w", path, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Close is a no-op; each Write owns its file handle.
func (w *CSVWriter) Close() error {
	return nil
}
