package writer

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	core "QuicSieve/internal/core/model"
	"QuicSieve/internal/model"
)

// SummaryData holds the metadata written alongside a gob snapshot.
type SummaryData struct {
	SourceFile string `json:"source_file"`
	Variant    string `json:"variant"`
	TotalFlows int    `json:"total_flows"`
	Timestamp  string `json:"timestamp"`
}

// GobWriter persists output records to disk in gob format, one snapshot per
// (capture file, variant) pair plus a JSON summary.
type GobWriter struct {
	rootPath string
}

// NewGobWriter creates a gob snapshot writer rooted at rootPath.
func NewGobWriter(rootPath string) model.Writer {
	return &GobWriter{rootPath: rootPath}
}

// Write serializes the records of one (capture file, variant) pair.
func (w *GobWriter) Write(sourceFile, variant string, records []*core.OutputRecord) error {
	if len(records) == 0 {
		return nil
	}

	dir := filepath.Join(w.rootPath, variant)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	base := sourceFile
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}

	dataPath := filepath.Join(dir, base+".dat")
	file, err := os.Create(dataPath)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file '%s': %w", dataPath, err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(records); err != nil {
		return fmt.Errorf("failed to encode records to gob for file '%s': %w", dataPath, err)
	}

	summary := SummaryData{
		SourceFile: sourceFile,
		Variant:    variant,
		TotalFlows: len(records),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	summaryPath := filepath.Join(dir, base+".summary.json")
	summaryFile, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer summaryFile.Close()

	enc := json.NewEncoder(summaryFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary to json: %w", err)
	}

	return nil
}

// Close is a no-op; each Write owns its file handles.
func (w *GobWriter) Close() error {
	return nil
}
