// Package pipeline drives the per-file extraction passes and the concurrent
// batch run: parse, assemble, slice, compute, emit.
package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"QuicSieve/internal/config"
	core "QuicSieve/internal/core/model"
	"QuicSieve/internal/engine/assemble"
	"QuicSieve/internal/engine/emit"
	"QuicSieve/internal/engine/record"
	"QuicSieve/internal/engine/window"
	"QuicSieve/internal/model"
	"QuicSieve/pkg/pcap"
)

// FileReport summarizes the processing of one capture file.
type FileReport struct {
	Path         string
	Packets      int
	SkippedLines int
	Flows        int
	Emitted      map[string]int // variant -> record count
	Err          error
}

// BatchReport aggregates the reports of a whole run.
type BatchReport struct {
	Files  []*FileReport
	Failed int
}

// TotalEmitted sums emitted record counts per variant across all files.
func (b *BatchReport) TotalEmitted() map[string]int {
	totals := make(map[string]int)
	for _, f := range b.Files {
		for variant, n := range f.Emitted {
			totals[variant] += n
		}
	}
	return totals
}

// Pipeline processes capture files into feature datasets.
type Pipeline struct {
	cfg     config.ExtractConfig
	writers []model.Writer
}

// New creates a pipeline writing to the given sinks.
func New(cfg config.ExtractConfig, writers []model.Writer) *Pipeline {
	return &Pipeline{cfg: cfg, writers: writers}
}

// Run processes every capture file under the input root. Files run
// concurrently up to the configured limit; a failing file is reported and
// never aborts the rest of the batch.
func (p *Pipeline) Run(ctx context.Context) (*BatchReport, error) {
	files, err := p.discoverFiles()
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no capture files found under '%s'", p.cfg.InputRoot)
	}
	log.Printf("Found %d capture files under '%s'", len(files), p.cfg.InputRoot)

	report := &BatchReport{Files: make([]*FileReport, len(files))}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.MaxParallelFiles)

	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fr := p.ProcessFile(path)
			report.Files[i] = fr
			if fr.Err != nil {
				log.Printf("Error processing '%s': %v", path, fr.Err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, fr := range report.Files {
		if fr.Err != nil {
			report.Failed++
		}
	}
	return report, nil
}

// discoverFiles walks the input root recursively, collecting record files
// (and pcap files when the native source is enabled) in sorted order.
func (p *Pipeline) discoverFiles() ([]string, error) {
	var files []string
	err := filepath.WalkDir(p.cfg.InputRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext == p.cfg.RecordExtension || (p.cfg.Pcap.Enabled && ext == ".pcap") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk input root: %w", err)
	}
	sort.Strings(files)
	return files, nil
}

// ProcessFile runs the full pass for one capture file. A failure is recorded
// in the report and does not propagate; the caller's batch continues.
func (p *Pipeline) ProcessFile(path string) *FileReport {
	fr := &FileReport{Path: path, Emitted: make(map[string]int)}

	events, skipped, err := p.readEvents(path)
	if err != nil {
		fr.Err = err
		return fr
	}
	fr.Packets = len(events)
	fr.SkippedLines = skipped
	if skipped > 0 {
		log.Printf("Skipped %d malformed lines in '%s'", skipped, path)
	}

	// Assembly is a strictly sequential pass; flow keys and roles are only
	// stable once it has consumed the whole file.
	asm := assemble.New()
	for _, ev := range events {
		asm.Add(ev)
	}
	flows := asm.Flows()
	fr.Flows = len(flows)
	if len(flows) == 0 {
		log.Printf("Warning: no flows in '%s', nothing to emit", path)
		return fr
	}

	records := p.computeAll(filepath.Base(path), flows)

	for variant, recs := range records {
		fr.Emitted[variant] = len(recs)
		for _, w := range p.writers {
			if err := w.Write(filepath.Base(path), variant, recs); err != nil {
				fr.Err = fmt.Errorf("failed to write variant '%s': %w", variant, err)
				return fr
			}
		}
	}
	return fr
}

// readEvents produces the ordered packet event sequence of one capture file,
// from either the native pcap source or a dissector record file.
func (p *Pipeline) readEvents(path string) ([]*core.PacketEvent, int, error) {
	if strings.ToLower(filepath.Ext(path)) == ".pcap" {
		reader, err := pcap.NewReader(path)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to open pcap file: %w", err)
		}
		defer reader.Close()
		return reader.ReadEvents()
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open record file: %w", err)
	}
	defer file.Close()

	parser := record.NewParser(p.cfg.Delimiter)
	var events []*core.PacketEvent
	skipped := 0

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ev, err := parser.ParseLine(scanner.Text())
		if err != nil {
			skipped++
			continue
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("failed to read record file: %w", err)
	}
	return events, skipped, nil
}

// computeAll computes every dataset variant for the file's flows. Flows are
// independent once assembly has finished, so statistics run on a worker
// pool; record order within a variant follows the flows' first-seen order.
func (p *Pipeline) computeAll(sourceFile string, flows []*core.Flow) map[string][]*core.OutputRecord {
	emitter := emit.New(sourceFile)

	type flowResult struct {
		full    *core.OutputRecord
		windows map[int]*core.OutputRecord
	}
	results := make([]flowResult, len(flows))

	numWorkers := p.cfg.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	jobs := make(chan int, len(flows))
	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				flow := flows[i]
				res := flowResult{
					full:    emitter.Full(flow),
					windows: make(map[int]*core.OutputRecord, len(p.cfg.Windows)),
				}
				for _, n := range p.cfg.Windows {
					rec, err := emitter.Window(flow, n)
					if err != nil {
						// Short flows are excluded from this variant only.
						if err != window.ErrInsufficientData {
							log.Printf("Error computing window %d for flow '%s': %v", n, flow.Key, err)
						}
						continue
					}
					res.windows[n] = rec
				}
				results[i] = res
			}
		}()
	}
	for i := range flows {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	records := make(map[string][]*core.OutputRecord)
	for _, res := range results {
		records[core.VariantFull] = append(records[core.VariantFull], res.full)
		for _, n := range p.cfg.Windows {
			if rec, ok := res.windows[n]; ok {
				variant := core.VariantForWindow(n)
				records[variant] = append(records[variant], rec)
			}
		}
	}
	return records
}
