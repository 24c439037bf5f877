package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"

	"QuicSieve/internal/config"
	"QuicSieve/internal/engine/pipeline"
	"QuicSieve/internal/logging"
	"QuicSieve/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	flag.Parse()

	// A .env file may override deployment-specific settings; its absence is
	// not an error.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment overrides from .env")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cleanup, err := logging.Setup(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer cleanup()

	log.Printf("Starting extraction from '%s' with windows %v", cfg.Extract.InputRoot, cfg.Extract.Windows)

	writers := writer.NewWriters(cfg)
	if len(writers) == 0 {
		log.Fatalf("No enabled writers in config, nothing to do.")
	}
	defer writer.CloseAll(writers)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pl := pipeline.New(cfg.Extract, writers)
	report, err := pl.Run(ctx)
	if err != nil {
		log.Fatalf("Batch run failed: %v", err)
	}

	log.Printf("Processed %d capture files, %d failed.", len(report.Files), report.Failed)
	totals := report.TotalEmitted()
	variants := make([]string, 0, len(totals))
	for variant := range totals {
		variants = append(variants, variant)
	}
	sort.Strings(variants)
	for _, variant := range variants {
		log.Printf("  variant %-6s %d flows", variant, totals[variant])
	}
	for _, fr := range report.Files {
		if fr.Err != nil {
			log.Printf("  failed: %s: %v", fr.Path, fr.Err)
		}
	}

	if report.Failed > 0 {
		os.Exit(1)
	}
}
