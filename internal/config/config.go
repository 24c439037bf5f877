package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ExtractConfig configures the batch extraction run.
type ExtractConfig struct {
	InputRoot        string `yaml:"input_root"`
	RecordExtension  string `yaml:"record_extension"` // dissector record files, default ".psv"
	Delimiter        string `yaml:"delimiter"`        // record field delimiter, default "|"
	Windows          []int  `yaml:"windows"`          // early-packet window sizes
	NumWorkers       int    `yaml:"num_workers"`      // per-file flow workers, 0 = NumCPU
	MaxParallelFiles int    `yaml:"max_parallel_files"`

	Pcap PcapConfig `yaml:"pcap"`
}

// PcapConfig enables the native pcap source for .pcap files under the input
// root, instead of relying on pre-dissected record files.
type PcapConfig struct {
	Enabled bool `yaml:"enabled"`
}

// CSVConfig configures the per-variant CSV writer.
type CSVConfig struct {
	RootPath string `yaml:"root_path"`
}

// GobConfig configures the gob snapshot writer.
type GobConfig struct {
	RootPath string `yaml:"root_path"`
}

// ClickHouseConfig holds connection settings for the ClickHouse writer and
// the query API.
type ClickHouseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// NATSConfig configures the NATS record publisher.
type NATSConfig struct {
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// WriterDef declares one output writer instance.
type WriterDef struct {
	Type    string `yaml:"type"` // csv, gob, clickhouse, nats
	Enabled bool   `yaml:"enabled"`

	CSV        CSVConfig        `yaml:"csv"`
	Gob        GobConfig        `yaml:"gob"`
	ClickHouse ClickHouseConfig `yaml:"clickhouse"`
	NATS       NATSConfig       `yaml:"nats"`
}

// APIConfig configures the HTTP query service.
type APIConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// LoggingConfig configures optional rotating file output for the standard
// logger.
type LoggingConfig struct {
	FilePath   string `yaml:"file_path"` // empty = stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Config is the top-level configuration struct for the entire application.
type Config struct {
	Extract ExtractConfig `yaml:"extract"`
	Writers []WriterDef   `yaml:"writers"`
	API     APIConfig     `yaml:"api"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoadConfig reads the configuration from a YAML file, applies environment
// overrides and defaults, and validates it.
func LoadConfig(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets a .env / environment override deployment-specific settings
// without editing the YAML.
func (c *Config) applyEnv() {
	if v := os.Getenv("QS_INPUT_ROOT"); v != "" {
		c.Extract.InputRoot = v
	}
	if v := os.Getenv("QS_NATS_URL"); v != "" {
		for i := range c.Writers {
			if c.Writers[i].Type == "nats" {
				c.Writers[i].NATS.URL = v
			}
		}
	}
	if v := os.Getenv("QS_CLICKHOUSE_HOST"); v != "" {
		for i := range c.Writers {
			if c.Writers[i].Type == "clickhouse" {
				c.Writers[i].ClickHouse.Host = v
			}
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Extract.RecordExtension == "" {
		c.Extract.RecordExtension = ".psv"
	}
	if c.Extract.Delimiter == "" {
		c.Extract.Delimiter = "|"
	}
	if c.Extract.MaxParallelFiles <= 0 {
		c.Extract.MaxParallelFiles = 4
	}
}

func (c *Config) validate() error {
	if c.Extract.InputRoot == "" {
		return fmt.Errorf("extract.input_root must be set")
	}
	seen := make(map[int]bool)
	for _, w := range c.Extract.Windows {
		if w <= 0 {
			return fmt.Errorf("extract.windows must be positive integers, got %d", w)
		}
		if seen[w] {
			return fmt.Errorf("duplicate window size %d", w)
		}
		seen[w] = true
	}
	// Window order is insensitive in config; normalize for deterministic
	// output ordering.
	sort.Ints(c.Extract.Windows)
	return nil
}
