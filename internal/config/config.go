// Package config loads the application configuration from YAML with
// environment expansion and .env support.
package config

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	Products ProductsConfig `yaml:"products"`
	Batch    BatchConfig    `yaml:"batch"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Download DownloadConfig `yaml:"download"`
	Daemon   DaemonConfig   `yaml:"daemon"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	AOI      AOIConfig      `yaml:"aoi"`
}

// ProductsConfig holds per-product directory layouts.
type ProductsConfig struct {
	NighttimeLights ProductPaths `yaml:"nighttime_lights"`
	NitrogenDioxide ProductPaths `yaml:"nitrogen_dioxide"`
	CarbonMonoxide  ProductPaths `yaml:"carbon_monoxide"`
}

// ProductPaths locates raw inputs and processed outputs for one product.
type ProductPaths struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	// Variable selects the science variable for single-variable
	// conversions (carbon monoxide only).
	Variable string `yaml:"variable,omitempty"`
}

// BatchConfig sizes the per-file worker pool.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// LedgerConfig locates the processing ledger; empty disables it.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// DownloadConfig describes LAADS archive orders to mirror.
type DownloadConfig struct {
	BaseURL string  `yaml:"base_url"`
	Token   string  `yaml:"token"`
	Orders  []int64 `yaml:"orders"`
	// Directory defaults to the nighttime-lights input directory.
	Directory string `yaml:"directory"`
}

// DaemonConfig controls watch mode.
type DaemonConfig struct {
	Watch bool `yaml:"watch"`
	// DownloadInterval is a Go duration string ("6h", "30m").
	DownloadInterval string `yaml:"download_interval"`
}

// Interval parses the download interval, falling back to the default on
// empty or malformed values.
func (d DaemonConfig) Interval() time.Duration {
	dur, err := time.ParseDuration(d.DownloadInterval)
	if err != nil || dur <= 0 {
		return 6 * time.Hour
	}
	return dur
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// AOIConfig locates the area-of-interest boundary used for clipping.
type AOIConfig struct {
	Path string `yaml:"path"`
}

// Load reads the configuration file, expanding ${VAR} references from the
// environment (after loading .env if present) and applying defaults.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))
	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// Init writes an example configuration to configPath. An existing file is
// only overwritten when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Products: ProductsConfig{
			NighttimeLights: ProductPaths{
				InputDir:  "./data/ntl/raw",
				OutputDir: "./data/ntl/processed",
			},
			NitrogenDioxide: ProductPaths{
				InputDir:  "./data/no2/raw",
				OutputDir: "./data/no2/processed",
			},
			CarbonMonoxide: ProductPaths{
				InputDir:  "./data/co/raw",
				OutputDir: "./data/co/processed",
				Variable:  "TotCO_A",
			},
		},
		Batch:  BatchConfig{Workers: runtime.NumCPU()},
		Ledger: LedgerConfig{Path: "./skyglow.db"},
		Download: DownloadConfig{
			Token:  "${LAADS_TOKEN}",
			Orders: []int64{},
		},
		Daemon:  DaemonConfig{Watch: true, DownloadInterval: "6h"},
		Metrics: MetricsConfig{Enabled: false, Listen: ":9090"},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = runtime.NumCPU()
	}
	if c.Download.BaseURL == "" {
		c.Download.BaseURL = "https://ladsweb.modaps.eosdis.nasa.gov/archive/orders"
	}
	if c.Download.Directory == "" {
		c.Download.Directory = c.Products.NighttimeLights.InputDir
	}
	if c.Metrics.Listen == "" {
		c.Metrics.Listen = ":9090"
	}
	if c.Products.CarbonMonoxide.Variable == "" {
		c.Products.CarbonMonoxide.Variable = "TotCO_A"
	}
}
