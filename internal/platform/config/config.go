package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
	StorageNone   = "none"
)

const fileName = "selflab.yaml"

type Config struct {
	DataDir       string        `yaml:"data_dir" envconfig:"DATA_DIR"`
	Storage       string        `yaml:"storage" envconfig:"STORAGE"`
	DBPath        string        `yaml:"db_path" envconfig:"DB_PATH"`
	QuotaBytes    int64         `yaml:"quota_bytes" envconfig:"QUOTA_BYTES"`
	LogMode       string        `yaml:"log_mode" envconfig:"LOG_MODE"`
	PluginTimeout time.Duration `yaml:"plugin_timeout" envconfig:"PLUGIN_TIMEOUT"`
}

// Options carries command-line overrides. Empty fields are ignored.
type Options struct {
	DataDir    string
	ConfigPath string
	Storage    string
	LogMode    string
}

// New returns the defaults rooted at dataDir.
func New(dataDir string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:       dataDir,
		Storage:       StorageFile,
		DBPath:        filepath.Join(dataDir, "selflab.db"),
		LogMode:       "off",
		PluginTimeout: 5 * time.Second,
	}, nil
}

// Load resolves configuration from defaults, the optional yaml file,
// SELFLAB_* environment variables and finally the command-line options.
func Load(opts Options) (Config, error) {
	dataDir := opts.DataDir
	if dataDir == "" {
		dataDir = os.Getenv("SELFLAB_DATA_DIR")
	}
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve home dir: %w", err)
		}
		dataDir = filepath.Join(home, ".selflab")
	}
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}

	path := opts.ConfigPath
	if path == "" {
		path = filepath.Join(dataDir, fileName)
	}
	if err := cfg.mergeFile(path, opts.ConfigPath != ""); err != nil {
		return Config{}, err
	}
	if err := envconfig.Process("SELFLAB", &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}

	if opts.DataDir != "" {
		cfg.DataDir = opts.DataDir
	}
	if opts.Storage != "" {
		cfg.Storage = opts.Storage
	}
	if opts.LogMode != "" {
		cfg.LogMode = opts.LogMode
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(cfg.DataDir, "selflab.db")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, required bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.Storage {
	case StorageFile, StorageSQLite, StorageMemory, StorageNone:
	default:
		return fmt.Errorf("unsupported storage %q", c.Storage)
	}
	if c.QuotaBytes < 0 {
		return fmt.Errorf("quota_bytes must not be negative")
	}
	if c.PluginTimeout <= 0 {
		return fmt.Errorf("plugin_timeout must be positive")
	}
	return nil
}

func (c Config) StorePath() string   { return filepath.Join(c.DataDir, "store") }
func (c Config) SecretPath() string  { return filepath.Join(c.DataDir, "session.key") }
func (c Config) PluginsPath() string { return filepath.Join(c.DataDir, "plugins") }
func (c Config) ReportsPath() string { return filepath.Join(c.DataDir, "reports") }
