package agenda

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Default file names inside the data directory.
const (
	DefaultDataFile    = "agenda.json"
	DefaultBackupDir   = "backups"
	DefaultHistoryFile = "historial.json"
	DefaultListen      = ":8080"
)

// Config is the explicit file-path and server configuration. Relative
// DataFile/BackupDir/HistoryFile entries are resolved against DataDir.
type Config struct {
	Listen       string `yaml:"listen"`
	DataDir      string `yaml:"data_dir"`
	DataFile     string `yaml:"data_file"`
	BackupDir    string `yaml:"backup_dir"`
	HistoryFile  string `yaml:"history_file"`
	BackupLimit  int    `yaml:"backup_limit"`
	HistoryLimit int    `yaml:"history_limit"`
}

// LoadConfig reads a YAML config file and fills in defaults. An empty path
// returns the defaults for the current directory.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}
	return cfg.withDefaults(), nil
}

// DefaultConfig returns the configuration for the given data directory.
func DefaultConfig(dataDir string) Config {
	return Config{DataDir: dataDir}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.DataDir == "" {
		c.DataDir = "."
	}
	if c.DataFile == "" {
		c.DataFile = DefaultDataFile
	}
	if c.BackupDir == "" {
		c.BackupDir = DefaultBackupDir
	}
	if c.HistoryFile == "" {
		c.HistoryFile = DefaultHistoryFile
	}
	c.DataFile = c.resolve(c.DataFile)
	c.BackupDir = c.resolve(c.BackupDir)
	c.HistoryFile = c.resolve(c.HistoryFile)
	return c
}

func (c Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.DataDir, path)
}
