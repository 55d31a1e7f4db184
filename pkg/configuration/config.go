package configuration

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/alantheprice/exoshell/pkg/filesystem"
	"github.com/alantheprice/exoshell/pkg/input"
	"github.com/alantheprice/exoshell/pkg/shell"
	"github.com/alantheprice/exoshell/pkg/utils"
)

const ConfigVersion = "1.0"

// Config represents the application configuration
type Config struct {
	Version string `yaml:"version"`

	// Leader is the key that enters the prefix mode, e.g. "ctrl+\" or "<C-a>"
	Leader string `yaml:"leader"`

	// Border names a box-drawing preset: normal, rounded, thick or double
	Border string `yaml:"border"`

	// PollIntervalMs is how long the demo host waits for input per update
	PollIntervalMs int `yaml:"poll_interval_ms"`

	// LogFile overrides the log location inside the data directory
	LogFile string `yaml:"log_file,omitempty"`

	// Titles are shown in the header after the session name
	Titles []string `yaml:"titles,omitempty"`
}

// NewConfig creates a new config with default values
func NewConfig() *Config {
	return &Config{
		Version:        ConfigVersion,
		Leader:         `ctrl+\`,
		Border:         shell.DefaultBorderName,
		PollIntervalMs: 50,
	}
}

// GetConfigPath returns the full path to the config file. EXOSHELL_CONFIG
// takes precedence over the user config directory.
func GetConfigPath() (string, error) {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		return path, nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", utils.NewPathError("could not find config directory, please set %s manually: %v", ConfigFileEnv, err)
	}
	return filepath.Join(configDir, AppDirName, ConfigFileName), nil
}

// Load loads the configuration from the default location
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from path. A missing file yields the
// defaults; keys absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	config := NewConfig()

	data, err := filesystem.ReadFileBytes(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, utils.NewIOError("read config", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, utils.NewDeserializationError(path, err)
	}
	if config.Version == "" {
		config.Version = ConfigVersion
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Save saves the configuration to the default location
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(configPath)
}

// SaveTo writes the configuration to path
func (c *Config) SaveTo(path string) error {
	c.Version = ConfigVersion

	data, err := yaml.Marshal(c)
	if err != nil {
		return utils.NewSerializationError(path, err)
	}

	if err := filesystem.WriteFileAtomic(path, data, 0600); err != nil {
		return utils.NewIOError("write config", path, err)
	}
	return nil
}

// Validate checks that the leader parses, the border is known and the poll
// interval is positive
func (c *Config) Validate() error {
	if _, err := c.LeaderKey(); err != nil {
		return err
	}
	if _, err := c.BorderGlyphs(); err != nil {
		return err
	}
	if c.PollIntervalMs <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %d", c.PollIntervalMs)
	}
	return nil
}

// LeaderKey parses the configured leader key
func (c *Config) LeaderKey() (input.Event, error) {
	ev, err := input.ParseKey(c.Leader)
	if err != nil {
		return input.Event{}, fmt.Errorf("leader: %w", err)
	}
	return ev, nil
}

// BorderGlyphs returns the configured border preset
func (c *Config) BorderGlyphs() (shell.Border, error) {
	return shell.BorderByName(c.Border)
}

// PollInterval returns the poll timeout as a duration
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}

// LogPath returns the configured log file or the default one
func (c *Config) LogPath() (string, error) {
	if c.LogFile != "" {
		return c.LogFile, nil
	}
	return DefaultLogPath()
}
