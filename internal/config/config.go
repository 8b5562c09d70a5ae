// Package config provides configuration management for tomato.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config holds all configuration for the tomato application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	Storage       StorageConfig      `mapstructure:"storage"`
	UI            UIConfig           `mapstructure:"ui"`
	MCP           MCPConfig          `mapstructure:"mcp"`
}

// TimerConfig holds engine cadences.
type TimerConfig struct {
	TickInterval      Duration `mapstructure:"tick_interval"`
	RenderInterval    Duration `mapstructure:"render_interval"`
	IntroStepInterval Duration `mapstructure:"intro_step_interval"`
	RevealDelay       Duration `mapstructure:"reveal_delay"`
	FlashDuration     Duration `mapstructure:"flash_duration"`
}

// NotificationConfig holds transition cue settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// StorageConfig holds preference storage settings.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	DataDir string `mapstructure:"data_dir"`
}

// UIConfig holds terminal display settings.
type UIConfig struct {
	BigDigits     bool `mapstructure:"big_digits"`
	UnitsPerRow   int  `mapstructure:"units_per_row"`
	RevealActions bool `mapstructure:"reveal_actions"`
	AltScreen     bool `mapstructure:"alt_screen"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

const defaultDataDir = "~/.tomato"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			TickInterval:      Duration(time.Second),
			RenderInterval:    Duration(80 * time.Millisecond),
			IntroStepInterval: Duration(80 * time.Millisecond),
			RevealDelay:       Duration(350 * time.Millisecond),
			FlashDuration:     Duration(600 * time.Millisecond),
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			DataDir: defaultDataDir,
		},
		UI: UIConfig{
			BigDigits:     true,
			UnitsPerRow:   5,
			RevealActions: true,
			AltScreen:     true,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
	}
}

// Load loads the configuration from the config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from configPath, creating the file with
// defaults when it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	v.SetEnvPrefix("TOMATO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir
	cfg.normalize()

	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg to configPath.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	v.Set("timer.tick_interval", cfg.Timer.TickInterval.String())
	v.Set("timer.render_interval", cfg.Timer.RenderInterval.String())
	v.Set("timer.intro_step_interval", cfg.Timer.IntroStepInterval.String())
	v.Set("timer.reveal_delay", cfg.Timer.RevealDelay.String())
	v.Set("timer.flash_duration", cfg.Timer.FlashDuration.String())
	v.Set("notifications.enabled", cfg.Notifications.Enabled)
	v.Set("notifications.sound", cfg.Notifications.Sound)
	v.Set("storage.backend", cfg.Storage.Backend)
	v.Set("storage.data_dir", cfg.Storage.DataDir)
	v.Set("ui.big_digits", cfg.UI.BigDigits)
	v.Set("ui.units_per_row", cfg.UI.UnitsPerRow)
	v.Set("ui.reveal_actions", cfg.UI.RevealActions)
	v.Set("ui.alt_screen", cfg.UI.AltScreen)
	v.Set("mcp.enabled", cfg.MCP.Enabled)

	return v.WriteConfigAs(configPath)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".tomato", "config.toml"), nil
}

// GetStorePath returns the preference store location for the configured
// backend.
func GetStorePath(cfg *Config) string {
	switch cfg.Storage.Backend {
	case "toml":
		return filepath.Join(cfg.Storage.DataDir, "prefs.toml")
	case "memory":
		return ""
	default:
		return filepath.Join(cfg.Storage.DataDir, "tomato.db")
	}
}

// setDefaults sets default values for viper.
func setDefaults(v *viper.Viper) {
	v.SetDefault("timer.tick_interval", "1s")
	v.SetDefault("timer.render_interval", "80ms")
	v.SetDefault("timer.intro_step_interval", "80ms")
	v.SetDefault("timer.reveal_delay", "350ms")
	v.SetDefault("timer.flash_duration", "600ms")
	v.SetDefault("notifications.enabled", true)
	v.SetDefault("notifications.sound", true)
	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.data_dir", defaultDataDir)
	v.SetDefault("ui.big_digits", true)
	v.SetDefault("ui.units_per_row", 5)
	v.SetDefault("ui.reveal_actions", true)
	v.SetDefault("ui.alt_screen", true)
	v.SetDefault("mcp.enabled", true)
}

// normalize repairs values that would break the timer.
func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Timer.TickInterval <= 0 {
		c.Timer.TickInterval = def.Timer.TickInterval
	}
	if c.Timer.RenderInterval <= 0 {
		c.Timer.RenderInterval = def.Timer.RenderInterval
	}
	if c.Timer.IntroStepInterval <= 0 {
		c.Timer.IntroStepInterval = def.Timer.IntroStepInterval
	}
	if c.Timer.RevealDelay < 0 {
		c.Timer.RevealDelay = 0
	}
	if c.Timer.FlashDuration < 0 {
		c.Timer.FlashDuration = 0
	}
	if c.UI.UnitsPerRow < 1 {
		c.UI.UnitsPerRow = def.UI.UnitsPerRow
	}
	switch c.Storage.Backend {
	case "sqlite", "toml", "memory":
	default:
		c.Storage.Backend = def.Storage.Backend
	}
}

func expandHome(dir string) (string, error) {
	if dir == "" || dir == defaultDataDir {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, ".tomato"), nil
	}
	if strings.HasPrefix(dir, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, dir[2:]), nil
	}
	return dir, nil
}
