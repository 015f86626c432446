package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Snapshot SnapshotConfig
	Export   ExportConfig
	Log      LogConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// SnapshotConfig locates the JSON snapshot file used by save/load.
type SnapshotConfig struct {
	Path string
}

// ExportConfig controls the exported document.
type ExportConfig struct {
	Format    string // json or yaml
	Indent    int
	Clipboard bool
}

// LogConfig holds logger settings. An empty path logs to stderr.
type LogConfig struct {
	Path  string
	Level string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	SidebarOpen bool `mapstructure:"sidebar_open"`
	URLWidth    int  `mapstructure:"url_width"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "framebuilder")
}

// Path returns the config file location: $FRAMEBUILDER_CONFIG or
// ~/.config/framebuilder/config.toml.
func Path() string {
	if p := os.Getenv("FRAMEBUILDER_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "framebuilder", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix FRAMEBUILDER_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("database.path", filepath.Join(dataDir(), "framebuilder.db"))
	v.SetDefault("snapshot.path", filepath.Join(dataDir(), "snapshot.json"))
	v.SetDefault("export.format", "json")
	v.SetDefault("export.indent", 2)
	v.SetDefault("export.clipboard", true)
	v.SetDefault("log.path", filepath.Join(dataDir(), "framebuilder.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.sidebar_open", true)
	v.SetDefault("ui.url_width", 48)

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("FRAMEBUILDER_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "framebuilder"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("FRAMEBUILDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Export.Format = strings.ToLower(strings.TrimSpace(c.Export.Format))
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects settings the exporter cannot honour.
func (c Config) Validate() error {
	switch c.Export.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("config: export.format %q must be json or yaml", c.Export.Format)
	}
	if c.Export.Indent < 0 || c.Export.Indent > 8 {
		return fmt.Errorf("config: export.indent %d out of range 0-8", c.Export.Indent)
	}
	return nil
}

// isNotFound treats both viper's search miss and a missing explicit file as
// "no config".
func isNotFound(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("snapshot.path", cfg.Snapshot.Path)
	v.Set("export.format", cfg.Export.Format)
	v.Set("export.indent", cfg.Export.Indent)
	v.Set("export.clipboard", cfg.Export.Clipboard)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.sidebar_open", cfg.UI.SidebarOpen)
	v.Set("ui.url_width", cfg.UI.URLWidth)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
