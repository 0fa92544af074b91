// Package config loads runtime settings from defaults, an optional YAML file,
// a .env file and PROMPT_OVERFLOW_* environment variables, in increasing
// order of precedence.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "github.com/dpshade/prompt-overflow/internal/errors"
)

const (
	// DefaultSuggestionLimit caps the autocomplete dropdown
	DefaultSuggestionLimit = 8
	// DefaultCopyFeedback is how long a card shows its copied indicator
	DefaultCopyFeedback = 2 * time.Second
	// DefaultTable is the hosted table holding the prompt rows
	DefaultTable = "prompts"

	envPrefix = "PROMPT_OVERFLOW"
)

// Source names accepted by the source setting
const (
	SourceFile   = "file"
	SourceRemote = "remote"
	SourceSQLite = "sqlite"
	SourceSeed   = "seed"
)

// Config holds all runtime settings
type Config struct {
	Dir             string        `mapstructure:"dir"`
	Source          string        `mapstructure:"source"`
	SuggestionLimit int           `mapstructure:"suggestion_limit"`
	CopyFeedback    time.Duration `mapstructure:"copy_feedback"`
	Watch           bool          `mapstructure:"watch"`
	Remote          RemoteConfig  `mapstructure:"remote"`
	SQLite          SQLiteConfig  `mapstructure:"sqlite"`
	Log             LogConfig     `mapstructure:"log"`
}

// RemoteConfig points at a PostgREST endpoint
type RemoteConfig struct {
	URL   string `mapstructure:"url"`
	Key   string `mapstructure:"key"`
	Table string `mapstructure:"table"`
	// Timeout bounds each request; zero waits for the server or the context
	Timeout time.Duration `mapstructure:"timeout"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load builds the configuration. configFile may be empty, in which case
// <dir>/config.yaml is read when it exists.
func Load(configFile string) (*Config, error) {
	// A missing .env is the common case
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)
	bindEnvAliases(v)

	if configFile == "" {
		candidate := filepath.Join(expandHome(v.GetString("dir")), "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.ConfigError(fmt.Sprintf("failed to read config file %s", configFile)).WithDetails(err.Error())
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.ConfigError("failed to unmarshal config").WithDetails(err.Error())
	}

	cfg.resolvePaths()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults registers every known key so environment overrides reach Unmarshal
func SetDefaults(v *viper.Viper) {
	v.SetDefault("dir", defaultDir())
	v.SetDefault("source", SourceFile)
	v.SetDefault("suggestion_limit", DefaultSuggestionLimit)
	v.SetDefault("copy_feedback", DefaultCopyFeedback)
	v.SetDefault("watch", true)

	v.SetDefault("remote.url", "")
	v.SetDefault("remote.key", "")
	v.SetDefault("remote.table", DefaultTable)
	v.SetDefault("remote.timeout", time.Duration(0))

	v.SetDefault("sqlite.path", "")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// bindEnvAliases accepts the variable names used by hosted Supabase projects
func bindEnvAliases(v *viper.Viper) {
	_ = v.BindEnv("remote.url", envPrefix+"_REMOTE_URL", "SUPABASE_URL")
	_ = v.BindEnv("remote.key", envPrefix+"_REMOTE_KEY", "SUPABASE_ANON_KEY")
}

// Validate checks values that viper cannot type-check
func (c *Config) Validate() error {
	switch c.Source {
	case SourceFile, SourceRemote, SourceSQLite, SourceSeed:
	default:
		return apperrors.ConfigError(fmt.Sprintf("unknown source %q", c.Source)).
			WithDetails("expected one of file, remote, sqlite, seed")
	}
	if c.SuggestionLimit < 0 {
		return apperrors.ConfigError("suggestion_limit must not be negative")
	}
	if c.CopyFeedback <= 0 {
		return apperrors.ConfigError("copy_feedback must be positive")
	}
	if c.Source == SourceRemote && c.Remote.URL == "" {
		return apperrors.ConfigError("remote source requires remote.url").
			WithDetails("set PROMPT_OVERFLOW_REMOTE_URL or SUPABASE_URL")
	}
	if c.Remote.Timeout < 0 {
		return apperrors.ConfigError("remote.timeout must not be negative")
	}
	if c.Remote.Table == "" {
		return apperrors.ConfigError("remote.table must not be empty")
	}
	return nil
}

// PromptsDir is where the file source keeps its markdown prompts
func (c *Config) PromptsDir() string {
	return filepath.Join(c.Dir, "prompts")
}

// CacheDir holds the file source metadata cache
func (c *Config) CacheDir() string {
	return filepath.Join(c.Dir, ".prompt-overflow", "cache")
}

func (c *Config) resolvePaths() {
	c.Dir = expandHome(c.Dir)
	if c.SQLite.Path == "" {
		c.SQLite.Path = filepath.Join(c.Dir, "prompts.db")
	}
	if c.Log.File == "" {
		c.Log.File = filepath.Join(c.Dir, "logs", "prompt-overflow.log")
	}
	c.SQLite.Path = expandHome(c.SQLite.Path)
	c.Log.File = expandHome(c.Log.File)
}

func defaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".prompt-overflow"
	}
	return filepath.Join(homeDir, ".prompt-overflow")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}
