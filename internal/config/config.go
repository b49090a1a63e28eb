package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/hejijunhao/amavislog/internal/engine/classifier"
	"github.com/hejijunhao/amavislog/internal/source"
)

// EnvPrefix is prepended to every key when read from the environment,
// e.g. AMAVISLOG_SERVICE.
const EnvPrefix = "AMAVISLOG"

// Keys shared by the config file, the environment and CLI flags.
const (
	KeyService       = "service"
	KeyEncoding      = "encoding"
	KeySkipMalformed = "skip_malformed"
	KeyDay           = "day"
	KeyStartupDetail = "startup_detail"
	KeyLogLevel      = "log_level"
)

// Config holds all amavislog configuration.
type Config struct {
	Input  InputConfig
	Report ReportConfig
	Log    LogConfig
}

// InputConfig controls how log files are read and which lines are kept.
type InputConfig struct {
	Service       string // syslog program name to summarize
	Encoding      string // see source.Encodings
	SkipMalformed bool   // warn and continue instead of failing on malformed lines
}

// ReportConfig controls report content.
type ReportConfig struct {
	Day           string // "", "today" or "yesterday"
	StartupDetail bool
}

// LogConfig controls diagnostic logging on stderr.
type LogConfig struct {
	Level string // "debug", "info", "warn", "error"
}

// New returns a viper instance with defaults and environment binding set up.
// Callers may bind CLI flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyService, classifier.DefaultService)
	v.SetDefault(KeyEncoding, source.DefaultEncoding)
	v.SetDefault(KeySkipMalformed, false)
	v.SetDefault(KeyDay, "")
	v.SetDefault(KeyStartupDetail, false)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return v
}

// Load reads the optional YAML config file and returns the validated config.
// With an empty path, ".amavislog.yaml" is looked up in the home directory
// and the working directory; a missing file there is not an error.
func Load(v *viper.Viper, path string) (Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".amavislog")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
		}
	}

	cfg := Config{
		Input: InputConfig{
			Service:       v.GetString(KeyService),
			Encoding:      v.GetString(KeyEncoding),
			SkipMalformed: v.GetBool(KeySkipMalformed),
		},
		Report: ReportConfig{
			Day:           strings.ToLower(v.GetString(KeyDay)),
			StartupDetail: v.GetBool(KeyStartupDetail),
		},
		Log: LogConfig{
			Level: v.GetString(KeyLogLevel),
		},
	}
	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Validate checks field values that cannot be defaulted.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Input.Service) == "" {
		return errors.New("service must not be empty")
	}
	if _, err := source.Encoding(cfg.Input.Encoding); err != nil {
		return err
	}
	switch cfg.Report.Day {
	case "", "today", "yesterday":
	default:
		return fmt.Errorf("day must be \"today\" or \"yesterday\", got %q", cfg.Report.Day)
	}
	return nil
}

// ReferenceDay resolves Report.Day against now. It returns nil when no day
// filter is configured.
func (c Config) ReferenceDay(now time.Time) *time.Time {
	var day time.Time
	switch c.Report.Day {
	case "today":
		day = now
	case "yesterday":
		day = now.AddDate(0, 0, -1)
	default:
		return nil
	}
	return &day
}
