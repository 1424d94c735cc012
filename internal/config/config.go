package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/viper"

	"fileservice/internal/logger"
	"fileservice/internal/workspace"
)

var log = logger.WithComponent("CONFIG")

const (
	// DefaultWorkDir is resolved against the process's current directory.
	DefaultWorkDir     = "data"
	DefaultConfigName  = "fileservice"
	DefaultStatWorkers = 8
	EnvPrefix          = "FILESERVICE_"
)

// FileConfig mirrors the optional config file (json, yaml or toml).
type FileConfig struct {
	Environment string `mapstructure:"environment"`
	WorkDir     string `mapstructure:"workDir"`
	Autocreate  bool   `mapstructure:"autocreate"`
	LogLevel    string `mapstructure:"logLevel"`
	LogColor    bool   `mapstructure:"logColor"`
	MetricsFile string `mapstructure:"metricsFile"`
	SentryDSN   string `mapstructure:"sentryDsn"`
	StatWorkers int    `mapstructure:"statWorkers"`
}

// envOverrides are read from FILESERVICE_* variables. Unset variables stay nil.
type envOverrides struct {
	Environment *string `env:"ENVIRONMENT"`
	WorkDir     *string `env:"DIR"`
	Autocreate  *bool   `env:"AUTOCREATE"`
	LogLevel    *string `env:"LOG_LEVEL"`
	LogColor    *bool   `env:"LOG_COLOR"`
	MetricsFile *string `env:"METRICS_FILE"`
	SentryDSN   *string `env:"SENTRY_DSN"`
	StatWorkers *int    `env:"STAT_WORKERS"`
}

// AppConfig holds the resolved application configuration
type AppConfig struct {
	Env             string
	WorkDir         string
	ResolvedWorkDir string
	Autocreate      bool
	LogLevel        string
	LogColor        bool
	MetricsFile     string
	SentryDSN       string
	StatWorkers     int
	ConfigFileUsed  string
}

// LoadOptions carries command-line values, which win over env and file.
type LoadOptions struct {
	ConfigPath   string
	WorkDir      string
	NoAutocreate bool
	LogLevel     string
}

// Common configuration errors
var (
	ErrMissingConfigFile = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// ValidationError contains details about a configuration validation failure
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s - %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	if len(e) == 1 {
		return e[0].Error()
	}
	return fmt.Sprintf("%d config validation errors: %s (and %d more)", len(e), e[0].Error(), len(e)-1)
}

// Validate checks the configuration for errors
func (c *AppConfig) Validate() ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(c.WorkDir) == "" {
		errs = append(errs, ValidationError{Field: "workDir", Message: "working directory is required"})
	} else if workspace.IsInvalid(c.WorkDir) {
		errs = append(errs, ValidationError{Field: "workDir", Message: "path contains a '..' segment"})
	}

	if c.ResolvedWorkDir != "" {
		if info, err := os.Stat(c.ResolvedWorkDir); err != nil {
			if !os.IsNotExist(err) {
				errs = append(errs, ValidationError{Field: "workDir", Message: fmt.Sprintf("cannot access: %v", err)})
			}
			// Not existing is OK - autocreate decides later
		} else if !info.IsDir() {
			errs = append(errs, ValidationError{Field: "workDir", Message: "path exists but is not a directory"})
		}
	}

	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, ValidationError{Field: "logLevel", Message: err.Error()})
	}

	if c.StatWorkers < 1 {
		errs = append(errs, ValidationError{Field: "statWorkers", Message: fmt.Sprintf("invalid worker count %d, must be >= 1", c.StatWorkers)})
	}

	if c.MetricsFile != "" {
		if info, err := os.Stat(filepath.Dir(c.MetricsFile)); err != nil || !info.IsDir() {
			errs = append(errs, ValidationError{Field: "metricsFile", Message: "parent directory does not exist"})
		}
	}

	return errs
}

// Load layers defaults, the config file, FILESERVICE_* variables and
// command-line options, in that order of precedence.
func Load(opts LoadOptions) (*AppConfig, error) {
	v := viper.New()
	v.SetDefault("environment", "development")
	v.SetDefault("workDir", DefaultWorkDir)
	v.SetDefault("autocreate", true)
	v.SetDefault("logLevel", "info")
	v.SetDefault("logColor", true)
	v.SetDefault("metricsFile", "")
	v.SetDefault("sentryDsn", "")
	v.SetDefault("statWorkers", DefaultStatWorkers)

	if opts.ConfigPath != "" {
		v.SetConfigFile(opts.ConfigPath)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) || errors.As(err, new(viper.ConfigFileNotFoundError)) {
				return nil, fmt.Errorf("%w: %s", ErrMissingConfigFile, opts.ConfigPath)
			}
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if !errors.As(err, new(viper.ConfigFileNotFoundError)) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var fc FileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	var ov envOverrides
	if err := env.ParseWithOptions(&ov, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	applyEnv(&fc, ov)

	if opts.WorkDir != "" {
		fc.WorkDir = opts.WorkDir
	}
	if opts.NoAutocreate {
		fc.Autocreate = false
	}
	if opts.LogLevel != "" {
		fc.LogLevel = opts.LogLevel
	}

	// Joining onto the cwd would clean the traversal away, so the raw value
	// is checked here and reported with the workspace kind.
	if workspace.IsInvalid(fc.WorkDir) {
		return nil, &workspace.Error{
			Op:   "load_config",
			Path: fc.WorkDir,
			Kind: workspace.KindInvalidPath,
			Err:  fmt.Errorf("%w: workDir: %w", ErrInvalidConfig, workspace.ErrPathTraversal),
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determine working directory: %w", err)
	}

	cfg := &AppConfig{
		Env:             fc.Environment,
		WorkDir:         fc.WorkDir,
		ResolvedWorkDir: ResolvePath(cwd, fc.WorkDir),
		Autocreate:      fc.Autocreate,
		LogLevel:        fc.LogLevel,
		LogColor:        fc.LogColor,
		MetricsFile:     fc.MetricsFile,
		SentryDSN:       fc.SentryDSN,
		StatWorkers:     fc.StatWorkers,
		ConfigFileUsed:  v.ConfigFileUsed(),
	}
	if cfg.MetricsFile != "" {
		cfg.MetricsFile = ResolvePath(cwd, cfg.MetricsFile)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		for _, err := range errs {
			log.Error("Validation error: %s", err.Error())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, errs.Error())
	}

	log.Debug("Configuration loaded | env=%s workDir=%s", cfg.Env, cfg.ResolvedWorkDir)
	return cfg, nil
}

// ResolvePath returns path unchanged when absolute, else joined onto cwd.
func ResolvePath(cwd, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}

func applyEnv(fc *FileConfig, ov envOverrides) {
	if ov.Environment != nil {
		fc.Environment = *ov.Environment
	}
	if ov.WorkDir != nil {
		fc.WorkDir = *ov.WorkDir
		log.Info("Using %sDIR override: %s", EnvPrefix, *ov.WorkDir)
	}
	if ov.Autocreate != nil {
		fc.Autocreate = *ov.Autocreate
	}
	if ov.LogLevel != nil {
		fc.LogLevel = *ov.LogLevel
	}
	if ov.LogColor != nil {
		fc.LogColor = *ov.LogColor
	}
	if ov.MetricsFile != nil {
		fc.MetricsFile = *ov.MetricsFile
	}
	if ov.SentryDSN != nil {
		fc.SentryDSN = *ov.SentryDSN
	}
	if ov.StatWorkers != nil {
		fc.StatWorkers = *ov.StatWorkers
	}
}
