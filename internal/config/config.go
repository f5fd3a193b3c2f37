package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the self-update pipeline.
type Config struct {
	// StableURL is the release API endpoint for the latest stable release.
	StableURL string `yaml:"stable_url"`
	// NightlyURL is the release API endpoint for the rolling nightly release.
	NightlyURL string `yaml:"nightly_url"`
	// UserAgent identifies the client to the release API.
	UserAgent string `yaml:"user_agent"`
	// DevVersion is the version identifier of development builds, which have no release channel.
	DevVersion string `yaml:"dev_version"`
	// NightlyPrefix marks version identifiers of nightly builds.
	NightlyPrefix string `yaml:"nightly_prefix"`
	// UpdatesDir overrides the directory where downloaded artifacts are staged.
	UpdatesDir string `yaml:"updates_dir,omitempty"`
	// Timeout bounds each HTTP request made by the pipeline.
	Timeout time.Duration `yaml:"timeout"`
	// KeepArtifacts leaves the downloaded archive and unpacked files in place after install.
	KeepArtifacts bool `yaml:"keep_artifacts"`
	// LogLevel is the minimum level of emitted log entries.
	LogLevel string `yaml:"log_level"`
}

const (
	// DefaultConfigFilename is the default filename for updater settings.
	DefaultConfigFilename = "lapce-updater.yaml"

	// DefaultStableURL points at the latest stable Lapce release.
	DefaultStableURL = "https://api.github.com/repos/lapce/lapce/releases/latest"

	// DefaultNightlyURL points at the rolling nightly Lapce release.
	DefaultNightlyURL = "https://api.github.com/repos/lapce/lapce/releases/tags/nightly"

	// DefaultUserAgent is sent with every release API request.
	DefaultUserAgent = "Lapce"

	// DefaultDevVersion is the version identifier of local development builds.
	DefaultDevVersion = "debug"

	// DefaultNightlyPrefix is the prefix of nightly version identifiers.
	DefaultNightlyPrefix = "nightly"

	// DefaultTimeout is the default duration for a single HTTP request.
	// Installer images are tens of megabytes, so it is generous.
	DefaultTimeout = 10 * time.Minute

	// DefaultLogLevel is used when no level is configured.
	DefaultLogLevel = "info"

	// DefaultFilePermissions is the default file permission for the settings file.
	DefaultFilePermissions = 0o600

	// DefaultDirPermissions is used when creating the updates directory.
	DefaultDirPermissions = 0o755

	// updatesSubdir is the path of the updates directory below the user cache directory.
	updatesSubdir = "lapce/updates"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errEmptyDevVersion is returned when the development sentinel is blank.
	errEmptyDevVersion = errors.New("dev version must not be empty")
	// errEmptyNightlyPrefix is returned when the nightly prefix is blank.
	errEmptyNightlyPrefix = errors.New("nightly prefix must not be empty")
	// errUnknownLogLevel is returned for unrecognized log levels.
	errUnknownLogLevel = errors.New("unknown log level")
)

// Default returns settings pointing at the public Lapce release channels.
func Default() *Config {
	return &Config{
		StableURL:     DefaultStableURL,
		NightlyURL:    DefaultNightlyURL,
		UserAgent:     DefaultUserAgent,
		DevVersion:    DefaultDevVersion,
		NightlyPrefix: DefaultNightlyPrefix,
		Timeout:       DefaultTimeout,
		LogLevel:      DefaultLogLevel,
	}
}

// Load reads configuration from the provided path and validates it.
// Fields missing from the file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(contents, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err = Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns validated defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = Default()

		return cfg, Validate(cfg)
	}

	return cfg, err
}

// Save writes the settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate fills defaults for empty fields and checks the endpoints.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if cfg.StableURL == "" {
		cfg.StableURL = DefaultStableURL
	}

	if cfg.NightlyURL == "" {
		cfg.NightlyURL = DefaultNightlyURL
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}

	if strings.TrimSpace(cfg.DevVersion) == "" {
		return errEmptyDevVersion
	}

	if strings.TrimSpace(cfg.NightlyPrefix) == "" {
		return errEmptyNightlyPrefix
	}

	if !isKnownLogLevel(cfg.LogLevel) {
		return fmt.Errorf("%q: %w", cfg.LogLevel, errUnknownLogLevel)
	}

	for name, endpoint := range map[string]string{"stable_url": cfg.StableURL, "nightly_url": cfg.NightlyURL} {
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return nil
}

// UpdatesDirectory returns the writable directory used to stage downloaded artifacts,
// creating it when needed.
func (c *Config) UpdatesDirectory() (string, error) {
	dir := c.UpdatesDir
	if dir == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return "", fmt.Errorf("resolve user cache directory: %w", err)
		}

		dir = filepath.Join(cacheDir, filepath.FromSlash(updatesSubdir))
	}

	if err := os.MkdirAll(dir, DefaultDirPermissions); err != nil {
		return "", fmt.Errorf("create updates directory: %w", err)
	}

	return dir, nil
}

// isKnownLogLevel reports whether level is one the CLI understands.
func isKnownLogLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error":
		return true
	default:
		return false
	}
}
