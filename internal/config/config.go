package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration for cafe, stored in ~/.cafe/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	// DataDir holds the key/value files. Empty = <home>/data.
	DataDir   string `json:"data_dir"`
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
	// StoreID is the store this terminal belongs to. Empty = all stores.
	StoreID string `json:"store_id"`
	// Location is the IANA timezone entry dates are attributed in. Empty = local.
	Location   string     `json:"location"`
	LateHour   int        `json:"late_hour"`
	RosterFile string     `json:"roster_file"`
	Sync       SyncConfig `json:"sync"`

	home string
}

// SyncConfig holds the back-office synchronization settings.
type SyncConfig struct {
	Endpoint       string   `json:"endpoint"`
	TokenURL       string   `json:"token_url"`
	ClientID       string   `json:"client_id"`
	ClientSecret   string   `json:"client_secret"`
	Interval       Duration `json:"interval"`
	Timeout        Duration `json:"timeout"`
	RetryPerMinute int      `json:"retry_per_minute"`
}

// Duration is a time.Duration written as a string such as "5m" in JSON.
type Duration struct {
	time.Duration
}

// UnmarshalJSON parses a duration string such as "30s".
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5m\": %w", err)
	}
	if s == "" {
		d.Duration = 0
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

const (
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "console"
	DefaultLateHour       = 9
	DefaultSyncInterval   = 5 * time.Minute
	DefaultSyncTimeout    = 30 * time.Second
	DefaultRetryPerMinute = 3
)

// Environment overrides.
const (
	EnvHome     = "CAFE_HOME"
	EnvLogLevel = "CAFE_LOG_LEVEL"
)

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// cafe configuration – ~/.cafe/config.json
//
// All settings are optional; empty values fall back to the built-in defaults.
{
  // Directory for entries, configuration snapshots and content.
  // Leave empty to use ~/.cafe/data.
  "data_dir": "",

  // debug, info, warn or error. CAFE_LOG_LEVEL overrides this.
  "log_level": "info",

  // console (human readable) or json.
  "log_format": "console",

  // Store this terminal belongs to; presence and menu default to it.
  "store_id": "",

  // IANA timezone entry dates are attributed in, e.g. "Europe/Madrid".
  // Leave empty to use the system timezone.
  "location": "",

  // First logins at or after this hour count as late.
  "late_hour": 9,

  // Staff roster in YAML. Leave empty to use ~/.cafe/roster.yaml.
  "roster_file": "",

  // ── Back-office synchronization ─────────────────────────────────────────
  "sync": {
    // Endpoint receiving configuration snapshots and new time entries.
    // Leave empty to disable sync.
    "endpoint": "",

    // OAuth2 client-credentials settings. Leave client_id empty to send
    // unauthenticated requests.
    "token_url": "",
    "client_id": "",
    "client_secret": "",

    "interval": "5m",
    "timeout": "30s",

    // Manual retries allowed per minute (cafe sync run).
    "retry_per_minute": 3
  }
}
`

// HomeDir returns $CAFE_HOME, or ~/.cafe.
func HomeDir() (string, error) {
	if h := os.Getenv(EnvHome); h != "" {
		return h, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".cafe"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads the config in HomeDir.
func Load() (Config, error) {
	home, err := HomeDir()
	if err != nil {
		return Config{}, err
	}
	return LoadFrom(home)
}

// LoadFrom reads home/config.json, creating it with annotated defaults on first
// run. Zero fields are filled with defaults and environment overrides applied.
func LoadFrom(home string) (Config, error) {
	path := filepath.Join(home, "config.json")
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
	case err != nil:
		return withDefaults(cfg, home), fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := json.Unmarshal(stripLineComments(data), &cfg); err != nil {
			return withDefaults(Config{}, home), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
		}
	}

	cfg = withDefaults(cfg, home)
	if lvl := os.Getenv(EnvLogLevel); lvl != "" {
		cfg.LogLevel = lvl
	}
	if _, err := cfg.TimeLocation(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// withDefaults fills zero-value fields with built-in defaults so callers always
// get a usable Config even if the user only partially fills in the file.
func withDefaults(cfg Config, home string) Config {
	cfg.home = home
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join(home, "data")
	}
	if cfg.RosterFile == "" {
		cfg.RosterFile = filepath.Join(home, "roster.yaml")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
	if cfg.LateHour <= 0 || cfg.LateHour > 23 {
		cfg.LateHour = DefaultLateHour
	}
	if cfg.Sync.Interval.Duration <= 0 {
		cfg.Sync.Interval.Duration = DefaultSyncInterval
	}
	if cfg.Sync.Timeout.Duration <= 0 {
		cfg.Sync.Timeout.Duration = DefaultSyncTimeout
	}
	if cfg.Sync.RetryPerMinute <= 0 {
		cfg.Sync.RetryPerMinute = DefaultRetryPerMinute
	}
	return cfg
}

// Home is the directory the config was loaded from.
func (c Config) Home() string { return c.home }

// TimeLocation resolves Location, defaulting to the local zone.
func (c Config) TimeLocation() (*time.Location, error) {
	if c.Location == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Location)
	if err != nil {
		return nil, fmt.Errorf("unknown location %q: %w", c.Location, err)
	}
	return loc, nil
}

// SyncEnabled reports whether an endpoint is configured.
func (c Config) SyncEnabled() bool { return c.Sync.Endpoint != "" }

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
