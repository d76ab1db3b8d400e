package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// BindAddr is the web server bind address.
	BindAddr string `json:"bind_addr,omitempty"`

	// Port is the web server port.
	Port int `json:"port,omitempty"`

	// CORSOrigins is the allowlist of origins for the REST API.
	// "*" allows any origin. Overridden by the CORS_ORIGIN env var
	// (comma-separated), matching the original backend.
	CORSOrigins []string `json:"cors_origins,omitempty"`

	// AuthPassword is the shared password for the REST API. Env-only
	// (AUTH_PASSWORD); never read from the config file so it does not
	// end up on disk next to the database.
	AuthPassword string `json:"-"`

	// AllowedPaths is an allowlist of directories for export operations.
	// Paths outside ~/.ourjourney/exports require either being in this
	// list or AllowUnsafePaths=true. Paths should be absolute.
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for export.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default. Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// CalDAVURL is the CalDAV server endpoint for the sync command.
	CalDAVURL string `json:"caldav_url,omitempty"`

	// CalDAVUsername is the CalDAV account username.
	CalDAVUsername string `json:"caldav_username,omitempty"`

	// CalDAVPassword is the CalDAV app password. Env-only (CALDAV_PASSWORD).
	CalDAVPassword string `json:"-"`

	// CalDAVCalendar is the display name of the target calendar.
	CalDAVCalendar string `json:"caldav_calendar,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		BindAddr:       "127.0.0.1",
		Port:           3001,
		CORSOrigins:    []string{"*"},
		CalDAVCalendar: "OurJourney",
	}
}

// Load loads configuration from baseDir/config.json, applies defaults, and
// overlays environment variables. Returns default config if the file
// doesn't exist. The baseDir parameter allows tests to use t.TempDir()
// instead of ~/.ourjourney.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)
	applyEnv(merged)
	return merged, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv overlays environment variables onto cfg. Secrets only come from
// here; godotenv in main loads a .env file into the process environment
// first, matching the original backend's dotenv usage.
func applyEnv(cfg *Config) {
	if v := os.Getenv("AUTH_PASSWORD"); v != "" {
		cfg.AuthPassword = v
	}
	if v := os.Getenv("CORS_ORIGIN"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSOrigins = origins
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("CALDAV_URL"); v != "" {
		cfg.CalDAVURL = v
	}
	if v := os.Getenv("CALDAV_USERNAME"); v != "" {
		cfg.CalDAVUsername = v
	}
	if v := os.Getenv("CALDAV_PASSWORD"); v != "" {
		cfg.CalDAVPassword = v
	}
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.BindAddr = overlay.BindAddr
	if result.BindAddr == "" {
		result.BindAddr = base.BindAddr
	}

	result.Port = overlay.Port
	if result.Port == 0 {
		result.Port = base.Port
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.CalDAVURL = overlay.CalDAVURL
	if result.CalDAVURL == "" {
		result.CalDAVURL = base.CalDAVURL
	}

	result.CalDAVUsername = overlay.CalDAVUsername
	if result.CalDAVUsername == "" {
		result.CalDAVUsername = base.CalDAVUsername
	}

	result.CalDAVCalendar = overlay.CalDAVCalendar
	if result.CalDAVCalendar == "" {
		result.CalDAVCalendar = base.CalDAVCalendar
	}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// CORS origins: overlay replaces entirely when set (an allowlist is a
	// whole policy, not a union)
	result.CORSOrigins = overlay.CORSOrigins
	if len(result.CORSOrigins) == 0 {
		result.CORSOrigins = base.CORSOrigins
	}

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
