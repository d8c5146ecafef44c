package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/halvard/bifrost/internal/reconcile"
	"github.com/halvard/bifrost/internal/scan"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Sync   SyncConfig        `yaml:"sync"`
	Checks scan.Checks       `yaml:"checks"`
	Auth   AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	if err := c.Sync.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
	// DefaultSearchQuery and DevTools are recognized and passed through
	// to host-side surfaces; the core never acts on them.
	DefaultSearchQuery string `yaml:"default_search_query"`
	DevTools           bool   `yaml:"devtools"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig locates the vault and the external stores inside it.
// All store paths are relative to Path.
type VaultConfig struct {
	Path           string `yaml:"path"`
	PagesFolder    string `yaml:"pages_folder"`
	JournalsFolder string `yaml:"journals_folder"`
	LogseqConfig   string `yaml:"logseq_config"`
	Bookmarks      string `yaml:"bookmarks"`
	AppJSON        string `yaml:"app_json"`
	DailyNotes     string `yaml:"daily_notes"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.PagesFolder, validation.Required),
		validation.Field(&c.JournalsFolder, validation.Required),
		validation.Field(&c.LogseqConfig, validation.Required),
		validation.Field(&c.Bookmarks, validation.Required),
		validation.Field(&c.AppJSON, validation.Required),
		validation.Field(&c.DailyNotes, validation.Required),
	)
}

// SQLiteConfig holds the persistent corpus index location (serve mode).
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SyncConfig holds bookmark reconciliation settings.
type SyncConfig struct {
	Direction string `yaml:"direction"`
}

// Validate validates the sync configuration.
func (c *SyncConfig) Validate() error {
	if c.Direction == "" {
		c.Direction = string(reconcile.Both)
	}
	_, err := reconcile.ParseDirection(c.Direction)
	return err
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local use.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path:           "./vault",
			PagesFolder:    "pages",
			JournalsFolder: "journals",
			LogseqConfig:   "logseq/config.edn",
			Bookmarks:      ".obsidian/bookmarks.json",
			AppJSON:        ".obsidian/app.json",
			DailyNotes:     ".obsidian/daily-notes.json",
		},
		SQLite: SQLiteConfig{
			Path: "./bifrost.db",
		},
		Sync: SyncConfig{
			Direction: string(reconcile.Both),
		},
		Checks: scan.AllChecks(),
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
