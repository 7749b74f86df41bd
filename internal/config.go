package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/starford/mcpsetup/internal/credentials"
	"github.com/starford/mcpsetup/internal/validate"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App         ApplicationConfig `yaml:"app"`
	Server      ServerConfig      `yaml:"server"`
	Credentials CredentialsConfig `yaml:"credentials"`
	History     HistoryConfig     `yaml:"history"`
	Validation  ValidationConfig  `yaml:"validation"`
	Auth        AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Credentials.Validate(); err != nil {
		return err
	}
	if err := c.Validation.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
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

// ServerConfig describes the tool server being registered.
//
// Name is the key written under mcpServers. Path overrides the command path;
// when empty the binary named Binary is looked up next to this executable.
type ServerConfig struct {
	Name   string `yaml:"name"`
	Binary string `yaml:"binary"`
	Path   string `yaml:"path"`
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 64)),
		validation.Field(&c.Binary, validation.Required),
	)
}

// CredentialsConfig locates the credentials file.
type CredentialsConfig struct {
	AppDir string `yaml:"app_dir"`
	Path   string `yaml:"path"`
}

// Validate validates the credentials configuration.
func (c *CredentialsConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.AppDir, validation.Required),
	)
}

// ResolvePath returns Path, or the default location under the user config dir.
func (c *CredentialsConfig) ResolvePath() (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	return credentials.DefaultPath(c.AppDir)
}

// HistoryConfig locates the install journal.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

// ResolvePath returns Path, or history.db next to the credentials file.
func (c *HistoryConfig) ResolvePath(appDir string) (string, error) {
	if c.Path != "" {
		return c.Path, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("history: config dir: %w", err)
	}
	return filepath.Join(base, appDir, "history.db"), nil
}

// ValidationConfig configures remote token validation.
type ValidationConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Validate validates the token validation configuration.
func (c *ValidationConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required, is.URL),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second)),
	)
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
				Port: 8765,
			},
		},
		Server: ServerConfig{
			Name:   "filing-explorer",
			Binary: "mcp-server",
		},
		Credentials: CredentialsConfig{
			AppDir: "filing-explorer-mcp",
		},
		Validation: ValidationConfig{
			BaseURL: validate.DefaultBaseURL,
			Timeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
