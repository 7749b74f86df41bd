package internal

import (
	"io"

	"github.com/starford/mcpsetup/internal/hosts"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	locator *hosts.Locator
	logOut  io.Writer
	version string
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLocator overrides where host config files are looked up.
func WithLocator(l *hosts.Locator) Option {
	return func(a *application) {
		a.locator = l
	}
}

// WithLogOutput sets the log destination. Defaults to stderr so stdout stays
// free for command output and the MCP stdio transport.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOut = w
	}
}

// WithVersion sets the version reported by the MCP server.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}
