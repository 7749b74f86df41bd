// Package hosts enumerates the host application configuration files this
// tool can register itself in.
package hosts

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/starford/mcpsetup/internal/apperr"
	"github.com/starford/mcpsetup/internal/models"
)

// Locator builds host configuration paths from the user's directories.
// It performs no I/O.
type Locator struct {
	Home      string // user home directory
	ConfigDir string // per-user config directory (os.UserConfigDir)
	GOOS      string
}

// NewLocator returns a Locator for the current user and platform. Directories
// that cannot be determined are left empty and their targets are omitted.
func NewLocator() *Locator {
	l := &Locator{GOOS: runtime.GOOS}
	if home, err := os.UserHomeDir(); err == nil {
		l.Home = home
	}
	if dir, err := os.UserConfigDir(); err == nil {
		l.ConfigDir = dir
	}
	return l
}

// Enumerate returns the known host targets in a stable order.
func (l *Locator) Enumerate() []models.HostTarget {
	var out []models.HostTarget
	if p := l.desktopPath(); p != "" {
		out = append(out, models.HostTarget{
			Kind:  models.KindDesktop,
			Label: "Claude Desktop",
			Path:  p,
		})
	}
	if l.Home != "" {
		out = append(out, models.HostTarget{
			Kind:  models.KindCodeGlobal,
			Label: "Claude Code (Global)",
			Path:  filepath.Join(l.Home, ".claude.json"),
		})
	}
	return out
}

// Lookup returns the target of the given kind.
func (l *Locator) Lookup(kind string) (models.HostTarget, error) {
	for _, t := range l.Enumerate() {
		if t.Kind == kind {
			return t, nil
		}
	}
	return models.HostTarget{}, fmt.Errorf("%w: %q", apperr.ErrUnknownTarget, kind)
}

func (l *Locator) desktopPath() string {
	switch l.GOOS {
	case "darwin":
		if l.Home == "" {
			return ""
		}
		return filepath.Join(l.Home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows", "linux":
		if l.ConfigDir == "" {
			return ""
		}
		return filepath.Join(l.ConfigDir, "Claude", "claude_desktop_config.json")
	default:
		return ""
	}
}
