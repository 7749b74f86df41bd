// Package registrar adds, verifies and removes this tool's registration in
// host configuration files.
package registrar

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/mcpsetup/internal/apperr"
	"github.com/starford/mcpsetup/internal/checksum"
	"github.com/starford/mcpsetup/internal/hostconfig"
	"github.com/starford/mcpsetup/internal/models"
	"github.com/starford/mcpsetup/internal/storage"
)

// Registrar applies registration changes for a single server name.
type Registrar struct {
	name     string
	resolver Resolver
	files    storage.Provider
	log      *slog.Logger
}

// New creates a Registrar writing entries under serverName.
func New(serverName string, resolver Resolver, files storage.Provider, logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{name: serverName, resolver: resolver, files: files, log: logger}
}

// ServerName returns the key used under mcpServers.
func (r *Registrar) ServerName() string {
	return r.name
}

// EntryFor builds the entry for target. Claude Code entries carry an
// explicit stdio transport type.
func (r *Registrar) EntryFor(target models.HostTarget) (models.RegistrationEntry, error) {
	command, err := r.resolver.Resolve()
	if err != nil {
		return models.RegistrationEntry{}, err
	}
	entry := models.RegistrationEntry{Command: command, Args: []string{}}
	if target.Kind == models.KindCodeGlobal {
		entry.Type = "stdio"
	}
	return entry, nil
}

// Install writes the registration into target's file, creating the file if
// needed. An existing equal entry is left alone and reported with
// Changed=false. A malformed file is never modified.
func (r *Registrar) Install(target models.HostTarget) models.InstallResult {
	res := models.InstallResult{Target: target}
	entry, err := r.EntryFor(target)
	if err != nil {
		return r.fail(res, "install", err)
	}
	res.Command = entry.Command

	doc, err := hostconfig.Load(r.files, target.Path)
	if err != nil {
		return r.fail(res, "install", err)
	}
	current, ok, err := doc.Registration(r.name)
	if err == nil && ok && current.Equal(entry) {
		res.Success = true
		res.Message = fmt.Sprintf("%s already configured", target.Label)
		res.ConfigHash = r.hash(target.Path)
		return res
	}
	// IsInstalled reports an undecodable entry under our own key as malformed.
	// Install owns that key, so it replaces the value and says so.
	replaced := false
	if err != nil {
		if raw, present, rawErr := doc.RawRegistration(r.name); rawErr == nil && present {
			replaced = true
			r.log.Warn("replacing unreadable registration",
				slog.String("target", target.Kind),
				slog.String("path", target.Path),
				slog.String("value", string(raw)),
				slog.String("error", err.Error()),
			)
		}
	}
	if err := doc.SetRegistration(r.name, entry); err != nil {
		return r.fail(res, "install", &apperr.MalformedError{Path: target.Path, Err: err})
	}
	if err := doc.Save(r.files, target.Path); err != nil {
		return r.fail(res, "install", err)
	}

	res.Success = true
	res.Changed = true
	res.Message = fmt.Sprintf("%s configured. Config path: %s", target.Label, target.Path)
	if replaced {
		res.Message = fmt.Sprintf("%s configured, replacing an unreadable %q entry. Config path: %s", target.Label, r.name, target.Path)
	}
	res.ConfigHash = r.hash(target.Path)
	r.log.Info("registration installed",
		slog.String("target", target.Kind),
		slog.String("path", target.Path),
		slog.String("command", entry.Command),
	)
	return res
}

// Uninstall removes only this tool's entry. A missing file or entry is a
// successful no-op.
func (r *Registrar) Uninstall(target models.HostTarget) models.InstallResult {
	res := models.InstallResult{Target: target}
	if !r.files.Exists(target.Path) {
		res.Success = true
		res.Message = fmt.Sprintf("%s not configured", target.Label)
		return res
	}
	doc, err := hostconfig.Load(r.files, target.Path)
	if err != nil {
		return r.fail(res, "uninstall", err)
	}
	removed, err := doc.RemoveRegistration(r.name)
	if err != nil {
		return r.fail(res, "uninstall", &apperr.MalformedError{Path: target.Path, Err: err})
	}
	if !removed {
		res.Success = true
		res.Message = fmt.Sprintf("%s not configured", target.Label)
		res.ConfigHash = r.hash(target.Path)
		return res
	}
	if err := doc.Save(r.files, target.Path); err != nil {
		return r.fail(res, "uninstall", err)
	}
	res.Success = true
	res.Changed = true
	res.Message = fmt.Sprintf("%s registration removed", target.Label)
	res.ConfigHash = r.hash(target.Path)
	r.log.Info("registration removed",
		slog.String("target", target.Kind),
		slog.String("path", target.Path),
	)
	return res
}

// IsInstalled reports the registration state of target without writing.
// A malformed file is an error, not "not installed".
func (r *Registrar) IsInstalled(target models.HostTarget) (models.Installation, error) {
	doc, err := hostconfig.Load(r.files, target.Path)
	if err != nil {
		return models.Installation{}, err
	}
	entry, ok, err := doc.Registration(r.name)
	if err != nil {
		return models.Installation{}, &apperr.MalformedError{Path: target.Path, Err: err}
	}
	if !ok {
		return models.Installation{}, nil
	}
	return models.Installation{
		Installed:          true,
		RecordedPath:       entry.Command,
		RecordedPathExists: entry.Command != "" && r.files.Exists(entry.Command),
	}, nil
}

// InstallAll attempts every target independently. One failure never stops
// or rolls back the others.
func (r *Registrar) InstallAll(targets []models.HostTarget) []models.InstallResult {
	results := make([]models.InstallResult, 0, len(targets))
	for _, t := range targets {
		results = append(results, r.Install(t))
	}
	return results
}

// Snippet returns the pretty JSON fragment a user can paste under
// mcpServers by hand.
func (r *Registrar) Snippet(target models.HostTarget) (string, error) {
	entry, err := r.EntryFor(target)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(map[string]models.RegistrationEntry{r.name: entry}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("registrar: snippet: %w", err)
	}
	return string(data), nil
}

// Summarize folds per-target results into one error: nil when all
// succeeded, apperr.ErrPartialInstall when some did.
func Summarize(results []models.InstallResult) error {
	var failed []error
	for _, res := range results {
		if !res.Success {
			failed = append(failed, fmt.Errorf("%s: %s", res.Target.Label, res.Message))
		}
	}
	switch {
	case len(failed) == 0:
		return nil
	case len(failed) < len(results):
		return fmt.Errorf("%w: %w", apperr.ErrPartialInstall, errors.Join(failed...))
	default:
		return fmt.Errorf("registrar: all targets failed: %w", errors.Join(failed...))
	}
}

// SummaryMessage describes results the way the settings screen shows them.
func SummaryMessage(results []models.InstallResult) string {
	var ok, bad []models.InstallResult
	for _, res := range results {
		if res.Success {
			ok = append(ok, res)
		} else {
			bad = append(bad, res)
		}
	}
	switch {
	case len(results) == 0:
		return "No host applications found"
	case len(bad) == 0:
		return "All host applications configured. Restart them to apply changes."
	case len(ok) == 0:
		return "All configurations failed"
	default:
		labels := make([]string, len(ok))
		for i, res := range ok {
			labels[i] = res.Target.Label
		}
		failures := make([]string, len(bad))
		for i, res := range bad {
			failures[i] = fmt.Sprintf("%s failed: %s", res.Target.Label, res.Message)
		}
		return strings.Join(labels, ", ") + " configured, but " + strings.Join(failures, "; ")
	}
}

func (r *Registrar) fail(res models.InstallResult, op string, err error) models.InstallResult {
	res.Success = false
	res.Err = err
	res.ErrorKind = apperr.Kind(err)
	res.Message = err.Error()
	r.log.Error("registration failed",
		slog.String("op", op),
		slog.String("target", res.Target.Kind),
		slog.String("path", res.Target.Path),
		slog.String("error", err.Error()),
	)
	return res
}

func (r *Registrar) hash(path string) string {
	sum, err := checksum.File(r.files, path)
	if err != nil {
		return ""
	}
	return sum
}
