// Package setupservice is the presentation-facing facade over the setup
// engine. The CLI, HTTP API and MCP server all go through it.
package setupservice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/starford/mcpsetup/internal/apperr"
	"github.com/starford/mcpsetup/internal/catalog"
	"github.com/starford/mcpsetup/internal/history"
	"github.com/starford/mcpsetup/internal/models"
	"github.com/starford/mcpsetup/internal/registrar"
	"github.com/starford/mcpsetup/internal/validate"
)

// CredentialStore loads and saves the credentials file.
type CredentialStore interface {
	Load() (models.Credentials, error)
	Save(models.Credentials) error
	Path() string
}

// Locator enumerates and resolves host targets.
type Locator interface {
	Enumerate() []models.HostTarget
	Lookup(kind string) (models.HostTarget, error)
}

// Snapshotter produces status snapshots.
type Snapshotter interface {
	Snapshot() models.StatusSnapshot
}

// TokenValidator checks a token against the remote API.
type TokenValidator interface {
	Validate(ctx context.Context, token string) validate.Outcome
}

// Notifier receives state changes, typically the SSE broker.
type Notifier interface {
	PublishStatus(models.StatusSnapshot)
	PublishInstall([]models.InstallResult)
}

// Deps bundles the collaborators of a Service. Journal, Validator and
// Notifier are optional.
type Deps struct {
	Credentials CredentialStore
	Locator     Locator
	Registrar   *registrar.Registrar
	Status      Snapshotter
	Validator   TokenValidator
	Journal     history.Recorder
	Notifier    Notifier
	Logger      *slog.Logger
}

// Service coordinates the setup operations.
type Service struct {
	creds    CredentialStore
	locator  Locator
	reg      *registrar.Registrar
	status   Snapshotter
	validate TokenValidator
	journal  history.Recorder
	notify   Notifier
	log      *slog.Logger
}

// New creates a Service.
func New(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		creds:    d.Credentials,
		locator:  d.Locator,
		reg:      d.Registrar,
		status:   d.Status,
		validate: d.Validator,
		journal:  d.Journal,
		notify:   d.Notifier,
		log:      logger,
	}
}

// SetNotifier attaches a notifier after construction.
func (s *Service) SetNotifier(n Notifier) {
	s.notify = n
}

// GetCredentials returns the stored credentials.
func (s *Service) GetCredentials(_ context.Context) (models.Credentials, error) {
	return s.creds.Load()
}

// CredentialsPath returns where credentials are stored.
func (s *Service) CredentialsPath() string {
	return s.creds.Path()
}

// SaveCredentials replaces the whole credentials record.
func (s *Service) SaveCredentials(_ context.Context, c models.Credentials) error {
	c = trimCredentials(c)
	if err := s.creds.Save(c); err != nil {
		return err
	}
	s.log.Info("credentials saved", slog.String("path", s.creds.Path()))
	s.publishStatus()
	return nil
}

// StatusSnapshot returns the current aggregate state.
func (s *Service) StatusSnapshot(_ context.Context) models.StatusSnapshot {
	return s.status.Snapshot()
}

// ListHostTargets returns the known host targets.
func (s *Service) ListHostTargets(_ context.Context) []models.HostTarget {
	targets := s.locator.Enumerate()
	if targets == nil {
		targets = []models.HostTarget{}
	}
	return targets
}

// Install registers the tool in the host of the given kind.
func (s *Service) Install(_ context.Context, kind string) (models.InstallResult, error) {
	target, err := s.locator.Lookup(kind)
	if err != nil {
		return models.InstallResult{}, err
	}
	res := s.reg.Install(target)
	s.record(history.ActionInstall, res)
	s.publish(res)
	return res, res.Err
}

// InstallAll registers the tool in every known host. The returned error is
// apperr.ErrPartialInstall when only some targets succeeded.
func (s *Service) InstallAll(_ context.Context) ([]models.InstallResult, error) {
	targets := s.locator.Enumerate()
	if len(targets) == 0 {
		return []models.InstallResult{}, fmt.Errorf("setup: %w: no host targets on this platform", apperr.ErrNotFound)
	}
	results := s.reg.InstallAll(targets)
	for _, res := range results {
		s.record(history.ActionInstall, res)
	}
	s.publish(results...)
	return results, registrar.Summarize(results)
}

// Uninstall removes the tool's registration from the host of the given kind.
func (s *Service) Uninstall(_ context.Context, kind string) (models.InstallResult, error) {
	target, err := s.locator.Lookup(kind)
	if err != nil {
		return models.InstallResult{}, err
	}
	res := s.reg.Uninstall(target)
	s.record(history.ActionUninstall, res)
	s.publish(res)
	return res, res.Err
}

// Snippet returns the JSON fragment for manual installation into kind.
func (s *Service) Snippet(_ context.Context, kind string) (string, error) {
	target, err := s.locator.Lookup(kind)
	if err != nil {
		return "", err
	}
	return s.reg.Snippet(target)
}

// ValidateToken checks token, or the stored token when token is empty.
func (s *Service) ValidateToken(ctx context.Context, token string) (validate.Outcome, error) {
	if s.validate == nil {
		return validate.Outcome{}, fmt.Errorf("setup: token validation is not configured")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		c, err := s.creds.Load()
		if err != nil {
			return validate.Outcome{}, err
		}
		if !c.APIConfigured() {
			return validate.Outcome{}, fmt.Errorf("setup: %w: no API token to validate", apperr.ErrInvalidInput)
		}
		token = *c.APIToken
	}
	out := s.validate.Validate(ctx, token)
	s.log.Info("token validated", slog.String("state", out.State), slog.Int("status", out.Status))
	return out, nil
}

// ToolCategories lists the tool provider's catalog.
func (s *Service) ToolCategories(_ context.Context) []catalog.Category {
	return catalog.Categories()
}

// SearchTools searches the catalog.
func (s *Service) SearchTools(_ context.Context, query, category string, limit int) ([]catalog.Match, error) {
	matches, err := catalog.Search(query, category, limit)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []catalog.Match{}
	}
	return matches, nil
}

// History returns recent install journal entries, newest first.
func (s *Service) History(_ context.Context, limit int, kind string) ([]history.Event, error) {
	if s.journal == nil {
		return []history.Event{}, nil
	}
	return s.journal.Recent(limit, kind)
}

// Refresh recomputes the status and pushes it to the notifier. It is called
// when files change outside this process.
func (s *Service) Refresh(_ context.Context) models.StatusSnapshot {
	snap := s.status.Snapshot()
	if s.notify != nil {
		s.notify.PublishStatus(snap)
	}
	return snap
}

// WatchedFiles returns every file whose external edits affect the status.
func (s *Service) WatchedFiles() []string {
	files := []string{s.creds.Path()}
	for _, t := range s.locator.Enumerate() {
		files = append(files, t.Path)
	}
	return files
}

// record appends res to the journal. Journal failures never fail the
// operation.
func (s *Service) record(action string, res models.InstallResult) {
	if s.journal == nil {
		return
	}
	outcome := history.OutcomeUnchanged
	switch {
	case !res.Success:
		outcome = history.OutcomeFailed
	case res.Changed:
		outcome = history.OutcomeChanged
	}
	_, err := s.journal.Record(history.Event{
		Action:     action,
		Kind:       res.Target.Kind,
		ConfigPath: res.Target.Path,
		Command:    res.Command,
		Outcome:    outcome,
		ErrorKind:  res.ErrorKind,
		Message:    res.Message,
		Checksum:   res.ConfigHash,
	})
	if err != nil {
		s.log.Warn("journal write failed",
			slog.String("action", action),
			slog.String("target", res.Target.Kind),
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) publish(results ...models.InstallResult) {
	if s.notify == nil {
		return
	}
	s.notify.PublishInstall(results)
	s.notify.PublishStatus(s.status.Snapshot())
}

func (s *Service) publishStatus() {
	if s.notify != nil {
		s.notify.PublishStatus(s.status.Snapshot())
	}
}

// trimCredentials strips surrounding whitespace and turns blank fields into
// unset ones.
func trimCredentials(c models.Credentials) models.Credentials {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		v := strings.TrimSpace(*p)
		if v == "" {
			return nil
		}
		return &v
	}
	c.APIToken = trim(c.APIToken)
	c.AgentName = trim(c.AgentName)
	c.AgentEmail = trim(c.AgentEmail)
	return c
}
