// Package status combines credential and host registration state into a
// single snapshot for the presentation layer.
package status

import (
	"time"

	"github.com/starford/mcpsetup/internal/apperr"
	"github.com/starford/mcpsetup/internal/models"
	"github.com/starford/mcpsetup/internal/storage"
)

// TargetSource enumerates host targets.
type TargetSource interface {
	Enumerate() []models.HostTarget
}

// Inspector reports the registration state of one target without writing.
type Inspector interface {
	IsInstalled(target models.HostTarget) (models.Installation, error)
}

// CredentialSource loads the stored credentials.
type CredentialSource interface {
	Load() (models.Credentials, error)
}

// Aggregator builds StatusSnapshots. It never writes.
type Aggregator struct {
	targets TargetSource
	inspect Inspector
	creds   CredentialSource
	files   storage.Provider
	now     func() time.Time
}

// NewAggregator creates an Aggregator.
func NewAggregator(targets TargetSource, inspect Inspector, creds CredentialSource, files storage.Provider) *Aggregator {
	return &Aggregator{targets: targets, inspect: inspect, creds: creds, files: files, now: time.Now}
}

// Snapshot reads every target and the credentials once.
func (a *Aggregator) Snapshot() models.StatusSnapshot {
	snap := models.StatusSnapshot{TakenAt: a.now().UTC()}

	if c, err := a.creds.Load(); err != nil {
		snap.CredentialsError = err.Error()
	} else {
		snap.TokenSet = c.APIConfigured()
		snap.EmailSet = c.EmailConfigured()
		snap.AgentSet = c.AgentConfigured()
	}

	for _, t := range a.targets.Enumerate() {
		ts := models.TargetStatus{
			Kind:         t.Kind,
			Label:        t.Label,
			ConfigPath:   t.Path,
			ConfigExists: a.files.Exists(t.Path),
		}
		inst, err := a.inspect.IsInstalled(t)
		if err != nil {
			ts.ErrorKind = apperr.Kind(err)
			ts.Error = err.Error()
		} else if inst.Installed {
			ts.Configured = true
			ts.ServerPath = inst.RecordedPath
			ts.ServerPathExists = inst.RecordedPathExists
		}
		snap.Targets = append(snap.Targets, ts)
	}
	if snap.Targets == nil {
		snap.Targets = []models.TargetStatus{}
	}
	snap.State = State(snap)
	snap.Degraded = snap.HasErrors()
	return snap
}

// State derives the overall setup state. A registration pointing at a
// missing binary is reported as broken, never as ready or not configured.
// Read errors on other targets do not demote ready; Snapshot flags them as
// Degraded instead.
func State(s models.StatusSnapshot) string {
	hasError := false
	for _, t := range s.Targets {
		if t.Error != "" {
			hasError = true
		}
	}
	switch {
	case s.Broken():
		return models.StateBroken
	case s.Configured():
		return models.StateReady
	case hasError:
		return models.StateError
	default:
		return models.StateNotConfigured
	}
}
