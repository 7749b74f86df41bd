// Package models defines the domain types for mcpsetup.
package models

import "time"

// Host target kinds.
const (
	KindDesktop    = "desktop"
	KindCodeGlobal = "code-global"
)

// CredentialsVersion is the schema version written to the credentials file.
const CredentialsVersion = 1

// Credentials is the local secret/identity record used by the tool provider.
type Credentials struct {
	Version    int     `json:"version"`
	APIToken   *string `json:"api_token,omitempty"`
	AgentName  *string `json:"sec_user_agent_name,omitempty"`
	AgentEmail *string `json:"sec_user_agent_email,omitempty"`
}

// APIConfigured reports whether a non-empty API token is present.
func (c Credentials) APIConfigured() bool {
	return nonEmpty(c.APIToken)
}

// EmailConfigured reports whether a non-empty agent email is present.
func (c Credentials) EmailConfigured() bool {
	return nonEmpty(c.AgentEmail)
}

// AgentConfigured reports whether both agent name and email are present.
func (c Credentials) AgentConfigured() bool {
	return nonEmpty(c.AgentName) && nonEmpty(c.AgentEmail)
}

// UserAgent returns "name email" when both identity fields are set.
func (c Credentials) UserAgent() (string, bool) {
	if !c.AgentConfigured() {
		return "", false
	}
	return *c.AgentName + " " + *c.AgentEmail, true
}

func nonEmpty(s *string) bool {
	return s != nil && *s != ""
}

// HostTarget identifies one host configuration location.
type HostTarget struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Path  string `json:"path"`
}

// RegistrationEntry is the value written under the server name in a host's mcpServers map.
type RegistrationEntry struct {
	Type    string   `json:"type,omitempty"`
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// Equal reports whether two entries describe the same registration.
func (e RegistrationEntry) Equal(o RegistrationEntry) bool {
	if e.Type != o.Type || e.Command != o.Command || len(e.Args) != len(o.Args) {
		return false
	}
	for i := range e.Args {
		if e.Args[i] != o.Args[i] {
			return false
		}
	}
	return true
}

// Installation is the read-only registration state of one host target.
type Installation struct {
	Installed          bool   `json:"installed"`
	RecordedPath       string `json:"recorded_path,omitempty"`
	RecordedPathExists bool   `json:"recorded_path_exists"`
}

// InstallResult is the outcome of a mutation against one host target.
type InstallResult struct {
	Target     HostTarget `json:"target"`
	Success    bool       `json:"success"`
	Changed    bool       `json:"changed"`
	Command    string     `json:"command,omitempty"`
	ErrorKind  string     `json:"error_kind,omitempty"`
	Message    string     `json:"message"`
	Err        error      `json:"-"`
	ConfigHash string     `json:"-"`
}

// Overall setup states reported by a StatusSnapshot.
const (
	StateReady         = "ready"
	StateBroken        = "broken"
	StateNotConfigured = "not_configured"
	StateError         = "error"
)

// TargetStatus is the per-host section of a StatusSnapshot.
type TargetStatus struct {
	Kind             string `json:"kind"`
	Label            string `json:"label"`
	ConfigPath       string `json:"config_path"`
	ConfigExists     bool   `json:"config_exists"`
	Configured       bool   `json:"configured"`
	ServerPath       string `json:"server_path,omitempty"`
	ServerPathExists bool   `json:"server_path_exists"`
	ErrorKind        string `json:"error_kind,omitempty"`
	Error            string `json:"error,omitempty"`
}

// StatusSnapshot is a point-in-time aggregate of credential and registration state.
type StatusSnapshot struct {
	Targets          []TargetStatus `json:"targets"`
	TokenSet         bool           `json:"token_set"`
	EmailSet         bool           `json:"email_set"`
	AgentSet         bool           `json:"agent_set"`
	CredentialsError string         `json:"credentials_error,omitempty"`
	State            string         `json:"state"`
	// Degraded is set when a target or the credentials file could not be
	// read, even if State is ready or broken.
	Degraded bool `json:"degraded"`
	TakenAt          time.Time      `json:"taken_at"`
}

// Configured reports whether any target has this tool registered.
func (s StatusSnapshot) Configured() bool {
	for _, t := range s.Targets {
		if t.Configured {
			return true
		}
	}
	return false
}

// Broken reports whether a registered target points at a missing binary.
func (s StatusSnapshot) Broken() bool {
	for _, t := range s.Targets {
		if t.Configured && !t.ServerPathExists {
			return true
		}
	}
	return false
}

// HasErrors reports whether any target or the credentials could not be read.
func (s StatusSnapshot) HasErrors() bool {
	if s.CredentialsError != "" {
		return true
	}
	for _, t := range s.Targets {
		if t.Error != "" {
			return true
		}
	}
	return false
}

// Target returns the status of the target with the given kind.
func (s StatusSnapshot) Target(kind string) (TargetStatus, bool) {
	for _, t := range s.Targets {
		if t.Kind == kind {
			return t, true
		}
	}
	return TargetStatus{}, false
}
