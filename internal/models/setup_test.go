package models

import "testing"

func strPtr(s string) *string { return &s }

func TestCredentialsHelpers(t *testing.T) {
	var c Credentials
	if c.APIConfigured() || c.EmailConfigured() || c.AgentConfigured() {
		t.Fatal("empty credentials should report nothing configured")
	}
	if _, ok := c.UserAgent(); ok {
		t.Error("UserAgent should be unset")
	}

	c.APIToken = strPtr("")
	if c.APIConfigured() {
		t.Error("empty token should not count as configured")
	}

	c.AgentName = strPtr("Test Company")
	c.AgentEmail = strPtr("test@example.com")
	ua, ok := c.UserAgent()
	if !ok || ua != "Test Company test@example.com" {
		t.Errorf("UserAgent = %q, %v", ua, ok)
	}
}

func TestRegistrationEntryEqual(t *testing.T) {
	a := RegistrationEntry{Command: "/bin/x", Args: []string{}}
	b := RegistrationEntry{Command: "/bin/x"}
	if !a.Equal(b) {
		t.Error("nil and empty args should be equal")
	}
	if a.Equal(RegistrationEntry{Command: "/bin/x", Type: "stdio"}) {
		t.Error("type differs")
	}
	if a.Equal(RegistrationEntry{Command: "/bin/x", Args: []string{"--v"}}) {
		t.Error("args differ")
	}
}

func TestSnapshotConfiguredAndBroken(t *testing.T) {
	s := StatusSnapshot{Targets: []TargetStatus{
		{Kind: KindDesktop},
		{Kind: KindCodeGlobal, Configured: true, ServerPathExists: false},
	}}
	if !s.Configured() {
		t.Error("expected configured")
	}
	if !s.Broken() {
		t.Error("expected broken")
	}
	if _, ok := s.Target(KindDesktop); !ok {
		t.Error("desktop target missing")
	}
}
