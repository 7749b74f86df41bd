package api

import (
	"github.com/starford/mcpsetup/internal/catalog"
	"github.com/starford/mcpsetup/internal/credentials"
	"github.com/starford/mcpsetup/internal/history"
	"github.com/starford/mcpsetup/internal/models"
)

// CredentialsRequest is the body for PUT /api/credentials. The record is
// replaced as a whole; omitted or blank fields are cleared.
type CredentialsRequest struct {
	APIToken   *string `json:"api_token,omitempty" example:"sk-live-123"`
	AgentName  *string `json:"sec_user_agent_name,omitempty" example:"Jane Doe"`
	AgentEmail *string `json:"sec_user_agent_email,omitempty" example:"jane@example.com"`
}

// CredentialsResponse describes the stored credentials without echoing the token.
type CredentialsResponse struct {
	Path            string  `json:"path" example:"/home/u/.config/filing-explorer-mcp/config.json"`
	TokenSet        bool    `json:"token_set"`
	AgentName       *string `json:"sec_user_agent_name,omitempty"`
	AgentEmail      *string `json:"sec_user_agent_email,omitempty"`
	UserAgent       string  `json:"user_agent,omitempty" example:"Jane Doe jane@example.com"`
	AgentConfigured bool    `json:"agent_configured"`
	// Warning describes fields that are stored but not well formed.
	Warning string `json:"warning,omitempty" example:"sec_user_agent_email: must be a valid email address."`
}

// ValidateRequest is the body for POST /api/credentials/validate. An empty
// token validates the stored one.
type ValidateRequest struct {
	Token string `json:"token,omitempty" example:"sk-live-123"`
}

// ValidateResponse reports a token validation outcome.
type ValidateResponse struct {
	State   string `json:"state" validate:"required" example:"valid"`
	Status  int    `json:"status,omitempty" example:"200"`
	Message string `json:"message" example:"API token is valid"`
	Valid   bool   `json:"valid"`
}

// TargetListResponse lists host targets.
type TargetListResponse struct {
	Targets []models.HostTarget `json:"targets" validate:"required"`
}

// InstallAllResponse reports a bulk install.
type InstallAllResponse struct {
	Results []models.InstallResult `json:"results" validate:"required"`
	Message string                 `json:"message" example:"All host applications configured. Restart them to apply changes."`
}

// SnippetResponse carries the manual installation fragment.
type SnippetResponse struct {
	Target  models.HostTarget `json:"target"`
	Snippet string            `json:"snippet" validate:"required"`
}

// CategoryListResponse lists tool categories.
type CategoryListResponse struct {
	Categories []catalog.Category `json:"categories" validate:"required"`
	Total      int                `json:"total" example:"31"`
}

// ToolSearchResponse lists tool search matches.
type ToolSearchResponse struct {
	Query   string          `json:"query" example:"insider"`
	Matches []catalog.Match `json:"matches" validate:"required"`
}

// HistoryResponse lists journal entries, newest first.
type HistoryResponse struct {
	Events []history.Event `json:"events" validate:"required"`
}

func credentialsResponse(path string, c models.Credentials) CredentialsResponse {
	ua, ok := c.UserAgent()
	return CredentialsResponse{
		Path:            path,
		TokenSet:        c.APIConfigured(),
		AgentName:       c.AgentName,
		AgentEmail:      c.AgentEmail,
		UserAgent:       ua,
		AgentConfigured: ok,
		Warning:         credentialsWarning(c),
	}
}

func credentialsWarning(c models.Credentials) string {
	if err := credentials.Validate(c); err != nil {
		return err.Error()
	}
	return ""
}
