package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/starford/mcpsetup/internal/apperr"
	"github.com/starford/mcpsetup/internal/history"
	"github.com/starford/mcpsetup/internal/models"
	"github.com/starford/mcpsetup/internal/registrar"
	"github.com/starford/mcpsetup/internal/setupservice"
)

const maxBody = 1 << 20

// Handler holds API route handlers.
type Handler struct {
	svc *setupservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *setupservice.Service) *Handler {
	return &Handler{svc: svc}
}

// GetCredentials handles GET /api/credentials.
//
//	@Summary		Show stored credentials
//	@Tags			credentials
//	@Produce		json
//	@Success		200	{object}	CredentialsResponse
//	@Failure		409	{object}	errResponse
//	@Security		BearerAuth
//	@Router			/credentials [get]
func (h *Handler) GetCredentials(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetCredentials(r.Context())
	if err != nil {
		writeError(w, "load credentials", err)
		return
	}
	writeJSON(w, http.StatusOK, credentialsResponse(h.svc.CredentialsPath(), c))
}

// SaveCredentials handles PUT /api/credentials.
//
//	@Summary		Replace stored credentials
//	@Tags			credentials
//	@Accept			json
//	@Produce		json
//	@Param			body	body		CredentialsRequest	true	"Credentials"
//	@Success		200		{object}	CredentialsResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/credentials [put]
func (h *Handler) SaveCredentials(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	c := models.Credentials{
		APIToken:   req.APIToken,
		AgentName:  req.AgentName,
		AgentEmail: req.AgentEmail,
	}
	if err := h.svc.SaveCredentials(r.Context(), c); err != nil {
		writeError(w, "save credentials", err)
		return
	}
	saved, err := h.svc.GetCredentials(r.Context())
	if err != nil {
		writeError(w, "load credentials", err)
		return
	}
	writeJSON(w, http.StatusOK, credentialsResponse(h.svc.CredentialsPath(), saved))
}

// ValidateToken handles POST /api/credentials/validate.
//
//	@Summary		Validate an API token against the remote service
//	@Tags			credentials
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ValidateRequest	false	"Token to check; the stored token when omitted"
//	@Success		200		{object}	ValidateResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/credentials/validate [post]
func (h *Handler) ValidateToken(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	out, err := h.svc.ValidateToken(r.Context(), req.Token)
	if err != nil {
		writeError(w, "validate token", err)
		return
	}
	writeJSON(w, http.StatusOK, ValidateResponse{
		State:   out.State,
		Status:  out.Status,
		Message: out.Message,
		Valid:   out.Valid(),
	})
}

// Status handles GET /api/status.
//
//	@Summary		Aggregate credential and registration state
//	@Tags			status
//	@Produce		json
//	@Success		200	{object}	models.StatusSnapshot
//	@Security		BearerAuth
//	@Router			/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.StatusSnapshot(r.Context()))
}

// ListTargets handles GET /api/targets.
//
//	@Summary		List host targets for this platform
//	@Tags			targets
//	@Produce		json
//	@Success		200	{object}	TargetListResponse
//	@Security		BearerAuth
//	@Router			/targets [get]
func (h *Handler) ListTargets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, TargetListResponse{Targets: h.svc.ListHostTargets(r.Context())})
}

// Install handles POST /api/targets/{kind}/install.
//
//	@Summary		Register the server in one host
//	@Tags			targets
//	@Produce		json
//	@Param			kind	path		string	true	"Host kind"	Enums(desktop, code-global)
//	@Success		200		{object}	models.InstallResult
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	models.InstallResult
//	@Security		BearerAuth
//	@Router			/targets/{kind}/install [post]
func (h *Handler) Install(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Install(r.Context(), chi.URLParam(r, "kind"))
	writeResult(w, "install", res, err)
}

// Uninstall handles DELETE /api/targets/{kind}/install.
//
//	@Summary		Remove the server registration from one host
//	@Tags			targets
//	@Produce		json
//	@Param			kind	path		string	true	"Host kind"	Enums(desktop, code-global)
//	@Success		200		{object}	models.InstallResult
//	@Failure		404		{object}	errResponse
//	@Failure		409		{object}	models.InstallResult
//	@Security		BearerAuth
//	@Router			/targets/{kind}/install [delete]
func (h *Handler) Uninstall(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Uninstall(r.Context(), chi.URLParam(r, "kind"))
	writeResult(w, "uninstall", res, err)
}

// writeResult answers with res; a lookup failure leaves res empty and is
// reported as a plain error.
func writeResult(w http.ResponseWriter, op string, res models.InstallResult, err error) {
	if err == nil {
		writeJSON(w, http.StatusOK, res)
		return
	}
	if res.Target.Kind == "" {
		writeError(w, op, err)
		return
	}
	writeJSON(w, statusFor(apperr.Kind(err)), res)
}

// Snippet handles GET /api/targets/{kind}/snippet.
//
//	@Summary		JSON fragment for manual installation
//	@Tags			targets
//	@Produce		json
//	@Param			kind	path		string	true	"Host kind"	Enums(desktop, code-global)
//	@Success		200		{object}	SnippetResponse
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/targets/{kind}/snippet [get]
func (h *Handler) Snippet(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	snippet, err := h.svc.Snippet(r.Context(), kind)
	if err != nil {
		writeError(w, "snippet", err)
		return
	}
	var target models.HostTarget
	for _, t := range h.svc.ListHostTargets(r.Context()) {
		if t.Kind == kind {
			target = t
		}
	}
	writeJSON(w, http.StatusOK, SnippetResponse{Target: target, Snippet: snippet})
}

// InstallAll handles POST /api/install.
//
//	@Summary		Register the server in every host
//	@Tags			targets
//	@Produce		json
//	@Success		200	{object}	InstallAllResponse
//	@Success		207	{object}	InstallAllResponse
//	@Failure		404	{object}	errResponse
//	@Failure		500	{object}	InstallAllResponse
//	@Security		BearerAuth
//	@Router			/install [post]
func (h *Handler) InstallAll(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.InstallAll(r.Context())
	if len(results) == 0 && err != nil {
		writeError(w, "install all", err)
		return
	}
	status := http.StatusOK
	if err != nil {
		status = statusFor(apperr.Kind(err))
	}
	writeJSON(w, status, InstallAllResponse{
		Results: results,
		Message: registrar.SummaryMessage(results),
	})
}

// ToolCategories handles GET /api/tools.
//
//	@Summary		List the tool provider's categories
//	@Tags			tools
//	@Produce		json
//	@Success		200	{object}	CategoryListResponse
//	@Security		BearerAuth
//	@Router			/tools [get]
func (h *Handler) ToolCategories(w http.ResponseWriter, r *http.Request) {
	cats := h.svc.ToolCategories(r.Context())
	total := 0
	for _, c := range cats {
		total += c.ToolCount
	}
	writeJSON(w, http.StatusOK, CategoryListResponse{Categories: cats, Total: total})
}

// SearchTools handles GET /api/tools/search.
//
//	@Summary		Keyword search over the tool catalog
//	@Tags			tools
//	@Produce		json
//	@Param			q			query		string	true	"Query, at least two characters"
//	@Param			category	query		string	false	"Restrict to a category id"
//	@Param			limit		query		int		false	"Maximum matches"
//	@Success		200			{object}	ToolSearchResponse
//	@Failure		400			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/tools/search [get]
func (h *Handler) SearchTools(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	matches, err := h.svc.SearchTools(r.Context(), q.Get("q"), q.Get("category"), limit)
	if err != nil {
		writeError(w, "search tools", err)
		return
	}
	writeJSON(w, http.StatusOK, ToolSearchResponse{Query: q.Get("q"), Matches: matches})
}

// History handles GET /api/history.
//
//	@Summary		Recent install and uninstall events
//	@Tags			history
//	@Produce		json
//	@Param			limit	query		int		false	"Page size"
//	@Param			kind	query		string	false	"Filter by host kind"
//	@Success		200		{object}	HistoryResponse
//	@Security		BearerAuth
//	@Router			/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = history.DefaultLimit
	}
	events, err := h.svc.History(r.Context(), limit, q.Get("kind"))
	if err != nil {
		writeError(w, "history", err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Events: events})
}
