package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/mcpsetup/internal/credentials"
	"github.com/starford/mcpsetup/internal/hosts"
	"github.com/starford/mcpsetup/internal/models"
	"github.com/starford/mcpsetup/internal/registrar"
	"github.com/starford/mcpsetup/internal/setupservice"
	"github.com/starford/mcpsetup/internal/status"
	"github.com/starford/mcpsetup/internal/storage"
	"github.com/starford/mcpsetup/internal/testutil"
	"github.com/starford/mcpsetup/internal/validate"
)

// testEnv sets up a temp home, credentials store, journal, service, and
// router. A non-empty authToken enables token mode.
func testEnv(t *testing.T, authToken string) (*hosts.Locator, http.Handler) {
	t.Helper()

	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(remote.Close)

	loc := testutil.TestHome(t)
	files := storage.NewFS()
	bin := testutil.FakeBinary(t, t.TempDir(), "mcp-server")
	reg := registrar.New("filing-explorer", registrar.Static(bin), files, testutil.Discard())
	creds := credentials.NewStore(filepath.Join(loc.ConfigDir, "filing-explorer-mcp", credentials.FileName), files)

	svc := setupservice.New(setupservice.Deps{
		Credentials: creds,
		Locator:     loc,
		Registrar:   reg,
		Status:      status.NewAggregator(loc, reg, creds, files),
		Validator:   validate.NewClient(remote.URL, 2*time.Second),
		Journal:     testutil.TestJournal(t),
		Logger:      testutil.Discard(),
	})
	return loc, NewRouter(svc, authToken != "", authToken, nil)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestCredentialsRoundTrip(t *testing.T) {
	_, r := testEnv(t, "")

	w := do(t, r, http.MethodGet, "/credentials", "")
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d %s", w.Code, w.Body.String())
	}
	var empty CredentialsResponse
	decode(t, w, &empty)
	if empty.TokenSet || empty.AgentConfigured {
		t.Errorf("fresh credentials = %+v", empty)
	}

	w = do(t, r, http.MethodPut, "/credentials",
		`{"api_token":" secret ","sec_user_agent_name":"Jane Doe","sec_user_agent_email":"jane@example.com"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("put: %d %s", w.Code, w.Body.String())
	}
	var saved CredentialsResponse
	decode(t, w, &saved)
	if !saved.TokenSet || !saved.AgentConfigured || saved.UserAgent != "Jane Doe jane@example.com" {
		t.Errorf("saved = %+v", saved)
	}
	if strings.Contains(w.Body.String(), "secret") {
		t.Error("token must not be echoed")
	}
}

func TestSaveCredentialsKeepsPartialEmail(t *testing.T) {
	_, r := testEnv(t, "")
	w := do(t, r, http.MethodPut, "/credentials", `{"sec_user_agent_email":"jane@"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var saved CredentialsResponse
	decode(t, w, &saved)
	if saved.AgentEmail == nil || *saved.AgentEmail != "jane@" {
		t.Errorf("email = %v", saved.AgentEmail)
	}
	if !strings.Contains(saved.Warning, "sec_user_agent_email") {
		t.Errorf("warning = %q", saved.Warning)
	}

	w = do(t, r, http.MethodPut, "/credentials", `{"sec_user_agent_email":"jane@example.com"}`)
	decode(t, w, &saved)
	if saved.Warning != "" {
		t.Errorf("well-formed email warning = %q", saved.Warning)
	}
}

func TestSaveCredentialsInvalidJSON(t *testing.T) {
	_, r := testEnv(t, "")
	w := do(t, r, http.MethodPut, "/credentials", `{`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCorruptCredentialsConflict(t *testing.T) {
	loc, r := testEnv(t, "")
	testutil.WriteFile(t, filepath.Join(loc.ConfigDir, "filing-explorer-mcp", credentials.FileName), "{nope")
	w := do(t, r, http.MethodGet, "/credentials", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
}

func TestValidateToken(t *testing.T) {
	_, r := testEnv(t, "")

	w := do(t, r, http.MethodPost, "/credentials/validate", `{"token":"good-token"}`)
	var out ValidateResponse
	decode(t, w, &out)
	if w.Code != http.StatusOK || !out.Valid || out.State != validate.StateValid {
		t.Fatalf("good token: %d %+v", w.Code, out)
	}

	w = do(t, r, http.MethodPost, "/credentials/validate", `{"token":"bad"}`)
	decode(t, w, &out)
	if out.State != validate.StateInvalid || out.Message != "Invalid API token" {
		t.Errorf("bad token = %+v", out)
	}

	// No body and nothing stored.
	w = do(t, r, http.MethodPost, "/credentials/validate", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("no token: status = %d", w.Code)
	}

	do(t, r, http.MethodPut, "/credentials", `{"api_token":"good-token"}`)
	w = do(t, r, http.MethodPost, "/credentials/validate", "")
	decode(t, w, &out)
	if !out.Valid {
		t.Errorf("stored token = %+v", out)
	}
}

func TestInstallStatusAndUninstall(t *testing.T) {
	loc, r := testEnv(t, "")

	w := do(t, r, http.MethodPost, "/targets/code-global/install", "")
	if w.Code != http.StatusOK {
		t.Fatalf("install: %d %s", w.Code, w.Body.String())
	}
	var res models.InstallResult
	decode(t, w, &res)
	if !res.Success || !res.Changed {
		t.Errorf("install result = %+v", res)
	}
	if !strings.Contains(testutil.ReadFile(t, filepath.Join(loc.Home, ".claude.json")), `"filing-explorer"`) {
		t.Error("host file not written")
	}

	w = do(t, r, http.MethodGet, "/status", "")
	var snap models.StatusSnapshot
	decode(t, w, &snap)
	ts, ok := snap.Target(models.KindCodeGlobal)
	if !ok || !ts.Configured || !ts.ServerPathExists {
		t.Errorf("status target = %+v", ts)
	}

	w = do(t, r, http.MethodDelete, "/targets/code-global/install", "")
	decode(t, w, &res)
	if w.Code != http.StatusOK || !res.Changed {
		t.Errorf("uninstall: %d %+v", w.Code, res)
	}
}

func TestInstallUnknownTarget(t *testing.T) {
	_, r := testEnv(t, "")
	w := do(t, r, http.MethodPost, "/targets/vim/install", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestInstallMalformedHostFile(t *testing.T) {
	loc, r := testEnv(t, "")
	path := filepath.Join(loc.Home, ".claude.json")
	testutil.WriteFile(t, path, `{"mcpServers": [`)

	w := do(t, r, http.MethodPost, "/targets/code-global/install", "")
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var res models.InstallResult
	decode(t, w, &res)
	if res.Success || res.ErrorKind != "malformed" {
		t.Errorf("result = %+v", res)
	}
	if got := testutil.ReadFile(t, path); got != `{"mcpServers": [` {
		t.Errorf("malformed file modified: %q", got)
	}
}

func TestInstallAllPartial(t *testing.T) {
	loc, r := testEnv(t, "")
	testutil.WriteFile(t, filepath.Join(loc.Home, ".claude.json"), "not json")

	w := do(t, r, http.MethodPost, "/install", "")
	if w.Code != http.StatusMultiStatus {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var out InstallAllResponse
	decode(t, w, &out)
	if len(out.Results) != 2 {
		t.Fatalf("results = %+v", out.Results)
	}
	if !strings.Contains(out.Message, "configured, but") {
		t.Errorf("message = %q", out.Message)
	}
}

func TestInstallAllSuccess(t *testing.T) {
	_, r := testEnv(t, "")
	w := do(t, r, http.MethodPost, "/install", "")
	var out InstallAllResponse
	decode(t, w, &out)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if out.Message != "All host applications configured. Restart them to apply changes." {
		t.Errorf("message = %q", out.Message)
	}
}

func TestSnippet(t *testing.T) {
	_, r := testEnv(t, "")
	w := do(t, r, http.MethodGet, "/targets/desktop/snippet", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out SnippetResponse
	decode(t, w, &out)
	if out.Target.Kind != models.KindDesktop || !strings.Contains(out.Snippet, `"filing-explorer"`) {
		t.Errorf("snippet = %+v", out)
	}
}

func TestListTargets(t *testing.T) {
	_, r := testEnv(t, "")
	w := do(t, r, http.MethodGet, "/targets", "")
	var out TargetListResponse
	decode(t, w, &out)
	if len(out.Targets) != 2 {
		t.Errorf("targets = %+v", out.Targets)
	}
}

func TestToolsAndSearch(t *testing.T) {
	_, r := testEnv(t, "")

	w := do(t, r, http.MethodGet, "/tools", "")
	var cats CategoryListResponse
	decode(t, w, &cats)
	if len(cats.Categories) == 0 || cats.Total == 0 {
		t.Fatalf("categories = %+v", cats)
	}

	w = do(t, r, http.MethodGet, "/tools/search?q=insider", "")
	var found ToolSearchResponse
	decode(t, w, &found)
	if w.Code != http.StatusOK || len(found.Matches) == 0 {
		t.Errorf("search: %d %+v", w.Code, found)
	}

	w = do(t, r, http.MethodGet, "/tools/search?q=x", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("short query status = %d", w.Code)
	}
}

func TestHistory(t *testing.T) {
	_, r := testEnv(t, "")
	do(t, r, http.MethodPost, "/targets/desktop/install", "")
	do(t, r, http.MethodPost, "/targets/code-global/install", "")

	w := do(t, r, http.MethodGet, "/history?kind=desktop", "")
	var out HistoryResponse
	decode(t, w, &out)
	if len(out.Events) != 1 || out.Events[0].Kind != models.KindDesktop {
		t.Errorf("events = %+v", out.Events)
	}
}

func TestAuthTokenMode(t *testing.T) {
	_, r := testEnv(t, "s3cret")

	w := do(t, r, http.MethodGet, "/status", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no auth: status = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("with auth: status = %d", rec.Code)
	}
}
