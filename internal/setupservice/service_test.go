package setupservice

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/starford/mcpsetup/internal/apperr"
	"github.com/starford/mcpsetup/internal/credentials"
	"github.com/starford/mcpsetup/internal/history"
	"github.com/starford/mcpsetup/internal/hosts"
	"github.com/starford/mcpsetup/internal/models"
	"github.com/starford/mcpsetup/internal/registrar"
	"github.com/starford/mcpsetup/internal/status"
	"github.com/starford/mcpsetup/internal/storage"
	"github.com/starford/mcpsetup/internal/testutil"
	"github.com/starford/mcpsetup/internal/validate"
)

type fakeValidator struct {
	got string
	out validate.Outcome
}

func (f *fakeValidator) Validate(_ context.Context, token string) validate.Outcome {
	f.got = token
	return f.out
}

type fakeNotifier struct {
	mu       sync.Mutex
	statuses []models.StatusSnapshot
	installs [][]models.InstallResult
}

func (n *fakeNotifier) PublishStatus(s models.StatusSnapshot) {
	n.mu.Lock()
	n.statuses = append(n.statuses, s)
	n.mu.Unlock()
}

func (n *fakeNotifier) PublishInstall(r []models.InstallResult) {
	n.mu.Lock()
	n.installs = append(n.installs, r)
	n.mu.Unlock()
}

type fixture struct {
	svc     *Service
	loc     *hosts.Locator
	journal *history.Journal
	val     *fakeValidator
	notify  *fakeNotifier
	bin     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc := testutil.TestHome(t)
	files := storage.NewFS()
	bin := testutil.FakeBinary(t, t.TempDir(), "mcp-server")
	reg := registrar.New("filing-explorer", registrar.Static(bin), files, testutil.Discard())
	creds := credentials.NewStore(filepath.Join(loc.ConfigDir, "filing-explorer-mcp", credentials.FileName), files)
	f := &fixture{
		loc:     loc,
		journal: testutil.TestJournal(t),
		val:     &fakeValidator{out: validate.Outcome{State: validate.StateValid}},
		notify:  &fakeNotifier{},
		bin:     bin,
	}
	f.svc = New(Deps{
		Credentials: creds,
		Locator:     loc,
		Registrar:   reg,
		Status:      status.NewAggregator(loc, reg, creds, files),
		Validator:   f.val,
		Journal:     f.journal,
		Notifier:    f.notify,
		Logger:      testutil.Discard(),
	})
	return f
}

func strPtr(s string) *string { return &s }

func TestEndToEndScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap := f.svc.StatusSnapshot(ctx)
	if snap.TokenSet || snap.EmailSet || snap.Configured() {
		t.Fatalf("fresh snapshot: %+v", snap)
	}

	if err := f.svc.SaveCredentials(ctx, models.Credentials{APIToken: strPtr("abc123xyz9")}); err != nil {
		t.Fatal(err)
	}
	results, err := f.svc.InstallAll(ctx)
	if err != nil {
		t.Fatalf("InstallAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d", len(results))
	}

	snap = f.svc.StatusSnapshot(ctx)
	if !snap.TokenSet {
		t.Error("token should be set")
	}
	for _, ts := range snap.Targets {
		if !ts.Configured {
			t.Errorf("%s not configured", ts.Kind)
		}
	}
	if snap.State != models.StateReady {
		t.Errorf("state = %s", snap.State)
	}
}

func TestSaveCredentialsTrimsAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	err := f.svc.SaveCredentials(ctx, models.Credentials{
		APIToken:   strPtr("  tok  "),
		AgentName:  strPtr("   "),
		AgentEmail: strPtr("me@example.com"),
	})
	if err != nil {
		t.Fatal(err)
	}
	c, _ := f.svc.GetCredentials(ctx)
	if *c.APIToken != "tok" || c.AgentName != nil || *c.AgentEmail != "me@example.com" {
		t.Errorf("stored = %+v", c)
	}
	if len(f.notify.statuses) != 1 {
		t.Errorf("status notifications = %d", len(f.notify.statuses))
	}

	// A half-typed email still persists.
	if err := f.svc.SaveCredentials(ctx, models.Credentials{AgentEmail: strPtr("jane@")}); err != nil {
		t.Fatalf("partial email: %v", err)
	}
	c, _ = f.svc.GetCredentials(ctx)
	if c.AgentEmail == nil || *c.AgentEmail != "jane@" {
		t.Errorf("stored email = %v", c.AgentEmail)
	}
}

func TestInstallUnknownKind(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Install(context.Background(), "vscode")
	if !errors.Is(err, apperr.ErrUnknownTarget) {
		t.Errorf("err = %v", err)
	}
}

func TestInstallJournalsOutcome(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Install(ctx, models.KindDesktop); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Install(ctx, models.KindDesktop); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Uninstall(ctx, models.KindDesktop); err != nil {
		t.Fatal(err)
	}

	events, err := f.svc.History(ctx, 10, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 3 {
		t.Fatalf("events = %+v", events)
	}
	want := []struct{ action, outcome string }{
		{history.ActionUninstall, history.OutcomeChanged},
		{history.ActionInstall, history.OutcomeUnchanged},
		{history.ActionInstall, history.OutcomeChanged},
	}
	for i, w := range want {
		if events[i].Action != w.action || events[i].Outcome != w.outcome {
			t.Errorf("event %d = %s/%s, want %s/%s", i, events[i].Action, events[i].Outcome, w.action, w.outcome)
		}
	}
	if events[2].Command != f.bin || events[2].Checksum == "" {
		t.Errorf("install event = %+v", events[2])
	}
	if len(f.notify.installs) != 3 {
		t.Errorf("install notifications = %d", len(f.notify.installs))
	}
}

func TestInstallAllPartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	desktop, _ := f.loc.Lookup(models.KindDesktop)
	testutil.WriteFile(t, desktop.Path, "{")

	results, err := f.svc.InstallAll(ctx)
	if !errors.Is(err, apperr.ErrPartialInstall) {
		t.Fatalf("err = %v", err)
	}
	if results[0].Success || results[0].ErrorKind != apperr.KindMalformed || !results[1].Success {
		t.Errorf("results = %+v", results)
	}
	events, _ := f.svc.History(ctx, 10, models.KindDesktop)
	if len(events) != 1 || events[0].Outcome != history.OutcomeFailed || events[0].ErrorKind != apperr.KindMalformed {
		t.Errorf("desktop events = %+v", events)
	}
}

func TestInstallAllNoTargets(t *testing.T) {
	f := newFixture(t)
	f.svc.locator = &hosts.Locator{GOOS: "plan9"}
	_, err := f.svc.InstallAll(context.Background())
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

func TestSnippet(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.Snippet(context.Background(), models.KindCodeGlobal)
	if err != nil {
		t.Fatal(err)
	}
	if got == "" {
		t.Error("empty snippet")
	}
	if _, err := f.svc.Snippet(context.Background(), "nope"); !errors.Is(err, apperr.ErrUnknownTarget) {
		t.Errorf("err = %v", err)
	}
}

func TestValidateTokenUsesStoredToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.ValidateToken(ctx, ""); !errors.Is(err, apperr.ErrInvalidInput) {
		t.Errorf("no token err = %v", err)
	}

	_ = f.svc.SaveCredentials(ctx, models.Credentials{APIToken: strPtr("stored")})
	out, err := f.svc.ValidateToken(ctx, "")
	if err != nil || !out.Valid() || f.val.got != "stored" {
		t.Errorf("stored: out=%+v err=%v got=%q", out, err, f.val.got)
	}

	f.val.out = validate.Outcome{State: validate.StateUnreachable}
	out, _ = f.svc.ValidateToken(ctx, " explicit ")
	if out.State != validate.StateUnreachable || f.val.got != "explicit" {
		t.Errorf("explicit: out=%+v got=%q", out, f.val.got)
	}
}

func TestSearchTools(t *testing.T) {
	f := newFixture(t)
	got, err := f.svc.SearchTools(context.Background(), "zzzz-nothing", "", 5)
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("got %v, %v", got, err)
	}
	if len(f.svc.ToolCategories(context.Background())) == 0 {
		t.Error("no categories")
	}
}

func TestWatchedFiles(t *testing.T) {
	f := newFixture(t)
	files := f.svc.WatchedFiles()
	if len(files) != 3 || files[0] != f.svc.CredentialsPath() {
		t.Errorf("files = %v", files)
	}
}

func TestHistoryWithoutJournal(t *testing.T) {
	svc := New(Deps{})
	got, err := svc.History(context.Background(), 5, "")
	if err != nil || got == nil {
		t.Errorf("got %v, %v", got, err)
	}
}
