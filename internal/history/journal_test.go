package history

import (
	"path/filepath"
	"testing"
	"time"
)

func testJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestSchemaCreation(t *testing.T) {
	j := testJournal(t)
	var count int
	if err := j.conn.QueryRow(`SELECT count(*) FROM install_events`).Scan(&count); err != nil {
		t.Fatalf("install_events table missing: %v", err)
	}
}

func TestRecordAssignsIDAndTime(t *testing.T) {
	j := testJournal(t)
	e, err := j.Record(Event{Action: ActionInstall, Kind: "desktop", Outcome: OutcomeChanged})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(e.ID) != 36 || e.CreatedAt.IsZero() {
		t.Errorf("event = %+v", e)
	}
}

func TestRecentOrderAndFilter(t *testing.T) {
	j := testJournal(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, kind := range []string{"desktop", "code-global", "desktop"} {
		_, err := j.Record(Event{
			Action:    ActionInstall,
			Kind:      kind,
			Outcome:   OutcomeChanged,
			Checksum:  string(rune('a' + i)),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	all, err := j.Recent(0, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].Checksum != "c" || all[2].Checksum != "a" {
		t.Errorf("all = %+v", all)
	}

	desktop, _ := j.Recent(10, "desktop")
	if len(desktop) != 2 {
		t.Errorf("desktop events = %d", len(desktop))
	}

	limited, _ := j.Recent(1, "")
	if len(limited) != 1 || limited[0].Checksum != "c" {
		t.Errorf("limited = %+v", limited)
	}
}

func TestRecentEmpty(t *testing.T) {
	got, err := testJournal(t).Recent(5, "")
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("got %v, %v", got, err)
	}
}

func TestLastChecksumSkipsFailures(t *testing.T) {
	j := testJournal(t)
	if sum, err := j.LastChecksum("desktop"); err != nil || sum != "" {
		t.Fatalf("empty journal: %q %v", sum, err)
	}
	base := time.Now().UTC()
	_, _ = j.Record(Event{Action: ActionInstall, Kind: "desktop", Outcome: OutcomeChanged, Checksum: "good", CreatedAt: base})
	_, _ = j.Record(Event{Action: ActionInstall, Kind: "desktop", Outcome: OutcomeFailed, CreatedAt: base.Add(time.Second)})
	sum, err := j.LastChecksum("desktop")
	if err != nil || sum != "good" {
		t.Errorf("LastChecksum = %q, %v", sum, err)
	}
}
