package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/starford/mcpsetup/internal/models"
)

func TestSubscribeUnsubscribe(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients")
	}
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}
	b.Unsubscribe(ch)
	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after unsub")
	}
}

func TestPublishDelivery(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.Publish(Event{Type: "status.updated", Data: map[string]string{"path": "a.json"}})

	select {
	case msg := <-ch:
		s := string(msg)
		if !strings.Contains(s, "event: status.updated") {
			t.Errorf("missing event type in %q", s)
		}
		if !strings.Contains(s, `"path":"a.json"`) {
			t.Errorf("missing data in %q", s)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}
}

func drain(ch chan []byte) []string {
	var out []string
	for {
		select {
		case msg := <-ch:
			out = append(out, string(msg))
		default:
			return out
		}
	}
}

func TestPublishStatus_Throttle(t *testing.T) {
	b := NewBroker(200 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// First snapshot goes out immediately.
	b.PublishStatus(models.StatusSnapshot{State: models.StateNotConfigured})
	// The burst that follows collapses into the newest snapshot.
	b.PublishStatus(models.StatusSnapshot{State: models.StateError})
	b.PublishStatus(models.StatusSnapshot{State: models.StateReady})

	time.Sleep(50 * time.Millisecond)
	first := drain(ch)
	if len(first) != 1 || !strings.Contains(first[0], `"state":"not_configured"`) {
		t.Fatalf("leading edge = %q", first)
	}

	time.Sleep(300 * time.Millisecond)
	trailing := drain(ch)
	if len(trailing) != 1 {
		t.Fatalf("trailing events = %d, want 1: %q", len(trailing), trailing)
	}
	if !strings.Contains(trailing[0], "event: status.updated") || !strings.Contains(trailing[0], `"state":"ready"`) {
		t.Errorf("trailing event = %q", trailing[0])
	}
}

func TestPublishHelpers(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	b.PublishFilesChanged([]string{"/home/u/.claude.json"})
	b.PublishInstall([]models.InstallResult{{Success: true, Message: "ok"}})
	time.Sleep(50 * time.Millisecond)

	got := drain(ch)
	if len(got) != 2 {
		t.Fatalf("events = %q", got)
	}
	if !strings.Contains(got[0], "event: files.changed") || !strings.Contains(got[0], ".claude.json") {
		t.Errorf("files event = %q", got[0])
	}
	if !strings.Contains(got[1], "event: install.completed") {
		t.Errorf("install event = %q", got[1])
	}
}

func TestSSEHandler(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	defer b.Close()

	// Start handler in background.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req = req.WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		b.ServeHTTP(w, req)
		close(done)
	}()

	// Give handler time to subscribe.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client from handler")
	}

	b.Publish(Event{Type: "files.changed", Data: map[string]string{"path": "x.json"}})
	time.Sleep(50 * time.Millisecond)

	// Cancel context to disconnect.
	cancel()
	<-done

	body := w.Body.String()
	if !strings.Contains(body, "event: files.changed") {
		t.Errorf("handler output missing event: %q", body)
	}

	// Client should be cleaned up.
	time.Sleep(50 * time.Millisecond)
	if b.ClientCount() != 0 {
		t.Errorf("client not cleaned up after disconnect")
	}
}

func TestPublishDropsOnFullBuffer(t *testing.T) {
	b := NewBroker(time.Second)
	defer b.Close()
	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	// Fill buffer (capacity 64) and then one more should not block.
	for i := 0; i < 70; i++ {
		b.Publish(Event{Type: "test", Data: map[string]string{"i": "x"}})
	}
	// If we reach here without deadlock, the test passes.
}

func TestCloseClosesSubscribersAndStopsOperations(t *testing.T) {
	b := NewBroker(100 * time.Millisecond)
	ch := b.Subscribe()
	if b.ClientCount() != 1 {
		t.Fatalf("expected 1 client")
	}

	b.Close()

	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("expected subscriber channel to be closed")
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel close")
	}

	if b.ClientCount() != 0 {
		t.Fatalf("expected 0 clients after close")
	}

	// Should be safe no-op after close.
	b.Publish(Event{Type: "files.changed", Data: map[string]string{"path": "x.json"}})
	b.PublishStatus(models.StatusSnapshot{})
}
