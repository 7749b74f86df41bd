package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestValidateStates(t *testing.T) {
	cases := []struct {
		status int
		want   string
	}{
		{http.StatusOK, StateValid},
		{http.StatusNoContent, StateValid},
		{http.StatusUnauthorized, StateInvalid},
		{http.StatusForbidden, StateInvalid},
		{http.StatusInternalServerError, StateInvalid},
	}
	for _, c := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/lists" {
				t.Errorf("path = %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Errorf("auth = %q", got)
			}
			w.WriteHeader(c.status)
		}))
		out := NewClient(srv.URL+"/", time.Second).Validate(context.Background(), "tok-1")
		srv.Close()
		if out.State != c.want || out.Status != c.status {
			t.Errorf("status %d: got %+v, want %s", c.status, out, c.want)
		}
	}
}

func TestValidateUnexpectedMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	out := NewClient(srv.URL, time.Second).Validate(context.Background(), "x")
	if !strings.HasPrefix(out.Message, "Unexpected response: 502") {
		t.Errorf("message = %q", out.Message)
	}
}

func TestValidateForbiddenIsUnexpected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()
	out := NewClient(srv.URL, time.Second).Validate(context.Background(), "x")
	if out.State != StateInvalid || out.Message != "Unexpected response: 403 Forbidden" {
		t.Errorf("403: %+v", out)
	}
}

func TestValidateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()
	out := NewClient(url, time.Second).Validate(context.Background(), "x")
	if out.State != StateUnreachable || out.Valid() {
		t.Errorf("closed server: %+v", out)
	}
}

func TestValidateCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	out := NewClient(srv.URL, 5*time.Second).Validate(ctx, "x")
	if out.State != StateUnreachable {
		t.Errorf("cancelled: %+v", out)
	}
}
