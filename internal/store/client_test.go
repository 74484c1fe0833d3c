package store

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deckhandapp/deckhand/internal/apperrors"
)

func TestListPlugins(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/plugins" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"plugins":[{"id":"obs-control","name":"OBS Control","version":"1.2.0","author":"deckhand","downloads":420}],"total":1}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123")
	plugins, err := c.ListPlugins(context.Background(), "")
	if err != nil {
		t.Fatalf("ListPlugins failed: %v", err)
	}
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}
	if plugins[0].ID != "obs-control" || plugins[0].Version != "1.2.0" {
		t.Errorf("unexpected plugin %+v", plugins[0])
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("expected bearer token header, got %q", gotAuth)
	}
}

func TestListPluginsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "obs studio" {
			t.Errorf("expected query %q, got %q", "obs studio", q)
		}
		w.Write([]byte(`{"plugins":[],"total":0}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.ListPlugins(context.Background(), "obs studio"); err != nil {
		t.Fatalf("ListPlugins failed: %v", err)
	}
}

func TestListPluginsUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"token expired","code":"auth_expired"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "stale")
	_, err := c.ListPlugins(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for 401")
	}
	if kind, ok := apperrors.KindOf(err); !ok || kind != apperrors.KindTerminal {
		t.Errorf("expected terminal error, got %v (kind ok=%v)", err, ok)
	}
}

func TestListPluginsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.ListPlugins(context.Background(), "")
	if err == nil {
		t.Fatal("expected error for 503")
	}
	if !apperrors.IsRetryable(err) {
		t.Errorf("expected retryable error, got %v", err)
	}
}

func TestGetPlugin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/plugins/obs-control" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"id":"obs-control","name":"OBS Control","version":"1.2.0","author":"deckhand"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	p, err := c.GetPlugin(context.Background(), "obs-control")
	if err != nil {
		t.Fatalf("GetPlugin failed: %v", err)
	}
	if p.Name != "OBS Control" {
		t.Errorf("unexpected name %q", p.Name)
	}
}

func TestGetPluginNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"message":"no such plugin"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	if _, err := c.GetPlugin(context.Background(), "nope"); err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestGetPluginEmptyID(t *testing.T) {
	c := NewClient("http://unused.invalid", "")
	if _, err := c.GetPlugin(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty id")
	}
}
