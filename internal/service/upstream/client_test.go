package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/swarm-balance/internal/platform/tracing"
)

func newTestServer(handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(handler)
}

func TestBackendInfoReturnsBodyVerbatim(t *testing.T) {
	body := `{"role":"backend","message":"hi","hostname":"b-1","timestamp":"2024-01-15T10:30:00.000Z","extra":[1,2]}`
	srv := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/info" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("expected Accept application/json, got %s", accept)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})
	defer srv.Close()

	client := NewClient(nil, WithBackendURL(srv.URL+"/api/info"))
	info, err := client.BackendInfo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(info) != body {
		t.Fatalf("expected body verbatim, got %s", info)
	}
}

func TestBackendInfoAcceptsJSONOnErrorStatus(t *testing.T) {
	srv := newTestServer(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"kaput"}`))
	})
	defer srv.Close()

	client := NewClient(nil, WithBackendURL(srv.URL))
	info, err := client.BackendInfo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var payload map[string]string
	if err := json.Unmarshal(info, &payload); err != nil || payload["error"] != "kaput" {
		t.Fatalf("unexpected payload %s (%v)", info, err)
	}
}

func TestBackendInfoRejectsNonJSON(t *testing.T) {
	srv := newTestServer(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	defer srv.Close()

	client := NewClient(nil, WithBackendURL(srv.URL))
	_, err := client.BackendInfo(context.Background())
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	var upErr *UpstreamError
	if !errors.As(err, &upErr) || upErr.Kind != ErrorKindDecode || upErr.URL != srv.URL {
		t.Fatalf("expected decode UpstreamError for %s, got %+v", srv.URL, upErr)
	}
}

func TestBackendInfoTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	})
	defer srv.Close()
	defer close(release)

	client := NewClient(nil, WithBackendURL(srv.URL), WithTimeout(50*time.Millisecond))
	start := time.Now()
	_, err := client.BackendInfo(context.Background())
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected wrapped deadline error, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("timeout not enforced, took %s", elapsed)
	}
}

func TestBackendInfoUnreachable(t *testing.T) {
	srv := newTestServer(func(w http.ResponseWriter, _ *http.Request) {})
	url := srv.URL
	srv.Close()

	client := NewClient(nil, WithBackendURL(url))
	_, err := client.BackendInfo(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	if !strings.Contains(err.Error(), url) {
		t.Fatalf("expected error to name %s, got %q", url, err.Error())
	}
}

func TestIdentityCalls(t *testing.T) {
	srv := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/id":
			_, _ = w.Write([]byte(`{"role":"frontend","hostname":"f-1","timestamp":"2024-01-15T10:30:00.000Z"}`))
		case "/api/info":
			_, _ = w.Write([]byte(`{"role":"backend","hostname":"b-1","message":"m"}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	})
	defer srv.Close()

	client := NewClient(srv.Client(),
		WithBackendURL(srv.URL+"/api/info"),
		WithFrontendIDURL(srv.URL+"/id"),
	)

	fe, err := client.FrontendIdentity(context.Background())
	if err != nil {
		t.Fatalf("frontend identity: %v", err)
	}
	if fe.Hostname != "f-1" || fe.Role != "frontend" {
		t.Fatalf("unexpected frontend identity: %+v", fe)
	}
	be, err := client.BackendIdentity(context.Background())
	if err != nil {
		t.Fatalf("backend identity: %v", err)
	}
	if be.Hostname != "b-1" || be.Role != "backend" {
		t.Fatalf("unexpected backend identity: %+v", be)
	}
}

func TestIdentityRejectsNonJSON(t *testing.T) {
	srv := newTestServer(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})
	defer srv.Close()

	client := NewClient(nil, WithFrontendIDURL(srv.URL))
	if _, err := client.FrontendIdentity(context.Background()); !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestRequestIDIsForwarded(t *testing.T) {
	var got string
	srv := newTestServer(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(chimiddleware.RequestIDHeader)
		_, _ = w.Write([]byte(`{}`))
	})
	defer srv.Close()

	ctx := context.WithValue(context.Background(), chimiddleware.RequestIDKey, "req-42")
	client := NewClient(nil, WithBackendURL(srv.URL))
	if _, err := client.BackendInfo(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "req-42" {
		t.Fatalf("expected forwarded request id, got %q", got)
	}
}

func TestInvalidURL(t *testing.T) {
	client := NewClient(nil, WithBackendURL("://missing-scheme"))
	_, err := client.BackendInfo(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable for malformed URL, got %v", err)
	}
}

func TestUpstreamErrorNil(t *testing.T) {
	var e *UpstreamError
	if e.Error() != "upstream error" {
		t.Fatalf("unexpected nil error string: %s", e.Error())
	}
	if e.Unwrap() != nil {
		t.Fatal("expected nil unwrap for nil error")
	}
}

// newConnCountingServer answers with a backend identity and counts the TCP
// connections it accepts.
func newConnCountingServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var conns atomic.Int32
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"role":"backend","hostname":"b-1"}`))
	}))
	srv.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			conns.Add(1)
		}
	}
	srv.Start()
	t.Cleanup(srv.Close)
	return srv, &conns
}

func TestEveryCallDialsNewConnection(t *testing.T) {
	clients := map[string]*http.Client{
		"default": nil,
		"traced":  {Transport: tracing.Transport(NewTransport())},
	}
	for name, httpClient := range clients {
		t.Run(name, func(t *testing.T) {
			srv, conns := newConnCountingServer(t)
			client := NewClient(httpClient, WithBackendURL(srv.URL))

			const calls = 10
			for range calls {
				if _, err := client.BackendIdentity(context.Background()); err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			if got := conns.Load(); got != calls {
				t.Fatalf("expected %d connections for %d calls, got %d", calls, calls, got)
			}
		})
	}
}

func TestNewTransportDisablesKeepAlives(t *testing.T) {
	if !NewTransport().DisableKeepAlives {
		t.Fatal("expected keep-alives disabled")
	}
	if http.DefaultTransport.(*http.Transport).DisableKeepAlives {
		t.Fatal("NewTransport must not modify http.DefaultTransport")
	}
}
