package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"movierealm/internal/apierr"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func newTestClient(baseURL string) *Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(ClientConfig{BaseURL: baseURL, Logger: logger})
}

func TestDoAttachesToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.SetTokenSource(staticToken("tok-123"))

	if err := client.Get(context.Background(), "/movies/list", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestDoAnonymousOmitsToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	client.SetTokenSource(staticToken(""))

	if err := client.Get(context.Background(), "/movies/list", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want none for anonymous calls", gotAuth)
	}
}

func TestDoRequestIDHeader(t *testing.T) {
	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if err := client.Get(context.Background(), "/movies/list", nil, nil); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gotID == "" {
		t.Error("every request should carry a correlation id")
	}
}

func TestUnauthorizedFiresHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Token expired"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	fired := 0
	client.SetUnauthorizedHook(func() { fired++ })

	err := client.Get(context.Background(), "/watchlist/watchlist", nil, nil)
	if !apierr.IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if fired != 1 {
		t.Errorf("hook fired %d times, want 1", fired)
	}
	if apierr.UserMessage(err) != "Token expired" {
		t.Errorf("UserMessage = %q, want the server detail", apierr.UserMessage(err))
	}
}

// A 401 from the login call itself means bad credentials; clearing the
// session over it would wipe a perfectly valid one.
func TestUnauthorizedOnAuthSurfaceSkipsHook(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid email or password"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	fired := 0
	client.SetUnauthorizedHook(func() { fired++ })

	err := client.Do(context.Background(), Request{
		Method:      http.MethodPost,
		Path:        "/auth/login",
		AuthSurface: true,
	})
	if !apierr.IsUnauthorized(err) {
		t.Fatalf("err = %v, want unauthorized", err)
	}
	if fired != 0 {
		t.Error("the hook must not fire for auth-surface calls")
	}
}

func TestValidationDetailPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail": "Email already registered"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	err := client.Post(context.Background(), "/auth/register", nil, nil)
	if !apierr.IsValidation(err) {
		t.Fatalf("err = %v, want validation", err)
	}
	if apierr.UserMessage(err) != "Email already registered" {
		t.Errorf("UserMessage = %q", apierr.UserMessage(err))
	}
}

func TestTransportFailureIsNetworkKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := newTestClient(server.URL)
	err := client.Get(context.Background(), "/movies/list", nil, nil)
	if !apierr.IsNetwork(err) {
		t.Errorf("err = %v, want network kind", err)
	}
}

func TestDoDecodesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"total": 3, "movies": [{"id": 1, "title": "Stalker"}]}`))
	}))
	defer server.Close()

	var out struct {
		Total  int `json:"total"`
		Movies []struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
		} `json:"movies"`
	}
	client := newTestClient(server.URL)
	if err := client.Get(context.Background(), "/movies/list", nil, &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.Total != 3 || len(out.Movies) != 1 || out.Movies[0].Title != "Stalker" {
		t.Errorf("decoded %+v", out)
	}
}
