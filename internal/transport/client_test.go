package transport

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client, err := NewClient(Config{
		BaseURL:     srv.URL,
		TokenPath:   "/auth/token",
		RefreshPath: "/auth/refresh",
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, srv.Close
}

func TestIssueTokenSendsFormCredentials(t *testing.T) {
	var gotContentType, gotUsername, gotPassword string
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotUsername = r.PostFormValue("username")
		gotPassword = r.PostFormValue("password")
		_ = json.NewEncoder(w).Encode(TokenPair{AccessToken: "acc", RefreshToken: "ref"})
	}))
	defer done()

	pair, err := client.IssueToken(context.Background(), "alex", "hunter2")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if gotContentType != "application/x-www-form-urlencoded" {
		t.Fatalf("content type: %q", gotContentType)
	}
	if gotUsername != "alex" || gotPassword != "hunter2" {
		t.Fatalf("credentials: %q/%q", gotUsername, gotPassword)
	}
	if pair.AccessToken != "acc" || pair.RefreshToken != "ref" {
		t.Fatalf("pair: %+v", pair)
	}
}

func TestRenewSendsJSONRefreshToken(t *testing.T) {
	var gotBody map[string]string
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(TokenPair{AccessToken: "acc-2", RefreshToken: "ref-2"})
	}))
	defer done()

	pair, err := client.Renew(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("renew: %v", err)
	}
	if gotBody["refresh_token"] != "ref-1" {
		t.Fatalf("body: %+v", gotBody)
	}
	if pair.AccessToken != "acc-2" {
		t.Fatalf("pair: %+v", pair)
	}
}

func TestNonSuccessStatusIsRejected(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad refresh token", http.StatusUnauthorized)
	}))
	defer done()

	_, err := client.Renew(context.Background(), "stale")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
}

func TestIncompleteResponseIsRejected(t *testing.T) {
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "acc"})
	}))
	defer done()

	_, err := client.Renew(context.Background(), "ref")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected for missing refresh token, got %v", err)
	}
}

func TestContextDeadlineSurfacesAsDeadlineExceeded(t *testing.T) {
	release := make(chan struct{})
	client, done := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_ = json.NewEncoder(w).Encode(TokenPair{AccessToken: "acc", RefreshToken: "ref"})
	}))
	defer func() {
		close(release)
		done()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.Renew(ctx, "ref")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
	if _, err := NewClient(Config{BaseURL: "::bad::"}); err == nil {
		t.Fatal("expected error for invalid base URL")
	}
	if _, err := NewClient(Config{BaseURL: "http://localhost:9/"}); err == nil {
		t.Fatal("expected error for missing paths")
	}
}
