package riotapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	return &Client{
		apiKey:     "RGAPI-test",
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		limiter:    NewLimiter(1000),
	}
}

func TestDoRequest_InjectsHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Riot-Token") == "" {
			t.Error("expected X-Riot-Token header to be set")
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("expected Content-Type: application/json header")
		}
		w.Write([]byte(`{"puuid":"abc"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	acc, err := c.ResolveAccount(context.Background(), "Name", "Tag")
	if err != nil {
		t.Fatalf("ResolveAccount: %v", err)
	}
	if acc.PUUID != "abc" {
		t.Errorf("PUUID = %q, want abc", acc.PUUID)
	}
}

// TestDoRequest_RetryAfterThenSuccess models S5: a 429 with Retry-After: 0
// followed by a 200 succeeds after exactly one retry.
func TestDoRequest_RetryAfterThenSuccess(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"puuid":"abc"}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	acc, err := c.ResolveAccount(context.Background(), "Name", "Tag")
	if err != nil {
		t.Fatalf("expected success after one retry, got: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", calls)
	}
	if acc.PUUID != "abc" {
		t.Errorf("PUUID = %q, want abc", acc.PUUID)
	}
}

// TestDoRequest_SecondConsecutive429Fails models S5's failure branch.
func TestDoRequest_SecondConsecutive429Fails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.ResolveAccount(context.Background(), "Name", "Tag")
	if err == nil {
		t.Fatal("expected TooManyRequestsError")
	}
	if _, ok := err.(*TooManyRequestsError); !ok {
		t.Fatalf("expected *TooManyRequestsError, got %T: %v", err, err)
	}
}

func TestDoRequest_NonRetryableStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.ResolveAccount(context.Background(), "Name", "Tag")
	if err == nil {
		t.Fatal("expected an error")
	}
	httpErr, ok := err.(*HttpStatusError)
	if !ok {
		t.Fatalf("expected *HttpStatusError, got %T", err)
	}
	if httpErr.Code != http.StatusForbidden {
		t.Errorf("Code = %d, want 403", httpErr.Code)
	}
}

func TestDoRequest_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.ResolveAccount(context.Background(), "Name", "Tag")
	if _, ok := err.(*DecodeError); !ok {
		t.Fatalf("expected *DecodeError, got %T: %v", err, err)
	}
}

func TestNewClient_MissingCredential(t *testing.T) {
	t.Setenv("RIOT_API_KEY", "")
	if _, err := NewClient(80); err != ErrMissingCredential {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}
