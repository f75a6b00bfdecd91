package anilist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

const trendingPage = `{
  "data": {
    "Page": {
      "pageInfo": {"total": 2, "currentPage": 1, "lastPage": 1, "hasNextPage": false, "perPage": 20},
      "media": [
        {"id": 1, "title": {"romaji": "Sousou no Frieren", "english": "Frieren"}, "averageScore": 91, "genres": ["Fantasy"]},
        {"id": 2, "title": {"romaji": "Kusuriya no Hitorigoto"}, "episodes": 24}
      ]
    }
  }
}`

func newTestClient(url string) *Client {
	c := NewClient(url, 5*time.Second, 0)
	c.backoffs = []time.Duration{time.Millisecond, time.Millisecond, time.Millisecond}
	return c
}

func TestClientDo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", got)
		}

		var body graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if body.Query == "" {
			t.Error("query should not be empty")
		}
		if body.Variables["perPage"] != float64(DefaultPerPage) {
			t.Errorf("perPage = %v, want %d", body.Variables["perPage"], DefaultPerPage)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(trendingPage))
	}))
	defer server.Close()

	page, err := newTestClient(server.URL).Do(context.Background(), TrendingRequest())
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if page.Type != Trending {
		t.Errorf("Type = %q, want %q", page.Type, Trending)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if got := page.Items[0].Title.Preferred(); got != "Frieren" {
		t.Errorf("Preferred() = %q, want Frieren", got)
	}
	if got := page.Items[1].Title.Preferred(); got != "Kusuriya no Hitorigoto" {
		t.Errorf("Preferred() = %q, want romaji fallback", got)
	}
	if page.PageInfo.Total != 2 {
		t.Errorf("PageInfo.Total = %d, want 2", page.PageInfo.Total)
	}
}

func TestClientDoEmptyPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"Page":{"pageInfo":{"total":0},"media":null}}}`))
	}))
	defer server.Close()

	page, err := newTestClient(server.URL).Do(context.Background(), PopularRequest())
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if page.Items == nil {
		t.Error("empty page should carry a non-nil item slice")
	}
	if len(page.Items) != 0 {
		t.Errorf("expected 0 items, got %d", len(page.Items))
	}
}

func TestClientDoGraphQLErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"Invalid sort","status":400}]}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Do(context.Background(), PopularRequest())
	if err == nil {
		t.Fatal("expected error for GraphQL errors")
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(trendingPage))
	}))
	defer server.Close()

	page, err := newTestClient(server.URL).Do(context.Background(), TrendingRequest())
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if len(page.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(page.Items))
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("expected 3 calls, got %d", got)
	}
}

func TestClientRateLimitedExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Do(context.Background(), TrendingRequest())
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if got := calls.Load(); got != 4 {
		t.Errorf("expected 4 calls (1 + 3 retries), got %d", got)
	}
}

func TestClientNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Do(context.Background(), TrendingRequest()); err == nil {
		t.Fatal("expected error for 400")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("400 should not be retried, got %d calls", got)
	}
}

func TestClientContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(trendingPage))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := newTestClient(server.URL).Do(ctx, TrendingRequest()); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestClientRetriesPassLimiter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	// One token, then nothing for an hour: a retry must not get out.
	c.limiter = rate.NewLimiter(rate.Every(time.Hour), 1)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if _, err := c.Do(ctx, TrendingRequest()); err == nil {
		t.Fatal("expected an error once the limiter blocks the retry")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("expected 1 request through the limiter, got %d", got)
	}
}
