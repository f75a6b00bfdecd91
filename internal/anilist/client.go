package anilist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultEndpoint is the public AniList GraphQL endpoint.
const DefaultEndpoint = "https://graphql.anilist.co"

// maxResponseBytes caps the response body read from the API.
const maxResponseBytes = 1 << 20

// ErrRateLimited is returned when the API keeps answering 429 after all retries.
var ErrRateLimited = errors.New("anilist: rate limited")

// Client executes catalog requests against the GraphQL endpoint.
type Client struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	backoffs []time.Duration
}

// NewClient creates a client. requestsPerMinute <= 0 disables throttling.
func NewClient(endpoint string, timeout time.Duration, requestsPerMinute int) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(requestsPerMinute))
	}
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(limit, 1),
		backoffs: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
	}
}

// Endpoint returns the configured GraphQL endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Do executes req and decodes the page it returns.
func (c *Client) Do(ctx context.Context, req Request) (PagedData, error) {
	body, err := json.Marshal(graphQLRequest{Query: req.Query, Variables: req.Variables})
	if err != nil {
		return PagedData{}, fmt.Errorf("marshal request: %w", err)
	}

	raw, err := c.doWithRetry(ctx, body)
	if err != nil {
		return PagedData{}, err
	}

	var resp graphQLResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return PagedData{}, fmt.Errorf("parse response: %w", err)
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return PagedData{}, fmt.Errorf("anilist: %s", strings.Join(msgs, "; "))
	}

	items := resp.Data.Page.Media
	if items == nil {
		items = []Media{}
	}
	return PagedData{
		Type:     req.Category,
		Items:    items,
		PageInfo: resp.Data.Page.PageInfo,
	}, nil
}

// doWithRetry posts the body, retrying on transport errors, 429 and 5xx.
// Retry-After on 429 overrides the backoff, capped at 30s. Every attempt,
// retries included, passes the rate limiter.
func (c *Client) doWithRetry(ctx context.Context, body []byte) ([]byte, error) {
	maxRetries := len(c.backoffs)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")

		delay := time.Duration(0)
		if attempt < maxRetries {
			delay = c.backoffs[attempt]
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			if err := sleep(ctx, attempt, maxRetries, delay); err != nil {
				return nil, err
			}
			continue
		}

		raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("read response: %w", readErr)
			if err := sleep(ctx, attempt, maxRetries, delay); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return raw, nil
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			lastErr = ErrRateLimited
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if seconds, parseErr := strconv.Atoi(ra); parseErr == nil && seconds > 0 {
					delay = min(time.Duration(seconds)*time.Second, 30*time.Second)
				}
			}
			if err := sleep(ctx, attempt, maxRetries, delay); err != nil {
				return nil, err
			}
			continue
		}
		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("anilist API error (status %d): %s", resp.StatusCode, string(raw))
			if err := sleep(ctx, attempt, maxRetries, delay); err != nil {
				return nil, err
			}
			continue
		}

		return nil, fmt.Errorf("anilist API error (status %d): %s", resp.StatusCode, string(raw))
	}

	return nil, fmt.Errorf("anilist request failed after %d retries: %w", maxRetries, lastErr)
}

func sleep(ctx context.Context, attempt, maxRetries int, d time.Duration) error {
	if attempt >= maxRetries {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data struct {
		Page struct {
			PageInfo PageInfo `json:"pageInfo"`
			Media    []Media  `json:"media"`
		} `json:"Page"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

type graphQLError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}
