// Package places is a Google Places (legacy JSON) review source.
package places

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"review_demand/internal/adapters/observability"
	"review_demand/internal/domain"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"

	maxAttempts    = 4
	service        = "places"
	detailsFields  = "name,rating,reviews"
	defaultLang    = "de"
	defaultTimeout = 20 * time.Second
)

// API-level statuses carried in the JSON envelope.
const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusNotFound       = "NOT_FOUND"
	statusRequestDenied  = "REQUEST_DENIED"
	statusOverQueryLimit = "OVER_QUERY_LIMIT"
)

type Config struct {
	BaseURL  string
	APIKey   string
	Language string
	// Delay is the minimum gap between two requests. 0 disables client-side pacing.
	Delay time.Duration
	// PageTokenDelay is waited before following next_page_token; the token is not
	// valid immediately after it is issued.
	PageTokenDelay time.Duration
	Timeout        time.Duration
}

type Client struct {
	base      string
	key       string
	lang      string
	hc        *http.Client
	rl        *rate.Limiter
	pageDelay time.Duration
}

func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	lang := cfg.Language
	if lang == "" {
		lang = defaultLang
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}
	return &Client{
		base:      base,
		key:       cfg.APIKey,
		lang:      lang,
		hc:        &http.Client{Timeout: timeout},
		rl:        rate.NewLimiter(limit, 1),
		pageDelay: cfg.PageTokenDelay,
	}, nil
}

type envelope struct {
	Status        string           `json:"status"`
	ErrorMessage  string           `json:"error_message"`
	NextPageToken string           `json:"next_page_token"`
	Results       []map[string]any `json:"results"`
	Result        map[string]any   `json:"result"`
}

// ---- Public API ----

// SearchPlaces runs a text search for "<category> in <city>" and follows result
// pages until maxPlaces venues are collected or no page is left.
func (c *Client) SearchPlaces(ctx context.Context, category, city string, maxPlaces int) ([]map[string]any, error) {
	q := url.Values{}
	q.Set("query", category+" in "+city)
	q.Set("language", c.lang)
	q.Set("key", c.key)

	out := make([]map[string]any, 0, maxPlaces)
	for page := 0; ; page++ {
		env, err := c.call(ctx, "textsearch", c.base+"/textsearch/json?"+q.Encode())
		if err != nil {
			if page > 0 && ctx.Err() == nil {
				log.Warn().Err(err).Int("page", page).Msg("place search pagination stopped")
				break
			}
			return nil, err
		}

		switch env.Status {
		case statusOK:
		case statusZeroResults:
			return out, nil
		default:
			if page > 0 {
				log.Warn().Str("status", env.Status).Int("page", page).Msg("place search pagination stopped")
				return truncate(out, maxPlaces), nil
			}
			return nil, statusError("textsearch", env)
		}

		out = append(out, env.Results...)
		if (maxPlaces > 0 && len(out) >= maxPlaces) || env.NextPageToken == "" {
			break
		}

		q = url.Values{}
		q.Set("pagetoken", env.NextPageToken)
		q.Set("key", c.key)
		if !sleepCtx(ctx, c.pageDelay) {
			return nil, ctx.Err()
		}
	}
	return truncate(out, maxPlaces), nil
}

// GetReviews returns the raw review objects of one venue.
func (c *Client) GetReviews(ctx context.Context, placeID string) ([]map[string]any, error) {
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", detailsFields)
	q.Set("language", c.lang)
	q.Set("key", c.key)

	env, err := c.call(ctx, "details", c.base+"/details/json?"+q.Encode())
	if err != nil {
		return nil, err
	}
	if env.Status != statusOK {
		return nil, statusError("details", env)
	}

	raw, _ := env.Result["reviews"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// ---- Internals ----

// call performs the request and retries OVER_QUERY_LIMIT envelopes with backoff.
func (c *Client) call(ctx context.Context, endpoint, u string) (envelope, error) {
	for i := 0; ; i++ {
		var env envelope
		if err := c.get(ctx, endpoint, u, &env); err != nil {
			return envelope{}, err
		}
		if env.Status != statusOverQueryLimit || i >= maxAttempts-1 {
			return env, nil
		}
		if !sleepCtx(ctx, backoff(i)) {
			return envelope{}, ctx.Err()
		}
	}
}

func statusError(endpoint string, env envelope) error {
	msg := env.Status
	if env.ErrorMessage != "" {
		msg += ": " + env.ErrorMessage
	}
	switch env.Status {
	case statusZeroResults, statusNotFound:
		return fmt.Errorf("places %s %s: %w", endpoint, msg, domain.ErrNotFound)
	case statusRequestDenied:
		return fmt.Errorf("places %s %s: %w", endpoint, msg, domain.ErrForbidden)
	default:
		return fmt.Errorf("places %s: %s", endpoint, msg)
	}
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, endpoint, u string, out any) error {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "review-demand/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal(service, endpoint, 0, time.Since(start))
			// network error or context canceled
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < maxAttempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal(service, endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			if err != nil {
				return fmt.Errorf("places %s decode: %w", endpoint, err)
			}
			return nil

		case http.StatusNotFound:
			resp.Body.Close()
			return domain.ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return domain.ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return domain.ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("places %s: remote %d", endpoint, resp.StatusCode)
			if i < maxAttempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			// read a small error body for diagnostics
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("places %s: bad status %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	if lastErr == nil {
		lastErr = errors.New("places: no attempt made")
	}
	return lastErr
}

func truncate(in []map[string]any, n int) []map[string]any {
	if n > 0 && len(in) > n {
		return in[:n]
	}
	return in
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay (200ms, 400ms, 800ms...) with up to
// +50% jitter from crypto/rand, which is safe for concurrent use.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	return base + time.Duration(0.5*f*float64(base))
}
