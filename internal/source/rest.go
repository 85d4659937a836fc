package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	restPathPrefix      = "/rest/v1/"
	defaultTimeout      = 10 * time.Second
	defaultRequestRate  = 8
	maxResponseBodySize = 10 * 1024 * 1024 // 10MB
	errBodyReadLimit    = 1024

	retryMaxAttempts  = 3
	retryInitialDelay = 100 * time.Millisecond
	retryMultiplier   = 2
)

// RESTConfig configures the PostgREST-backed querier.
type RESTConfig struct {
	// BaseURL is the datastore endpoint without the /rest/v1 suffix.
	BaseURL string
	// APIKey is sent as both the apikey header and the bearer token.
	APIKey string
	// Timeout bounds one HTTP round trip.
	Timeout time.Duration
	// RequestsPerSecond paces outgoing queries (0 for the default).
	RequestsPerSecond int
}

// RESTQuerier fetches source rows from a PostgREST endpoint.
type RESTQuerier struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewREST creates a PostgREST querier.
func NewREST(cfg RESTConfig) *RESTQuerier {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestRate
	}

	return &RESTQuerier{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// Query fetches and projects one source. Server-side errors are retried
// with exponential backoff; client-side rejections are not.
func (q *RESTQuerier) Query(ctx context.Context, spec Spec) ([]Row, error) {
	var (
		body    []byte
		lastErr error
	)

	delay := retryInitialDelay

	for attempt := 0; attempt < retryMaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("query retry interrupted: %w", ctx.Err())
			case <-time.After(delay):
				delay *= retryMultiplier
			}
		}

		body, lastErr = q.fetch(ctx, spec)
		if lastErr == nil {
			break
		}

		if !retryable(lastErr) {
			return nil, lastErr
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}

	records, err := decodeRecords(body)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", spec.Name, err)
	}

	rows := make([]Row, 0, len(records))
	for _, record := range records {
		rows = append(rows, projectRecord(record, spec.Fields))
	}

	return rows, nil
}

func (q *RESTQuerier) fetch(ctx context.Context, spec Spec) ([]byte, error) {
	if err := q.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.buildURL(spec), nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", spec.Name, err)
	}

	req.Header.Set("apikey", q.apiKey)
	req.Header.Set("Authorization", "Bearer "+q.apiKey)

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: source %s: %w", ErrServerError, errTransient, spec.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, errBodyReadLimit))

		wrap := ErrServerError
		if resp.StatusCode >= http.StatusInternalServerError {
			wrap = fmt.Errorf("%w: %w", ErrServerError, errTransient)
		}

		return nil, fmt.Errorf("%w: source %s: status %d, body: %s",
			wrap, spec.Name, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: source %s: read body: %w", ErrServerError, spec.Name, err)
	}

	return body, nil
}

func (q *RESTQuerier) buildURL(spec Spec) string {
	params := url.Values{}

	sel := spec.Select
	if sel == "" {
		sel = "*"
	}

	params.Set("select", sel)

	if spec.Order != "" {
		params.Set("order", spec.Order)
	}

	if spec.Limit > 0 {
		params.Set("limit", strconv.Itoa(spec.Limit))
	}

	return q.baseURL + restPathPrefix + url.PathEscape(spec.Name) + "?" + params.Encode()
}

// errTransient marks failures worth another attempt: transport errors and
// 5xx responses. Client-side rejections (auth, bad request) are final.
var errTransient = errors.New("transient")

func retryable(err error) bool {
	return errors.Is(err, errTransient)
}
