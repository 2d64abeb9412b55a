// Package polygon fetches daily aggregates from the Polygon (Massive) REST API.
package polygon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"index-signals/internal/model"
	"index-signals/internal/provider"
)

const (
	// DefaultBaseURL is the public Polygon REST endpoint.
	DefaultBaseURL = "https://api.polygon.io"

	// Max 50k results per request; daily history since 2020 fits in one page.
	maxLimit = 50000

	dailyAggsPath = "/v2/aggs/ticker/{ticker}/range/1/day/{from}/{to}"
)

var errNotFound = errors.New("ticker not found")

// Source is a DataSource backed by Polygon daily aggregates.
// API keys are handed out through a channel so concurrent fetches never share a key.
type Source struct {
	client  *resty.Client
	keyPool chan string
	retries uint64
	loc     *time.Location
	now     func() time.Time
}

// NewSource creates a Polygon source using apiKeys against baseURL.
func NewSource(baseURL string, apiKeys []string, retries uint64) (*Source, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("polygon: at least one API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	keyPool := make(chan string, len(apiKeys))
	for _, k := range apiKeys {
		keyPool <- k
	}
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		slog.Warn("tz database unavailable, dating polygon bars in UTC", "error", err)
		loc = time.UTC
	}
	return &Source{
		client:  newRestyClient(baseURL),
		keyPool: keyPool,
		retries: retries,
		loc:     loc,
		now:     time.Now,
	}, nil
}

func (s *Source) GetName() string { return "Polygon" }

func (s *Source) Close() error { return nil }

// FetchDaily downloads adjusted daily bars for ticker from start through today.
func (s *Source) FetchDaily(ctx context.Context, ticker string, start time.Time) ([]model.Bar, error) {
	var key string
	select {
	case key = <-s.keyPool:
	case <-ctx.Done():
		return nil, &provider.FetchError{Ticker: ticker, Err: ctx.Err()}
	}
	defer func() { s.keyPool <- key }()

	from := model.Day(start).Format(model.DateLayout)
	to := model.Day(s.now().UTC()).Format(model.DateLayout)

	var bars []model.Bar
	err := provider.Retry(ctx, s.retries, func() error {
		got, err := s.fetchPages(ctx, ticker, key, from, to)
		if err != nil {
			return err
		}
		bars = got
		return nil
	})
	if err != nil {
		return nil, &provider.FetchError{Ticker: ticker, Err: err}
	}
	if len(bars) == 0 {
		return nil, &provider.FetchError{Ticker: ticker, Err: provider.ErrNoData}
	}
	return bars, nil
}

// fetchPages requests the first page and follows next_url until exhausted.
func (s *Source) fetchPages(ctx context.Context, ticker, key, from, to string) ([]model.Bar, error) {
	req := s.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{"ticker": ticker, "from": from, "to": to}).
		SetQueryParams(map[string]string{
			"adjusted": "true",
			"sort":     "asc",
			"limit":    strconv.Itoa(maxLimit),
			"apiKey":   key,
		})
	page, err := s.do(req, dailyAggsPath)
	if err != nil {
		return nil, err
	}

	bars := make([]model.Bar, 0, page.ResultsCount)
	for {
		for _, raw := range page.Results {
			bars = append(bars, raw.ToBar(s.loc))
		}
		if page.NextURL == "" {
			return bars, nil
		}
		next := s.client.R().SetContext(ctx).SetQueryParam("apiKey", key)
		if page, err = s.do(next, page.NextURL); err != nil {
			return nil, err
		}
	}
}

// do runs one GET. 429 and 5xx are retryable; any other non-200 status is permanent.
func (s *Source) do(req *resty.Request, url string) (*AggregatesResponse, error) {
	resp, err := req.SetResult(&AggregatesResponse{}).Get(url)
	if err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, backoff.Permanent(ctxErr)
		}
		return nil, fmt.Errorf("request: %w", err)
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusOK:
	case code == http.StatusTooManyRequests || code >= 500:
		return nil, fmt.Errorf("API status %d: %s", code, resp.String())
	case code == http.StatusNotFound:
		return nil, backoff.Permanent(errNotFound)
	default:
		return nil, backoff.Permanent(fmt.Errorf("API status %d: %s", code, resp.String()))
	}

	result, ok := resp.Result().(*AggregatesResponse)
	if !ok || result == nil {
		return nil, fmt.Errorf("unexpected response body")
	}
	switch result.Status {
	case "OK", "DELAYED":
		return result, nil
	default:
		return nil, backoff.Permanent(fmt.Errorf("API status not OK: %s", result.Status))
	}
}
