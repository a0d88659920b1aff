// Package scraper contains the ingestion engine: the rate-limit-aware page
// fetcher, the per-store paginator, the bounded-concurrency orchestrator,
// and the periodic scheduler that drives it.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Zinedinarnaut/torqueindex/internal/domain"
	apperrors "github.com/Zinedinarnaut/torqueindex/pkg/errors"
	"github.com/Zinedinarnaut/torqueindex/pkg/httpclient"
)

// Config holds the scrape tuning knobs. Values are validated and clamped by
// the config package before they reach here.
type Config struct {
	PageLimit        int
	MaxPages         int
	PageDelay        time.Duration
	StoreConcurrency int
	Max429Retries    int
	RetryBaseDelay   time.Duration
}

const (
	retryAfterMinSecs = 1
	retryAfterMaxSecs = 120
	backoffMinMs      = 250
	backoffMaxMs      = 30000
)

// sleepFunc waits for the given duration or until the context is done.
// Injectable so tests can record requested delays instead of waiting.
type sleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fetcher retrieves single catalog pages with 429-aware retry. Any other
// failure mode (non-success status, transport error, malformed body) is a
// hard, non-retried upstream error.
type Fetcher struct {
	client *httpclient.Client
	cfg    Config
	logger *slog.Logger
	sleep  sleepFunc
}

// NewFetcher creates a page fetcher on top of the shared HTTP client.
func NewFetcher(client *httpclient.Client, cfg Config, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		client: client,
		cfg:    cfg,
		logger: logger,
		sleep:  sleepContext,
	}
}

// FetchPage fetches and parses one page of a store's catalog. A zero-length
// product list is a valid response and signals end-of-catalog to the caller.
func (f *Fetcher) FetchPage(ctx context.Context, store domain.Store, page int) (*domain.ShopifyProductsResponse, error) {
	url := fmt.Sprintf(
		"%s/products.json?limit=%d&page=%d",
		strings.TrimRight(store.BaseURL, "/"),
		f.cfg.PageLimit,
		page,
	)

	attempt := 0

	for {
		resp, err := f.client.Get(ctx, url)
		if err != nil {
			return nil, apperrors.Upstreamf("%s (%v)", store.ID, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := resp.Header.Get("Retry-After")
			_ = resp.Body.Close()

			if attempt >= f.cfg.Max429Retries {
				return nil, apperrors.Upstreamf(
					"%s (HTTP 429 Too Many Requests for url (%s))", store.ID, url,
				)
			}

			delay := retryDelayFor429(retryAfter, f.cfg.RetryBaseDelay, attempt)
			f.logger.WarnContext(ctx, "rate limited by store, backing off",
				slog.String("store_id", store.ID),
				slog.Int("page", page),
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay),
			)
			if err := f.sleep(ctx, delay); err != nil {
				return nil, apperrors.Upstreamf("%s (%v)", store.ID, err)
			}
			attempt++
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_ = resp.Body.Close()
			return nil, apperrors.Upstreamf(
				"%s (HTTP status %d for url (%s))", store.ID, resp.StatusCode, url,
			)
		}

		var payload domain.ShopifyProductsResponse
		err = json.NewDecoder(resp.Body).Decode(&payload)
		_ = resp.Body.Close()
		if err != nil {
			return nil, apperrors.Upstreamf("%s (%v)", store.ID, err)
		}

		return &payload, nil
	}
}

// retryDelayFor429 computes the wait before retrying a rate-limited page.
// A parseable Retry-After header wins, clamped to [1,120] seconds; otherwise
// exponential backoff from the base delay, clamped to [250ms,30s].
func retryDelayFor429(retryAfter string, baseDelay time.Duration, attempt int) time.Duration {
	if secs, err := strconv.ParseInt(strings.TrimSpace(retryAfter), 10, 64); err == nil {
		return time.Duration(min(max(secs, retryAfterMinSecs), retryAfterMaxSecs)) * time.Second
	}

	millis := baseDelay.Milliseconds()
	for i := 0; i < attempt && millis < backoffMaxMs; i++ {
		millis *= 2
	}
	return time.Duration(min(max(millis, backoffMinMs), backoffMaxMs)) * time.Millisecond
}
