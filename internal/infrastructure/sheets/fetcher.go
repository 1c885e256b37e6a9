package sheets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitError marks a fetch rejected by the backing service's quota.
// The fetcher backs off and retries these; other errors fail fast.
type RateLimitError struct {
	Cause error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited: %v", e.Cause)
}

func (e *RateLimitError) Unwrap() error {
	return e.Cause
}

// IsRateLimit reports whether err is a quota rejection.
func IsRateLimit(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// FetcherConfig tunes request pacing and retries.
type FetcherConfig struct {
	// RequestsPerMinute caps read calls against the source quota.
	RequestsPerMinute int
	// MaxRetries is the retry count for rate-limited reads.
	MaxRetries int
	// RetryBaseDelay is doubled on every attempt.
	RetryBaseDelay time.Duration
}

// DefaultFetcherConfig matches the shared quota of the spreadsheet service.
func DefaultFetcherConfig() FetcherConfig {
	return FetcherConfig{
		RequestsPerMinute: 50,
		MaxRetries:        3,
		RetryBaseDelay:    time.Minute,
	}
}

// Fetcher wraps a Source with request pacing and quota-aware retries, so
// long passes over many sheets survive the source's per-minute read limits.
type Fetcher struct {
	source  Source
	limiter *rate.Limiter
	cfg     FetcherConfig
	logger  *zap.Logger
}

// NewFetcher creates a Fetcher over the given source.
func NewFetcher(source Source, cfg FetcherConfig, logger *zap.Logger) *Fetcher {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultFetcherConfig().RequestsPerMinute
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = DefaultFetcherConfig().RetryBaseDelay
	}
	limit := rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	return &Fetcher{
		source:  source,
		limiter: rate.NewLimiter(limit, 1),
		cfg:     cfg,
		logger:  logger,
	}
}

// OpenDocument opens a document whose worksheet reads are paced and retried.
func (f *Fetcher) OpenDocument(ctx context.Context, ref string) (Document, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	doc, err := f.source.OpenDocument(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &fetcherDocument{doc: doc, fetcher: f}, nil
}

func (f *Fetcher) withRetry(ctx context.Context, what string, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = f.limiter.Wait(ctx); err != nil {
			return err
		}
		err = fn()
		if err == nil || !IsRateLimit(err) || attempt >= f.cfg.MaxRetries {
			return err
		}

		delay := f.cfg.RetryBaseDelay * (1 << attempt)
		f.logger.Warn("Read rate limited, backing off",
			zap.String("target", what),
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

type fetcherDocument struct {
	doc     Document
	fetcher *Fetcher
}

func (d *fetcherDocument) Title() string { return d.doc.Title() }

func (d *fetcherDocument) Worksheets(ctx context.Context) ([]Worksheet, error) {
	var sheets []Worksheet
	err := d.fetcher.withRetry(ctx, d.doc.Title(), func() error {
		var err error
		sheets, err = d.doc.Worksheets(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]Worksheet, len(sheets))
	for i, s := range sheets {
		out[i] = &fetcherWorksheet{sheet: s, fetcher: d.fetcher}
	}
	return out, nil
}

type fetcherWorksheet struct {
	sheet   Worksheet
	fetcher *Fetcher
}

func (w *fetcherWorksheet) Title() string { return w.sheet.Title() }

func (w *fetcherWorksheet) Rows(ctx context.Context) ([][]string, error) {
	var rows [][]string
	err := w.fetcher.withRetry(ctx, w.sheet.Title(), func() error {
		var err error
		rows, err = w.sheet.Rows(ctx)
		return err
	})
	return rows, err
}
