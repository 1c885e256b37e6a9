package sheets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type flakySheet struct {
	title    string
	failures int
	calls    int
}

func (s *flakySheet) Title() string { return s.title }

func (s *flakySheet) Rows(context.Context) ([][]string, error) {
	s.calls++
	if s.calls <= s.failures {
		return nil, &RateLimitError{Cause: errors.New("quota exceeded")}
	}
	return [][]string{{"ok"}}, nil
}

func newTestFetcher(src Source, retries int) *Fetcher {
	return NewFetcher(src, FetcherConfig{
		RequestsPerMinute: 100000,
		MaxRetries:        retries,
		RetryBaseDelay:    time.Millisecond,
	}, zap.NewNop())
}

func TestFetcherRetriesRateLimit(t *testing.T) {
	sheet := &flakySheet{title: "15.03.2024", failures: 2}
	f := newTestFetcher(NewMemorySource(), 3)

	wrapped := &fetcherWorksheet{sheet: sheet, fetcher: f}
	rows, err := wrapped.Rows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ok"}}, rows)
	assert.Equal(t, 3, sheet.calls)
}

func TestFetcherGivesUpAfterMaxRetries(t *testing.T) {
	sheet := &flakySheet{title: "15.03.2024", failures: 10}
	f := newTestFetcher(NewMemorySource(), 2)

	wrapped := &fetcherWorksheet{sheet: sheet, fetcher: f}
	_, err := wrapped.Rows(context.Background())
	require.Error(t, err)
	assert.True(t, IsRateLimit(err))
	assert.Equal(t, 3, sheet.calls, "initial attempt plus two retries")
}

func TestFetcherFailsFastOnOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	sheet := &MemoryWorksheet{SheetTitle: "x", Err: boom}
	f := newTestFetcher(NewMemorySource(), 3)

	wrapped := &fetcherWorksheet{sheet: sheet, fetcher: f}
	_, err := wrapped.Rows(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestIsRateLimit(t *testing.T) {
	assert.True(t, IsRateLimit(&RateLimitError{Cause: errors.New("x")}))
	assert.False(t, IsRateLimit(errors.New("x")))
	assert.False(t, IsRateLimit(nil))
}
