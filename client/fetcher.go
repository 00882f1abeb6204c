package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/model"
)

const (
	DefaultMaxAttempts    = 3
	DefaultAttemptTimeout = 10 * time.Second
	DefaultInitialDelay   = time.Second

	// ListCacheTTL is how long a persisted list is served without a fetch.
	ListCacheTTL = 24 * time.Hour

	maxListBytes = 4 << 20
)

// clearablePrefixes selects the keys removed by ClearAllCaches. Keys such as
// the session token do not match.
var clearablePrefixes = []string{"hardcover-", "childrens-", "science"}

// cachedList is the persisted form of a fetched list.
type cachedList struct {
	Timestamp int64           `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Fetcher loads bestseller lists from the API, retrying failures with
// exponential backoff and persisting successful results.
type Fetcher struct {
	baseURL        string
	httpClient     *http.Client
	storage        Storage
	now            func() time.Time
	sleep          Sleeper
	maxAttempts    int
	attemptTimeout time.Duration
	initialDelay   time.Duration
}

type FetcherOption func(*Fetcher)

func WithFetcherHTTPClient(hc *http.Client) FetcherOption {
	return func(f *Fetcher) { f.httpClient = hc }
}

func WithFetcherClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) { f.now = now }
}

func WithSleeper(sleep Sleeper) FetcherOption {
	return func(f *Fetcher) { f.sleep = sleep }
}

func WithAttemptTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.attemptTimeout = d }
}

func NewFetcher(baseURL string, storage Storage, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{},
		storage:        storage,
		now:            time.Now,
		sleep:          sleepContext,
		maxAttempts:    DefaultMaxAttempts,
		attemptTimeout: DefaultAttemptTimeout,
		initialDelay:   DefaultInitialDelay,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchList returns the list from the persisted cache when it is fresh,
// otherwise from the API. Cancelling ctx stops at once with ErrCanceled and
// leaves storage untouched.
func (f *Fetcher) FetchList(ctx context.Context, listName string) (json.RawMessage, error) {
	if data, ok := f.cached(ctx, listName); ok {
		logger.Debug("Serving list from local cache", zap.String("list", listName))
		return data, nil
	}

	delays := f.backoff()
	var lastErr error
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		data, err := f.attempt(ctx, listName)
		if err == nil {
			f.persist(ctx, listName, data)
			return data, nil
		}
		if ctx.Err() != nil {
			logger.Debug("List fetch canceled", zap.String("list", listName), zap.Int("attempt", attempt))
			return nil, fmt.Errorf("%w: %w", bookclub_errors.ErrCanceled, ctx.Err())
		}
		lastErr = err

		if attempt == f.maxAttempts {
			break
		}
		delay := delays.NextBackOff()
		logger.Warn("List fetch failed, retrying",
			zap.String("list", listName),
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		if err := f.sleep(ctx, delay); err != nil {
			return nil, fmt.Errorf("%w: %w", bookclub_errors.ErrCanceled, err)
		}
	}

	return nil, fmt.Errorf("failed to fetch %s after %d attempts: %w", listName, f.maxAttempts, lastErr)
}

// backoff yields initialDelay, then doubles it, with no jitter.
func (f *Fetcher) backoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.initialDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxInterval = f.initialDelay << f.maxAttempts
	b.Reset()
	return b
}

func (f *Fetcher) attempt(ctx context.Context, listName string) (json.RawMessage, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.attemptTimeout)
	defer cancel()

	endpoint := f.baseURL + "/api/bestsellers/" + url.PathEscape(listName)
	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if len(body) > maxListBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", maxListBytes)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if !isJSONArray(body) {
		return nil, bookclub_errors.ErrNotJSONArray
	}
	return json.RawMessage(body), nil
}

// cached returns a persisted list that is fresh and well-formed. Anything
// else is a miss.
func (f *Fetcher) cached(ctx context.Context, listName string) (json.RawMessage, bool) {
	raw, ok, err := f.storage.Get(ctx, listName)
	if err != nil {
		logger.Warn("Reading local cache failed", zap.String("list", listName), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var entry cachedList
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, false
	}
	age := f.now().Sub(time.UnixMilli(entry.Timestamp))
	if age < 0 || age >= ListCacheTTL || !isJSONArray(entry.Data) {
		return nil, false
	}
	return entry.Data, true
}

func (f *Fetcher) persist(ctx context.Context, listName string, data json.RawMessage) {
	raw, err := json.Marshal(cachedList{Timestamp: f.now().UnixMilli(), Data: data})
	if err == nil {
		err = f.storage.Set(ctx, listName, string(raw))
	}
	if err != nil {
		logger.Warn("Persisting list failed", zap.String("list", listName), zap.Error(err))
	}
}

func isJSONArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return false
	}
	var items []json.RawMessage
	return json.Unmarshal(trimmed, &items) == nil
}

// FetchBooks is FetchList decoded into bestseller records.
func (f *Fetcher) FetchBooks(ctx context.Context, listName string) ([]model.Bestseller, error) {
	data, err := f.FetchList(ctx, listName)
	if err != nil {
		return nil, err
	}
	var books []model.Bestseller
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("decode %s: %w", listName, err)
	}
	return books, nil
}

// ClearCache removes the persisted copy of one list.
func (f *Fetcher) ClearCache(ctx context.Context, listName string) error {
	return f.storage.Remove(ctx, listName)
}

// ClearAllCaches removes every persisted list key and leaves other keys.
func (f *Fetcher) ClearAllCaches(ctx context.Context) error {
	keys, err := f.storage.Keys(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, key := range keys {
		if !isListKey(key) {
			continue
		}
		if err := f.storage.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func isListKey(key string) bool {
	for _, prefix := range clearablePrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// ListResult is the outcome of fetching one list in a batch.
type ListResult struct {
	Name string
	Data json.RawMessage
	Err  error
}

// FetchLists fetches every list concurrently. Results are in input order and
// one failure does not affect the others.
func (f *Fetcher) FetchLists(ctx context.Context, names []string) []ListResult {
	results := make([]ListResult, len(names))
	var wg conc.WaitGroup
	for i, name := range names {
		wg.Go(func() {
			data, err := f.FetchList(ctx, name)
			results[i] = ListResult{Name: name, Data: data, Err: err}
		})
	}
	wg.Wait()
	return results
}

// FetchListsPaced fetches lists one at a time with delay between requests.
// After cancellation the remaining lists report ErrCanceled.
func (f *Fetcher) FetchListsPaced(ctx context.Context, names []string, delay time.Duration) []ListResult {
	results := make([]ListResult, len(names))
	for i, name := range names {
		if i > 0 && delay > 0 {
			if err := f.sleep(ctx, delay); err != nil {
				for j := i; j < len(names); j++ {
					results[j] = ListResult{Name: names[j], Err: fmt.Errorf("%w: %w", bookclub_errors.ErrCanceled, err)}
				}
				return results
			}
		}
		data, err := f.FetchList(ctx, name)
		results[i] = ListResult{Name: name, Data: data, Err: err}
	}
	return results
}
