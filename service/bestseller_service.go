// service/bestseller_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/dev-mohitbeniwal/bookclub/cache"
	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/metrics"
	"github.com/dev-mohitbeniwal/bookclub/model"
	"github.com/dev-mohitbeniwal/bookclub/nyt"
)

// DefaultListTTL is how long a fetched list or book is served from cache.
const DefaultListTTL = time.Hour

var listNamePattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ListSource fetches the current snapshot of a bestseller list.
type ListSource interface {
	CurrentList(ctx context.Context, listName string) (*nyt.ListResults, error)
}

// IBestsellerService serves bestseller lists and ISBN lookups. Both return
// the cached JSON payload as stored.
type IBestsellerService interface {
	GetList(ctx context.Context, listName string) (json.RawMessage, error)
	GetBookByISBN(ctx context.Context, isbn string) (json.RawMessage, error)
}

// BestsellerService memoizes upstream list responses for a fixed window.
// Stale entries are ignored rather than evicted and are overwritten by the
// next successful fetch. Concurrent cold misses each call upstream.
type BestsellerService struct {
	source     ListSource
	store      cache.Store
	clock      cache.Clock
	ttl        time.Duration
	categories []string
	metrics    *metrics.Metrics
}

var _ IBestsellerService = &BestsellerService{}

type BestsellerOption func(*BestsellerService)

func WithListTTL(ttl time.Duration) BestsellerOption {
	return func(s *BestsellerService) { s.ttl = ttl }
}

func WithClock(clock cache.Clock) BestsellerOption {
	return func(s *BestsellerService) { s.clock = clock }
}

// WithCategories sets the ordered lists walked by GetBookByISBN.
func WithCategories(categories []string) BestsellerOption {
	return func(s *BestsellerService) {
		s.categories = append([]string(nil), categories...)
	}
}

func WithMetrics(m *metrics.Metrics) BestsellerOption {
	return func(s *BestsellerService) { s.metrics = m }
}

func NewBestsellerService(source ListSource, store cache.Store, opts ...BestsellerOption) *BestsellerService {
	s := &BestsellerService{
		source: source,
		store:  store,
		clock:  cache.SystemClock,
		ttl:    DefaultListTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetList returns the JSON array of records for listName.
func (s *BestsellerService) GetList(ctx context.Context, listName string) (json.RawMessage, error) {
	if !listNamePattern.MatchString(listName) || cache.IsBookKey(listName) {
		return nil, fmt.Errorf("%w: %q", bookclub_errors.ErrInvalidListName, listName)
	}

	if payload, ok := s.lookup(ctx, "list", listName); ok {
		return payload, nil
	}

	books, err := s.fetch(ctx, listName)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(books)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list %s: %w", listName, err)
	}
	s.save(ctx, listName, payload)
	return payload, nil
}

// GetBookByISBN walks the configured categories in order and returns the
// first record whose ISBN-13 or ISBN-10 equals isbn.
func (s *BestsellerService) GetBookByISBN(ctx context.Context, isbn string) (json.RawMessage, error) {
	key := cache.BookKey(isbn)
	if payload, ok := s.lookup(ctx, "book", key); ok {
		return payload, nil
	}

	var lastErr error
	failures := 0
	for _, category := range s.categories {
		raw, err := s.GetList(ctx, category)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logger.Warn("Skipping category during ISBN lookup",
				zap.String("category", category),
				zap.String("isbn", isbn),
				zap.Error(err))
			lastErr = err
			failures++
			continue
		}

		var books []model.Bestseller
		if err := json.Unmarshal(raw, &books); err != nil {
			lastErr = fmt.Errorf("%w: cached list %s: %v", bookclub_errors.ErrMalformedResponse, category, err)
			failures++
			continue
		}

		for _, book := range books {
			if !book.MatchesISBN(isbn) {
				continue
			}
			payload, err := json.Marshal(book)
			if err != nil {
				return nil, fmt.Errorf("failed to encode book %s: %w", isbn, err)
			}
			s.save(ctx, key, payload)
			logger.Debug("ISBN resolved", zap.String("isbn", isbn), zap.String("category", category))
			return payload, nil
		}
	}

	if len(s.categories) > 0 && failures == len(s.categories) {
		return nil, lastErr
	}
	return nil, fmt.Errorf("%w: isbn %s", bookclub_errors.ErrBookNotFound, isbn)
}

func (s *BestsellerService) lookup(ctx context.Context, kind, key string) (json.RawMessage, bool) {
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		logger.Warn("Cache read failed, treating as miss", zap.String("key", key), zap.Error(err))
		entry = nil
	}
	if entry.FreshAt(s.clock.Now(), s.ttl) {
		s.countLookup(kind, metrics.ResultHit)
		return entry.Payload, true
	}
	s.countLookup(kind, metrics.ResultMiss)
	return nil, false
}

func (s *BestsellerService) save(ctx context.Context, key string, payload []byte) {
	entry := cache.Entry{Timestamp: s.clock.Now(), Payload: payload}
	if err := s.store.Put(ctx, key, entry); err != nil {
		logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *BestsellerService) fetch(ctx context.Context, listName string) ([]model.Bestseller, error) {
	start := time.Now()
	results, err := s.source.CurrentList(ctx, listName)
	if s.metrics != nil {
		s.metrics.UpstreamLatency.Observe(time.Since(start).Seconds())
		s.metrics.UpstreamRequests.WithLabelValues(outcomeOf(err)).Inc()
	}
	if err != nil {
		logger.Error("Upstream list fetch failed", zap.String("list", listName), zap.Error(err))
		return nil, err
	}
	return results.Books, nil
}

func (s *BestsellerService) countLookup(kind, result string) {
	if s.metrics != nil {
		s.metrics.CacheLookups.WithLabelValues(kind, result).Inc()
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, bookclub_errors.ErrMalformedResponse):
		return metrics.OutcomeMalformed
	case errors.Is(err, bookclub_errors.ErrInvalidListName):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeUnavailable
	}
}
