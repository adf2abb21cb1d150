package debtors

import (
	"context"
	"errors"
	"strings"
	"time"
)

type repository interface {
	Get(ctx context.Context, id int64) (Debtor, error)
	GetByCode(ctx context.Context, stationID int64, code string) (Debtor, error)
	List(ctx context.Context, stationID int64) ([]Debtor, error)
	Search(ctx context.Context, stationID int64, query string, limit int) ([]Debtor, error)
	Create(ctx context.Context, in CreateDebtorInput) (Debtor, error)
	Update(ctx context.Context, id int64, in UpdateDebtorInput) (Debtor, error)
}

// QueryConfig makes the search-as-you-type behaviour explicit configuration
// instead of inline timer logic: queries below MinLength are rejected, and
// each query waits out Debounce so a superseded request can be cancelled
// through its context before touching the database.
type QueryConfig struct {
	MinLength int
	Debounce  time.Duration
	Limit     int
}

// DefaultQueryConfig mirrors the lookup behaviour of the admin UI.
func DefaultQueryConfig() QueryConfig {
	return QueryConfig{MinLength: 2, Debounce: 500 * time.Millisecond, Limit: 20}
}

// Service orchestrates debtor lookups and mutations.
type Service struct {
	repo  repository
	cache *Cache
	query QueryConfig
}

// NewService constructs a Service instance.
func NewService(repo repository, cache *Cache, query QueryConfig) *Service {
	if query.Limit <= 0 {
		query.Limit = DefaultQueryConfig().Limit
	}
	return &Service{repo: repo, cache: cache, query: query}
}

// Get returns a debtor by id.
func (s *Service) Get(ctx context.Context, id int64) (Debtor, error) {
	return s.repo.Get(ctx, id)
}

// List returns the station's debtors, served from cache when warm.
func (s *Service) List(ctx context.Context, stationID int64) ([]Debtor, error) {
	return s.cache.StationList(ctx, stationID, func(ctx context.Context) ([]Debtor, error) {
		return s.repo.List(ctx, stationID)
	})
}

// Search performs a debounced, cancellable lookup against name and code.
func (s *Service) Search(ctx context.Context, stationID int64, query string) ([]Debtor, error) {
	query = strings.TrimSpace(query)
	if len(query) < s.query.MinLength {
		return nil, ErrQueryTooShort
	}
	if s.query.Debounce > 0 {
		timer := time.NewTimer(s.query.Debounce)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
	return s.repo.Search(ctx, stationID, query, s.query.Limit)
}

// CodeExists reports whether a debtor code is already taken at the station.
func (s *Service) CodeExists(ctx context.Context, stationID int64, code string) (bool, error) {
	_, err := s.repo.GetByCode(ctx, stationID, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create inserts a debtor and drops the station's cached list.
func (s *Service) Create(ctx context.Context, in CreateDebtorInput) (Debtor, error) {
	if err := in.Validate(); err != nil {
		return Debtor{}, err
	}
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	debtor, err := s.repo.Create(ctx, in)
	if err != nil {
		return Debtor{}, err
	}
	_ = s.cache.Invalidate(ctx, in.StationID)
	return debtor, nil
}

// Update mutates contact fields and drops the station's cached list.
func (s *Service) Update(ctx context.Context, id int64, in UpdateDebtorInput) (Debtor, error) {
	debtor, err := s.repo.Update(ctx, id, in)
	if err != nil {
		return Debtor{}, err
	}
	_ = s.cache.Invalidate(ctx, debtor.StationID)
	return debtor, nil
}
