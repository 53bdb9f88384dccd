package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"review_demand/internal/adapters/observability"
	"review_demand/internal/demand"
	"review_demand/internal/domain"
)

const (
	DefaultMinReviews = 100
	DefaultMaxPlaces  = 30
	defaultWorkers    = 4
)

type Options struct {
	// Workers bounds concurrent per-venue review fetches.
	Workers int
	// CacheTTL is how long per-venue reviews stay cached; 0 disables caching.
	CacheTTL time.Duration
}

// Params selects the corpus for one report.
type Params struct {
	Category   string
	City       string
	MinReviews int
	MaxPlaces  int
}

func (p Params) withDefaults() Params {
	p.Category = strings.TrimSpace(p.Category)
	p.City = strings.TrimSpace(p.City)
	if p.MinReviews <= 0 {
		p.MinReviews = DefaultMinReviews
	}
	if p.MaxPlaces <= 0 {
		p.MaxPlaces = DefaultMaxPlaces
	}
	return p
}

type DemandService struct {
	source   domain.ReviewSource
	cache    domain.Cache
	repo     domain.ReportRepository
	analyzer *demand.Analyzer
	workers  int64
	cacheTTL time.Duration
	now      func() time.Time
}

// NewDemandService wires the collector and the analyzer. cache and repo may be nil.
func NewDemandService(src domain.ReviewSource, cache domain.Cache, repo domain.ReportRepository,
	a *demand.Analyzer, opt Options) *DemandService {
	w := opt.Workers
	if w <= 0 {
		w = defaultWorkers
	}
	return &DemandService{
		source:   src,
		cache:    cache,
		repo:     repo,
		analyzer: a,
		workers:  int64(w),
		cacheTTL: opt.CacheTTL,
		now:      time.Now,
	}
}

// CollectReviews gathers the reviews of up to maxPlaces venues matching category in
// city. Venue failures are logged and skipped; a failed search yields no reviews.
// Only context cancellation is returned as an error. The result is in venue order
// regardless of fetch concurrency.
func (s *DemandService) CollectReviews(ctx context.Context, category, city string, maxPlaces int) ([]domain.Review, error) {
	if maxPlaces <= 0 {
		maxPlaces = DefaultMaxPlaces
	}
	raw, err := s.source.SearchPlaces(ctx, category, city, maxPlaces)
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return nil, cerr
		}
		log.Warn().Err(err).Str("category", category).Str("city", city).Msg("place search failed")
		return []domain.Review{}, nil
	}
	places := mapPlaces(raw)
	if len(places) > maxPlaces {
		places = places[:maxPlaces]
	}
	log.Info().Str("category", category).Str("city", city).Int("places", len(places)).Msg("places found")

	// one slot per venue; concatenated in search order below
	slots := make([][]domain.Review, len(places))
	sem := semaphore.NewWeighted(s.workers)
	var wg sync.WaitGroup

	for i, p := range places {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(i int, p domain.Place) {
			defer wg.Done()
			defer sem.Release(1)
			slots[i] = s.venueReviews(ctx, p)
		}(i, p)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.Review, 0, len(places)*5)
	for _, rs := range slots {
		out = append(out, rs...)
	}
	log.Info().Int("places", len(places)).Int("reviews", len(out)).Msg("reviews collected")
	return out, nil
}

func (s *DemandService) venueReviews(ctx context.Context, p domain.Place) []domain.Review {
	key := "reviews:" + p.ID
	if s.cache != nil && s.cacheTTL > 0 {
		var cached []domain.Review
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached
		}
	}

	raw, err := s.source.GetReviews(ctx, p.ID)
	if err != nil {
		s.recordMiss(ctx, p, err)
		return nil
	}
	rs := mapReviews(p, raw)
	log.Debug().Str("place_id", p.ID).Str("place", p.Name).Int("reviews", len(rs)).Msg("venue reviews fetched")

	if s.cache != nil && s.cacheTTL > 0 {
		_ = s.cache.Set(ctx, key, rs, int(s.cacheTTL.Seconds()))
	}
	return rs
}

func (s *DemandService) recordMiss(ctx context.Context, p domain.Place, err error) {
	if ctx.Err() != nil {
		return
	}
	status, reason := 0, "error"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		status, reason = 404, "not_found"
	case errors.Is(err, domain.ErrForbidden):
		status, reason = 403, "forbidden"
	case errors.Is(err, domain.ErrUnauthorized):
		status, reason = 401, "unauthorized"
	}
	log.Warn().Err(err).Str("place_id", p.ID).Str("place", p.Name).Str("reason", reason).Msg("skipping venue")
	observability.ObserveVenueFailure(reason)

	if s.repo != nil {
		if lerr := s.repo.LogMiss(ctx, p.ID, status, reason); lerr != nil {
			log.Debug().Err(lerr).Str("place_id", p.ID).Msg("log miss failed")
		}
	}
}

// AnalyzeReviewSentiment collects and mines the reviews for (category, city).
func (s *DemandService) AnalyzeReviewSentiment(ctx context.Context, category, city string, minReviews, maxPlaces int) (domain.AnalysisResult, error) {
	reviews, err := s.CollectReviews(ctx, category, city, maxPlaces)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	res := s.analyzer.Analyze(reviews, minReviews)

	outcome := "ok"
	switch {
	case res.TotalReviewsAnalyzed == 0:
		outcome = "empty"
	case res.TotalReviewsAnalyzed < minReviews:
		outcome = "low_volume"
	}
	observability.ObserveAnalysis(outcome, res.TotalReviewsAnalyzed)
	return res, nil
}

// GenerateContentIdeas runs a fresh analysis with the default review threshold and
// derives ideas from it.
func (s *DemandService) GenerateContentIdeas(ctx context.Context, category, city string, maxPlaces int) ([]domain.ContentIdea, error) {
	res, err := s.AnalyzeReviewSentiment(ctx, category, city, DefaultMinReviews, maxPlaces)
	if err != nil {
		return nil, err
	}
	return demand.GenerateIdeas(res, category, city), nil
}

// BuildReport analyzes once, derives ideas from that analysis and persists the
// report when a repository is configured. Persistence failures are logged only.
func (s *DemandService) BuildReport(ctx context.Context, p Params) (domain.Report, error) {
	p = p.withDefaults()
	if p.Category == "" || p.City == "" {
		return domain.Report{}, fmt.Errorf("%w: category and city are required", domain.ErrInvalidArgument)
	}

	res, err := s.AnalyzeReviewSentiment(ctx, p.Category, p.City, p.MinReviews, p.MaxPlaces)
	if err != nil {
		return domain.Report{}, err
	}
	rep := domain.Report{
		Category:     p.Category,
		City:         p.City,
		Analysis:     res,
		ContentIdeas: demand.GenerateIdeas(res, p.Category, p.City),
		Parameters:   domain.ReportParameters{MaxPlaces: p.MaxPlaces, MinReviews: p.MinReviews},
	}

	if s.repo != nil {
		rec := domain.ReportRecord{
			ID:        uuid.NewString(),
			Category:  p.Category,
			City:      p.City,
			CreatedAt: s.now().UTC(),
			Report:    rep,
		}
		if err := s.repo.SaveReport(ctx, rec); err != nil {
			log.Error().Err(err).Str("category", p.Category).Str("city", p.City).Msg("save report failed")
		}
	}
	return rep, nil
}
