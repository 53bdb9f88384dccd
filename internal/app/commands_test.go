package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"review_demand/internal/app"
	"review_demand/internal/demand"
	"review_demand/internal/domain"
)

func newService(src domain.ReviewSource, cache domain.Cache, repo domain.ReportRepository, opt app.Options) *app.DemandService {
	a := demand.NewAnalyzer(demand.DefaultVocabulary(), demand.DefaultTaxonomy(), demand.DefaultLimits())
	return app.NewDemandService(src, cache, repo, a, opt)
}

func TestCollectReviews_MergesInVenueOrder(t *testing.T) {
	src := &fakeSource{reviews: map[string][]map[string]any{}, delay: map[string]time.Duration{}}
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("p%d", i)
		src.places = append(src.places, map[string]any{"place_id": id, "name": id})
		src.reviews[id] = []map[string]any{review(3, "r1 "+id), review(4, "r2 "+id)}
		// earlier venues finish last
		src.delay[id] = time.Duration(6-i) * 5 * time.Millisecond
	}
	svc := newService(src, nil, nil, app.Options{Workers: 6})

	got, err := svc.CollectReviews(context.Background(), "parks", "Berlin", 30)
	require.NoError(t, err)
	require.Len(t, got, 12)
	for i, r := range got {
		require.Equal(t, fmt.Sprintf("p%d", i/2), r.PlaceID)
	}
	require.Equal(t, "r1 p0", got[0].Text)
	require.Equal(t, "r2 p0", got[1].Text)
}

func TestCollectReviews_RespectsMaxPlaces(t *testing.T) {
	src := scenarioSource()
	svc := newService(src, nil, nil, app.Options{})

	got, err := svc.CollectReviews(context.Background(), "parks", "Berlin", 1)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Zero(t, src.callsFor("p2"))
}

func TestCollectReviews_SkipsFailedVenues(t *testing.T) {
	src := scenarioSource()
	src.places = append(src.places,
		map[string]any{"place_id": "gone", "name": "Gone"},
		map[string]any{"place_id": "denied", "name": "Denied"},
		map[string]any{"place_id": "boom", "name": "Boom"},
	)
	src.errs = map[string]error{
		"gone":   fmt.Errorf("details: %w", domain.ErrNotFound),
		"denied": fmt.Errorf("details: %w", domain.ErrForbidden),
		"boom":   errors.New("connection reset"),
	}
	repo := &fakeRepo{}
	svc := newService(src, nil, repo, app.Options{Workers: 2})

	got, err := svc.CollectReviews(context.Background(), "parks", "Berlin", 30)
	require.NoError(t, err)
	require.Len(t, got, 5)

	require.ElementsMatch(t, []miss{
		{"gone", 404, "not_found"},
		{"denied", 403, "forbidden"},
		{"boom", 0, "error"},
	}, repo.misses)
}

func TestCollectReviews_SearchFailureYieldsNoReviews(t *testing.T) {
	src := &fakeSource{searchErr: errors.New("REQUEST_DENIED")}
	svc := newService(src, nil, nil, app.Options{})

	got, err := svc.CollectReviews(context.Background(), "parks", "Berlin", 30)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestCollectReviews_Cancelled(t *testing.T) {
	src := scenarioSource()
	src.delay = map[string]time.Duration{"p1": time.Second, "p2": time.Second}
	svc := newService(src, nil, nil, app.Options{Workers: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.CollectReviews(ctx, "parks", "Berlin", 30)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCollectReviews_CachesPerVenue(t *testing.T) {
	src := scenarioSource()
	cache := &fakeCache{}
	svc := newService(src, cache, nil, app.Options{CacheTTL: 10 * time.Minute})

	first, err := svc.CollectReviews(context.Background(), "parks", "Berlin", 30)
	require.NoError(t, err)
	second, err := svc.CollectReviews(context.Background(), "parks", "Berlin", 30)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, src.callsFor("p1"))
	require.Equal(t, 1, src.callsFor("p2"))
	require.Equal(t, 600, cache.ttl["reviews:p1"])
}

func TestCollectReviews_NoCacheWithoutTTL(t *testing.T) {
	src := scenarioSource()
	cache := &fakeCache{}
	svc := newService(src, cache, nil, app.Options{})

	_, err := svc.CollectReviews(context.Background(), "parks", "Berlin", 30)
	require.NoError(t, err)
	require.Empty(t, cache.store)
}

func TestAnalyzeReviewSentiment_Scenario(t *testing.T) {
	svc := newService(scenarioSource(), nil, nil, app.Options{Workers: 2})

	res, err := svc.AnalyzeReviewSentiment(context.Background(), "parks", "Berlin", 100, 30)
	require.NoError(t, err)
	require.Equal(t, 5, res.TotalReviewsAnalyzed)
	require.InDelta(t, 2.6, res.AvgRating, 1e-9)
	require.InDelta(t, 0.52, res.SentimentScore, 1e-9)
}

func TestAnalyzeReviewSentiment_NothingFound(t *testing.T) {
	svc := newService(&fakeSource{}, nil, nil, app.Options{})

	res, err := svc.AnalyzeReviewSentiment(context.Background(), "parks", "Nowhere", 100, 30)
	require.NoError(t, err)
	require.Equal(t, domain.EmptyAnalysis(), res)
}

func TestGenerateContentIdeas(t *testing.T) {
	svc := newService(scenarioSource(), nil, nil, app.Options{})

	ideas, err := svc.GenerateContentIdeas(context.Background(), "parks", "Berlin", 30)
	require.NoError(t, err)
	require.NotEmpty(t, ideas)
	require.Equal(t, domain.PriorityHigh, ideas[0].Priority)
}

func TestBuildReport_PersistsOnce(t *testing.T) {
	src := scenarioSource()
	repo := &fakeRepo{}
	svc := newService(src, nil, repo, app.Options{})

	rep, err := svc.BuildReport(context.Background(), app.Params{Category: " parks ", City: "Berlin"})
	require.NoError(t, err)

	require.Equal(t, "parks", rep.Category)
	require.Equal(t, "Berlin", rep.City)
	require.Equal(t, domain.ReportParameters{MaxPlaces: 30, MinReviews: 100}, rep.Parameters)
	require.Equal(t, 5, rep.Analysis.TotalReviewsAnalyzed)
	require.NotEmpty(t, rep.ContentIdeas)

	// analysis runs once: each venue fetched once
	require.Equal(t, 1, src.callsFor("p1"))

	require.Len(t, repo.saved, 1)
	require.NotEmpty(t, repo.saved[0].ID)
	require.Equal(t, rep, repo.saved[0].Report)
	require.False(t, repo.saved[0].CreatedAt.IsZero())
}

func TestBuildReport_SaveFailureIsNotFatal(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("db down")}
	svc := newService(scenarioSource(), nil, repo, app.Options{})

	rep, err := svc.BuildReport(context.Background(), app.Params{Category: "parks", City: "Berlin", MinReviews: 3, MaxPlaces: 5})
	require.NoError(t, err)
	require.Equal(t, domain.ReportParameters{MaxPlaces: 5, MinReviews: 3}, rep.Parameters)
}

func TestBuildReport_RequiresTarget(t *testing.T) {
	svc := newService(scenarioSource(), nil, nil, app.Options{})

	_, err := svc.BuildReport(context.Background(), app.Params{Category: "parks"})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}
