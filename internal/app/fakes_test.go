package app_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"review_demand/internal/domain"
)

// ---- fakes ----

type fakeSource struct {
	mu        sync.Mutex
	places    []map[string]any
	searchErr error
	reviews   map[string][]map[string]any
	errs      map[string]error
	delay     map[string]time.Duration
	calls     map[string]int
}

func (f *fakeSource) SearchPlaces(ctx context.Context, category, city string, maxPlaces int) ([]map[string]any, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.places, nil
}

func (f *fakeSource) GetReviews(ctx context.Context, placeID string) ([]map[string]any, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[placeID]++
	d := f.delay[placeID]
	f.mu.Unlock()

	if d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := f.errs[placeID]; err != nil {
		return nil, err
	}
	return f.reviews[placeID], nil
}

func (f *fakeSource) callsFor(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

type miss struct {
	placeID string
	status  int
	reason  string
}

type fakeRepo struct {
	mu      sync.Mutex
	saved   []domain.ReportRecord
	misses  []miss
	saveErr error
}

func (f *fakeRepo) SaveReport(ctx context.Context, rec domain.ReportRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeRepo) LogMiss(ctx context.Context, placeID string, status int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.misses = append(f.misses, miss{placeID, status, reason})
	return nil
}

func (f *fakeRepo) LatestReport(ctx context.Context, category, city string) (domain.ReportRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].Category == category && f.saved[i].City == city {
			return f.saved[i], nil
		}
	}
	return domain.ReportRecord{}, domain.ErrNotFound
}

func (f *fakeRepo) ListReports(ctx context.Context, limit int) ([]domain.ReportRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.ReportRecord{}
	for i := len(f.saved) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.saved[i])
	}
	return out, nil
}

// fakeCache stores JSON like the redis adapter does, so decoding paths are exercised.
type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	ttl   map[string]int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
		c.ttl = map[string]int{}
	}
	c.store[key] = b
	c.ttl[key] = ttlSec
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

// ---- fixtures ----

func review(rating int, text string) map[string]any {
	return map[string]any{"author_name": "Gast", "rating": float64(rating), "text": text, "time": float64(1700000000)}
}

// scenarioSource serves the five-review park corpus across two venues.
func scenarioSource() *fakeSource {
	return &fakeSource{
		places: []map[string]any{
			{"place_id": "p1", "name": "Stadtpark", "formatted_address": "Berlin", "rating": 3.4, "user_ratings_total": float64(3)},
			{"place_id": "p2", "name": "Volkspark", "formatted_address": "Berlin", "rating": 2.5, "user_ratings_total": float64(2)},
		},
		reviews: map[string][]map[string]any{
			"p1": {
				review(5, "Toller Park mit viel Schatten und schönen Bänken. Sehr gut gepflegt."),
				review(1, "Keine Parkplätze! Es fehlen Toiletten und zu wenig Schatten."),
				review(2, "Leider keine Toiletten und schlechte Erreichbarkeit. Vermisse Spielplatz."),
			},
			"p2": {
				review(4, "Schöner Spielplatz und genug Parkplätze. Empfehlenswert!"),
				review(1, "Kaputte Bänke, keine Toiletten, schlecht"),
			},
		},
	}
}
