package app

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"review_demand/internal/domain"
)

/********** alias registries (single source of truth) **********/

// Legacy Places JSON first, then the newer resource shape, then generic fallbacks.
var placeAliases = map[string][]string{
	"id":           {"place_id", "id", "placeId"},
	"name":         {"name", "displayName.text", "title"},
	"address":      {"formatted_address", "formattedAddress", "vicinity", "address"},
	"rating":       {"rating", "stars"},
	"review_count": {"user_ratings_total", "userRatingCount", "reviews_count"},
}

var reviewAliases = map[string][]string{
	"author": {"author_name", "authorAttribution.displayName", "author", "user.name"},
	"text":   {"text", "text.text", "originalText.text", "comment", "review_text", "content"},
	"rating": {"rating", "stars", "score"},
	"time":   {"time", "publishTime", "timestamp", "created_at"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		if cur, ok = obj[part]; !ok {
			return nil
		}
	}
	return cur
}

// firstNonEmptyAlias: first non-blank string for a named alias set, trimmed.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s, ok := lookupAny(m, p).(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return ""
}

// numberAt returns the first numeric value found under paths. Strings are
// accepted with either decimal separator ("4,0").
func numberAt(m map[string]any, paths ...string) (float64, bool) {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return f, true
			}
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// unixAt reads epoch seconds, falling back to RFC 3339 strings such as
// "publishTime" on the newer resource shape.
func unixAt(m map[string]any, paths ...string) (int64, bool) {
	if f, ok := numberAt(m, paths...); ok {
		return int64(f), true
	}
	for _, k := range paths {
		if s, ok := lookupAny(m, k).(string); ok {
			if t, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
				return t.Unix(), true
			}
		}
	}
	return 0, false
}

/********** place mapper **********/

// mapPlaces keeps search order, drops entries without an id and repeated ids.
func mapPlaces(in []map[string]any) []domain.Place {
	out := make([]domain.Place, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, p := range in {
		id := firstNonEmptyAlias(p, placeAliases, "id")
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		pl := domain.Place{
			ID:      id,
			Name:    firstNonEmptyAlias(p, placeAliases, "name"),
			Address: firstNonEmptyAlias(p, placeAliases, "address"),
		}
		if f, ok := numberAt(p, placeAliases["rating"]...); ok {
			pl.Rating = f
		}
		if n, ok := numberAt(p, placeAliases["review_count"]...); ok {
			pl.ReviewCount = int(n)
		}
		out = append(out, pl)
	}
	return out
}

/********** reviews mapper **********/

// mapReviews tags each review with its venue. Reviews without a usable rating are
// dropped since they cannot be bucketed.
func mapReviews(place domain.Place, in []map[string]any) []domain.Review {
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		f, ok := numberAt(r, reviewAliases["rating"]...)
		if !ok {
			continue
		}
		rv := domain.Review{
			PlaceID:   place.ID,
			PlaceName: place.Name,
			Rating:    int(math.Round(f)),
			Text:      firstNonEmptyAlias(r, reviewAliases, "text"),
			Author:    firstNonEmptyAlias(r, reviewAliases, "author"),
		}
		if ts, ok := unixAt(r, reviewAliases["time"]...); ok {
			rv.Timestamp = ts
		}
		out = append(out, rv)
	}
	return out
}
