package domain

import "context"

// ReviewSource is the external venue/review provider. Payloads are returned raw;
// the app layer maps them.
type ReviewSource interface {
	SearchPlaces(ctx context.Context, category, city string, maxPlaces int) ([]map[string]any, error)
	GetReviews(ctx context.Context, placeID string) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type ReportRepository interface {
	// Write paths
	SaveReport(ctx context.Context, rec ReportRecord) error
	LogMiss(ctx context.Context, placeID string, status int, reason string) error

	// Read paths
	LatestReport(ctx context.Context, category, city string) (ReportRecord, error)
	ListReports(ctx context.Context, limit int) ([]ReportRecord, error)
}
