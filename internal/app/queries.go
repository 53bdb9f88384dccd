package app

import (
	"context"
	"fmt"
	"strings"

	"review_demand/internal/domain"
)

const maxListLimit = 100

// LatestReport returns the most recently persisted report for (category, city).
func (s *DemandService) LatestReport(ctx context.Context, category, city string) (domain.ReportRecord, error) {
	category, city = strings.TrimSpace(category), strings.TrimSpace(city)
	if category == "" || city == "" {
		return domain.ReportRecord{}, fmt.Errorf("%w: category and city are required", domain.ErrInvalidArgument)
	}
	if s.repo == nil {
		return domain.ReportRecord{}, domain.ErrNotFound
	}
	return s.repo.LatestReport(ctx, category, city)
}

// RecentReports lists persisted reports, newest first.
func (s *DemandService) RecentReports(ctx context.Context, limit int) ([]domain.ReportRecord, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = 20
	}
	if s.repo == nil {
		return []domain.ReportRecord{}, nil
	}
	return s.repo.ListReports(ctx, limit)
}
