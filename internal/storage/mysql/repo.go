package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"review_demand/internal/domain"
)

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) SaveReport(ctx context.Context, rec domain.ReportRecord) error {
	payload, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("marshal report %s: %w", rec.ID, err)
	}
	_, err = r.db.ExecContext(ctx, insertReportSQL,
		rec.ID,
		rec.Category,
		rec.City,
		rec.Report.Analysis.TotalReviewsAnalyzed,
		rec.Report.Analysis.AvgRating,
		string(payload),
		rec.CreatedAt.UTC(),
	)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, placeID string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, placeID, status, reason)
	return err
}

// Miss returns the last recorded failure for placeID.
func (r *Repo) Miss(ctx context.Context, placeID string) (status int, reason string, err error) {
	err = r.db.QueryRowContext(ctx, getMissSQL, placeID).Scan(&status, &reason)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", domain.ErrNotFound
	}
	return status, reason, err
}

func (r *Repo) LatestReport(ctx context.Context, category, city string) (domain.ReportRecord, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx, latestReportSQL, category, city))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ReportRecord{}, domain.ErrNotFound
	}
	return rec, err
}

func (r *Repo) ListReports(ctx context.Context, limit int) ([]domain.ReportRecord, error) {
	rows, err := r.db.QueryContext(ctx, listReportsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ReportRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (domain.ReportRecord, error) {
	var rec domain.ReportRecord
	var payload []byte
	if err := s.Scan(&rec.ID, &rec.Category, &rec.City, &payload, &rec.CreatedAt); err != nil {
		return domain.ReportRecord{}, err
	}
	if err := json.Unmarshal(payload, &rec.Report); err != nil {
		return domain.ReportRecord{}, fmt.Errorf("decode report %s: %w", rec.ID, err)
	}
	rec.CreatedAt = rec.CreatedAt.UTC()
	return rec, nil
}
