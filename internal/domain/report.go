package domain

import "time"

// ReportParameters echoes the knobs a report was produced with.
type ReportParameters struct {
	MaxPlaces  int `json:"max_places"`
	MinReviews int `json:"min_reviews"`
}

// Report is the combined document consumed by downstream tooling. Field names are a
// compatibility contract; do not rename.
type Report struct {
	Category     string           `json:"category"`
	City         string           `json:"city"`
	Analysis     AnalysisResult   `json:"analysis"`
	ContentIdeas []ContentIdea    `json:"content_ideas"`
	Parameters   ReportParameters `json:"parameters"`
}

// ReportRecord is a persisted Report.
type ReportRecord struct {
	ID        string    `json:"id"`
	Category  string    `json:"category"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	Report    Report    `json:"report"`
}
