package domain

import (
	"encoding/json"
	"fmt"
)

// Ranked is a mined term with its frequency. It encodes as the pair [term, count].
type Ranked struct {
	Term  string
	Count int
}

func (r Ranked) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{r.Term, r.Count})
}

func (r *Ranked) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("ranked: want [term, count], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &r.Term); err != nil {
		return fmt.Errorf("ranked term: %w", err)
	}
	if err := json.Unmarshal(pair[1], &r.Count); err != nil {
		return fmt.Errorf("ranked count: %w", err)
	}
	return nil
}

// AnalysisResult is the outcome of mining one (category, city) review corpus.
// A TotalReviewsAnalyzed of 0 signals that nothing could be fetched.
type AnalysisResult struct {
	TotalReviewsAnalyzed int      `json:"total_reviews_analyzed"`
	AvgRating            float64  `json:"avg_rating"`
	SentimentScore       float64  `json:"sentiment_score"`
	TopComplaints        []Ranked `json:"top_complaints"`
	TopPraise            []Ranked `json:"top_praise"`
	UnmetNeeds           []Ranked `json:"unmet_needs"`
	ComplaintKeywords    []Ranked `json:"complaint_keywords"`
	PraiseKeywords       []Ranked `json:"praise_keywords"`
}

// EmptyAnalysis is the well-formed zero result: all lists present but empty.
func EmptyAnalysis() AnalysisResult {
	return AnalysisResult{
		TopComplaints:     []Ranked{},
		TopPraise:         []Ranked{},
		UnmetNeeds:        []Ranked{},
		ComplaintKeywords: []Ranked{},
		PraiseKeywords:    []Ranked{},
	}
}

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// ContentIdea is one actionable recommendation derived from an AnalysisResult.
type ContentIdea struct {
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Priority        Priority `json:"priority"`
	EstimatedImpact string   `json:"estimated_impact"`
	Implementation  string   `json:"implementation"`
}
