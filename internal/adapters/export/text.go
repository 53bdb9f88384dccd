package export

import (
	"fmt"
	"io"
	"strings"

	"review_demand/internal/domain"
)

const rule = "======================================================================"

func first(in []domain.Ranked) string {
	if len(in) == 0 {
		return "N/A"
	}
	return in[0].Term
}

// WriteSummary prints the short form used by quiet runs.
func WriteSummary(w io.Writer, rep domain.Report) error {
	a := rep.Analysis
	_, err := fmt.Fprintf(w,
		"ANALYSIS SUMMARY\n"+
			"   Reviews Analyzed: %d\n"+
			"   Avg Rating: %.2f/5.0\n"+
			"   Top Complaint: %s\n"+
			"   Top Unmet Need: %s\n"+
			"   Content Ideas Generated: %d\n",
		a.TotalReviewsAnalyzed, a.AvgRating, first(a.TopComplaints), first(a.UnmetNeeds), len(rep.ContentIdeas))
	return err
}

// WriteText prints the full human-readable report.
func WriteText(w io.Writer, rep domain.Report) error {
	var b strings.Builder
	a := rep.Analysis

	fmt.Fprintf(&b, "%s\nDEMAND ANALYSIS: %s in %s\n%s\n", rule, rep.Category, rep.City, rule)
	fmt.Fprintf(&b, "Max Places: %d\nMin Reviews: %d\n\n", rep.Parameters.MaxPlaces, rep.Parameters.MinReviews)

	if a.TotalReviewsAnalyzed == 0 {
		b.WriteString("No reviews found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintf(&b, "Reviews analyzed: %d\n", a.TotalReviewsAnalyzed)
	fmt.Fprintf(&b, "Average rating:   %.2f/5.0\n", a.AvgRating)
	fmt.Fprintf(&b, "Sentiment score:  %.2f\n", a.SentimentScore)
	if a.TotalReviewsAnalyzed < rep.Parameters.MinReviews {
		fmt.Fprintf(&b, "Warning: fewer than %d reviews, results may be unreliable\n", rep.Parameters.MinReviews)
	}

	section(&b, "TOP COMPLAINTS", a.TopComplaints, 10)
	section(&b, "UNMET NEEDS", a.UnmetNeeds, 0)
	section(&b, "WHAT PEOPLE LOVE", a.TopPraise, 10)
	section(&b, "COMPLAINT KEYWORDS", a.ComplaintKeywords, 10)

	if len(rep.ContentIdeas) > 0 {
		fmt.Fprintf(&b, "\nCONTENT IDEAS\n")
		for i, idea := range rep.ContentIdeas {
			fmt.Fprintf(&b, "\n%d. [%s] %s (%s)\n", i+1, idea.Priority, idea.Title, idea.Type)
			fmt.Fprintf(&b, "   %s\n", idea.Description)
			fmt.Fprintf(&b, "   Impact: %s\n", idea.EstimatedImpact)
			for _, line := range strings.Split(idea.Implementation, "\n") {
				fmt.Fprintf(&b, "   %s\n", line)
			}
		}
	}
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func section(b *strings.Builder, title string, items []domain.Ranked, limit int) {
	if len(items) == 0 {
		return
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	fmt.Fprintf(b, "\n%s\n", title)
	for i, it := range items {
		fmt.Fprintf(b, "  %2d. %s (%dx)\n", i+1, it.Term, it.Count)
	}
}
