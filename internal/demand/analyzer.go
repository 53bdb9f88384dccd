package demand

import (
	"github.com/rs/zerolog/log"

	"review_demand/internal/domain"
)

// Limits bounds how many terms are mined and how many are kept in the result.
type Limits struct {
	MinePhrases  int
	KeepPhrases  int
	MineKeywords int
	KeepKeywords int
}

func DefaultLimits() Limits {
	return Limits{MinePhrases: 50, KeepPhrases: 15, MineKeywords: 30, KeepKeywords: 20}
}

// Analyzer turns a review set into an AnalysisResult. It holds only read-only tables
// and is safe for concurrent use.
type Analyzer struct {
	phrases  *PhraseMiner
	keywords *KeywordMiner
	needs    *NeedsMapper
	limits   Limits
}

func NewAnalyzer(v Vocabulary, t domain.FeatureTaxonomy, l Limits) *Analyzer {
	return &Analyzer{
		phrases:  NewPhraseMiner(v),
		keywords: NewKeywordMiner(v),
		needs:    NewNeedsMapper(t),
		limits:   l,
	}
}

// Analyze mines reviews. Fewer than minReviews reviews is only a warning; the
// result is computed anyway.
func (a *Analyzer) Analyze(reviews []domain.Review, minReviews int) domain.AnalysisResult {
	if len(reviews) == 0 {
		log.Warn().Msg("no reviews to analyze")
		return domain.EmptyAnalysis()
	}
	if len(reviews) < minReviews {
		log.Warn().
			Int("reviews", len(reviews)).
			Int("min_reviews", minReviews).
			Msg("fewer reviews than requested, results may be unreliable")
	}

	b := Bucketize(reviews)
	complaintTexts, praiseTexts := texts(b.Complaints), texts(b.Praise)

	complaints := a.phrases.Mine(complaintTexts, true, a.limits.MinePhrases)
	praise := a.phrases.Mine(praiseTexts, false, a.limits.MinePhrases)
	complaintKW := a.keywords.Mine(complaintTexts, true, a.limits.MineKeywords)
	praiseKW := a.keywords.Mine(praiseTexts, false, a.limits.MineKeywords)
	needs := a.needs.Map(complaints)

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))

	log.Debug().
		Int("complaints", len(b.Complaints)).
		Int("neutral", len(b.Neutral)).
		Int("praise", len(b.Praise)).
		Msg("reviews bucketed")

	return domain.AnalysisResult{
		TotalReviewsAnalyzed: len(reviews),
		AvgRating:            avg,
		SentimentScore:       avg / 5,
		TopComplaints:        truncate(complaints, a.limits.KeepPhrases),
		TopPraise:            truncate(praise, a.limits.KeepPhrases),
		UnmetNeeds:           needs,
		ComplaintKeywords:    truncate(complaintKW, a.limits.KeepKeywords),
		PraiseKeywords:       truncate(praiseKW, a.limits.KeepKeywords),
	}
}
