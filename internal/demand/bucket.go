package demand

import "review_demand/internal/domain"

const (
	complaintMaxRating = 2
	praiseMinRating    = 4
)

// Buckets partitions a review set by rating. Every review lands in exactly one slice.
type Buckets struct {
	Complaints []domain.Review
	Neutral    []domain.Review
	Praise     []domain.Review
}

// Bucketize splits reviews into complaint (<=2), neutral (3) and praise (>=4) sets.
// Out-of-range ratings fall into the nearest bucket.
func Bucketize(reviews []domain.Review) Buckets {
	var b Buckets
	for _, r := range reviews {
		switch {
		case r.Rating <= complaintMaxRating:
			b.Complaints = append(b.Complaints, r)
		case r.Rating >= praiseMinRating:
			b.Praise = append(b.Praise, r)
		default:
			b.Neutral = append(b.Neutral, r)
		}
	}
	return b
}

func texts(reviews []domain.Review) []string {
	out := make([]string, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, r.Text)
	}
	return out
}
