package demand

import (
	"sort"

	"review_demand/internal/domain"
)

// counter counts terms and remembers the order they were first seen in, so ranking
// ties resolve the same way on every run.
type counter struct {
	index  map[string]int
	terms  []string
	counts []int
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(term string) {
	if i, ok := c.index[term]; ok {
		c.counts[i]++
		return
	}
	c.index[term] = len(c.terms)
	c.terms = append(c.terms, term)
	c.counts = append(c.counts, 1)
}

// mostCommon returns up to n terms by count desc, first-seen first on ties.
// n <= 0 returns all of them.
func (c *counter) mostCommon(n int) []domain.Ranked {
	out := make([]domain.Ranked, len(c.terms))
	for i, t := range c.terms {
		out[i] = domain.Ranked{Term: t, Count: c.counts[i]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
