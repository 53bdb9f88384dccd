package demand

import (
	"strings"
	"unicode/utf8"

	"review_demand/internal/domain"
)

const minKeywordLength = 4

// KeywordMiner counts single content words.
type KeywordMiner struct {
	stop map[string]struct{}
}

func NewKeywordMiner(v Vocabulary) *KeywordMiner {
	stop := make(map[string]struct{}, len(v.Stopwords))
	for _, w := range lowerAll(v.Stopwords) {
		stop[w] = struct{}{}
	}
	return &KeywordMiner{stop: stop}
}

// Mine returns the limit most frequent keywords. negative is accepted so both miners
// share a call shape; the word filter does not depend on it.
func (m *KeywordMiner) Mine(texts []string, negative bool, limit int) []domain.Ranked {
	_ = negative
	c := newCounter()
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		for _, w := range tokenize(strings.ToLower(text)) {
			if utf8.RuneCountInString(w) < minKeywordLength || isNumeric(w) {
				continue
			}
			if _, skip := m.stop[w]; skip {
				continue
			}
			c.add(w)
		}
	}
	return c.mostCommon(limit)
}
