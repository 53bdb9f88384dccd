package demand

import (
	"strings"
	"unicode/utf8"

	"review_demand/internal/domain"
)

const (
	minGram         = 2
	maxGram         = 4
	minPhraseLength = 8
)

// PhraseMiner extracts repeated 2- to 4-word phrases from sentences that carry a
// sentiment indicator.
type PhraseMiner struct {
	negative []string
	positive []string
	generic  []string
}

func NewPhraseMiner(v Vocabulary) *PhraseMiner {
	return &PhraseMiner{
		negative: lowerAll(v.NegativeIndicators),
		positive: lowerAll(v.PositiveIndicators),
		generic:  lowerAll(v.GenericPrefixes),
	}
}

// Mine returns the limit most frequent phrases. negative selects the indicator set
// used to gate sentences.
func (m *PhraseMiner) Mine(texts []string, negative bool, limit int) []domain.Ranked {
	indicators := m.positive
	if negative {
		indicators = m.negative
	}

	c := newCounter()
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		for _, sentence := range splitSentences(strings.ToLower(text)) {
			if !containsAny(sentence, indicators) {
				continue
			}
			words := tokenize(sentence)
			for n := minGram; n <= maxGram; n++ {
				for i := 0; i+n <= len(words); i++ {
					phrase := strings.Join(words[i:i+n], " ")
					if utf8.RuneCountInString(phrase) < minPhraseLength || m.IsTooGeneric(phrase) {
						continue
					}
					c.add(phrase)
				}
			}
		}
	}
	return c.mostCommon(limit)
}

// IsTooGeneric reports whether phrase is blank or led by an intensifier or filler
// ("sehr gut ...", "this is ...").
func (m *PhraseMiner) IsTooGeneric(phrase string) bool {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" || p == "null" {
		return true
	}
	for _, prefix := range m.generic {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// containsAny matches indicators as substrings so multi-word entries ("zu wenig")
// and inflections ("toller" for "toll") still gate the sentence.
func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
