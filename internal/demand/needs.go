package demand

import (
	"regexp"
	"sort"
	"strings"

	"review_demand/internal/domain"
)

type compiledFeature struct {
	name     string
	patterns []*regexp.Regexp
}

// NeedsMapper maps complaint phrases onto a closed feature vocabulary.
type NeedsMapper struct {
	features []compiledFeature
}

// NewNeedsMapper compiles the taxonomy once. Blank stems are ignored, so a feature
// without usable stems simply never matches.
func NewNeedsMapper(t domain.FeatureTaxonomy) *NeedsMapper {
	m := &NeedsMapper{features: make([]compiledFeature, 0, len(t))}
	for _, f := range t {
		cf := compiledFeature{name: f.Name}
		for _, stem := range f.Stems {
			stem = strings.ToLower(strings.TrimSpace(stem))
			if stem == "" {
				continue
			}
			// Go's \b is ASCII-only; spell the boundary out so "ü" and "ß" count as
			// word characters.
			cf.patterns = append(cf.patterns,
				regexp.MustCompile(`(?:^|[^\p{L}\p{N}\p{M}_])`+regexp.QuoteMeta(stem)+`[\p{L}\p{N}\p{M}_]*`))
		}
		m.features = append(m.features, cf)
	}
	return m
}

// Map counts stem mentions per feature across all phrase texts and returns the
// features with at least one mention, most mentioned first.
func (m *NeedsMapper) Map(phrases []domain.Ranked) []domain.Ranked {
	parts := make([]string, 0, len(phrases))
	for _, p := range phrases {
		parts = append(parts, p.Term)
	}
	blob := strings.ToLower(strings.Join(parts, " "))

	out := make([]domain.Ranked, 0, len(m.features))
	if blob == "" {
		return out
	}
	seen := make(map[string]int, len(m.features))
	for _, f := range m.features {
		n := 0
		for _, re := range f.patterns {
			n += len(re.FindAllStringIndex(blob, -1))
		}
		if n == 0 {
			continue
		}
		// duplicate feature names in a hand-written taxonomy are merged
		if i, ok := seen[f.name]; ok {
			out[i].Count += n
			continue
		}
		seen[f.name] = len(out)
		out = append(out, domain.Ranked{Term: f.name, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
