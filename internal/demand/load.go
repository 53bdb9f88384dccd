package demand

import (
	"fmt"
	"os"
)

// LoadAnalyzer builds an Analyzer from optional JSON files. An empty path selects
// the built-in table.
func LoadAnalyzer(taxonomyPath, vocabularyPath string) (*Analyzer, error) {
	tax := DefaultTaxonomy()
	if taxonomyPath != "" {
		f, err := os.Open(taxonomyPath)
		if err != nil {
			return nil, fmt.Errorf("open taxonomy: %w", err)
		}
		defer f.Close()
		if tax, err = LoadTaxonomy(f); err != nil {
			return nil, fmt.Errorf("%s: %w", taxonomyPath, err)
		}
	}

	voc := DefaultVocabulary()
	if vocabularyPath != "" {
		f, err := os.Open(vocabularyPath)
		if err != nil {
			return nil, fmt.Errorf("open vocabulary: %w", err)
		}
		defer f.Close()
		if voc, err = LoadVocabulary(f); err != nil {
			return nil, fmt.Errorf("%s: %w", vocabularyPath, err)
		}
	}
	return NewAnalyzer(voc, tax, DefaultLimits()), nil
}
