package demand

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Vocabulary holds the word lists that steer mining. It is plain data: add a locale
// by extending the lists, not by touching the miners.
type Vocabulary struct {
	NegativeIndicators []string `json:"negative_indicators"`
	PositiveIndicators []string `json:"positive_indicators"`
	GenericPrefixes    []string `json:"generic_prefixes"`
	Stopwords          []string `json:"stopwords"`
}

// DefaultVocabulary returns the German/English tables.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		NegativeIndicators: []string{
			"kein", "keine", "fehlt", "fehlen", "vermisse", "vermissen",
			"schlecht", "schade", "leider", "nicht", "wenig", "zu wenig",
			"dreckig", "schmutzig", "kaputt", "defekt",
			"no", "missing", "lack", "poor", "bad", "dirty", "broken",
		},
		PositiveIndicators: []string{
			"toll", "super", "schön", "gut", "perfekt", "empfehlen", "liebe",
			"beste", "viel", "genug", "sauber", "gepflegt",
			"great", "good", "nice", "perfect", "clean", "well-maintained",
			"excellent", "beautiful", "love", "best",
		},
		GenericPrefixes: []string{
			"sehr ", "gut ", "schlecht ", "very ", "good ", "bad ",
			"das ist", "die sind", "this is", "it is",
		},
		Stopwords: []string{
			// de: articles, pronouns, conjunctions, prepositions, copulas
			"der", "die", "das", "den", "dem", "des", "ein", "eine", "einen", "einem", "einer", "eines",
			"und", "oder", "aber", "doch", "denn", "dass", "wenn", "weil", "als", "wie", "auch", "noch",
			"mit", "für", "von", "vom", "auf", "aus", "bei", "beim", "nach", "über", "unter", "durch",
			"gegen", "ohne", "zum", "zur", "im", "in", "am", "an", "um", "bis", "seit",
			"ist", "sind", "war", "waren", "sein", "wird", "werden", "wurde", "wurden", "hat", "haben", "hatte",
			"ich", "wir", "sie", "man", "mich", "uns", "ihr", "ihre", "hier", "dort", "dann", "also",
			"diese", "dieser", "dieses", "kann", "gibt", "schon", "ganz", "immer", "einfach", "etwas",
			"kein", "keine", "keinen", "nicht", "nichts",
			// en
			"the", "and", "but", "for", "with", "from", "this", "that", "there", "they", "them", "their",
			"were", "was", "have", "has", "had", "been", "are", "is", "its", "into", "onto", "about",
			"some", "than", "then", "just", "also", "would", "could", "should", "what", "when", "which",
			"your", "you", "our", "not", "very", "really", "much",
			// intensifiers
			"sehr", "viel", "mehr", "wenig", "gut", "schlecht", "nice", "good", "bad",
		},
	}
}

// LoadVocabulary reads a JSON vocabulary. Lists absent from the document keep their
// defaults.
func LoadVocabulary(r io.Reader) (Vocabulary, error) {
	v := DefaultVocabulary()
	var in Vocabulary
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return Vocabulary{}, fmt.Errorf("decode vocabulary: %w", err)
	}
	if in.NegativeIndicators != nil {
		v.NegativeIndicators = in.NegativeIndicators
	}
	if in.PositiveIndicators != nil {
		v.PositiveIndicators = in.PositiveIndicators
	}
	if in.GenericPrefixes != nil {
		v.GenericPrefixes = in.GenericPrefixes
	}
	if in.Stopwords != nil {
		v.Stopwords = in.Stopwords
	}
	return v, nil
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
