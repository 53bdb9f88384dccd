package demand

import (
	"encoding/json"
	"fmt"
	"io"

	"review_demand/internal/domain"
)

// DefaultTaxonomy returns the canonical amenity features with German/English stems.
// A stem matches any word that starts with it ("parkplätz" matches "parkplätze").
func DefaultTaxonomy() domain.FeatureTaxonomy {
	return domain.FeatureTaxonomy{
		{Name: "parking", Stems: []string{"parkplatz", "parkplätz", "parkmöglichkeit", "parkhaus", "parken", "stellplatz", "parking"}},
		{Name: "shade", Stems: []string{"schatten", "schattig", "beschattet", "shade", "shady"}},
		{Name: "toilets", Stems: []string{"toilet", "klo", "wc", "sanitär", "restroom", "bathroom"}},
		{Name: "playground", Stems: []string{"spielplatz", "spielplätz", "klettergerüst", "schaukel", "rutsche", "playground"}},
		{Name: "benches", Stems: []string{"bänk", "bank", "sitzgelegenheit", "sitzplätz", "bench", "seating"}},
		{Name: "wheelchair_accessible", Stems: []string{"barrierefrei", "rollstuhl", "kinderwagen", "rampe", "wheelchair", "accessib"}},
		{Name: "water_fountain", Stems: []string{"trinkbrunnen", "trinkwasser", "wasserspender", "brunnen", "fountain", "drinking"}},
		{Name: "dog_friendly", Stems: []string{"hund", "leine", "dog"}},
		{Name: "wifi", Stems: []string{"wlan", "wifi", "wi-fi", "internet"}},
		{Name: "outlets", Stems: []string{"steckdose", "strom", "ladestation", "aufladen", "outlet", "socket", "charging"}},
	}
}

// LoadTaxonomy reads a JSON array of {"name":..., "stems":[...]} objects.
func LoadTaxonomy(r io.Reader) (domain.FeatureTaxonomy, error) {
	var t domain.FeatureTaxonomy
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode taxonomy: %w", err)
	}
	for i, f := range t {
		if f.Name == "" {
			return nil, fmt.Errorf("taxonomy entry %d has no name", i)
		}
	}
	return t, nil
}
