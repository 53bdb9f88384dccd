package domain

// Feature is one canonical amenity and the keyword stems that signal it in free text.
type Feature struct {
	Name  string   `json:"name"`
	Stems []string `json:"stems"`
}

// FeatureTaxonomy is ordered; the order breaks ties when ranking unmet needs.
type FeatureTaxonomy []Feature

// Names returns the feature names in taxonomy order.
func (t FeatureTaxonomy) Names() []string {
	out := make([]string, 0, len(t))
	for _, f := range t {
		out = append(out, f.Name)
	}
	return out
}

// Lookup returns the stems registered under name.
func (t FeatureTaxonomy) Lookup(name string) ([]string, bool) {
	for _, f := range t {
		if f.Name == name {
			return f.Stems, true
		}
	}
	return nil, false
}
