package domain

// Review is one customer comment as fetched from the review source.
type Review struct {
	PlaceID   string `json:"place_id"`
	PlaceName string `json:"place_name"`
	Rating    int    `json:"rating"`
	Text      string `json:"text"`
	Author    string `json:"author,omitempty"`
	Timestamp int64  `json:"time,omitempty"` // epoch seconds, 0 when unknown
}

// Place is a venue returned by a category search.
type Place struct {
	ID          string  `json:"place_id"`
	Name        string  `json:"name"`
	Address     string  `json:"address,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	ReviewCount int     `json:"review_count,omitempty"`
}
