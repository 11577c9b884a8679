package models

import "strings"

// Address holds the location fields of a listing that are exposed as
// payload filters (address.country_code, address.market).
type Address struct {
	CountryCode string `json:"country_code"`
	Market      string `json:"market"`
	Suburb      string `json:"suburb"`
}

// Listing represents a short-term-rental listing record as it appears in
// the source dataset.
type Listing struct {
	ID           string  `json:"_id"`
	Name         string  `json:"name"`
	Summary      string  `json:"summary"`
	Description  string  `json:"description"`
	Space        string  `json:"space"`
	PropertyType string  `json:"property_type"`
	RoomType     string  `json:"room_type"`
	Beds         int     `json:"beds"`
	Bedrooms     int     `json:"bedrooms"`
	Address      Address `json:"address"`
}

// EmbeddingText builds the semantically rich text that gets embedded for
// a listing. Empty fields are dropped, the rest joined with " | ".
func (l Listing) EmbeddingText() string {
	parts := []string{
		l.Name,
		l.Summary,
		l.Description,
		l.Space,
		l.PropertyType,
		l.RoomType,
		l.Address.Market,
		l.Address.Suburb,
	}

	kept := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " | ")
}

// SearchResult is one ranked candidate returned by the vector store:
// a serialized record snippet plus its similarity score.
type SearchResult struct {
	Snippet string  `json:"snippet"`
	Score   float32 `json:"score"`
}
