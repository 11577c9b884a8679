package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListing_EmbeddingText(t *testing.T) {
	listing := Listing{
		Name:         "Ribeira Charming Duplex",
		Summary:      "Fantastic duplex apartment",
		PropertyType: "House",
		RoomType:     "Entire home/apt",
		Address:      Address{Market: "Porto"},
	}

	got := listing.EmbeddingText()

	assert.Equal(t, "Ribeira Charming Duplex | Fantastic duplex apartment | House | Entire home/apt | Porto", got)
}

func TestListing_EmbeddingTextSkipsBlankFields(t *testing.T) {
	assert.Empty(t, Listing{}.EmbeddingText())
	assert.Equal(t, "Loft", Listing{Name: "Loft", Summary: "   "}.EmbeddingText())
}

func TestListing_UnmarshalsSourceRecord(t *testing.T) {
	raw := `{
		"_id": "10006546",
		"name": "Ribeira Charming Duplex",
		"property_type": "House",
		"beds": 5,
		"bedrooms": 3,
		"address": {"country_code": "PT", "market": "Porto", "suburb": ""}
	}`

	var listing Listing
	require.NoError(t, json.Unmarshal([]byte(raw), &listing))

	assert.Equal(t, "10006546", listing.ID)
	assert.Equal(t, 5, listing.Beds)
	assert.Equal(t, "Porto", listing.Address.Market)
}
