package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew/listing-rag/pkg/models"
)

func TestExtractFilters_IdentifierShortCircuits(t *testing.T) {
	filters, direct := ExtractFilters("show me id=10006546 with beds=2 market=Paris")

	assert.True(t, direct)
	require.Len(t, filters, 1, "identifier must suppress every other filter")
	assert.Equal(t, models.Filter{Field: "_id", Value: "10006546"}, filters[0])
}

func TestExtractFilters_IdentifierRequiresEightDigits(t *testing.T) {
	filters, direct := ExtractFilters("id=1234567")

	assert.False(t, direct)
	assert.Nil(t, filters)
}

func TestExtractFilters_CombinedFilters(t *testing.T) {
	filters, direct := ExtractFilters("Show listings with beds=2 bedrooms=1 market=Paris")

	assert.False(t, direct)
	assert.ElementsMatch(t, []models.Filter{
		{Field: "address.market", Value: "Paris"},
		{Field: "beds", Value: 2},
		{Field: "bedrooms", Value: 1},
	}, filters)
}

func TestExtractFilters_Country(t *testing.T) {
	filters, direct := ExtractFilters("places with country=PT")

	assert.False(t, direct)
	assert.Equal(t, []models.Filter{{Field: "address.country_code", Value: "PT"}}, filters)
}

func TestExtractFilters_CaseInsensitive(t *testing.T) {
	filters, direct := ExtractFilters("MARKET=Porto BEDS=3")

	assert.False(t, direct)
	assert.ElementsMatch(t, []models.Filter{
		{Field: "address.market", Value: "Porto"},
		{Field: "beds", Value: 3},
	}, filters)
}

func TestExtractFilters_ValueCutAtComma(t *testing.T) {
	filters, _ := ExtractFilters("market=Paris,France please")

	require.Len(t, filters, 1)
	assert.Equal(t, "Paris", filters[0].Value)
}

func TestExtractFilters_NoMatchIsAbsent(t *testing.T) {
	filters, direct := ExtractFilters("what are the nicest places to stay?")

	assert.False(t, direct)
	assert.Nil(t, filters)
}

func TestExtractFilters_EmptyInput(t *testing.T) {
	filters, direct := ExtractFilters("")

	assert.False(t, direct)
	assert.Nil(t, filters)
}
