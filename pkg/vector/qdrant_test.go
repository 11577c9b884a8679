package vector

import (
	"encoding/json"
	"testing"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrew/listing-rag/pkg/models"
)

func TestBuildFilter_Empty(t *testing.T) {
	assert.Nil(t, buildFilter(nil))
	assert.Nil(t, buildFilter([]models.Filter{}))
}

func TestBuildFilter_SingleEquality(t *testing.T) {
	filter := buildFilter([]models.Filter{{Field: "address.market", Value: "Paris"}})

	require.NotNil(t, filter)
	require.Len(t, filter.GetMust(), 1)

	field := filter.GetMust()[0].GetField()
	require.NotNil(t, field)
	assert.Equal(t, "address.market", field.GetKey())
	assert.Equal(t, "Paris", field.GetMatch().GetKeyword())
}

func TestBuildFilter_MultipleAreAndCombined(t *testing.T) {
	filter := buildFilter([]models.Filter{
		{Field: "beds", Value: 2},
		{Field: "bedrooms", Value: 1},
		{Field: "address.market", Value: "Paris"},
	})

	require.NotNil(t, filter)
	require.Len(t, filter.GetMust(), 3)

	assert.Equal(t, int64(2), filter.GetMust()[0].GetField().GetMatch().GetInteger())
	assert.Equal(t, int64(1), filter.GetMust()[1].GetField().GetMatch().GetInteger())
	assert.Equal(t, "Paris", filter.GetMust()[2].GetField().GetMatch().GetKeyword())
}

func TestPointID(t *testing.T) {
	numeric := pointID("10006546")
	assert.Equal(t, uint64(10006546), numeric.GetNum())

	uuid := pointID("0b4af2de-1111-4222-8333-abcdefabcdef")
	assert.Equal(t, "0b4af2de-1111-4222-8333-abcdefabcdef", uuid.GetUuid())
}

func TestPointIDString_RoundTrip(t *testing.T) {
	assert.Equal(t, "10006546", pointIDString(pointID("10006546")))
	assert.Equal(t, "abc-def", pointIDString(pointID("abc-def")))
}

func TestRenderPayload_DropsEmbedding(t *testing.T) {
	payload := map[string]*qdrantclient.Value{
		"name":      stringValue("Loft"),
		"beds":      intValue(2),
		"embedding": stringValue("should never appear"),
	}

	snippet := renderPayload(pointID("10006546"), payload)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(snippet), &record))

	assert.Equal(t, "10006546", record["_id"])
	assert.Equal(t, "Loft", record["name"])
	assert.Equal(t, float64(2), record["beds"])
	assert.NotContains(t, record, "embedding")
}

func TestValueToAny_NestedKinds(t *testing.T) {
	value := &qdrantclient.Value{
		Kind: &qdrantclient.Value_StructValue{
			StructValue: &qdrantclient.Struct{
				Fields: map[string]*qdrantclient.Value{
					"market": stringValue("Paris"),
					"scores": {
						Kind: &qdrantclient.Value_ListValue{
							ListValue: &qdrantclient.ListValue{
								Values: []*qdrantclient.Value{
									{Kind: &qdrantclient.Value_DoubleValue{DoubleValue: 0.9}},
									{Kind: &qdrantclient.Value_BoolValue{BoolValue: true}},
								},
							},
						},
					},
				},
			},
		},
	}

	got, ok := valueToAny(value).(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Paris", got["market"])
	assert.Equal(t, []any{0.9, true}, got["scores"])
}

func TestListingPayload(t *testing.T) {
	listing := models.Listing{
		ID:           "10006546",
		Name:         "Ribeira Charming Duplex",
		Summary:      "long text that only feeds the embedding",
		Space:        "also embedding-only",
		PropertyType: "House",
		RoomType:     "Entire home/apt",
		Beds:         5,
		Bedrooms:     3,
		Address: models.Address{
			CountryCode: "PT",
			Market:      "Porto",
			Suburb:      "",
		},
	}

	payload := listingPayload(listing)

	assert.Equal(t, "Ribeira Charming Duplex", payload["name"].GetStringValue())
	assert.Equal(t, int64(5), payload["beds"].GetIntegerValue())
	assert.Equal(t, int64(3), payload["bedrooms"].GetIntegerValue())

	address := payload["address"].GetStructValue().GetFields()
	assert.Equal(t, "PT", address["country_code"].GetStringValue())
	assert.Equal(t, "Porto", address["market"].GetStringValue())

	assert.NotContains(t, payload, "summary")
	assert.NotContains(t, payload, "space")
	assert.NotContains(t, payload, "embedding")
}

func TestDefaultSearchOptions(t *testing.T) {
	opts := DefaultSearchOptions()
	assert.Equal(t, 5, opts.Limit)
	assert.Equal(t, 400, opts.Candidates)
	assert.Equal(t, float32(0.50), opts.MinScore)
}
