package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/andrew/listing-rag/pkg/models"
)

// QdrantStore implements Store against a Qdrant server over gRPC.
type QdrantStore struct {
	conn        *grpc.ClientConn
	points      qdrantclient.PointsClient
	collections qdrantclient.CollectionsClient
	collection  string
	logger      *zap.Logger
}

// NewQdrantStore connects to the Qdrant server at addr (host:port, gRPC).
func NewQdrantStore(addr, collection string, logger *zap.Logger) (*QdrantStore, error) {
	conn, err := grpc.Dial(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant at %s: %w", addr, err)
	}

	return &QdrantStore{
		conn:        conn,
		points:      qdrantclient.NewPointsClient(conn),
		collections: qdrantclient.NewCollectionsClient(conn),
		collection:  collection,
		logger:      logger,
	}, nil
}

// Search performs a filtered similarity search and serializes each hit's
// payload into a JSON snippet. Vectors are never requested back, so the
// embedding field cannot leak into the results.
func (s *QdrantStore) Search(ctx context.Context, queryVector []float32, filters []models.Filter, opts SearchOptions) ([]models.SearchResult, error) {
	candidates := uint64(opts.Candidates)
	minScore := opts.MinScore

	req := &qdrantclient.SearchPoints{
		CollectionName: s.collection,
		Vector:         queryVector,
		Limit:          uint64(opts.Limit),
		ScoreThreshold: &minScore,
		Params: &qdrantclient.SearchParams{
			HnswEf: &candidates,
		},
		WithPayload: includePayload(),
	}

	if filter := buildFilter(filters); filter != nil {
		req.Filter = filter
	}

	resp, err := s.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to search in Qdrant: %w", err)
	}

	results := make([]models.SearchResult, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		if point.GetScore() < minScore {
			continue
		}
		results = append(results, models.SearchResult{
			Snippet: renderPayload(point.GetId(), point.GetPayload()),
			Score:   point.GetScore(),
		})
	}

	s.logger.Debug("qdrant search returned",
		zap.Int("hits", len(results)),
		zap.Int("filters", len(filters)))

	return results, nil
}

// FindByID fetches one record by its point id. Absence is reported via
// found=false, not an error.
func (s *QdrantStore) FindByID(ctx context.Context, id string) (string, bool, error) {
	resp, err := s.points.Get(ctx, &qdrantclient.GetPoints{
		CollectionName: s.collection,
		Ids:            []*qdrantclient.PointId{pointID(id)},
		WithPayload:    includePayload(),
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to fetch point %s: %w", id, err)
	}

	points := resp.GetResult()
	if len(points) == 0 {
		return "", false, nil
	}

	return renderPayload(points[0].GetId(), points[0].GetPayload()), true, nil
}

// UpsertListings writes listings and their embedding vectors into the
// collection. The listing id becomes the point id and the filterable
// listing fields become the payload.
func (s *QdrantStore) UpsertListings(ctx context.Context, listings []models.Listing, vectors [][]float32) error {
	if len(listings) != len(vectors) {
		return fmt.Errorf("listing/vector count mismatch: %d vs %d", len(listings), len(vectors))
	}

	points := make([]*qdrantclient.PointStruct, len(listings))
	for i, listing := range listings {
		points[i] = &qdrantclient.PointStruct{
			Id: pointID(listing.ID),
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{Data: vectors[i]},
				},
			},
			Payload: listingPayload(listing),
		}
	}

	_, err := s.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

// Count returns the number of points in the collection.
func (s *QdrantStore) Count(ctx context.Context) (uint64, error) {
	exact := true
	resp, err := s.points.Count(ctx, &qdrantclient.CountPoints{
		CollectionName: s.collection,
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return resp.GetResult().GetCount(), nil
}

// DeleteAll removes every point from the collection and returns how many
// points there were beforehand.
func (s *QdrantStore) DeleteAll(ctx context.Context) (uint64, error) {
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}

	_, err = s.points.Delete(ctx, &qdrantclient.DeletePoints{
		CollectionName: s.collection,
		Points: &qdrantclient.PointsSelector{
			PointsSelectorOneOf: &qdrantclient.PointsSelector_Filter{
				Filter: &qdrantclient.Filter{},
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete points: %w", err)
	}
	return count, nil
}

// EnsureCollection creates the collection if it does not exist yet,
// optionally dropping an existing one first.
func (s *QdrantStore) EnsureCollection(ctx context.Context, vectorSize int, recreate bool) error {
	collections, err := s.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	exists := false
	for _, col := range collections.GetCollections() {
		if col.GetName() == s.collection {
			exists = true
			break
		}
	}

	if exists && recreate {
		s.logger.Info("deleting existing collection", zap.String("collection", s.collection))
		if _, err := s.collections.Delete(ctx, &qdrantclient.DeleteCollection{
			CollectionName: s.collection,
		}); err != nil {
			return fmt.Errorf("failed to delete collection: %w", err)
		}
		exists = false
	}

	if !exists {
		s.logger.Info("creating collection",
			zap.String("collection", s.collection),
			zap.Int("vector_size", vectorSize))
		_, err := s.collections.Create(ctx, &qdrantclient.CreateCollection{
			CollectionName: s.collection,
			VectorsConfig: &qdrantclient.VectorsConfig{
				Config: &qdrantclient.VectorsConfig_Params{
					Params: &qdrantclient.VectorParams{
						Size:     uint64(vectorSize),
						Distance: qdrantclient.Distance_Cosine,
					},
				},
			},
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}

	return nil
}

// Close releases the gRPC connection.
func (s *QdrantStore) Close() error {
	return s.conn.Close()
}

// buildFilter converts extracted filters into a Qdrant filter. A single
// pair becomes one must condition (direct equality match); multiple pairs
// are AND-combined.
func buildFilter(filters []models.Filter) *qdrantclient.Filter {
	if len(filters) == 0 {
		return nil
	}

	conditions := make([]*qdrantclient.Condition, len(filters))
	for i, f := range filters {
		conditions[i] = &qdrantclient.Condition{
			ConditionOneOf: &qdrantclient.Condition_Field{
				Field: &qdrantclient.FieldCondition{
					Key:   f.Field,
					Match: matchValue(f.Value),
				},
			},
		}
	}

	return &qdrantclient.Filter{Must: conditions}
}

// matchValue maps a filter value onto the Qdrant match type for its kind.
func matchValue(value any) *qdrantclient.Match {
	switch v := value.(type) {
	case int:
		return &qdrantclient.Match{
			MatchValue: &qdrantclient.Match_Integer{Integer: int64(v)},
		}
	case int64:
		return &qdrantclient.Match{
			MatchValue: &qdrantclient.Match_Integer{Integer: v},
		}
	default:
		return &qdrantclient.Match{
			MatchValue: &qdrantclient.Match_Keyword{Keyword: fmt.Sprintf("%v", v)},
		}
	}
}

// pointID builds a Qdrant point id: numeric listing ids map to numeric
// point ids, anything else is treated as a UUID string.
func pointID(id string) *qdrantclient.PointId {
	if num, err := strconv.ParseUint(id, 10, 64); err == nil {
		return &qdrantclient.PointId{
			PointIdOptions: &qdrantclient.PointId_Num{Num: num},
		}
	}
	return &qdrantclient.PointId{
		PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: id},
	}
}

// pointIDString renders a point id back to its string form.
func pointIDString(id *qdrantclient.PointId) string {
	switch v := id.GetPointIdOptions().(type) {
	case *qdrantclient.PointId_Num:
		return strconv.FormatUint(v.Num, 10)
	case *qdrantclient.PointId_Uuid:
		return v.Uuid
	default:
		return ""
	}
}

// renderPayload serializes a point's payload into a JSON snippet, keyed by
// the record id. An embedding field in the payload is dropped.
func renderPayload(id *qdrantclient.PointId, payload map[string]*qdrantclient.Value) string {
	record := make(map[string]any, len(payload)+1)
	record["_id"] = pointIDString(id)
	for key, value := range payload {
		if key == "embedding" {
			continue
		}
		record[key] = valueToAny(value)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Sprintf(`{"_id":%q}`, pointIDString(id))
	}
	return string(data)
}

// valueToAny converts a Qdrant payload value into a plain Go value.
func valueToAny(value *qdrantclient.Value) any {
	switch v := value.GetKind().(type) {
	case *qdrantclient.Value_StringValue:
		return v.StringValue
	case *qdrantclient.Value_IntegerValue:
		return v.IntegerValue
	case *qdrantclient.Value_DoubleValue:
		return v.DoubleValue
	case *qdrantclient.Value_BoolValue:
		return v.BoolValue
	case *qdrantclient.Value_StructValue:
		fields := make(map[string]any, len(v.StructValue.GetFields()))
		for key, field := range v.StructValue.GetFields() {
			fields[key] = valueToAny(field)
		}
		return fields
	case *qdrantclient.Value_ListValue:
		items := make([]any, 0, len(v.ListValue.GetValues()))
		for _, item := range v.ListValue.GetValues() {
			items = append(items, valueToAny(item))
		}
		return items
	default:
		return nil
	}
}

// listingPayload maps a listing onto the payload stored with its vector.
// Long free-text fields that only feed the embedding (summary, space) are
// left out, mirroring what search results should carry.
func listingPayload(listing models.Listing) map[string]*qdrantclient.Value {
	return map[string]*qdrantclient.Value{
		"name":          stringValue(listing.Name),
		"description":   stringValue(listing.Description),
		"property_type": stringValue(listing.PropertyType),
		"room_type":     stringValue(listing.RoomType),
		"beds":          intValue(listing.Beds),
		"bedrooms":      intValue(listing.Bedrooms),
		"address": {
			Kind: &qdrantclient.Value_StructValue{
				StructValue: &qdrantclient.Struct{
					Fields: map[string]*qdrantclient.Value{
						"country_code": stringValue(listing.Address.CountryCode),
						"market":       stringValue(listing.Address.Market),
						"suburb":       stringValue(listing.Address.Suburb),
					},
				},
			},
		},
	}
}

func stringValue(s string) *qdrantclient.Value {
	return &qdrantclient.Value{Kind: &qdrantclient.Value_StringValue{StringValue: s}}
}

func intValue(i int) *qdrantclient.Value {
	return &qdrantclient.Value{Kind: &qdrantclient.Value_IntegerValue{IntegerValue: int64(i)}}
}

func includePayload() *qdrantclient.WithPayloadSelector {
	return &qdrantclient.WithPayloadSelector{
		SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
	}
}
