package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/denshoproject/densho-elastictools/internal/docstore"
)

func testWhitelist() []string {
	return []string{
		"fulltext", "match_all", "models", "parent",
		"creators", "persons", "topics", "facility",
		"format", "genre",
	}
}

func prepare(t *testing.T, params Params) *Searcher {
	t.Helper()
	s := NewSearcher(nil)
	err := s.Prepare(PrepareParams{
		Params:       params,
		Whitelist:    testWhitelist(),
		Models:       []string{"collection", "entity", "segment"},
		Fields:       []string{"id", "title", "description"},
		NestedFields: []string{"topics", "facility"},
	})
	require.NoError(t, err)
	return s
}

func mustClauses(t *testing.T, s *Searcher) []map[string]any {
	t.Helper()
	boolQuery, ok := s.Query()["query"].(map[string]any)["bool"].(map[string]any)
	require.True(t, ok, "expected a bool query, got %v", s.Query())
	clauses, _ := boolQuery["must"].([]map[string]any)
	return clauses
}

func filterClauses(t *testing.T, s *Searcher) []map[string]any {
	t.Helper()
	boolQuery, ok := s.Query()["query"].(map[string]any)["bool"].(map[string]any)
	require.True(t, ok, "expected a bool query, got %v", s.Query())
	clauses, _ := boolQuery["filter"].([]map[string]any)
	return clauses
}

func TestPrepareMatchAll(t *testing.T) {
	s := prepare(t, Params{"match_all": {"1"}})
	assert.Equal(t, map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
	}, s.Query())
}

func TestPrepareEmptyParams(t *testing.T) {
	s := prepare(t, Params{})
	assert.Equal(t, map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
	}, s.Query())
}

func TestPrepareFulltext(t *testing.T) {
	s := prepare(t, Params{"fulltext": {"minidoka"}})
	must := mustClauses(t, s)
	require.Len(t, must, 1)
	qs, ok := must[0]["query_string"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "minidoka", qs["query"])
	assert.Equal(t, []string{"id", "title", "description"}, qs["fields"])
	assert.Equal(t, "AND", qs["default_operator"])
	assert.Equal(t, false, qs["allow_leading_wildcard"])
}

func TestPrepareFulltextSanitized(t *testing.T) {
	s := prepare(t, Params{"fulltext": {"fusa!+/:[]^{}~teruo"}})
	must := mustClauses(t, s)
	require.Len(t, must, 1)
	qs := must[0]["query_string"].(map[string]any)
	assert.Equal(t, "fusateruo", qs["query"])
	assert.Equal(t, "fusateruo", s.Params().First("fulltext"))
}

func TestPrepareNestedRelation(t *testing.T) {
	tests := []struct {
		field    string
		subfield string
	}{
		{"creators", "creators.namepart"},
		{"persons", "persons.namepart"},
		{"topics", "topics.id"},
		{"facility", "facility.id"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			s := prepare(t, Params{tt.field: {"123"}})
			must := mustClauses(t, s)
			require.Len(t, must, 1)
			nested, ok := must[0]["nested"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.field, nested["path"])
			term := nested["query"].(map[string]any)["term"].(map[string]any)
			assert.Equal(t, "123", term[tt.subfield])
		})
	}
}

func TestPrepareFulltextBeatsNested(t *testing.T) {
	// only one primary clause; the relation field drops to a plain filter
	s := prepare(t, Params{"fulltext": {"camp"}, "topics": {"123"}})
	must := mustClauses(t, s)
	require.Len(t, must, 1)
	assert.Contains(t, must[0], "query_string")

	filter := filterClauses(t, s)
	require.Len(t, filter, 1)
	term := filter[0]["term"].(map[string]any)
	assert.Equal(t, "123", term["topics_id"])
}

func TestPrepareParentWildcard(t *testing.T) {
	s := prepare(t, Params{"parent": {"ddr-densho-10"}})
	must := mustClauses(t, s)
	require.Len(t, must, 1)
	wildcard := must[0]["wildcard"].(map[string]any)
	assert.Equal(t, "ddr-densho-10-*", wildcard["id"])
}

func TestPrepareTermFilters(t *testing.T) {
	s := prepare(t, Params{
		"match_all": {"1"},
		"format":    {"img"},
		"genre":     {"photograph", "portrait"},
	})
	filter := filterClauses(t, s)
	require.Len(t, filter, 2)

	var term, terms map[string]any
	for _, clause := range filter {
		if v, ok := clause["term"].(map[string]any); ok {
			term = v
		}
		if v, ok := clause["terms"].(map[string]any); ok {
			terms = v
		}
	}
	require.NotNil(t, term)
	require.NotNil(t, terms)
	assert.Equal(t, "img", term["format"])
	assert.Equal(t, []string{"photograph", "portrait"}, terms["genre"])
}

func TestPrepareScrubsUnknownParams(t *testing.T) {
	s := prepare(t, Params{
		"match_all": {"1"},
		"bogus":     {"x"},
		"page":      {"3"},
	})
	// neither produces a filter clause
	assert.Equal(t, map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
	}, s.Query())
	// but page survives in the informational copy
	assert.Equal(t, "3", s.Params().First("page"))
}

func TestPrepareModelsOverride(t *testing.T) {
	s := NewSearcher(nil)
	err := s.Prepare(PrepareParams{
		Params:    Params{"models": {"entity"}},
		Whitelist: testWhitelist(),
		Models:    []string{"collection", "entity", "segment"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"entity"}, s.models)
}

func TestPrepareAggregations(t *testing.T) {
	s := NewSearcher(nil)
	err := s.Prepare(PrepareParams{
		Params:    Params{"match_all": {"1"}},
		Whitelist: testWhitelist(),
		AggFields: map[string]string{
			"topics": "topics.id",
			"format": "format",
		},
	})
	require.NoError(t, err)

	aggs, ok := s.Query()["aggregations"].(map[string]any)
	require.True(t, ok)

	topics := aggs["topics"].(map[string]any)
	assert.Equal(t, map[string]any{"path": "topics"}, topics["nested"])
	inner := topics["aggregations"].(map[string]any)["topics_ids"].(map[string]any)
	assert.Equal(t, map[string]any{
		"field": "topics.id",
		"size":  aggBucketSize,
	}, inner["terms"])

	format := aggs["format"].(map[string]any)
	assert.Equal(t, map[string]any{"field": "format"}, format["terms"])
}

func TestExecuteNotPrepared(t *testing.T) {
	s := NewSearcher(nil)
	_, err := s.Execute(context.Background(), 10, 0)
	assert.ErrorIs(t, err, ErrNotPrepared)
}

func TestExecute(t *testing.T) {
	var gotPath, gotSort string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSort = r.URL.Query().Get("sort")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"hits": {
				"total": {"value": 1},
				"hits": [
					{"_index": "ddrentity", "_id": "ddr-densho-10-1",
					 "_source": {"id": "ddr-densho-10-1", "title": "Camp"}}
				]
			}
		}`))
	}))
	defer srv.Close()

	client, err := docstore.NewClient(srv.URL, "", "", "")
	require.NoError(t, err)
	ds := docstore.New(client, "ddr", zap.NewNop())

	s := NewSearcher(ds)
	err = s.Prepare(PrepareParams{
		Params:    Params{"fulltext": {"camp"}, "models": {"entity"}},
		Whitelist: testWhitelist(),
		Models:    []string{"collection", "entity", "segment"},
		Sort:      [][2]string{{"id", "asc"}},
		Fields:    []string{"id", "title"},
	})
	require.NoError(t, err)

	results, err := s.Execute(context.Background(), 10, 0)
	require.NoError(t, err)

	assert.Equal(t, "/ddrentity/_search", gotPath)
	assert.Equal(t, "id:asc", gotSort)
	assert.Equal(t, float64(0), gotBody["from"])
	assert.Equal(t, float64(10), gotBody["size"])
	assert.Equal(t, []any{"id", "title"}, gotBody["_source"])

	assert.Equal(t, int64(1), results.Total)
	require.Len(t, results.Objects, 1)
	assert.Equal(t, "ddr-densho-10-1", results.Objects[0].ID)
	assert.Equal(t, 10, results.Limit)
	assert.Equal(t, 0, results.Offset)
}
