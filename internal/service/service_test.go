package service

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
	"github.com/denshoproject/densho-elastictools/internal/search"
)

func testService(t *testing.T, handler http.Handler) *SearchService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := docstore.NewClient(srv.URL, "", "", "")
	require.NoError(t, err)
	ds := docstore.New(client, "ddr", zap.NewNop())
	return NewSearchService(ds, 25, zap.NewNop())
}

func emptyHits(w http.ResponseWriter) {
	w.Write([]byte(`{"hits": {"total": {"value": 0}, "hits": []}}`))
}

func TestRequestParams(t *testing.T) {
	req := &Request{
		Fulltext: "minidoka",
		Models:   []string{"entity"},
		Parent:   "ddr-densho-10",
		Filters:  []string{"format:img", "genre:photograph,portrait"},
	}
	params, err := req.Params()
	require.NoError(t, err)
	assert.Equal(t, search.Params{
		"fulltext": {"minidoka"},
		"models":   {"entity"},
		"parent":   {"ddr-densho-10"},
		"format":   {"img"},
		"genre":    {"photograph", "portrait"},
	}, params)
}

func TestRequestParamsMalformedFilter(t *testing.T) {
	for _, filter := range []string{"format", "format:", ":img"} {
		t.Run(filter, func(t *testing.T) {
			req := &Request{Filters: []string{filter}}
			_, err := req.Params()
			assert.Error(t, err)
		})
	}
}

func TestSearchOffsetAndPage(t *testing.T) {
	svc := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	_, err := svc.Search(context.Background(), &Request{Offset: 10, Page: 2})
	assert.ErrorIs(t, err, search.ErrOffsetAndPage)
}

func TestSearchDefaultLimit(t *testing.T) {
	var gotBody map[string]any
	svc := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		emptyHits(w)
	}))

	results, err := svc.Search(context.Background(), &Request{Fulltext: "camp"})
	require.NoError(t, err)
	assert.Equal(t, float64(25), gotBody["size"])
	assert.Equal(t, 25, results.Limit)
}

func TestSearchPageToOffset(t *testing.T) {
	var gotBody map[string]any
	svc := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		emptyHits(w)
	}))

	results, err := svc.Search(context.Background(), &Request{Fulltext: "camp", Limit: 10, Page: 3})
	require.NoError(t, err)
	assert.Equal(t, float64(20), gotBody["from"])
	assert.Equal(t, 20, results.Offset)
}

func TestSearchLimitClamp(t *testing.T) {
	var gotBody map[string]any
	svc := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		emptyHits(w)
	}))

	_, err := svc.Search(context.Background(), &Request{Fulltext: "camp", Limit: docstore.MaxSize + 500})
	require.NoError(t, err)
	assert.Equal(t, float64(docstore.MaxSize), gotBody["size"])
}

func TestSearchTargetsModelIndices(t *testing.T) {
	var gotPath string
	svc := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		emptyHits(w)
	}))

	_, err := svc.Search(context.Background(), &Request{Fulltext: "camp", Models: []string{"segment"}})
	require.NoError(t, err)
	assert.Equal(t, "/ddrsegment/_search", gotPath)
}

func TestSearchAggregations(t *testing.T) {
	var gotBody map[string]any
	svc := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		emptyHits(w)
	}))

	_, err := svc.Search(context.Background(), &Request{Fulltext: "camp", Aggregations: true})
	require.NoError(t, err)
	aggs, ok := gotBody["aggregations"].(map[string]any)
	require.True(t, ok)
	for name := range SearchAggFields() {
		assert.Contains(t, aggs, name)
	}
}

func TestCount(t *testing.T) {
	var gotPath string
	svc := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"count": 7}`))
	}))

	count, err := svc.Count(context.Background(), &Request{Fulltext: "minidoka"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.Equal(t, "/ddrcollection,ddrentity,ddrsegment/_count", gotPath)
}

func TestCountEmpty(t *testing.T) {
	svc := testService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	_, err := svc.Count(context.Background(), &Request{})
	assert.ErrorIs(t, err, docstore.ErrEmptySearch)
}
