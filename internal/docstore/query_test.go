package docstore

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQueryEmpty(t *testing.T) {
	_, err := SearchQuery("", nil, nil, nil, nil)
	assert.ErrorIs(t, err, ErrEmptySearch)
}

func TestSearchQueryText(t *testing.T) {
	body, err := SearchQuery("seattle", nil, nil, nil, nil)
	require.NoError(t, err)

	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	must := boolQuery["must"].([]map[string]any)
	require.Len(t, must, 1)
	assert.Equal(t, map[string]any{
		"query_string": map[string]any{"query": "seattle"},
	}, must[0])
	assert.Empty(t, boolQuery["should"])
	assert.Empty(t, boolQuery["must_not"])
	assert.NotContains(t, body, "aggregations")
}

func TestSearchQueryClauses(t *testing.T) {
	must := []map[string]any{{"match": map[string]any{"title": "camp"}}}
	aggs := map[string]any{"format": map[string]any{"terms": map[string]any{"field": "format"}}}

	body, err := SearchQuery("minidoka", must, nil, nil, aggs)
	require.NoError(t, err)

	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	got := boolQuery["must"].([]map[string]any)
	require.Len(t, got, 2)
	assert.Equal(t, must[0], got[0])
	assert.Contains(t, got[1], "query_string")
	assert.Equal(t, aggs, body["aggregations"])

	// the caller's slice is not shared with the body
	assert.Len(t, must, 1)
}

func TestAggsDict(t *testing.T) {
	aggregations := map[string]json.RawMessage{
		"format": json.RawMessage(`{
			"doc_count_error_upper_bound": 0,
			"buckets": [
				{"key": "ds", "doc_count": 2},
				{"key": "img", "doc_count": 1}
			]
		}`),
		"topics": json.RawMessage(`{
			"doc_count": 9,
			"topics_ids": {
				"buckets": [{"key": 69, "doc_count": 9}]
			}
		}`),
		"public": json.RawMessage(`{
			"buckets": [{"key": 1, "key_as_string": "true", "doc_count": 7}]
		}`),
	}

	got := AggsDict(aggregations)
	assert.Equal(t, map[string]map[string]int64{
		"format": {"ds": 2, "img": 1},
		"topics": {"69": 9},
		"public": {"true": 7},
	}, got)
}

func TestAggsDictEmpty(t *testing.T) {
	assert.Nil(t, AggsDict(nil))
	assert.Nil(t, AggsDict(map[string]json.RawMessage{}))
}

func TestBucketKey(t *testing.T) {
	assert.Equal(t, "ds", bucketKey(map[string]any{"key": "ds"}))
	assert.Equal(t, "69", bucketKey(map[string]any{"key": float64(69)}))
	assert.Equal(t, "2.5", bucketKey(map[string]any{"key": 2.5}))
	assert.Equal(t, "true", bucketKey(map[string]any{"key": float64(1), "key_as_string": "true"}))
}

func TestCleanDict(t *testing.T) {
	data := map[string]any{
		"title":  "camp",
		"empty":  "",
		"none":   nil,
		"list":   []any{},
		"dict":   map[string]any{},
		"keep":   []any{"x"},
		"nested": map[string]any{"a": 1},
	}
	CleanDict(data)
	assert.Equal(t, map[string]any{
		"title":  "camp",
		"keep":   []any{"x"},
		"nested": map[string]any{"a": 1},
	}, data)
}

func TestCleanSort(t *testing.T) {
	tests := []struct {
		name string
		sort [][2]string
		want string
	}{
		{"empty", nil, ""},
		{"single", [][2]string{{"id", "asc"}}, "id:asc"},
		{"multiple", [][2]string{{"id", "asc"}, {"title", "desc"}}, "id:asc,title:desc"},
		{"no direction", [][2]string{{"id", ""}}, "id"},
		{"empty field rejects all", [][2]string{{"id", "asc"}, {"", "desc"}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanSort(tt.sort))
		})
	}
}

func TestCluster(t *testing.T) {
	clusters := `{"green": ["192.168.0.19"], "blue": ["192.168.0.20"]}`

	tests := []struct {
		name     string
		clusters string
		host     string
		want     string
	}{
		{"not configured", "", "192.168.0.19:9200", "docstore clusters not configured"},
		{"bad json", "{nope", "192.168.0.19:9200", "cannot parse docstore clusters setting"},
		{"match", clusters, "192.168.0.19:9200", "green"},
		{"match other", clusters, "192.168.0.20:9200", "blue"},
		{"scheme stripped", clusters, "http://192.168.0.19:9200", "green"},
		{"unknown host", clusters, "10.0.0.1:9200", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cluster(tt.clusters, tt.host))
		})
	}
}
