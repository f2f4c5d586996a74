package docstore

import "encoding/json"

// SearchResponse is the subset of the _search response this layer reads.
// Aggregations stay raw; AggsDict simplifies them on demand.
type SearchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value    int64  `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		Hits []Hit `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

// Hit is one search result document.
type Hit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  *float64        `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// SourceMap decodes the document source. Returns an empty map on malformed
// source rather than failing the whole page.
func (h Hit) SourceMap() map[string]any {
	out := map[string]any{}
	if len(h.Source) > 0 {
		_ = json.Unmarshal(h.Source, &out)
	}
	return out
}

// ClusterHealth is the subset of _cluster/health this layer reads.
type ClusterHealth struct {
	ClusterName         string `json:"cluster_name"`
	Status              string `json:"status"`
	NumberOfNodes       int    `json:"number_of_nodes"`
	ActivePrimaryShards int    `json:"active_primary_shards"`
	ActiveShards        int    `json:"active_shards"`
	UnassignedShards    int    `json:"unassigned_shards"`
}

type countResponse struct {
	Count int64 `json:"count"`
}
