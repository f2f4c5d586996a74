package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptySearch marks a caller error: a query with no text, no clauses and
// no aggregations. It is raised before anything goes over the wire.
var ErrEmptySearch = errors.New("can't do an empty search: no text, clauses, or aggregations")

// SearchQuery assembles a request body conforming to the engine's query DSL
// from optional must/should/must_not clause lists, a free-text query, and an
// aggregations subquery. Free text becomes an additional must clause.
//
// Clause dicts look like:
//   - {"match": {"fieldname": "value"}}
//   - {"terms": {"fieldname": ["value1", "value2"]}}
//   - {"range": {"fieldname.subfield": {"gt": 20, "lte": 31}}}
//   - {"exists": {"field": "title"}}
func SearchQuery(text string, must, should, mustNot []map[string]any, aggs map[string]any) (map[string]any, error) {
	if text == "" && len(must) == 0 && len(should) == 0 && len(mustNot) == 0 && len(aggs) == 0 {
		return nil, ErrEmptySearch
	}
	// Fresh slices every call; clause lists passed by callers are not shared
	// or mutated across invocations.
	mustClauses := make([]map[string]any, 0, len(must)+1)
	mustClauses = append(mustClauses, must...)
	if text != "" {
		mustClauses = append(mustClauses, map[string]any{
			"query_string": map[string]any{"query": text},
		})
	}
	body := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must":     mustClauses,
				"should":   append([]map[string]any{}, should...),
				"must_not": append([]map[string]any{}, mustNot...),
			},
		},
	}
	if len(aggs) > 0 {
		body["aggregations"] = aggs
	}
	return body, nil
}

// AggsDict simplifies raw aggregations data from a search response.
//
// input:
//
//	{"format": {"buckets": [{"key": "ds", "doc_count": 2}], ...},
//	 "topics": {"doc_count": 9, "topics_ids": {"buckets": [{"key": 69, "doc_count": 9}]}}}
//
// output:
//
//	{"format": {"ds": 2}, "topics": {"69": 9}}
//
// Two-level nested aggregations are flattened to their inner terms buckets.
func AggsDict(aggregations map[string]json.RawMessage) map[string]map[string]int64 {
	if len(aggregations) == 0 {
		return nil
	}
	out := make(map[string]map[string]int64, len(aggregations))
	for field, raw := range aggregations {
		var data map[string]any
		if err := json.Unmarshal(raw, &data); err != nil {
			continue
		}
		out[field] = bucketCounts(data)
	}
	return out
}

// bucketCounts extracts {bucket_key: doc_count} from a terms aggregation
// body, descending one level when the buckets live inside a nested wrapper.
func bucketCounts(data map[string]any) map[string]int64 {
	buckets, ok := data["buckets"].([]any)
	if !ok {
		// nested wrapper: find the inner terms aggregation
		for key, val := range data {
			if key == "doc_count" {
				continue
			}
			if inner, ok := val.(map[string]any); ok {
				if b, ok := inner["buckets"].([]any); ok {
					buckets = b
					break
				}
			}
		}
	}
	counts := make(map[string]int64, len(buckets))
	for _, b := range buckets {
		bucket, ok := b.(map[string]any)
		if !ok {
			continue
		}
		key := bucketKey(bucket)
		if count, ok := bucket["doc_count"].(float64); ok && key != "" {
			counts[key] = int64(count)
		}
	}
	return counts
}

func bucketKey(bucket map[string]any) string {
	if s, ok := bucket["key_as_string"].(string); ok {
		return s
	}
	switch k := bucket["key"].(type) {
	case string:
		return k
	case float64:
		if k == float64(int64(k)) {
			return strconv.FormatInt(int64(k), 10)
		}
		return strconv.FormatFloat(k, 'f', -1, 64)
	default:
		return fmt.Sprint(k)
	}
}

// CleanDict removes empty fields in place; the engine chokes on them.
func CleanDict(data map[string]any) {
	for key, val := range data {
		switch v := val.(type) {
		case nil:
			delete(data, key)
		case string:
			if v == "" {
				delete(data, key)
			}
		case []any:
			if len(v) == 0 {
				delete(data, key)
			}
		case map[string]any:
			if len(v) == 0 {
				delete(data, key)
			}
		}
	}
}

// CleanSort renders (field, direction) pairs as the comma-separated
// "field:dir" list the sort query parameter wants. Pairs with an empty
// field are rejected, yielding an empty string.
func CleanSort(sort [][2]string) string {
	if len(sort) == 0 {
		return ""
	}
	parts := make([]string, 0, len(sort))
	for _, pair := range sort {
		if pair[0] == "" {
			return ""
		}
		if pair[1] == "" {
			parts = append(parts, pair[0])
			continue
		}
		parts = append(parts, pair[0]+":"+pair[1])
	}
	return strings.Join(parts, ",")
}

// Cluster reports which configured cluster the connected host belongs to.
// clusters is operator-supplied JSON, e.g.
//
//	{"green": ["192.168.0.19"], "blue": ["192.168.0.20"]}
//
// Configuration problems come back as descriptive strings, not errors; this
// feeds operator-facing diagnostics where a partial answer beats a crash.
func Cluster(clusters, hostPort string) string {
	if clusters == "" {
		return "docstore clusters not configured"
	}
	var parsed map[string][]string
	if err := json.Unmarshal([]byte(clusters), &parsed); err != nil {
		return "cannot parse docstore clusters setting"
	}
	byIP := map[string]string{}
	for name, ips := range parsed {
		for _, ip := range ips {
			byIP[ip] = name
		}
	}
	host := hostPort
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	host = strings.SplitN(host, ":", 2)[0]
	if name, ok := byIP[host]; ok {
		return name
	}
	return "unknown"
}
