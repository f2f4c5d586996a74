package search

import (
	"context"
	"errors"

	"github.com/denshoproject/densho-elastictools/internal/docstore"
)

// ErrNotPrepared marks a caller error: Execute before Prepare.
var ErrNotPrepared = errors.New("searcher has no prepared query; call Prepare first")

// Relation fields with special browse behavior: an exact nested lookup when
// used as the primary query clause.
var nestedRelationFields = map[string]string{
	"creators": "namepart",
	"persons":  "namepart",
	"topics":   "id",
	"facility": "id",
}

// aggBucketSize caps nested terms buckets.
const aggBucketSize = 1000

// PrepareParams configures one search request.
type PrepareParams struct {
	Params       Params            // raw caller parameters
	Whitelist    []string          // accepted parameter names
	Models       []string          // default target doctypes
	Sort         [][2]string       // (field, direction) pairs
	Fields       []string          // source projection + fulltext targets
	NestedFields []string          // filter on denormalized <field>_id
	AggFields    map[string]string // aggregation name -> field
}

// Searcher assembles one search request against a Docstore and executes it.
// It holds per-request state; build a fresh one per request.
type Searcher struct {
	ds       *docstore.Docstore
	params   Params
	query    map[string]any
	models   []string
	sort     [][2]string
	fields   []string
	prepared bool
}

func NewSearcher(ds *docstore.Docstore) *Searcher {
	return &Searcher{ds: ds}
}

// Params returns the sanitized copy of the caller parameters.
func (s *Searcher) Params() Params {
	return s.params
}

// Query returns the assembled request body.
func (s *Searcher) Query() map[string]any {
	return s.query
}

// Prepare assembles the not-yet-executed query from caller parameters.
//
// Exactly one primary clause is chosen, by priority: explicit match_all,
// else free-text query-string search across p.Fields, else an exact nested
// lookup on one of the relation fields, else a wildcard id prefix match
// when parent is given. Remaining whitelisted parameters become term
// filters; declared nested fields filter on their denormalized scalar form.
func (s *Searcher) Prepare(p PrepareParams) error {
	// keep a sanitized copy for SearchResults and informational output
	s.params = p.Params.Sanitized()

	params := s.params.Copy()
	params.Scrub(p.Whitelist)

	s.models = p.Models
	if models := params["models"]; len(models) > 0 {
		s.models = models
	}
	delete(params, "models")
	delete(params, "page")

	s.sort = p.Sort
	s.fields = p.Fields

	nested := make(map[string]bool, len(p.NestedFields))
	for _, f := range p.NestedFields {
		nested[f] = true
	}

	var must, filter []map[string]any

	// primary query clause
	switch {
	case params.First("match_all") != "":
		delete(params, "match_all")

	case params.First("fulltext") != "":
		fulltext := params.First("fulltext")
		delete(params, "fulltext")
		must = append(must, map[string]any{
			"query_string": map[string]any{
				"query":                  fulltext,
				"fields":                 p.Fields,
				"analyze_wildcard":       false,
				"allow_leading_wildcard": false,
				"default_operator":       "AND",
			},
		})

	default:
		for _, field := range []string{"creators", "persons", "topics", "facility"} {
			value := params.First(field)
			if value == "" {
				continue
			}
			delete(params, field)
			subfield := field + "." + nestedRelationFields[field]
			must = append(must, map[string]any{
				"nested": map[string]any{
					"path": field,
					"query": map[string]any{
						"term": map[string]any{subfield: value},
					},
				},
			})
			break
		}
	}

	if parent := params.First("parent"); parent != "" {
		delete(params, "parent")
		must = append(must, map[string]any{
			"wildcard": map[string]any{"id": parent + "-*"},
		})
	}

	// remaining whitelisted params become filters
	for key, vals := range params {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		field := key
		if nested[key] {
			// search on the denormalized flat scalar instead of a nested
			// query; much cheaper for plain filtering
			field = key + "_id"
		}
		filter = append(filter, termClause(field, vals))
	}

	query := map[string]any{}
	if len(must) == 0 && len(filter) == 0 {
		query["query"] = map[string]any{"match_all": map[string]any{}}
	} else {
		boolQuery := map[string]any{}
		if len(must) > 0 {
			boolQuery["must"] = must
		}
		if len(filter) > 0 {
			boolQuery["filter"] = filter
		}
		query["query"] = map[string]any{"bool": boolQuery}
	}

	if aggs := buildAggs(p.AggFields); len(aggs) > 0 {
		query["aggregations"] = aggs
	}

	s.query = query
	s.prepared = true
	return nil
}

func termClause(field string, vals []string) map[string]any {
	if len(vals) == 1 {
		return map[string]any{"term": map[string]any{field: vals[0]}}
	}
	return map[string]any{"terms": map[string]any{field: vals}}
}

func buildAggs(aggFields map[string]string) map[string]any {
	aggs := make(map[string]any, len(aggFields))
	for name, field := range aggFields {
		switch name {
		case "topics", "facility":
			// two-level nested bucket aggregation: outer nested wrapper,
			// inner terms bucket keyed by the relation id
			aggs[name] = map[string]any{
				"nested": map[string]any{"path": name},
				"aggregations": map[string]any{
					name + "_ids": map[string]any{
						"terms": map[string]any{
							"field": name + ".id",
							"size":  aggBucketSize,
						},
					},
				},
			}
		default:
			aggs[name] = map[string]any{
				"terms": map[string]any{"field": field},
			}
		}
	}
	return aggs
}

// Execute requests one result window and wraps the response.
// Calling Execute before Prepare is a usage fault.
func (s *Searcher) Execute(ctx context.Context, limit, offset int) (*Results, error) {
	if !s.prepared {
		return nil, ErrNotPrepared
	}
	start, stop := StartStop(limit, offset)
	resp, err := s.ds.Search(ctx, docstore.SearchOptions{
		Models: s.models,
		Query:  s.query,
		Sort:   s.sort,
		Fields: s.fields,
		From:   start,
		Size:   stop - start,
	})
	if err != nil {
		return nil, err
	}
	return NewResults(s.params, s.query, resp, limit, offset), nil
}
