package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/denshoproject/densho-elastictools/internal/docstore"
	"github.com/denshoproject/densho-elastictools/internal/search"
)

// SearchService ties the Docstore to the repository search configuration:
// it translates caller-facing request parameters into a prepared Searcher
// and returns packaged results.
type SearchService struct {
	ds             *docstore.Docstore
	resultsPerPage int
	logger         *zap.Logger
}

func NewSearchService(ds *docstore.Docstore, resultsPerPage int, logger *zap.Logger) *SearchService {
	if resultsPerPage <= 0 {
		resultsPerPage = docstore.DefaultPageSize
	}
	return &SearchService{ds: ds, resultsPerPage: resultsPerPage, logger: logger}
}

// Docstore exposes the underlying façade for handlers that need direct
// document access.
func (s *SearchService) Docstore() *docstore.Docstore {
	return s.ds
}

// Request carries caller-facing search parameters.
//
// Filters entries look like "field:value1,value2". Offset and Page are
// alternatives; supplying both is a caller error. Aggregations toggles
// bucket aggregations on the configured aggregation fields.
type Request struct {
	Fulltext     string
	Models       []string
	Parent       string
	Filters      []string
	Limit        int
	Offset       int
	Page         int
	Aggregations bool
}

// Params renders the request as Searcher parameters.
func (r *Request) Params() (search.Params, error) {
	params := search.Params{}
	if r.Fulltext != "" {
		params.Set("fulltext", r.Fulltext)
	}
	if len(r.Models) > 0 {
		params["models"] = append([]string{}, r.Models...)
	}
	if r.Parent != "" {
		params.Set("parent", r.Parent)
	}
	for _, f := range r.Filters {
		field, values, ok := strings.Cut(f, ":")
		if !ok || field == "" || values == "" {
			return nil, fmt.Errorf("malformed filter %q: want field:value1,value2", f)
		}
		params[field] = append(params[field], strings.Split(values, ",")...)
	}
	return params, nil
}

// Search runs one fulltext search using the engine's query-string syntax.
//
// Search strings:
//
//	fulltext="seattle"
//	fulltext="fusa OR teruo"
//	fulltext="+fusa -teruo"
//	fulltext="title:seattle"
func (s *SearchService) Search(ctx context.Context, req *Request) (*search.Results, error) {
	if req == nil {
		req = &Request{}
	}
	if req.Offset != 0 && req.Page != 0 {
		return nil, search.ErrOffsetAndPage
	}

	params, err := req.Params()
	if err != nil {
		return nil, err
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.resultsPerPage
	}
	if limit > docstore.MaxSize {
		limit = docstore.MaxSize
	}
	offset := req.Offset
	if req.Page != 0 {
		offset = search.Offset(limit, req.Page)
	}
	if offset < 0 {
		offset = 0
	}

	var aggFields map[string]string
	if req.Aggregations {
		aggFields = SearchAggFields()
	}

	searcher := search.NewSearcher(s.ds)
	if err := searcher.Prepare(search.PrepareParams{
		Params:       params,
		Whitelist:    SearchParamWhitelist(),
		Models:       SearchModels(),
		Fields:       SearchIncludeFields(),
		NestedFields: SearchNestedFields(),
		AggFields:    aggFields,
	}); err != nil {
		return nil, fmt.Errorf("prepare search: %w", err)
	}

	s.logger.Debug("search",
		zap.Any("params", params),
		zap.Int("limit", limit),
		zap.Int("offset", offset),
	)
	results, err := searcher.Execute(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}
	return results, nil
}

// Count returns the number of hits for the request without fetching them.
func (s *SearchService) Count(ctx context.Context, req *Request) (int64, error) {
	if req == nil {
		req = &Request{}
	}
	query, err := docstore.SearchQuery(
		search.SanitizeInput(req.Fulltext), nil, nil, nil, nil,
	)
	if err != nil {
		return 0, err
	}
	models := req.Models
	if len(models) == 0 {
		models = SearchModels()
	}
	return s.ds.Count(ctx, models, query)
}
