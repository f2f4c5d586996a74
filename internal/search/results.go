package search

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/denshoproject/densho-elastictools/internal/docstore"
)

// Object is one result document with its origin index.
type Object struct {
	Index  string         `json:"index"`
	ID     string         `json:"id"`
	Source map[string]any `json:"source"`
}

// Results packages one engine response (or a plain object list, or a bare
// count) for use in the API and UI: total count, the page of objects,
// simplified aggregation buckets, and pagination coordinates.
//
// PrevOffset is nil when offset-limit < 0; NextOffset is nil once
// offset+limit >= total.
type Results struct {
	Params       Params
	Query        map[string]any
	Aggregations map[string]map[string]int64
	Objects      []Object
	Total        int64
	Limit        int
	Offset       int
	PrevOffset   *int
	NextOffset   *int
	PageSize     int
	ThisPage     int
	PrevPage     *int
	NextPage     *int

	// page window in object coordinates, used for grid padding
	pageStart int
	pageNext  int
}

// NewResults wraps a raw engine response.
func NewResults(params Params, query map[string]any, resp *docstore.SearchResponse, limit, offset int) *Results {
	r := &Results{
		Params: params.Copy(),
		Query:  query,
		Limit:  limit,
		Offset: offset,
	}
	if resp != nil {
		r.Total = resp.Hits.Total.Value
		r.Objects = make([]Object, 0, len(resp.Hits.Hits))
		for _, hit := range resp.Hits.Hits {
			r.Objects = append(r.Objects, Object{
				Index:  hit.Index,
				ID:     hit.ID,
				Source: hit.SourceMap(),
			})
		}
		r.Aggregations = docstore.AggsDict(resp.Aggregations)
	}
	r.paginate()
	return r
}

// NewObjectResults wraps an already-materialized object list.
func NewObjectResults(params Params, objects []Object, limit, offset int) *Results {
	r := &Results{
		Params:  params.Copy(),
		Objects: objects,
		Total:   int64(len(objects)),
		Limit:   limit,
		Offset:  offset,
	}
	r.paginate()
	return r
}

// NewCountResults wraps a bare hit count.
func NewCountResults(params Params, count int64, limit, offset int) *Results {
	r := &Results{
		Params: params.Copy(),
		Total:  count,
		Limit:  limit,
		Offset: offset,
	}
	r.paginate()
	return r
}

func (r *Results) paginate() {
	if r.Limit <= 0 {
		r.Limit = DefaultLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
	if prev := r.Offset - r.Limit; prev >= 0 {
		r.PrevOffset = &prev
		page := Page(r.Limit, prev)
		r.PrevPage = &page
	}
	if next := r.Offset + r.Limit; int64(next) < r.Total {
		r.NextOffset = &next
		page := Page(r.Limit, next)
		r.NextPage = &page
	}
	r.PageSize = r.Limit
	r.ThisPage = Page(r.Limit, r.Offset)
	r.pageStart = (r.ThisPage - 1) * r.PageSize
	r.pageNext = r.ThisPage * r.PageSize
}

func (r *Results) String() string {
	if r.Total > 0 {
		return fmt.Sprintf("<Results [%d-%d/%d] %v>", r.Offset, r.Offset+r.Limit, r.Total, map[string][]string(r.Params))
	}
	return fmt.Sprintf("<Results [%d] %v>", r.Total, map[string][]string(r.Params))
}

// FormatFunc renders one result object for API output.
type FormatFunc func(rc RequestContext, obj Object) map[string]any

// FormatFuncs maps an object's origin collection (model or index name) to
// its formatter.
type FormatFuncs map[string]FormatFunc

// ResultsPage is the API-facing response shape.
type ResultsPage struct {
	Total        int64                       `json:"total"`
	Limit        int                         `json:"limit"`
	Offset       int                         `json:"offset"`
	PrevOffset   *int                        `json:"prev_offset"`
	NextOffset   *int                        `json:"next_offset"`
	PageSize     int                         `json:"page_size"`
	ThisPage     int                         `json:"this_page"`
	NumThisPage  int                         `json:"num_this_page"`
	PrevAPI      string                      `json:"prev_api"`
	NextAPI      string                      `json:"next_api"`
	Objects      []map[string]any            `json:"objects"`
	Query        map[string]any              `json:"query"`
	Aggregations map[string]map[string]int64 `json:"aggregations"`
}

// ToAPI renders the results for the calling context. Each object goes
// through the formatter keyed by its origin collection; objects without one
// pass through as their raw source. pad surrounds the real page with
// {"n": i} placeholders so callers can render a fixed-size grid.
func (r *Results) ToAPI(rc RequestContext, formats FormatFuncs, pad bool) *ResultsPage {
	page := &ResultsPage{
		Total:        r.Total,
		Limit:        r.Limit,
		Offset:       r.Offset,
		PrevOffset:   r.PrevOffset,
		NextOffset:   r.NextOffset,
		PageSize:     r.PageSize,
		ThisPage:     r.ThisPage,
		NumThisPage:  len(r.Objects),
		Objects:      []map[string]any{},
		Query:        r.Query,
		Aggregations: r.Aggregations,
	}

	if pad {
		for n := 0; n < r.pageStart; n++ {
			page.Objects = append(page.Objects, map[string]any{"n": n})
		}
	}
	for _, obj := range r.Objects {
		if format := formats.lookup(obj.Index); format != nil {
			page.Objects = append(page.Objects, format(rc, obj))
		} else {
			page.Objects = append(page.Objects, obj.Source)
		}
	}
	if pad {
		for n := r.pageNext; int64(n) < r.Total; n++ {
			page.Objects = append(page.Objects, map[string]any{"n": n})
		}
	}

	query := rc.Query()
	query.Del("page")
	query.Del("limit")
	query.Del("offset")

	if r.PrevOffset != nil {
		page.PrevAPI = r.prevNextURL(rc, query, *r.PrevOffset)
	}
	if r.NextOffset != nil {
		page.NextAPI = r.prevNextURL(rc, query, *r.NextOffset)
	}
	return page
}

// prevNextURL rebuilds the caller's query string with updated pagination.
// A context with no host yields just the query string.
func (r *Results) prevNextURL(rc RequestContext, query url.Values, offset int) string {
	q := url.Values{}
	for key, vals := range query {
		q[key] = vals
	}
	q.Set("limit", fmt.Sprint(r.Limit))
	q.Set("offset", fmt.Sprint(offset))

	if rc.Host() == "" {
		return "?" + q.Encode()
	}
	u := url.URL{
		Scheme:   rc.Scheme(),
		Host:     rc.Host(),
		Path:     rc.Path(),
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (f FormatFuncs) lookup(index string) FormatFunc {
	if format, ok := f[index]; ok {
		return format
	}
	// formatters are usually keyed by model; physical indices carry an app
	// prefix in front of the model name
	for key, format := range f {
		if strings.HasSuffix(index, key) {
			return format
		}
	}
	return nil
}
