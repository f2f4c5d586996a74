package docstore

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

const (
	// MaxSize caps a single result window.
	MaxSize = 10000
	// DefaultPageSize is used when the caller gives no limit.
	DefaultPageSize = 20
)

// Docstore is a read-side façade over the cluster: existence checks,
// document gets, count/search passthrough, cluster health. Administrative
// operations live on Manager.
type Docstore struct {
	client      *Client
	indexPrefix string
	logger      *zap.Logger
}

// New wraps an existing client handle.
func New(client *Client, indexPrefix string, logger *zap.Logger) *Docstore {
	return &Docstore{client: client, indexPrefix: indexPrefix, logger: logger}
}

// Client exposes the underlying connection for components (Manager) that
// share it.
func (ds *Docstore) Client() *Client {
	return ds.client
}

// Host returns the connected host URL.
func (ds *Docstore) Host() string {
	return ds.client.Host()
}

// Health returns cluster health.
func (ds *Docstore) Health(ctx context.Context) (*ClusterHealth, error) {
	var out ClusterHealth
	if err := ds.client.doJSON(ctx, http.MethodGet, "/_cluster/health", nil, &out); err != nil {
		return nil, fmt.Errorf("cluster health: %w", err)
	}
	return &out, nil
}

// StartTest probes the cluster at application startup. Unreachable or
// unauthenticated clusters are logged as critical; the error is returned so
// the caller decides whether to continue or abort.
func (ds *Docstore) StartTest(ctx context.Context) error {
	if _, err := ds.Health(ctx); err != nil {
		if strings.Contains(err.Error(), "401") || strings.Contains(err.Error(), "403") {
			ds.logger.Error("CRITICAL: Elasticsearch cluster auth error", zap.Error(err))
		} else {
			ds.logger.Error("CRITICAL: Elasticsearch cluster unavailable", zap.Error(err))
		}
		return err
	}
	return nil
}

// Status returns per-index statistics (_stats).
func (ds *Docstore) Status(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := ds.client.doJSON(ctx, http.MethodGet, "/_stats", nil, &out); err != nil {
		return nil, fmt.Errorf("indices stats: %w", err)
	}
	return out, nil
}

// IndexName returns the physical index for a model. Indices carry an app
// prefix so multiple apps can share a cluster without name collisions.
func (ds *Docstore) IndexName(model string) string {
	return ds.indexPrefix + model
}

// IndexNames lists the index names currently in use.
func (ds *Docstore) IndexNames(ctx context.Context) ([]string, error) {
	status, err := ds.Status(ctx)
	if err != nil {
		return nil, err
	}
	indices, ok := status["indices"].(map[string]any)
	if !ok {
		return nil, nil
	}
	names := make([]string, 0, len(indices))
	for name := range indices {
		names = append(names, name)
	}
	return names, nil
}

// IndexExists reports whether the named index exists.
func (ds *Docstore) IndexExists(ctx context.Context, index string) (bool, error) {
	resp, err := ds.client.do(ctx, http.MethodHead, "/"+url.PathEscape(index), nil)
	if err != nil {
		return false, fmt.Errorf("check index: %w", err)
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// Exists reports whether the document exists in the model's index.
func (ds *Docstore) Exists(ctx context.Context, model, documentID string) (bool, error) {
	path := fmt.Sprintf("/%s/_doc/%s", ds.IndexName(model), url.PathEscape(documentID))
	resp, err := ds.client.do(ctx, http.MethodHead, path, nil)
	if err != nil {
		return false, fmt.Errorf("check document: %w", err)
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK, nil
}

// DocURL returns the engine URL for the document.
func (ds *Docstore) DocURL(model, documentID string) string {
	return fmt.Sprintf("%s/%s/_doc/%s", ds.client.Host(), ds.IndexName(model), documentID)
}

// Get fetches one document. A missing document returns (nil, nil).
func (ds *Docstore) Get(ctx context.Context, model, documentID string) (*Hit, error) {
	path := fmt.Sprintf("/%s/_doc/%s", ds.IndexName(model), url.PathEscape(documentID))
	resp, err := ds.client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode >= 400 {
		return nil, responseError(resp)
	}
	var hit Hit
	if err := decodeBody(resp, &hit); err != nil {
		return nil, err
	}
	return &hit, nil
}

// Count executes a query and returns the number of hits. An empty query is
// rejected before any request is sent.
func (ds *Docstore) Count(ctx context.Context, models []string, query map[string]any) (int64, error) {
	if len(query) == 0 {
		return 0, ErrEmptySearch
	}
	indices := ds.joinIndices(models)
	var out countResponse
	if err := ds.client.doJSON(ctx, http.MethodPost, "/"+indices+"/_count", query, &out); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return out.Count, nil
}

// SearchOptions controls one raw search passthrough.
type SearchOptions struct {
	Models []string       // doctypes, mapped through IndexName
	Query  map[string]any // full request body: query plus optional aggregations
	Sort   [][2]string    // (field, direction) pairs
	Fields []string       // source projection
	From   int
	Size   int
}

// Search executes a query and returns the raw response. The query body must
// conform to the engine's query DSL; see SearchQuery. An empty query is
// rejected before any request is sent.
func (ds *Docstore) Search(ctx context.Context, opts SearchOptions) (*SearchResponse, error) {
	if len(opts.Query) == 0 {
		return nil, ErrEmptySearch
	}
	if opts.Size <= 0 || opts.Size > MaxSize {
		opts.Size = MaxSize
	}
	body := map[string]any{
		"from": opts.From,
		"size": opts.Size,
	}
	for k, v := range opts.Query {
		body[k] = v
	}
	if len(opts.Fields) > 0 {
		body["_source"] = opts.Fields
	}

	path := "/" + ds.joinIndices(opts.Models) + "/_search"
	if sort := CleanSort(opts.Sort); sort != "" {
		path += "?sort=" + url.QueryEscape(sort)
	}

	var out SearchResponse
	if err := ds.client.doJSON(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return &out, nil
}

func (ds *Docstore) joinIndices(models []string) string {
	if len(models) == 0 {
		return "_all"
	}
	indices := make([]string, len(models))
	for i, m := range models {
		indices[i] = ds.IndexName(m)
	}
	return strings.Join(indices, ",")
}
