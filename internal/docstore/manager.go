package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Manager performs administrative operations: index lifecycle, raw document
// posts, reindexing, snapshot/restore. It holds the base Docstore rather
// than extending it; the read and admin paths share one connection but
// expose disjoint capabilities.
type Manager struct {
	ds     *Docstore
	logger *zap.Logger
}

func NewManager(ds *Docstore, logger *zap.Logger) *Manager {
	return &Manager{ds: ds, logger: logger}
}

// IndexDef declares one index to create: the doctype plus its mapping.
type IndexDef struct {
	Model   string
	Mapping map[string]any
}

// OpStatus is the outcome of one administrative step. Batch operations
// return one per index so scripts can continue past individual failures.
type OpStatus struct {
	Index  string `json:"index"`
	Action string `json:"action"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// CreateIndices creates one index per definition. Existing indices are
// reported as already-present, not failures.
func (m *Manager) CreateIndices(ctx context.Context, defs []IndexDef) []OpStatus {
	statuses := make([]OpStatus, 0, len(defs))
	for _, def := range defs {
		index := m.ds.IndexName(def.Model)
		status := OpStatus{Index: index, Action: "create"}

		exists, err := m.ds.IndexExists(ctx, index)
		switch {
		case err != nil:
			status.Detail = err.Error()
		case exists:
			status.OK = true
			status.Detail = "index already exists"
		default:
			mapping := def.Mapping
			if mapping == nil {
				mapping = map[string]any{}
			}
			if err := m.ds.client.doJSON(ctx, http.MethodPut, "/"+index, mapping, nil); err != nil {
				status.Detail = err.Error()
			} else {
				status.OK = true
				status.Detail = "created"
			}
		}
		m.logStatus(status)
		statuses = append(statuses, status)
	}
	return statuses
}

// DeleteIndices removes the indices for the given models. A missing index
// is a structured failure status, not an error.
func (m *Manager) DeleteIndices(ctx context.Context, models []string) []OpStatus {
	statuses := make([]OpStatus, 0, len(models))
	for _, model := range models {
		index := m.ds.IndexName(model)
		status := OpStatus{Index: index, Action: "delete"}

		exists, err := m.ds.IndexExists(ctx, index)
		switch {
		case err != nil:
			status.Detail = err.Error()
		case !exists:
			status.Detail = "index does not exist"
		default:
			if err := m.ds.client.doJSON(ctx, http.MethodDelete, "/"+index, nil, nil); err != nil {
				status.Detail = err.Error()
			} else {
				status.OK = true
				status.Detail = "deleted"
			}
		}
		m.logStatus(status)
		statuses = append(statuses, status)
	}
	return statuses
}

// GetMappings fetches the mappings of every index.
func (m *Manager) GetMappings(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := m.ds.client.doJSON(ctx, http.MethodGet, "/_mapping", nil, &out); err != nil {
		return nil, fmt.Errorf("get mappings: %w", err)
	}
	return out, nil
}

// PostJSON indexes a raw document by id.
func (m *Manager) PostJSON(ctx context.Context, index, documentID string, document json.RawMessage) error {
	path := fmt.Sprintf("/%s/_doc/%s", index, url.PathEscape(documentID))
	if err := m.ds.client.doJSON(ctx, http.MethodPut, path, document, nil); err != nil {
		return fmt.Errorf("post document %s/%s: %w", index, documentID, err)
	}
	return nil
}

// DeleteDocument removes a document by id. Missing documents are not errors.
func (m *Manager) DeleteDocument(ctx context.Context, index, documentID string) error {
	path := fmt.Sprintf("/%s/_doc/%s", index, url.PathEscape(documentID))
	resp, err := m.ds.client.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return fmt.Errorf("delete document %s/%s: %w", index, documentID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		return responseError(resp)
	}
	return nil
}

// Reindex copies source into dest using the engine's _reindex API (7.x
// request shape). Either index missing is a structured failure so batch
// scripts can continue.
func (m *Manager) Reindex(ctx context.Context, source, dest string) OpStatus {
	status := OpStatus{Index: dest, Action: "reindex"}

	for _, index := range []string{source, dest} {
		exists, err := m.ds.IndexExists(ctx, index)
		if err != nil {
			status.Detail = err.Error()
			return status
		}
		if !exists {
			status.Detail = fmt.Sprintf("index %s does not exist", index)
			return status
		}
	}

	body := map[string]any{
		"source": map[string]any{"index": source},
		"dest":   map[string]any{"index": dest},
	}
	var out map[string]any
	if err := m.ds.client.doJSON(ctx, http.MethodPost, "/_reindex", body, &out); err != nil {
		status.Detail = err.Error()
		return status
	}
	status.OK = true
	if took, ok := out["took"].(float64); ok {
		status.Detail = fmt.Sprintf("reindexed %s -> %s in %dms", source, dest, int64(took))
	} else {
		status.Detail = fmt.Sprintf("reindexed %s -> %s", source, dest)
	}
	m.logStatus(status)
	return status
}

// EnsureSnapshotRepo registers (or re-registers) a filesystem snapshot
// repository and verifies it.
func (m *Manager) EnsureSnapshotRepo(ctx context.Context, repo, location string) error {
	body := map[string]any{
		"type":     "fs",
		"settings": map[string]any{"location": location},
	}
	if err := m.ds.client.doJSON(ctx, http.MethodPut, "/_snapshot/"+url.PathEscape(repo), body, nil); err != nil {
		return fmt.Errorf("create snapshot repo %s: %w", repo, err)
	}
	if err := m.ds.client.doJSON(ctx, http.MethodPost, "/_snapshot/"+url.PathEscape(repo)+"/_verify", nil, nil); err != nil {
		return fmt.Errorf("verify snapshot repo %s: %w", repo, err)
	}
	return nil
}

// Snapshot starts a snapshot of the given indices and returns its name.
// An empty name gets a generated one. The call is fire-and-start: progress
// is observed by polling SnapshotStatus, not awaited here.
func (m *Manager) Snapshot(ctx context.Context, repo, name string, indices []string) (string, error) {
	if name == "" {
		name = "snapshot-" + uuid.NewString()
	}
	body := map[string]any{}
	if len(indices) > 0 {
		body["indices"] = indices
	}
	path := fmt.Sprintf("/_snapshot/%s/%s", url.PathEscape(repo), url.PathEscape(name))
	if err := m.ds.client.doJSON(ctx, http.MethodPut, path, body, nil); err != nil {
		return "", fmt.Errorf("snapshot %s/%s: %w", repo, name, err)
	}
	m.logger.Info("snapshot started", zap.String("repo", repo), zap.String("snapshot", name))
	return name, nil
}

// Restore starts restoring a snapshot over the given indices.
func (m *Manager) Restore(ctx context.Context, repo, name string, indices []string) error {
	body := map[string]any{}
	if len(indices) > 0 {
		body["indices"] = indices
	}
	path := fmt.Sprintf("/_snapshot/%s/%s/_restore", url.PathEscape(repo), url.PathEscape(name))
	if err := m.ds.client.doJSON(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("restore %s/%s: %w", repo, name, err)
	}
	m.logger.Info("restore started", zap.String("repo", repo), zap.String("snapshot", name))
	return nil
}

// SnapshotStatus fetches the current state of a snapshot.
func (m *Manager) SnapshotStatus(ctx context.Context, repo, name string) (map[string]any, error) {
	path := fmt.Sprintf("/_snapshot/%s/%s/_status", url.PathEscape(repo), url.PathEscape(name))
	var out map[string]any
	if err := m.ds.client.doJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("snapshot status %s/%s: %w", repo, name, err)
	}
	return out, nil
}

func (m *Manager) logStatus(s OpStatus) {
	if s.OK {
		m.logger.Info("admin op", zap.String("action", s.Action), zap.String("index", s.Index), zap.String("detail", s.Detail))
	} else {
		m.logger.Warn("admin op failed", zap.String("action", s.Action), zap.String("index", s.Index), zap.String("detail", s.Detail))
	}
}
