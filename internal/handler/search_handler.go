package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/denshoproject/densho-elastictools/internal/cache"
	"github.com/denshoproject/densho-elastictools/internal/docstore"
	"github.com/denshoproject/densho-elastictools/internal/metrics"
	"github.com/denshoproject/densho-elastictools/internal/search"
	"github.com/denshoproject/densho-elastictools/internal/service"
	"github.com/denshoproject/densho-elastictools/internal/validator"
)

// SearchHandler serves the search API.
type SearchHandler struct {
	svc       *service.SearchService
	mgr       *docstore.Manager
	validator *validator.Validator
	cache     *cache.ResultsCache // nil disables caching
	logger    *zap.Logger
}

func NewSearchHandler(svc *service.SearchService, mgr *docstore.Manager, resultsCache *cache.ResultsCache, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		svc:       svc,
		mgr:       mgr,
		validator: validator.New(service.SearchModels()),
		cache:     resultsCache,
		logger:    logger,
	}
}

// Search GET /api/search
//
// Parameters: fulltext, models (csv), parent, filter (repeatable,
// "field:value1,value2"), limit, offset XOR page, aggregations, pad.
func (h *SearchHandler) Search(c *gin.Context) {
	limit := intQuery(c, "limit")
	offset := intQuery(c, "offset")
	page := intQuery(c, "page")
	var models []string
	if raw := c.Query("models"); raw != "" {
		models = strings.Split(raw, ",")
	}

	if err := h.validator.ValidateSearchQuery(limit, offset, page, models); err != nil {
		metrics.SearchOutcome("invalid")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var cacheKey string
	if h.cache != nil {
		cacheKey = h.cache.Key(c.Request.URL.Path, c.Request.URL.Query())
		if cached := h.cache.GetPage(c.Request.Context(), cacheKey); cached != nil {
			metrics.CacheResult("hit")
			c.JSON(http.StatusOK, cached)
			return
		}
		metrics.CacheResult("miss")
	}

	req := &service.Request{
		Fulltext:     c.Query("fulltext"),
		Models:       models,
		Parent:       c.Query("parent"),
		Filters:      c.QueryArray("filter"),
		Limit:        limit,
		Offset:       offset,
		Page:         page,
		Aggregations: boolQuery(c, "aggregations"),
	}
	results, err := h.svc.Search(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, search.ErrOffsetAndPage) || errors.Is(err, docstore.ErrEmptySearch) {
			metrics.SearchOutcome("invalid")
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		metrics.SearchOutcome("error")
		h.logger.Error("search failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	apiPage := results.ToAPI(
		search.HTTPRequest{Request: c.Request},
		service.DefaultFormats(),
		boolQuery(c, "pad"),
	)
	if h.cache != nil {
		h.cache.PutPage(c.Request.Context(), cacheKey, apiPage)
	}
	metrics.SearchOutcome("ok")
	c.JSON(http.StatusOK, apiPage)
}

// GetObject GET /api/:model/:id
func (h *SearchHandler) GetObject(c *gin.Context) {
	model := c.Param("model")
	id := c.Param("id")
	if err := h.validator.ValidateDocument(model, id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hit, err := h.svc.Docstore().Get(c.Request.Context(), model, id)
	if err != nil {
		h.logger.Error("get object failed", zap.String("model", model), zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if hit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, hit.SourceMap())
}

// IndexDocument POST /api/index/:model?id=...
// The body is posted to the model's index as-is.
func (h *SearchHandler) IndexDocument(c *gin.Context) {
	model := c.Param("model")
	id := c.Query("id")
	if err := h.validator.ValidateDocument(model, id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	index := h.svc.Docstore().IndexName(model)
	if err := h.mgr.PostJSON(c.Request.Context(), index, id, body); err != nil {
		h.logger.Error("index document failed", zap.String("index", index), zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "url": h.svc.Docstore().DocURL(model, id)})
}

func intQuery(c *gin.Context, key string) int {
	n, _ := strconv.Atoi(c.Query(key))
	return n
}

func boolQuery(c *gin.Context, key string) bool {
	switch c.Query(key) {
	case "1", "true", "yes":
		return true
	}
	return false
}
