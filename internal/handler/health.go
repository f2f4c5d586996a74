package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denshoproject/densho-elastictools/internal/docstore"
)

// HealthHandler reports process liveness and cluster readiness.
type HealthHandler struct {
	ds *docstore.Docstore
}

func NewHealthHandler(ds *docstore.Docstore) *HealthHandler {
	return &HealthHandler{ds: ds}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "elastictools",
		"time":    time.Now().Unix(),
	})
}

// Ready probes the cluster; not ready until it answers.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	health, err := h.ds.Health(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true, "cluster_status": health.Status})
}
