package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/denshoproject/densho-elastictools/api"
	"github.com/denshoproject/densho-elastictools/internal/handler"
	"github.com/denshoproject/densho-elastictools/internal/metrics"
)

const (
	pathHealth  = "/health"
	pathReady   = "/ready"
	pathMetrics = "/metrics"
	pathSwagger = "/swagger"
)

func New(searchHandler *handler.SearchHandler, healthHandler *handler.HealthHandler) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.GinMiddleware())

	r.GET(pathHealth, healthHandler.Health)
	r.GET(pathReady, healthHandler.Ready)
	r.GET(pathMetrics, gin.WrapH(metrics.Handler()))

	r.GET(pathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, pathSwagger+"/") })
	r.GET(pathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = pathSwagger + "/index.html"
			c.Request.RequestURI = pathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/openapi.json"))(c)
	})

	r.GET("/api/search", searchHandler.Search)
	r.GET("/api/:model/:id", searchHandler.GetObject)
	r.POST("/api/index/:model", searchHandler.IndexDocument)
	return r
}
