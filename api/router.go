package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/meghashyamc/docsearch/api/handlers"
	"github.com/meghashyamc/docsearch/logger"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, deps *Dependencies) {
	router.GET("/health", health())

	handlers.SetupDocuments(router, logger, deps.Documents, deps.Validator)
	handlers.SetupSearch(router, logger, deps.Search, deps.Validator)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter(logger logger.Logger) *gin.Engine {
	router := gin.New()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))

	return router
}
