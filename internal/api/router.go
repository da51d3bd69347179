package api

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// #region router-config
// RouterConfig controls the optional parts of the router.
type RouterConfig struct {
	AllowedOrigins []string
	Metrics        http.Handler // served on GET /metrics when set
}

// #endregion router-config

// #region router
// NewRouter builds the gin engine with every route registered.
func NewRouter(h *Handlers, cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(CORS(cfg.AllowedOrigins))
	}
	RegisterRoutes(router, h)
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics))
	}
	return router
}

// RegisterRoutes attaches the API routes to r.
func RegisterRoutes(r gin.IRoutes, h *Handlers) {
	r.POST("/compare", h.HandleCompare)
	r.POST("/assess", h.HandleAssess)
	r.GET("/stats", h.HandleStats)
	r.GET("/runs/:id", h.HandleRun)
	r.GET("/healthz", h.HandleHealth)
}

// #endregion router

// #region cors
// CORS allows credentialed requests from the listed origins. "*" allows any
// origin. Preflight requests are answered with 204; requests from other
// origins are refused with 403.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		MaxAge:           10 * time.Minute,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowOriginFunc = func(string) bool { return true }
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// #endregion cors
