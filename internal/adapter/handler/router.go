package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/johnquangdev/clientpulse/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg      *config.Config
	cron     *Cron
	cronAuth echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, cron *Cron, cronAuth echo.MiddlewareFunc) *Router {
	return &Router{
		cfg:      cfg,
		cron:     cron,
		cronAuth: cronAuth,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	rt.setupCronRoutes(v1)
}

// setupCronRoutes configures scheduler routes
func (rt *Router) setupCronRoutes(g *echo.Group) {
	cronGroup := g.Group("/cron", rt.cronAuth)

	cronGroup.GET("/sync-knowledge-sources", rt.cron.SyncKnowledgeSources)
	cronGroup.GET("/knowledge-sources", rt.cron.ListKnowledgeSources)
}

// healthCheck returns health status
// @Summary      Health check
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /health [get]
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().UTC().Format(time.RFC3339),
		"environment": rt.cfg.Server.Environment,
	})
}
