package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/archboard/archboard-backend/internal/handlers"
	"github.com/archboard/archboard-backend/internal/middleware"
)

type RouterConfig struct {
	RequestLogMiddleware *middleware.RequestLogMiddleware
	HypothesisHandler    *handlers.HypothesisHandler
	PlanningHandler      *handlers.PlanningHandler
	EventHandler         *handlers.EventHandler
	StatsHandler         *handlers.StatsHandler
	AllowOrigins         []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	RegisterValidators()

	router := gin.Default()
	router.Use(otelgin.Middleware("archboard"))
	if cfg.RequestLogMiddleware != nil {
		router.Use(cfg.RequestLogMiddleware.Handler())
	}

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// stats before :id so "stats" is not parsed as a hypothesis id
		api.GET("/hypotheses/stats", cfg.StatsHandler.GetStats)

		api.POST("/hypotheses", cfg.HypothesisHandler.Create)
		api.GET("/hypotheses", cfg.HypothesisHandler.GetAll)
		api.GET("/hypotheses/:id", cfg.HypothesisHandler.GetByID)
		api.PUT("/hypotheses/:id", cfg.HypothesisHandler.Update)
		api.DELETE("/hypotheses/:id", cfg.HypothesisHandler.Delete)
		api.GET("/hypotheses/:id/events", cfg.EventHandler.GetEvents)

		api.POST("/hypotheses/:id/plannings", cfg.PlanningHandler.Create)
		api.GET("/hypotheses/:id/plannings", cfg.PlanningHandler.GetByHypothesis)
		api.PUT("/plannings/:id", cfg.PlanningHandler.Update)
		api.DELETE("/plannings/:id", cfg.PlanningHandler.Delete)

		api.GET("/entity-refs", cfg.HypothesisHandler.GetReferencedEntityRefs)
		api.GET("/teams", cfg.HypothesisHandler.GetTeams)
	}

	return router
}
