// Package router assembles the HTTP API.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/config"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/handlers"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/metrics"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/middleware"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"

	_ "github.com/MaMo-Cyber/App-Cost-sub000/internal/docs" // Import swagger docs
)

// New wires services and handlers over db and returns the gin engine.
func New(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	auditService := services.NewAuditService(db)
	projectService := services.NewProjectService(db)
	phaseService := services.NewPhaseService(db)
	categoryService := services.NewCostCategoryService(db)
	entryService := services.NewCostEntryService(db)
	obligationService := services.NewObligationService(db)
	milestoneService := services.NewMilestoneService(db)
	dashboardService := services.NewDashboardService(db, cfg.EVM, cfg.Dashboard)

	// Initialize handlers
	projectHandler := handlers.NewProjectHandler(projectService, auditService)
	phaseHandler := handlers.NewPhaseHandler(phaseService, auditService)
	categoryHandler := handlers.NewCostCategoryHandler(categoryService, auditService)
	entryHandler := handlers.NewCostEntryHandler(entryService, auditService)
	obligationHandler := handlers.NewObligationHandler(obligationService, auditService)
	milestoneHandler := handlers.NewMilestoneHandler(milestoneService, auditService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")

	// Project routes
	projects := v1.Group("/projects")
	projects.POST("", projectHandler.CreateProject)
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProject)
	projects.PUT("/:id", projectHandler.UpdateProject)
	projects.DELETE("/:id", projectHandler.DeleteProject)
	projects.GET("/:id/cost-estimates", projectHandler.GetCostEstimates)
	projects.PUT("/:id/cost-estimates", projectHandler.UpdateCostEstimates)
	projects.GET("/:id/audit-log", projectHandler.GetAuditLog)

	projects.POST("/:id/phases", phaseHandler.CreatePhase)
	projects.GET("/:id/phases", phaseHandler.GetProjectPhases)

	projects.POST("/:id/cost-entries", entryHandler.CreateCostEntry)
	projects.GET("/:id/cost-entries", entryHandler.GetProjectCostEntries)
	projects.GET("/:id/cost-entries/outstanding", entryHandler.GetOutstandingEntries)
	projects.GET("/:id/cost-entries/paid", entryHandler.GetPaidEntries)
	projects.GET("/:id/payment-timeline", entryHandler.GetPaymentTimeline)

	projects.POST("/:id/obligations", obligationHandler.CreateObligation)
	projects.GET("/:id/obligations", obligationHandler.GetProjectObligations)
	projects.GET("/:id/obligations/summary", obligationHandler.GetObligationSummary)

	projects.POST("/:id/milestones", milestoneHandler.CreateMilestone)
	projects.GET("/:id/milestones", milestoneHandler.GetProjectMilestones)

	projects.GET("/:id/summary", dashboardHandler.GetProjectSummary)
	projects.GET("/:id/dashboard", dashboardHandler.GetDashboard)
	projects.GET("/:id/dashboard-data", dashboardHandler.GetDashboard)
	projects.GET("/:id/evm-timeline", dashboardHandler.GetEVMTimeline)
	projects.GET("/:id/evm-timeline/enhanced", dashboardHandler.GetEnhancedEVMTimeline)

	// Phase routes
	phases := v1.Group("/phases")
	phases.GET("/:id", phaseHandler.GetPhase)
	phases.PUT("/:id", phaseHandler.UpdatePhase)
	phases.PUT("/:id/status", phaseHandler.UpdatePhaseStatus)
	phases.DELETE("/:id", phaseHandler.DeletePhase)

	// Cost category routes
	categories := v1.Group("/cost-categories")
	categories.POST("", categoryHandler.CreateCostCategory)
	categories.GET("", categoryHandler.GetCostCategories)
	categories.POST("/defaults", categoryHandler.InitializeDefaults)
	categories.GET("/:id", categoryHandler.GetCostCategory)
	categories.PUT("/:id", categoryHandler.UpdateCostCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCostCategory)
	v1.POST("/initialize-default-categories", categoryHandler.InitializeDefaults)

	// Cost entry routes
	entries := v1.Group("/cost-entries")
	entries.GET("/:id", entryHandler.GetCostEntry)
	entries.PUT("/:id/status", entryHandler.UpdateCostEntryStatus)
	entries.DELETE("/:id", entryHandler.DeleteCostEntry)

	// Obligation routes
	obligations := v1.Group("/obligations")
	obligations.GET("/:id", obligationHandler.GetObligation)
	obligations.PUT("/:id/status", obligationHandler.UpdateObligationStatus)
	obligations.DELETE("/:id", obligationHandler.DeleteObligation)

	// Milestone routes
	milestones := v1.Group("/milestones")
	milestones.PUT("/:id", milestoneHandler.UpdateMilestone)
	milestones.DELETE("/:id", milestoneHandler.DeleteMilestone)

	return router
}
