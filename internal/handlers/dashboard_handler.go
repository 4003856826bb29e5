package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"
)

// DashboardHandler serves the computed views of a project.
type DashboardHandler struct {
	dashboardService services.DashboardServicer
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService services.DashboardServicer) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetProjectSummary handles the project summary with EVM metrics.
// @Summary     Project summary
// @Description Spend totals, breakdowns, phase summaries and EVM metrics as of today
// @Tags        dashboard
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} services.ProjectSummary "Project summary"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     422 {object} ErrorResponse "Invalid baseline"
// @Router      /projects/{id}/summary [get]
func (h *DashboardHandler) GetProjectSummary(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.dashboardService.GetProjectSummary(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetDashboard handles the dashboard payload. Also served as dashboard-data.
// @Summary     Project dashboard
// @Description Summary plus monthly trend and the most recent entries
// @Tags        dashboard
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} services.Dashboard "Dashboard"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.dashboardService.GetDashboard(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// GetEVMTimeline handles the monthly EVM timeline with overrun projection.
// @Summary     EVM timeline
// @Tags        dashboard
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} services.TimelineResponse "Monthly PV, EV, AC with projections"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     422 {object} ErrorResponse "Invalid baseline"
// @Router      /projects/{id}/evm-timeline [get]
func (h *DashboardHandler) GetEVMTimeline(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	timeline, err := h.dashboardService.GetEVMTimeline(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, timeline)
}

// GetEnhancedEVMTimeline handles the timeline adjusted for obligations.
// @Summary     Enhanced EVM timeline
// @Description Timeline with confidence-weighted obligations and breach risk
// @Tags        dashboard
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} services.EnhancedTimelineResponse "Obligation-adjusted timeline"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     422 {object} ErrorResponse "Invalid baseline"
// @Router      /projects/{id}/evm-timeline/enhanced [get]
func (h *DashboardHandler) GetEnhancedEVMTimeline(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	timeline, err := h.dashboardService.GetEnhancedEVMTimeline(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, timeline)
}
