package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/pagination"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"
)

// ProjectHandler handles project-related requests.
type ProjectHandler struct {
	projectService services.ProjectServicer
	auditService   services.AuditServicer
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(projectService services.ProjectServicer, auditService services.AuditServicer) *ProjectHandler {
	return &ProjectHandler{projectService: projectService, auditService: auditService}
}

// CreateProjectRequest represents the request payload for creating a project.
type CreateProjectRequest struct {
	Name          string          `json:"name" binding:"required,min=1,max=200"`
	Description   string          `json:"description" binding:"max=2000"`
	TotalBudget   decimal.Decimal `json:"total_budget"`
	StartDate     string          `json:"start_date" binding:"required,calendar_date"`
	EndDate       string          `json:"end_date" binding:"required,calendar_date"`
	BaselineCurve string          `json:"baseline_curve" binding:"omitempty,curve"`
}

// UpdateProjectRequest represents the request payload for updating a project.
type UpdateProjectRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string          `json:"description" binding:"omitempty,max=2000"`
	TotalBudget   *decimal.Decimal `json:"total_budget"`
	StartDate     *string          `json:"start_date" binding:"omitempty,calendar_date"`
	EndDate       *string          `json:"end_date" binding:"omitempty,calendar_date"`
	BaselineCurve *string          `json:"baseline_curve" binding:"omitempty,curve"`
}

// UpdateCostEstimatesRequest replaces the cost estimates of a project.
type UpdateCostEstimatesRequest struct {
	CostEstimates map[string]decimal.Decimal `json:"cost_estimates" binding:"required"`
}

// CreateProject handles the creation of a new project.
// @Summary     Create a project
// @Description Create a project with its budget baseline
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       request body CreateProjectRequest true "Project details"
// @Success     201 {object} models.Project "Project created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     422 {object} ErrorResponse "Invalid baseline"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		respondWithError(c, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.CreateProject(req.Name, req.Description, req.TotalBudget, start, end, req.BaselineCurve)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_PROJECT", "project", project.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "total_budget": req.TotalBudget.String()})

	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// GetProjects handles listing projects.
// @Summary     List projects
// @Description Get a paginated list of projects, newest first
// @Tags        projects
// @Produce     json
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Project] "Paginated projects"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects [get]
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.projectService.GetProjects(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProject handles retrieving a specific project.
// @Summary     Get project by ID
// @Tags        projects
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} models.Project "Project details"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.GetProjectByID(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// UpdateProject handles updating an existing project.
// @Summary     Update project
// @Description Update project fields; the resulting baseline is revalidated
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       id      path string               true "Project ID"
// @Param       request body UpdateProjectRequest true "Updated project details"
// @Success     200 {object} models.Project "Updated project"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     422 {object} ErrorResponse "Invalid baseline"
// @Router      /projects/{id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update := services.ProjectUpdate{
		Name:          req.Name,
		Description:   req.Description,
		TotalBudget:   req.TotalBudget,
		BaselineCurve: req.BaselineCurve,
	}
	if update.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		respondWithError(c, err)
		return
	}
	if update.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		respondWithError(c, err)
		return
	}

	project, err := h.projectService.UpdateProject(projectID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_PROJECT", "project", project.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject handles deleting a project and everything it owns.
// @Summary     Delete project
// @Tags        projects
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} MessageResponse "Project deleted"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectService.DeleteProject(projectID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_PROJECT", "project", projectID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// GetCostEstimates handles reading the cost estimates of a project.
// @Summary     Get cost estimates
// @Tags        projects
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} services.CostEstimates "Cost estimates"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/cost-estimates [get]
func (h *ProjectHandler) GetCostEstimates(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	estimates, err := h.projectService.GetCostEstimates(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, estimates)
}

// UpdateCostEstimates handles replacing the cost estimates of a project.
// @Summary     Replace cost estimates
// @Description Keys must name existing cost categories
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       id      path string                     true "Project ID"
// @Param       request body UpdateCostEstimatesRequest true "Estimates by category name"
// @Success     200 {object} services.CostEstimates "Cost estimates"
// @Failure     400 {object} ErrorResponse "Invalid input or unknown category"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/cost-estimates [put]
func (h *ProjectHandler) UpdateCostEstimates(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCostEstimatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	estimates, err := h.projectService.UpdateCostEstimates(projectID, req.CostEstimates)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_COST_ESTIMATES", "project", projectID, c.ClientIP(),
		map[string]interface{}{"total": estimates.Total.String()})

	c.JSON(http.StatusOK, estimates)
}

// AuditLogQuery bounds the audit trail returned for a project.
type AuditLogQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// GetAuditLog handles reading the audit trail of a project.
// @Summary     Project audit log
// @Description Newest first; covers create, update, estimate and delete events on the project itself
// @Tags        projects
// @Produce     json
// @Param       id    path  string true  "Project ID"
// @Param       limit query int    false "Maximum entries (default and max 50)"
// @Success     200 {array}  models.AuditLog "Audit entries"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/audit-log [get]
func (h *ProjectHandler) GetAuditLog(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query AuditLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	if _, err := h.projectService.GetProjectByID(projectID); err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.auditService.History("project", projectID, query.Limit)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"audit_log": entries, "count": len(entries)})
}
