package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"
)

// MilestoneHandler handles milestone requests.
type MilestoneHandler struct {
	milestoneService services.MilestoneServicer
	auditService     services.AuditServicer
}

// NewMilestoneHandler creates a new MilestoneHandler.
func NewMilestoneHandler(milestoneService services.MilestoneServicer, auditService services.AuditServicer) *MilestoneHandler {
	return &MilestoneHandler{milestoneService: milestoneService, auditService: auditService}
}

// CreateMilestoneRequest represents the request payload for adding a
// milestone.
type CreateMilestoneRequest struct {
	Name          string `json:"name" binding:"required,min=1,max=200"`
	Description   string `json:"description" binding:"max=1000"`
	MilestoneDate string `json:"milestone_date" binding:"required,calendar_date"`
	IsCritical    bool   `json:"is_critical"`
}

// UpdateMilestoneRequest represents the request payload for updating a
// milestone.
type UpdateMilestoneRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description   *string `json:"description" binding:"omitempty,max=1000"`
	MilestoneDate *string `json:"milestone_date" binding:"omitempty,calendar_date"`
	IsCritical    *bool   `json:"is_critical"`
	Completed     *bool   `json:"completed"`
}

// CreateMilestone handles adding a milestone to a project.
// @Summary     Create a milestone
// @Tags        milestones
// @Accept      json
// @Produce     json
// @Param       id      path string                 true "Project ID"
// @Param       request body CreateMilestoneRequest true "Milestone details"
// @Success     201 {object} models.Milestone "Milestone created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/milestones [post]
func (h *MilestoneHandler) CreateMilestone(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	date, err := parseDate(req.MilestoneDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	milestone, err := h.milestoneService.CreateMilestone(projectID, req.Name, req.Description, date, req.IsCritical)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_MILESTONE", "milestone", milestone.ID, c.ClientIP(),
		map[string]interface{}{"project_id": projectID, "name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"milestone": milestone})
}

// GetProjectMilestones handles listing the milestones of a project.
// @Summary     List milestones
// @Tags        milestones
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {array}  models.Milestone "Milestones by date"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/milestones [get]
func (h *MilestoneHandler) GetProjectMilestones(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	milestones, err := h.milestoneService.GetProjectMilestones(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestones": milestones})
}

// UpdateMilestone handles updating a milestone.
// @Summary     Update milestone
// @Tags        milestones
// @Accept      json
// @Produce     json
// @Param       id      path string                 true "Milestone ID"
// @Param       request body UpdateMilestoneRequest true "Updated milestone"
// @Success     200 {object} models.Milestone "Updated milestone"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Milestone not found"
// @Router      /milestones/{id} [put]
func (h *MilestoneHandler) UpdateMilestone(c *gin.Context) {
	milestoneID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update := services.MilestoneUpdate{
		Name:        req.Name,
		Description: req.Description,
		IsCritical:  req.IsCritical,
		Completed:   req.Completed,
	}
	if update.MilestoneDate, err = parseOptionalDate(req.MilestoneDate); err != nil {
		respondWithError(c, err)
		return
	}

	milestone, err := h.milestoneService.UpdateMilestone(milestoneID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_MILESTONE", "milestone", milestone.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"milestone": milestone})
}

// DeleteMilestone handles deleting a milestone.
// @Summary     Delete milestone
// @Tags        milestones
// @Produce     json
// @Param       id path string true "Milestone ID"
// @Success     200 {object} MessageResponse "Milestone deleted"
// @Failure     404 {object} ErrorResponse "Milestone not found"
// @Router      /milestones/{id} [delete]
func (h *MilestoneHandler) DeleteMilestone(c *gin.Context) {
	milestoneID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.milestoneService.DeleteMilestone(milestoneID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_MILESTONE", "milestone", milestoneID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Milestone deleted successfully"})
}
