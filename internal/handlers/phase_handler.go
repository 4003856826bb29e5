package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"
)

// PhaseHandler handles phase-related requests.
type PhaseHandler struct {
	phaseService services.PhaseServicer
	auditService services.AuditServicer
}

// NewPhaseHandler creates a new PhaseHandler.
func NewPhaseHandler(phaseService services.PhaseServicer, auditService services.AuditServicer) *PhaseHandler {
	return &PhaseHandler{phaseService: phaseService, auditService: auditService}
}

// CreatePhaseRequest represents the request payload for creating a phase.
type CreatePhaseRequest struct {
	Name             string             `json:"name" binding:"required,min=1,max=200"`
	Description      string             `json:"description"`
	BudgetAllocation decimal.Decimal    `json:"budget_allocation" binding:"gte=0"`
	StartDate        string             `json:"start_date" binding:"required,calendar_date"`
	EndDate          string             `json:"end_date" binding:"required,calendar_date"`
	Status           models.PhaseStatus `json:"status" binding:"omitempty,phase_status"`
}

// UpdatePhaseRequest represents the request payload for updating a phase.
type UpdatePhaseRequest struct {
	Name             *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description      *string          `json:"description"`
	BudgetAllocation *decimal.Decimal `json:"budget_allocation" binding:"omitempty,gte=0"`
	StartDate        *string          `json:"start_date" binding:"omitempty,calendar_date"`
	EndDate          *string          `json:"end_date" binding:"omitempty,calendar_date"`
}

// UpdatePhaseStatusRequest represents the request payload for a status change.
type UpdatePhaseStatusRequest struct {
	Status models.PhaseStatus `json:"status" binding:"required,phase_status"`
}

// CreatePhase handles adding a phase to a project.
// @Summary     Create a phase
// @Tags        phases
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Project ID"
// @Param       request body CreatePhaseRequest true "Phase details"
// @Success     201 {object} models.Phase "Phase created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/phases [post]
func (h *PhaseHandler) CreatePhase(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreatePhaseRequest
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

	phase, err := h.phaseService.CreatePhase(projectID, req.Name, req.Description, req.BudgetAllocation, start, end, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_PHASE", "phase", phase.ID, c.ClientIP(),
		map[string]interface{}{"project_id": projectID, "name": req.Name})

	c.JSON(http.StatusCreated, gin.H{"phase": phase})
}

// GetProjectPhases handles listing the phases of a project.
// @Summary     List phases
// @Tags        phases
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {array}  models.Phase "Phases in schedule order"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/phases [get]
func (h *PhaseHandler) GetProjectPhases(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	phases, err := h.phaseService.GetProjectPhases(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"phases": phases})
}

// GetPhase handles retrieving a phase.
// @Summary     Get phase by ID
// @Tags        phases
// @Produce     json
// @Param       id path string true "Phase ID"
// @Success     200 {object} models.Phase "Phase details"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Router      /phases/{id} [get]
func (h *PhaseHandler) GetPhase(c *gin.Context) {
	phaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	phase, err := h.phaseService.GetPhaseByID(phaseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"phase": phase})
}

// UpdatePhase handles updating a phase.
// @Summary     Update phase
// @Tags        phases
// @Accept      json
// @Produce     json
// @Param       id      path string             true "Phase ID"
// @Param       request body UpdatePhaseRequest true "Updated phase details"
// @Success     200 {object} models.Phase "Updated phase"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Router      /phases/{id} [put]
func (h *PhaseHandler) UpdatePhase(c *gin.Context) {
	phaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	update := services.PhaseUpdate{
		Name:             req.Name,
		Description:      req.Description,
		BudgetAllocation: req.BudgetAllocation,
	}
	if update.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		respondWithError(c, err)
		return
	}
	if update.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		respondWithError(c, err)
		return
	}

	phase, err := h.phaseService.UpdatePhase(phaseID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_PHASE", "phase", phase.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"phase": phase})
}

// UpdatePhaseStatus handles a phase status change.
// @Summary     Update phase status
// @Tags        phases
// @Accept      json
// @Produce     json
// @Param       id      path string                   true "Phase ID"
// @Param       request body UpdatePhaseStatusRequest true "New status"
// @Success     200 {object} models.Phase "Updated phase"
// @Failure     400 {object} ErrorResponse "Invalid status"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Router      /phases/{id}/status [put]
func (h *PhaseHandler) UpdatePhaseStatus(c *gin.Context) {
	phaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdatePhaseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	phase, err := h.phaseService.UpdatePhaseStatus(phaseID, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_PHASE_STATUS", "phase", phase.ID, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"phase": phase})
}

// DeletePhase handles deleting a phase.
// @Summary     Delete phase
// @Description Cost entries of the phase stay on the project without a phase
// @Tags        phases
// @Produce     json
// @Param       id path string true "Phase ID"
// @Success     200 {object} MessageResponse "Phase deleted"
// @Failure     404 {object} ErrorResponse "Phase not found"
// @Router      /phases/{id} [delete]
func (h *PhaseHandler) DeletePhase(c *gin.Context) {
	phaseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.phaseService.DeletePhase(phaseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_PHASE", "phase", phaseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Phase deleted successfully"})
}
