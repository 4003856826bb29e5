package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"
)

// ObligationHandler handles obligation requests.
type ObligationHandler struct {
	obligationService services.ObligationServicer
	auditService      services.AuditServicer
}

// NewObligationHandler creates a new ObligationHandler.
func NewObligationHandler(obligationService services.ObligationServicer, auditService services.AuditServicer) *ObligationHandler {
	return &ObligationHandler{obligationService: obligationService, auditService: auditService}
}

// CreateObligationRequest represents the request payload for recording an
// obligation.
type CreateObligationRequest struct {
	CategoryID        *string                   `json:"category_id" binding:"omitempty,uuid"`
	Description       string                    `json:"description" binding:"required,min=1,max=1000"`
	Amount            decimal.Decimal           `json:"amount" binding:"required,gt=0"`
	ConfidenceLevel   models.ConfidenceLevel    `json:"confidence_level" binding:"required,confidence_level"`
	Priority          models.ObligationPriority `json:"priority" binding:"omitempty,obligation_priority"`
	ContractReference string                    `json:"contract_reference" binding:"max=200"`
	VendorSupplier    string                    `json:"vendor_supplier" binding:"max=200"`
	ExpectedIncurDate *string                   `json:"expected_incur_date" binding:"omitempty,calendar_date"`
}

// UpdateObligationStatusRequest represents the request payload for an
// obligation status change.
type UpdateObligationStatusRequest struct {
	Status models.ObligationStatus `json:"status" binding:"required,obligation_status"`
}

// ObligationQuery holds the list filter of the obligation listing.
type ObligationQuery struct {
	Status *models.ObligationStatus `form:"status" binding:"omitempty,obligation_status"`
}

// CreateObligation handles recording an obligation against a project.
// @Summary     Record an obligation
// @Tags        obligations
// @Accept      json
// @Produce     json
// @Param       id      path string                  true "Project ID"
// @Param       request body CreateObligationRequest true "Obligation details"
// @Success     201 {object} models.Obligation "Obligation created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Project or category not found"
// @Router      /projects/{id}/obligations [post]
func (h *ObligationHandler) CreateObligation(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateObligationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	input := services.ObligationInput{
		CategoryID:        req.CategoryID,
		Description:       req.Description,
		Amount:            req.Amount,
		ConfidenceLevel:   req.ConfidenceLevel,
		Priority:          req.Priority,
		ContractReference: req.ContractReference,
		VendorSupplier:    req.VendorSupplier,
	}
	if input.ExpectedIncurDate, err = parseOptionalDate(req.ExpectedIncurDate); err != nil {
		respondWithError(c, err)
		return
	}

	obligation, err := h.obligationService.CreateObligation(projectID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_OBLIGATION", "obligation", obligation.ID, c.ClientIP(),
		map[string]interface{}{"project_id": projectID, "amount": req.Amount.String(), "confidence_level": req.ConfidenceLevel})

	c.JSON(http.StatusCreated, gin.H{"obligation": obligation})
}

// GetProjectObligations handles listing the obligations of a project.
// @Summary     List obligations
// @Tags        obligations
// @Produce     json
// @Param       id     path  string true  "Project ID"
// @Param       status query string false "active, cancelled or converted_to_actual"
// @Success     200 {array}  models.Obligation "Obligations, newest first"
// @Failure     400 {object} ErrorResponse "Invalid status"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/obligations [get]
func (h *ObligationHandler) GetProjectObligations(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ObligationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	obligations, err := h.obligationService.GetProjectObligations(projectID, query.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"obligations": obligations})
}

// GetObligationSummary handles the totals of the active obligations.
// @Summary     Obligation summary
// @Description Simple and confidence-weighted totals of active obligations
// @Tags        obligations
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} services.ObligationSummary "Obligation totals"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/obligations/summary [get]
func (h *ObligationHandler) GetObligationSummary(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.obligationService.GetObligationSummary(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetObligation handles retrieving an obligation.
// @Summary     Get obligation by ID
// @Tags        obligations
// @Produce     json
// @Param       id path string true "Obligation ID"
// @Success     200 {object} models.Obligation "Obligation"
// @Failure     404 {object} ErrorResponse "Obligation not found"
// @Router      /obligations/{id} [get]
func (h *ObligationHandler) GetObligation(c *gin.Context) {
	obligationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	obligation, err := h.obligationService.GetObligationByID(obligationID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"obligation": obligation})
}

// UpdateObligationStatus handles cancelling or converting an obligation.
// @Summary     Update obligation status
// @Tags        obligations
// @Accept      json
// @Produce     json
// @Param       id      path string                        true "Obligation ID"
// @Param       request body UpdateObligationStatusRequest true "New status"
// @Success     200 {object} models.Obligation "Updated obligation"
// @Failure     400 {object} ErrorResponse "Invalid status"
// @Failure     404 {object} ErrorResponse "Obligation not found"
// @Failure     409 {object} ErrorResponse "Transition not allowed"
// @Router      /obligations/{id}/status [put]
func (h *ObligationHandler) UpdateObligationStatus(c *gin.Context) {
	obligationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateObligationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	obligation, err := h.obligationService.UpdateObligationStatus(obligationID, req.Status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_OBLIGATION_STATUS", "obligation", obligation.ID, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"obligation": obligation})
}

// DeleteObligation handles deleting an obligation.
// @Summary     Delete obligation
// @Tags        obligations
// @Produce     json
// @Param       id path string true "Obligation ID"
// @Success     200 {object} MessageResponse "Obligation deleted"
// @Failure     404 {object} ErrorResponse "Obligation not found"
// @Router      /obligations/{id} [delete]
func (h *ObligationHandler) DeleteObligation(c *gin.Context) {
	obligationID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.obligationService.DeleteObligation(obligationID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_OBLIGATION", "obligation", obligationID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Obligation deleted successfully"})
}
