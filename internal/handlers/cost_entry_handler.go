package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/pagination"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"
)

// CostEntryHandler handles cost entry requests.
type CostEntryHandler struct {
	entryService services.CostEntryServicer
	auditService services.AuditServicer
}

// NewCostEntryHandler creates a new CostEntryHandler.
func NewCostEntryHandler(entryService services.CostEntryServicer, auditService services.AuditServicer) *CostEntryHandler {
	return &CostEntryHandler{entryService: entryService, auditService: auditService}
}

// CreateCostEntryRequest represents the request payload for recording a cost.
// The amount comes from hours and rate, quantity and unit price, or
// total_amount, in that order.
type CreateCostEntryRequest struct {
	CategoryID  string               `json:"category_id" binding:"required,uuid"`
	PhaseID     *string              `json:"phase_id" binding:"omitempty,uuid"`
	Description string               `json:"description" binding:"max=1000"`
	Hours       decimal.NullDecimal  `json:"hours" binding:"omitempty,gt=0"`
	HourlyRate  decimal.NullDecimal  `json:"hourly_rate" binding:"omitempty,gt=0"`
	Quantity    decimal.NullDecimal  `json:"quantity" binding:"omitempty,gt=0"`
	UnitPrice   decimal.NullDecimal  `json:"unit_price" binding:"omitempty,gt=0"`
	TotalAmount decimal.NullDecimal  `json:"total_amount" binding:"omitempty,gt=0"`
	EntryDate   *string              `json:"entry_date" binding:"omitempty,calendar_date"`
	Status      models.PaymentStatus `json:"status" binding:"omitempty,payment_status"`
	DueDate     *string              `json:"due_date" binding:"omitempty,calendar_date"`
}

// UpdateCostEntryStatusRequest represents the request payload for a payment
// status change.
type UpdateCostEntryStatusRequest struct {
	Status  models.PaymentStatus `json:"status" binding:"required,payment_status"`
	DueDate *string              `json:"due_date" binding:"omitempty,calendar_date"`
}

// CostEntryQuery holds the list filters of the cost entry listing.
type CostEntryQuery struct {
	pagination.PageRequest
	Status     *models.PaymentStatus `form:"status" binding:"omitempty,payment_status"`
	PhaseID    *string               `form:"phase_id" binding:"omitempty,uuid"`
	CategoryID *string               `form:"category_id" binding:"omitempty,uuid"`
}

// CreateCostEntry handles recording a cost against a project.
// @Summary     Record a cost entry
// @Tags        cost-entries
// @Accept      json
// @Produce     json
// @Param       id      path string                 true "Project ID"
// @Param       request body CreateCostEntryRequest true "Cost entry details"
// @Success     201 {object} models.CostEntry "Cost entry created"
// @Failure     400 {object} ErrorResponse "Invalid input or amount not computable"
// @Failure     404 {object} ErrorResponse "Project, category or phase not found"
// @Router      /projects/{id}/cost-entries [post]
func (h *CostEntryHandler) CreateCostEntry(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	input := services.CostEntryInput{
		CategoryID:  req.CategoryID,
		PhaseID:     req.PhaseID,
		Description: req.Description,
		Hours:       req.Hours,
		HourlyRate:  req.HourlyRate,
		Quantity:    req.Quantity,
		UnitPrice:   req.UnitPrice,
		TotalAmount: req.TotalAmount,
		Status:      req.Status,
	}
	if input.EntryDate, err = parseOptionalDate(req.EntryDate); err != nil {
		respondWithError(c, err)
		return
	}
	if input.DueDate, err = parseOptionalDate(req.DueDate); err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.entryService.CreateCostEntry(projectID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_COST_ENTRY", "cost_entry", entry.ID, c.ClientIP(),
		map[string]interface{}{"project_id": projectID, "total_amount": entry.TotalAmount.String()})

	c.JSON(http.StatusCreated, gin.H{"cost_entry": entry})
}

// GetProjectCostEntries handles listing the cost entries of a project.
// @Summary     List cost entries
// @Description Paginated, most recent first, with optional filters
// @Tags        cost-entries
// @Produce     json
// @Param       id          path  string true  "Project ID"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Param       status      query string false "outstanding or paid"
// @Param       phase_id    query string false "Filter by phase"
// @Param       category_id query string false "Filter by category"
// @Success     200 {object} pagination.PageResponse[models.CostEntry] "Paginated cost entries"
// @Failure     400 {object} ErrorResponse "Invalid filter"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/cost-entries [get]
func (h *CostEntryHandler) GetProjectCostEntries(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query CostEntryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.entryService.GetProjectCostEntries(projectID, query.PageRequest, services.CostEntryFilter{
		Status:     query.Status,
		PhaseID:    query.PhaseID,
		CategoryID: query.CategoryID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetOutstandingEntries handles listing the unpaid entries of a project.
// @Summary     List outstanding cost entries
// @Tags        cost-entries
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {array}  models.CostEntry "Outstanding entries by due date"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/cost-entries/outstanding [get]
func (h *CostEntryHandler) GetOutstandingEntries(c *gin.Context) {
	h.entriesByStatus(c, models.PaymentOutstanding)
}

// GetPaidEntries handles listing the paid entries of a project.
// @Summary     List paid cost entries
// @Tags        cost-entries
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {array}  models.CostEntry "Paid entries, latest payment first"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/cost-entries/paid [get]
func (h *CostEntryHandler) GetPaidEntries(c *gin.Context) {
	h.entriesByStatus(c, models.PaymentPaid)
}

func (h *CostEntryHandler) entriesByStatus(c *gin.Context, status models.PaymentStatus) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entries, err := h.entryService.GetEntriesByStatus(projectID, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cost_entries": entries, "count": len(entries)})
}

// GetPaymentTimeline handles the outstanding balance grouped by due date.
// @Summary     Payment timeline
// @Tags        cost-entries
// @Produce     json
// @Param       id path string true "Project ID"
// @Success     200 {object} services.PaymentTimeline "Outstanding entries by due date bucket"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /projects/{id}/payment-timeline [get]
func (h *CostEntryHandler) GetPaymentTimeline(c *gin.Context) {
	projectID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	timeline, err := h.entryService.GetPaymentTimeline(projectID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, timeline)
}

// GetCostEntry handles retrieving a cost entry.
// @Summary     Get cost entry by ID
// @Tags        cost-entries
// @Produce     json
// @Param       id path string true "Cost entry ID"
// @Success     200 {object} models.CostEntry "Cost entry"
// @Failure     404 {object} ErrorResponse "Cost entry not found"
// @Router      /cost-entries/{id} [get]
func (h *CostEntryHandler) GetCostEntry(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.entryService.GetCostEntryByID(entryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cost_entry": entry})
}

// UpdateCostEntryStatus handles marking an entry paid or outstanding.
// @Summary     Update payment status
// @Tags        cost-entries
// @Accept      json
// @Produce     json
// @Param       id      path string                       true "Cost entry ID"
// @Param       request body UpdateCostEntryStatusRequest true "New status"
// @Success     200 {object} models.CostEntry "Updated cost entry"
// @Failure     400 {object} ErrorResponse "Invalid status or due date"
// @Failure     404 {object} ErrorResponse "Cost entry not found"
// @Router      /cost-entries/{id}/status [put]
func (h *CostEntryHandler) UpdateCostEntryStatus(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCostEntryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	dueDate, err := parseOptionalDate(req.DueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	entry, err := h.entryService.UpdateCostEntryStatus(entryID, req.Status, dueDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_COST_ENTRY_STATUS", "cost_entry", entry.ID, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"cost_entry": entry})
}

// DeleteCostEntry handles deleting a cost entry.
// @Summary     Delete cost entry
// @Tags        cost-entries
// @Produce     json
// @Param       id path string true "Cost entry ID"
// @Success     200 {object} MessageResponse "Cost entry deleted"
// @Failure     404 {object} ErrorResponse "Cost entry not found"
// @Router      /cost-entries/{id} [delete]
func (h *CostEntryHandler) DeleteCostEntry(c *gin.Context) {
	entryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.entryService.DeleteCostEntry(entryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_COST_ENTRY", "cost_entry", entryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Cost entry deleted successfully"})
}
