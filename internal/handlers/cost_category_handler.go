package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/MaMo-Cyber/App-Cost-sub000/internal/models"
	"github.com/MaMo-Cyber/App-Cost-sub000/internal/services"
)

// CostCategoryHandler handles cost category requests.
type CostCategoryHandler struct {
	categoryService services.CostCategoryServicer
	auditService    services.AuditServicer
}

// NewCostCategoryHandler creates a new CostCategoryHandler.
func NewCostCategoryHandler(categoryService services.CostCategoryServicer, auditService services.AuditServicer) *CostCategoryHandler {
	return &CostCategoryHandler{categoryService: categoryService, auditService: auditService}
}

// CostCategoryRequest represents the request payload for creating a cost
// category.
type CostCategoryRequest struct {
	Name        string              `json:"name" binding:"required,min=1,max=100"`
	Type        models.CostType     `json:"type" binding:"required,cost_type"`
	Description string              `json:"description" binding:"max=500"`
	DefaultRate decimal.NullDecimal `json:"default_rate" binding:"omitempty,gt=0"`
}

// UpdateCostCategoryRequest represents the request payload for updating a
// cost category.
type UpdateCostCategoryRequest struct {
	Name        *string              `json:"name" binding:"omitempty,min=1,max=100"`
	Type        *models.CostType     `json:"type" binding:"omitempty,cost_type"`
	Description *string              `json:"description" binding:"omitempty,max=500"`
	DefaultRate *decimal.NullDecimal `json:"default_rate"`
}

// CreateCostCategory handles creating a cost category.
// @Summary     Create a cost category
// @Tags        cost-categories
// @Accept      json
// @Produce     json
// @Param       request body CostCategoryRequest true "Category details"
// @Success     201 {object} models.CostCategory "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /cost-categories [post]
func (h *CostCategoryHandler) CreateCostCategory(c *gin.Context) {
	var req CostCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.categoryService.CreateCostCategory(req.Name, req.Type, req.Description, req.DefaultRate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("CREATE_COST_CATEGORY", "cost_category", category.ID, c.ClientIP(),
		map[string]interface{}{"name": req.Name, "type": req.Type})

	c.JSON(http.StatusCreated, gin.H{"cost_category": category})
}

// GetCostCategories handles listing the cost categories.
// @Summary     List cost categories
// @Tags        cost-categories
// @Produce     json
// @Success     200 {array} models.CostCategory "Categories by name"
// @Router      /cost-categories [get]
func (h *CostCategoryHandler) GetCostCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCostCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cost_categories": categories})
}

// GetCostCategory handles retrieving a cost category.
// @Summary     Get cost category by ID
// @Tags        cost-categories
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} models.CostCategory "Category details"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /cost-categories/{id} [get]
func (h *CostCategoryHandler) GetCostCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCostCategoryByID(categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cost_category": category})
}

// UpdateCostCategory handles updating a cost category.
// @Summary     Update cost category
// @Tags        cost-categories
// @Accept      json
// @Produce     json
// @Param       id      path string                    true "Category ID"
// @Param       request body UpdateCostCategoryRequest true "Updated category"
// @Success     200 {object} models.CostCategory "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /cost-categories/{id} [put]
func (h *CostCategoryHandler) UpdateCostCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCostCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	category, err := h.categoryService.UpdateCostCategory(categoryID, services.CostCategoryUpdate{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		DefaultRate: req.DefaultRate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("UPDATE_COST_CATEGORY", "cost_category", category.ID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"cost_category": category})
}

// DeleteCostCategory handles deleting an unused cost category.
// @Summary     Delete cost category
// @Tags        cost-categories
// @Produce     json
// @Param       id path string true "Category ID"
// @Success     200 {object} MessageResponse "Category deleted"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Category in use"
// @Router      /cost-categories/{id} [delete]
func (h *CostCategoryHandler) DeleteCostCategory(c *gin.Context) {
	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCostCategory(categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_COST_CATEGORY", "cost_category", categoryID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Cost category deleted successfully"})
}

// InitializeDefaults handles installing the default cost categories.
// @Summary     Install default cost categories
// @Description Idempotent; only missing defaults are created
// @Tags        cost-categories
// @Produce     json
// @Success     200 {array} models.CostCategory "Created categories"
// @Router      /cost-categories/defaults [post]
func (h *CostCategoryHandler) InitializeDefaults(c *gin.Context) {
	created, err := h.categoryService.InitializeDefaults()
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(created) > 0 {
		h.auditService.Log("INITIALIZE_COST_CATEGORIES", "cost_category", "", c.ClientIP(),
			map[string]interface{}{"created": len(created)})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Default categories initialized",
		"cost_categories": created,
	})
}
