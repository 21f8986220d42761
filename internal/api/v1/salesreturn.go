package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/billforge/billforge/internal/api/dto"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/logger"
	"github.com/billforge/billforge/internal/service"
	"github.com/billforge/billforge/internal/types"
)

type SalesReturnHandler struct {
	salesReturnService service.SalesReturnService
	logger             *logger.Logger
}

func NewSalesReturnHandler(salesReturnService service.SalesReturnService, logger *logger.Logger) *SalesReturnHandler {
	return &SalesReturnHandler{
		salesReturnService: salesReturnService,
		logger:             logger,
	}
}

// CreateSalesReturn godoc
// @Summary File a sales return
// @Description Validate and compute a refund for a sales return
// @Tags SalesReturns
// @Accept json
// @Produce json
// @Param return body dto.CreateSalesReturnRequest true "Return details"
// @Success 201 {object} dto.SalesReturnResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /returns [post]
func (h *SalesReturnHandler) CreateSalesReturn(c *gin.Context) {
	var req dto.CreateSalesReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorw("failed to bind request", "error", err)
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.salesReturnService.CreateSalesReturn(c.Request.Context(), &req)
	if err != nil {
		h.logger.Errorw("failed to create sales return", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// GetSalesReturn godoc
// @Summary Get a sales return by ID
// @Tags SalesReturns
// @Accept json
// @Produce json
// @Param id path string true "Sales return ID"
// @Success 200 {object} dto.SalesReturnResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /returns/{id} [get]
func (h *SalesReturnHandler) GetSalesReturn(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.Error(ierr.NewError("invalid sales return id").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.salesReturnService.GetSalesReturn(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ListSalesReturns godoc
// @Summary List sales returns
// @Tags SalesReturns
// @Accept json
// @Produce json
// @Param filter query types.SalesReturnFilter false "Filter options"
// @Success 200 {object} dto.ListSalesReturnsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /returns [get]
func (h *SalesReturnHandler) ListSalesReturns(c *gin.Context) {
	var filter types.SalesReturnFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid filter parameters").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.salesReturnService.ListSalesReturns(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateSalesReturnStatus godoc
// @Summary Update sales return status
// @Description Transition the sales return lifecycle status
// @Tags SalesReturns
// @Accept json
// @Produce json
// @Param id path string true "Sales return ID"
// @Param status body dto.UpdateSalesReturnStatusRequest true "New status"
// @Success 200 {object} dto.SalesReturnResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /returns/{id}/status [put]
func (h *SalesReturnHandler) UpdateSalesReturnStatus(c *gin.Context) {
	id := c.Param("id")

	var req dto.UpdateSalesReturnStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).WithHint("invalid request").Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.salesReturnService.UpdateSalesReturnStatus(c.Request.Context(), id, &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
