package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/orders_sync_app/internal/apperrors"
	portssvc "github.com/SscSPs/orders_sync_app/internal/core/ports/services"
	"github.com/SscSPs/orders_sync_app/internal/dto"
	"github.com/SscSPs/orders_sync_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// orderHandler serves the read-only order endpoints.
type orderHandler struct {
	orderService portssvc.OrderReaderSvc
}

func newOrderHandler(os portssvc.OrderReaderSvc) *orderHandler {
	return &orderHandler{orderService: os}
}

// RegisterOrderRoutes registers routes related to orders.
func RegisterOrderRoutes(rg *gin.RouterGroup, orderService portssvc.OrderReaderSvc) {
	h := newOrderHandler(orderService)

	orders := rg.Group("/orders")
	{
		orders.GET("", h.listOrders)
		orders.GET("/:id", h.getOrder)
	}
}

// listOrders godoc
// @Summary List orders
// @Description Lists synced orders ordered by id, one page at a time.
// @Tags orders
// @Produce json
// @Param limit query int false "Page size (1-100)" default(20)
// @Param pageToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListOrdersResponse
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /orders [get]
func (h *orderHandler) listOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Invalid list orders query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid page token"})
			return
		}
		logger.Error("Failed to list orders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list orders"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getOrder godoc
// @Summary Get an order
// @Description Retrieves one order by its spreadsheet id.
// @Tags orders
// @Produce json
// @Param id path int true "Order id"
// @Success 200 {object} dto.OrderResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Order id must be an integer"})
		return
	}

	order, err := h.orderService.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Order not found"})
			return
		}
		logger.Error("Failed to get order", slog.Int64("order_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve order"})
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}
