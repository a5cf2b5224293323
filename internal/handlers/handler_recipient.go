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

type recipientHandler struct {
	recipientService portssvc.RecipientSvcFacade
}

// RegisterRecipientRoutes registers the recipient management routes.
func RegisterRecipientRoutes(rg *gin.RouterGroup, recipientService portssvc.RecipientSvcFacade) {
	h := &recipientHandler{recipientService: recipientService}

	recipients := rg.Group("/recipients")
	{
		recipients.GET("", h.listRecipients)
		recipients.POST("", h.createRecipient)
		recipients.DELETE("/:id", h.deleteRecipient)
	}
}

// listRecipients godoc
// @Summary List notification recipients
// @Tags recipients
// @Produce json
// @Success 200 {array} dto.RecipientResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recipients [get]
func (h *recipientHandler) listRecipients(c *gin.Context) {
	recipients, err := h.recipientService.ListRecipients(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to list recipients", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list recipients"})
		return
	}

	out := make([]dto.RecipientResponse, len(recipients))
	for i := range recipients {
		out[i] = dto.ToRecipientResponse(&recipients[i])
	}
	c.JSON(http.StatusOK, out)
}

// createRecipient godoc
// @Summary Register a notification recipient
// @Description The external id is the recipient's Telegram chat id.
// @Tags recipients
// @Accept json
// @Produce json
// @Param recipient body dto.CreateRecipientRequest true "Recipient"
// @Success 201 {object} dto.RecipientResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "External id already registered"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recipients [post]
func (h *recipientHandler) createRecipient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateRecipientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRecipient", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	recipient, err := h.recipientService.CreateRecipient(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Recipient already registered"})
		default:
			logger.Error("Failed to create recipient", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create recipient"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToRecipientResponse(recipient))
}

// deleteRecipient godoc
// @Summary Delete a notification recipient
// @Description Also removes the recipient's notification history.
// @Tags recipients
// @Param id path int true "Recipient id"
// @Success 204
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /recipients/{id} [delete]
func (h *recipientHandler) deleteRecipient(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Recipient id must be an integer"})
		return
	}

	if err := h.recipientService.DeleteRecipient(c.Request.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Recipient not found"})
			return
		}
		logger.Error("Failed to delete recipient", slog.Int64("recipient_id", id), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete recipient"})
		return
	}

	c.Status(http.StatusNoContent)
}
