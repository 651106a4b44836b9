package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/dto"
	"github.com/nimbusfin/coreledger/internal/middleware"
)

// approvalHandler serves the checker's pending approval queue.
type approvalHandler struct {
	approvalService portssvc.ApprovalSvcFacade
}

func newApprovalHandler(as portssvc.ApprovalSvcFacade) *approvalHandler {
	return &approvalHandler{approvalService: as}
}

func registerApprovalRoutes(rg *gin.RouterGroup, sc *portssvc.ServiceContainer) {
	h := newApprovalHandler(sc.Approval)

	approvals := rg.Group("/approvals")
	{
		approvals.GET("", h.listPendingApprovals)
	}
}

func (h *approvalHandler) listPendingApprovals(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListApprovalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListPendingApprovals", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.approvalService.ListPending(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list pending approvals", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list approvals"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
