package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimbusfin/coreledger/internal/apperrors"
	"github.com/nimbusfin/coreledger/internal/core/domain"
	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/dto"
	"github.com/nimbusfin/coreledger/internal/middleware"
)

// commandHandler handles HTTP requests for command submission and the audit log.
type commandHandler struct {
	routerService   portssvc.CommandRouterSvcFacade
	approvalService portssvc.ApprovalSvcFacade
	auditService    portssvc.AuditSvcFacade
}

func newCommandHandler(router portssvc.CommandRouterSvcFacade, approval portssvc.ApprovalSvcFacade, audit portssvc.AuditSvcFacade) *commandHandler {
	return &commandHandler{
		routerService:   router,
		approvalService: approval,
		auditService:    audit,
	}
}

func registerCommandRoutes(rg *gin.RouterGroup, sc *portssvc.ServiceContainer) {
	h := newCommandHandler(sc.Router, sc.Approval, sc.Audit)

	commands := rg.Group("/commands")
	{
		commands.POST("", h.submitCommand)
		commands.GET("", h.listCommands)
		commands.GET("/:commandID", h.getCommand)
		commands.GET("/:commandID/events", h.getCommandEvents)
		commands.POST("/:commandID/decision", h.decideCommand)
	}
}

func (h *commandHandler) submitCommand(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SubmitCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SubmitCommand", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	originatorID, ok := middleware.GetPrincipalIDFromContext(c)
	if !ok {
		logger.Error("Originator principal not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("entity", req.Entity), slog.String("action", req.Action), slog.String("originator_id", originatorID))
	logger.Info("Received command submission")

	outcome, err := h.routerService.Submit(c.Request.Context(), req, originatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoHandler):
			logger.Warn("No handler for command", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnbalanced):
			logger.Warn("Command failed validation", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, dto.ToOutcomeResponse(outcome))
		case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Command failed", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, dto.ToOutcomeResponse(outcome))
		default:
			logger.Error("Command submission failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process command"})
		}
		return
	}

	status := http.StatusOK
	if outcome.Status == domain.OutcomeAwaitingApproval {
		status = http.StatusAccepted
	}
	logger.Info("Command submission resolved", slog.String("command_id", outcome.CommandID), slog.String("status", string(outcome.Status)))
	c.JSON(status, dto.ToOutcomeResponse(outcome))
}

func (h *commandHandler) decideCommand(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commandID := c.Param("commandID")

	var req dto.DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DecideCommand", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	approverID, ok := middleware.GetPrincipalIDFromContext(c)
	if !ok {
		logger.Error("Approver principal not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("command_id", commandID), slog.String("approver_id", approverID), slog.Bool("approve", req.Approve))
	logger.Info("Received approval decision")

	outcome, err := h.approvalService.Decide(c.Request.Context(), commandID, approverID, req.Approve)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrUnknownCommand), errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Decision against unknown command")
			c.JSON(http.StatusNotFound, gin.H{"error": "Command not found or not awaiting approval"})
		case errors.Is(err, apperrors.ErrSelfApproval):
			logger.Warn("Self approval denied")
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrUnbalanced), errors.Is(err, apperrors.ErrConflict):
			logger.Warn("Approved command failed", slog.String("error", err.Error()))
			c.JSON(http.StatusUnprocessableEntity, dto.ToOutcomeResponse(outcome))
		default:
			logger.Error("Decision failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process decision"})
		}
		return
	}

	logger.Info("Decision resolved", slog.String("status", string(outcome.Status)))
	c.JSON(http.StatusOK, dto.ToOutcomeResponse(outcome))
}

func (h *commandHandler) getCommand(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commandID := c.Param("commandID")

	record, err := h.auditService.GetCommandRecord(c.Request.Context(), commandID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Command not found"})
		} else {
			logger.Error("Failed to get command record", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve command"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToCommandRecordResponse(record))
}

func (h *commandHandler) getCommandEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	commandID := c.Param("commandID")

	events, err := h.auditService.ListCommandEvents(c.Request.Context(), commandID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Command not found"})
		} else {
			logger.Error("Failed to list command events", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (h *commandHandler) listCommands(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListCommandsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query for ListCommands", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.auditService.ListCommandRecords(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list command records", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list commands"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}
