package handlers

import (
	"encoding/json"
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

// entrySetHandler serves entry set queries plus a convenience reverse endpoint
// that routes through the command pipeline, so reversals carry audit lineage
// and hit the approval policy like any other command.
type entrySetHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	routerService portssvc.CommandRouterSvcFacade
}

func newEntrySetHandler(ls portssvc.LedgerSvcFacade, router portssvc.CommandRouterSvcFacade) *entrySetHandler {
	return &entrySetHandler{ledgerService: ls, routerService: router}
}

func registerEntrySetRoutes(rg *gin.RouterGroup, sc *portssvc.ServiceContainer) {
	h := newEntrySetHandler(sc.Ledger, sc.Router)

	entrySets := rg.Group("/entry-sets")
	{
		entrySets.GET("/:entrySetID", h.getEntrySet)
		entrySets.POST("/:entrySetID/reverse", h.reverseEntrySet)
	}
}

func (h *entrySetHandler) reverseEntrySet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entrySetID := c.Param("entrySetID")

	originatorID, ok := middleware.GetPrincipalIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	payload, err := json.Marshal(map[string]string{"entrySetID": entrySetID})
	if err != nil {
		logger.Error("Failed to marshal reversal payload", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		return
	}

	outcome, err := h.routerService.Submit(c.Request.Context(), dto.SubmitCommandRequest{
		Entity:  "LEDGER",
		Action:  "REVERSE",
		Payload: payload,
	}, originatorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusUnprocessableEntity, dto.ToOutcomeResponse(outcome))
		default:
			logger.Error("Failed to reverse entry set", slog.String("entry_set_id", entrySetID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reverse entry set"})
		}
		return
	}

	status := http.StatusOK
	if outcome.Status == domain.OutcomeAwaitingApproval {
		status = http.StatusAccepted
	}
	c.JSON(status, dto.ToOutcomeResponse(outcome))
}

func (h *entrySetHandler) getEntrySet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entrySetID := c.Param("entrySetID")

	set, err := h.ledgerService.GetEntrySetByID(c.Request.Context(), entrySetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Entry set not found"})
		} else {
			logger.Error("Failed to get entry set", slog.String("entry_set_id", entrySetID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve entry set"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToEntrySetResponse(set))
}
