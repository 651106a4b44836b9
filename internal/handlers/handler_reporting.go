package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/dto"
	"github.com/nimbusfin/coreledger/internal/middleware"
)

// reportingHandler serves ledger consistency reports.
type reportingHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	maxAge        time.Duration
}

func newReportingHandler(ls portssvc.LedgerSvcFacade, maxAge time.Duration) *reportingHandler {
	return &reportingHandler{ledgerService: ls, maxAge: maxAge}
}

func registerReportingRoutes(rg *gin.RouterGroup, sc *portssvc.ServiceContainer, maxAge time.Duration) {
	h := newReportingHandler(sc.Ledger, maxAge)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
	}
}

func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf := time.Now().UTC()
	if asOfStr := c.Query("asOf"); asOfStr != "" {
		parsed, err := time.Parse(time.RFC3339, asOfStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf timestamp, expected RFC3339"})
			return
		}
		if h.maxAge > 0 && time.Since(parsed) > h.maxAge {
			c.JSON(http.StatusBadRequest, gin.H{"error": "asOf is older than the supported reporting window of " + h.maxAge.String()})
			return
		}
		asOf = parsed
	}

	report, err := h.ledgerService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to build trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build trial balance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}
