package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/gin-gonic/gin"
)

type ledgerHandler struct {
	ledgerService portssvc.LedgerSummarySvc
}

func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSummarySvc) {
	h := &ledgerHandler{ledgerService: ledgerService}
	rg.GET("/ledger/:entityType", h.getLedgerSummary)
}

// getLedgerSummary godoc
// @Summary Paginated ledger rows with page totals
// @Description entityType is journal-entries or liquid-transactions. The latter requires liquidAccountID.
// @Tags ledger
// @Produce  json
// @Param   entityType path string true "journal-entries or liquid-transactions"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Param   accountID query string false "Chart account filter for journal entries"
// @Param   liquidAccountID query string false "Liquid account for liquid transactions"
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.LedgerSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /ledger/{entityType} [get]
func (h *ledgerHandler) getLedgerSummary(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var params dto.LedgerSummaryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.ledgerService.GetLedgerSummary(c.Request.Context(), c.Param("entityType"), params)
	if err != nil {
		respondError(c, err, "build ledger summary")
		return
	}
	c.JSON(http.StatusOK, resp)
}
