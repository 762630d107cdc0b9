package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
	balanceService   portssvc.BalanceProjectorSvc
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, balanceService portssvc.BalanceProjectorSvc) {
	h := &reportingHandler{reportingService: reportingService, balanceService: balanceService}

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/profit-and-loss", h.getProfitAndLoss)
		reports.GET("/balance-sheet", h.getBalanceSheet)
		reports.GET("/cash-flow", h.getCashFlow)
		reports.GET("/sections", h.getSectionTotals)
	}
}

// getTrialBalance godoc
// @Summary Generate trial balance report
// @Description Generates a trial balance report as of a specific date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUser(c); !ok {
		return
	}

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		return
	}
	asOf := asOfOrToday(params.AsOf)

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf)
	if err != nil {
		respondError(c, err, "generate trial balance report")
		return
	}

	logger.Info("Trial balance report generated successfully", slog.Int("row_count", len(report.Rows)), slog.Bool("balanced", report.IsBalanced))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}

// getProfitAndLoss godoc
// @Summary Generate profit and loss report
// @Description Generates a profit and loss report for a specific period
// @Tags reports
// @Produce json
// @Param fromDate query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param toDate query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.ProfitAndLossResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /reports/profit-and-loss [get]
func (h *reportingHandler) getProfitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUser(c); !ok {
		return
	}

	now := time.Now().UTC()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	fromDate, err := time.Parse(dateLayout, c.DefaultQuery("fromDate", firstOfMonth.Format(dateLayout)))
	if err != nil {
		respondBadRequest(c, "Invalid fromDate format. Use YYYY-MM-DD")
		return
	}
	toDate, err := time.Parse(dateLayout, c.DefaultQuery("toDate", now.Format(dateLayout)))
	if err != nil {
		respondBadRequest(c, "Invalid toDate format. Use YYYY-MM-DD")
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), fromDate, toDate)
	if err != nil {
		respondError(c, err, "generate profit and loss report")
		return
	}

	logger.Info("Profit and loss report generated successfully", slog.String("net_profit", report.NetProfit.String()))
	c.JSON(http.StatusOK, dto.ToProfitAndLossResponse(report))
}

// getBalanceSheet godoc
// @Summary Generate balance sheet report
// @Description Assets against liabilities and equity, with current earnings folded into equity.
// @Description IsBalanced and Difference are always reported.
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUser(c); !ok {
		return
	}

	var params dto.AsOfParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOfOrToday(params.AsOf))
	if err != nil {
		respondError(c, err, "generate balance sheet report")
		return
	}

	logger.Info("Balance sheet report generated successfully", slog.Bool("balanced", report.IsBalanced), slog.String("difference", report.Difference.String()))
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report))
}

// getCashFlow godoc
// @Summary Generate cash flow statement
// @Description Movement of cash and cash equivalents split into operating, investing and financing activity
// @Tags reports
// @Produce json
// @Param startDate query string true "Start date (YYYY-MM-DD)"
// @Param endDate query string true "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.CashFlowResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Security BearerAuth
// @Router /reports/cash-flow [get]
func (h *reportingHandler) getCashFlow(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUser(c); !ok {
		return
	}

	var params dto.PeriodParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "startDate and endDate are required as YYYY-MM-DD")
		return
	}

	statement, err := h.reportingService.CashFlow(c.Request.Context(), params.StartDate, params.EndDate)
	if err != nil {
		respondError(c, err, "generate cash flow statement")
		return
	}

	logger.Info("Cash flow statement generated successfully", slog.Bool("reconciled", statement.IsReconciled))
	c.JSON(http.StatusOK, dto.ToCashFlowResponse(statement))
}

// getSectionTotals godoc
// @Summary Subtype totals for one account type
// @Tags reports
// @Produce json
// @Param accountType query string true "ASSET, LIABILITY, EQUITY, REVENUE or EXPENSE"
// @Param asOf query string false "Report date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.SectionResponse
// @Security BearerAuth
// @Router /reports/sections [get]
func (h *reportingHandler) getSectionTotals(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var params dto.SectionTotalsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	totals, err := h.balanceService.SectionTotals(c.Request.Context(), domain.AccountType(params.AccountType), asOfOrToday(params.AsOf))
	if err != nil {
		respondError(c, err, "calculate section totals")
		return
	}
	c.JSON(http.StatusOK, dto.ToSectionResponse(*totals))
}
