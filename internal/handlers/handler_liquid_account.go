package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/erp_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// liquidAccountHandler serves cash drawers, bank accounts and UPI wallets.
type liquidAccountHandler struct {
	service portssvc.LiquidAccountSvcFacade
}

func registerLiquidAccountRoutes(rg *gin.RouterGroup, service portssvc.LiquidAccountSvcFacade, command gin.HandlerFunc) {
	h := &liquidAccountHandler{service: service}

	liquid := rg.Group("/liquid-accounts")
	{
		liquid.POST("", command, h.createLiquidAccount)
		liquid.GET("", h.listLiquidAccounts)
		liquid.GET("/:liquidAccountID", h.getLiquidAccount)
		liquid.GET("/:liquidAccountID/transactions", h.listTransactions)
		liquid.GET("/:liquidAccountID/reconcile", h.reconcile)
	}
}

// createLiquidAccount godoc
// @Summary Register a liquid account
// @Description A positive opening balance is posted to the ledger and recorded as the first transaction
// @Tags liquid-accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.CreateLiquidAccountRequest true "Liquid account"
// @Success 201 {object} dto.LiquidAccountResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /liquid-accounts [post]
func (h *liquidAccountHandler) createLiquidAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateLiquidAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	account, err := h.service.CreateLiquidAccount(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create liquid account")
		return
	}

	logger.Info("Liquid account created", slog.String("liquid_account_id", account.LiquidAccountID), slog.String("type", string(account.Type)))
	c.JSON(http.StatusCreated, dto.ToLiquidAccountResponse(account))
}

// listLiquidAccounts godoc
// @Summary List liquid accounts
// @Tags liquid-accounts
// @Produce  json
// @Param   type query string false "CASH, BANK or UPI"
// @Success 200 {array} dto.LiquidAccountResponse
// @Security BearerAuth
// @Router /liquid-accounts [get]
func (h *liquidAccountHandler) listLiquidAccounts(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var accountType *domain.LiquidAccountType
	if raw := c.Query("type"); raw != "" {
		t := domain.LiquidAccountType(raw)
		if !t.IsValid() {
			respondBadRequest(c, "type must be one of CASH, BANK, UPI")
			return
		}
		accountType = &t
	}

	accounts, err := h.service.ListLiquidAccounts(c.Request.Context(), accountType)
	if err != nil {
		respondError(c, err, "list liquid accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ToLiquidAccountResponses(accounts))
}

// getLiquidAccount godoc
// @Summary Get a liquid account
// @Tags liquid-accounts
// @Produce  json
// @Param   liquidAccountID path string true "Liquid account ID"
// @Success 200 {object} dto.LiquidAccountResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /liquid-accounts/{liquidAccountID} [get]
func (h *liquidAccountHandler) getLiquidAccount(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	account, err := h.service.GetLiquidAccount(c.Request.Context(), c.Param("liquidAccountID"))
	if err != nil {
		respondError(c, err, "retrieve liquid account")
		return
	}
	c.JSON(http.StatusOK, dto.ToLiquidAccountResponse(account))
}

// listTransactions godoc
// @Summary List the transactions of a liquid account
// @Tags liquid-accounts
// @Produce  json
// @Param   liquidAccountID path string true "Liquid account ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListLiquidTransactionsResponse
// @Security BearerAuth
// @Router /liquid-accounts/{liquidAccountID}/transactions [get]
func (h *liquidAccountHandler) listTransactions(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}

	var params dto.ListLiquidTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	resp, err := h.service.ListTransactions(c.Request.Context(), c.Param("liquidAccountID"), params)
	if err != nil {
		respondError(c, err, "list liquid transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// reconcile godoc
// @Summary Reconcile a liquid account
// @Description Compares the stored balance with the sum of its transactions
// @Tags liquid-accounts
// @Produce  json
// @Param   liquidAccountID path string true "Liquid account ID"
// @Success 200 {object} domain.LiquidReconciliation
// @Security BearerAuth
// @Router /liquid-accounts/{liquidAccountID}/reconcile [get]
func (h *liquidAccountHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if _, ok := requireUser(c); !ok {
		return
	}

	rec, err := h.service.Reconcile(c.Request.Context(), c.Param("liquidAccountID"))
	if err != nil {
		respondError(c, err, "reconcile liquid account")
		return
	}
	if !rec.IsReconciled {
		logger.Warn("Liquid account out of balance",
			slog.String("liquid_account_id", rec.LiquidAccountID),
			slog.String("stored", rec.StoredBalance.String()),
			slog.String("transactions", rec.TransactionTotal.String()))
	}
	c.JSON(http.StatusOK, rec)
}
