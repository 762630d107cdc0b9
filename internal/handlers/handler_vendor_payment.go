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

// vendorPaymentHandler serves vendor bills and the payments settling them.
type vendorPaymentHandler struct {
	service portssvc.VendorPaymentSvcFacade
}

func registerVendorPaymentRoutes(rg *gin.RouterGroup, service portssvc.VendorPaymentSvcFacade, command gin.HandlerFunc) {
	h := &vendorPaymentHandler{service: service}

	bills := rg.Group("/vendor-bills")
	{
		bills.POST("", command, h.createBill)
		bills.GET("/:billID", h.getBill)
	}

	payments := rg.Group("/vendor-payments")
	{
		payments.POST("", command, h.createPayment)
		payments.GET("/:paymentID", h.getPayment)
		payments.POST("/:paymentID/approve", command, h.approvePayment)
		payments.POST("/:paymentID/process", command, h.processPayment)
		payments.POST("/:paymentID/reverse", command, h.reversePayment)
	}
}

// createBill godoc
// @Summary Record a vendor bill
// @Tags vendor-payments
// @Accept  json
// @Produce  json
// @Param   bill body dto.CreateVendorBillRequest true "Bill"
// @Success 201 {object} dto.VendorBillResponse
// @Security BearerAuth
// @Router /vendor-bills [post]
func (h *vendorPaymentHandler) createBill(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateVendorBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}
	bill, err := h.service.CreateVendorBill(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create vendor bill")
		return
	}
	c.JSON(http.StatusCreated, dto.ToVendorBillResponse(bill))
}

// getBill godoc
// @Summary Get a vendor bill
// @Tags vendor-payments
// @Produce  json
// @Param   billID path string true "Bill ID"
// @Success 200 {object} dto.VendorBillResponse
// @Security BearerAuth
// @Router /vendor-bills/{billID} [get]
func (h *vendorPaymentHandler) getBill(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	bill, err := h.service.GetVendorBill(c.Request.Context(), c.Param("billID"))
	if err != nil {
		respondError(c, err, "retrieve vendor bill")
		return
	}
	c.JSON(http.StatusOK, dto.ToVendorBillResponse(bill))
}

// createPayment godoc
// @Summary Record a pending vendor payment
// @Tags vendor-payments
// @Accept  json
// @Produce  json
// @Param   payment body dto.CreateVendorPaymentRequest true "Payment"
// @Success 201 {object} dto.VendorPaymentResponse
// @Security BearerAuth
// @Router /vendor-payments [post]
func (h *vendorPaymentHandler) createPayment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateVendorPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}
	payment, err := h.service.CreateVendorPayment(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create vendor payment")
		return
	}
	c.JSON(http.StatusCreated, dto.ToVendorPaymentResponse(payment))
}

// getPayment godoc
// @Summary Get a vendor payment
// @Tags vendor-payments
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.VendorPaymentResponse
// @Security BearerAuth
// @Router /vendor-payments/{paymentID} [get]
func (h *vendorPaymentHandler) getPayment(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	payment, err := h.service.GetVendorPayment(c.Request.Context(), c.Param("paymentID"))
	if err != nil {
		respondError(c, err, "retrieve vendor payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToVendorPaymentResponse(payment))
}

// approvePayment godoc
// @Summary Approve a pending vendor payment
// @Tags vendor-payments
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.VendorPaymentResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /vendor-payments/{paymentID}/approve [post]
func (h *vendorPaymentHandler) approvePayment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	payment, err := h.service.ApproveVendorPayment(c.Request.Context(), c.Param("paymentID"), userID)
	if err != nil {
		respondError(c, err, "approve vendor payment")
		return
	}
	c.JSON(http.StatusOK, dto.ToVendorPaymentResponse(payment))
}

// processPayment godoc
// @Summary Pay a vendor
// @Description Debits the liquid account, posts Dr Accounts Payable / Cr liquid ledger and updates the bill.
// @Description A failed bill update is returned as a warning; the payment itself stays processed.
// @Tags vendor-payments
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResultResponse
// @Failure 409 {object} dto.ErrorResponse "Already processed"
// @Failure 422 {object} dto.ErrorResponse "Insufficient balance"
// @Security BearerAuth
// @Router /vendor-payments/{paymentID}/process [post]
func (h *vendorPaymentHandler) processPayment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.service.ProcessVendorPayment(c.Request.Context(), c.Param("paymentID"), userID)
	if err != nil {
		respondError(c, err, "process vendor payment")
		return
	}
	logPaymentResult(c, "Vendor payment processed", result)
	c.JSON(http.StatusOK, dto.ToPaymentResultResponse(result))
}

// reversePayment godoc
// @Summary Reverse a processed vendor payment
// @Tags vendor-payments
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResultResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /vendor-payments/{paymentID}/reverse [post]
func (h *vendorPaymentHandler) reversePayment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.service.ReverseVendorPayment(c.Request.Context(), c.Param("paymentID"), userID)
	if err != nil {
		respondError(c, err, "reverse vendor payment")
		return
	}
	logPaymentResult(c, "Vendor payment reversed", result)
	c.JSON(http.StatusOK, dto.ToPaymentResultResponse(result))
}

func logPaymentResult(c *gin.Context, msg string, result *domain.PaymentResult) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Info(msg,
		slog.String("payment_id", result.Payment.PaymentID),
		slog.String("status", string(result.Payment.Status)),
		slog.Int("warnings", len(result.Warnings)))
}
