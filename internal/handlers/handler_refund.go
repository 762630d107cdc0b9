package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// refundHandler serves invoices and the refunds raised against them.
type refundHandler struct {
	service portssvc.RefundSvcFacade
}

func registerRefundRoutes(rg *gin.RouterGroup, service portssvc.RefundSvcFacade, command gin.HandlerFunc) {
	h := &refundHandler{service: service}

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", command, h.createInvoice)
		invoices.GET("/:invoiceID", h.getInvoice)
	}

	refunds := rg.Group("/refunds")
	{
		refunds.POST("", command, h.createRefund)
		refunds.GET("/:refundID", h.getRefund)
		refunds.POST("/:refundID/approve", command, h.approveRefund)
		refunds.POST("/:refundID/reject", command, h.rejectRefund)
		refunds.POST("/:refundID/process", command, h.processRefund)
		refunds.POST("/:refundID/reverse", command, h.reverseRefund)
	}
}

// createInvoice godoc
// @Summary Record a customer invoice
// @Tags refunds
// @Accept  json
// @Produce  json
// @Param   invoice body dto.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} dto.InvoiceResponse
// @Security BearerAuth
// @Router /invoices [post]
func (h *refundHandler) createInvoice(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}
	invoice, err := h.service.CreateInvoice(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create invoice")
		return
	}
	c.JSON(http.StatusCreated, dto.ToInvoiceResponse(invoice))
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags refunds
// @Produce  json
// @Param   invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.InvoiceResponse
// @Security BearerAuth
// @Router /invoices/{invoiceID} [get]
func (h *refundHandler) getInvoice(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	invoice, err := h.service.GetInvoice(c.Request.Context(), c.Param("invoiceID"))
	if err != nil {
		respondError(c, err, "retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, dto.ToInvoiceResponse(invoice))
}

// createRefund godoc
// @Summary Raise a refund against an invoice
// @Tags refunds
// @Accept  json
// @Produce  json
// @Param   refund body dto.CreateRefundRequest true "Refund"
// @Success 201 {object} dto.RefundResponse
// @Failure 400 {object} dto.ErrorResponse "Amount exceeds the refundable balance"
// @Security BearerAuth
// @Router /refunds [post]
func (h *refundHandler) createRefund(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}
	refund, err := h.service.CreateRefund(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create refund")
		return
	}
	c.JSON(http.StatusCreated, dto.ToRefundResponse(refund))
}

// getRefund godoc
// @Summary Get a refund
// @Tags refunds
// @Produce  json
// @Param   refundID path string true "Refund ID"
// @Success 200 {object} dto.RefundResponse
// @Security BearerAuth
// @Router /refunds/{refundID} [get]
func (h *refundHandler) getRefund(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	refund, err := h.service.GetRefund(c.Request.Context(), c.Param("refundID"))
	if err != nil {
		respondError(c, err, "retrieve refund")
		return
	}
	c.JSON(http.StatusOK, dto.ToRefundResponse(refund))
}

// approveRefund godoc
// @Summary Approve a pending refund
// @Tags refunds
// @Produce  json
// @Param   refundID path string true "Refund ID"
// @Success 200 {object} dto.RefundResponse
// @Security BearerAuth
// @Router /refunds/{refundID}/approve [post]
func (h *refundHandler) approveRefund(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	refund, err := h.service.ApproveRefund(c.Request.Context(), c.Param("refundID"), userID)
	if err != nil {
		respondError(c, err, "approve refund")
		return
	}
	c.JSON(http.StatusOK, dto.ToRefundResponse(refund))
}

// rejectRefund godoc
// @Summary Reject a refund that has not been processed
// @Tags refunds
// @Produce  json
// @Param   refundID path string true "Refund ID"
// @Success 200 {object} dto.RefundResponse
// @Security BearerAuth
// @Router /refunds/{refundID}/reject [post]
func (h *refundHandler) rejectRefund(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	refund, err := h.service.RejectRefund(c.Request.Context(), c.Param("refundID"), userID)
	if err != nil {
		respondError(c, err, "reject refund")
		return
	}
	c.JSON(http.StatusOK, dto.ToRefundResponse(refund))
}

// processRefund godoc
// @Summary Pay out an approved refund
// @Description Credits the customer out of a liquid account and posts Dr Sales Returns / Cr liquid ledger.
// @Tags refunds
// @Accept  json
// @Produce  json
// @Param   refundID path string true "Refund ID"
// @Param   request body dto.ProcessRefundRequest false "Method and account when the refund has none"
// @Success 200 {object} dto.RefundResultResponse
// @Failure 409 {object} dto.ErrorResponse "Not approved or already processed"
// @Failure 422 {object} dto.ErrorResponse "Insufficient balance"
// @Security BearerAuth
// @Router /refunds/{refundID}/process [post]
func (h *refundHandler) processRefund(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.ProcessRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}
	result, err := h.service.ProcessRefund(c.Request.Context(), c.Param("refundID"), req, userID)
	if err != nil {
		respondError(c, err, "process refund")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Refund processed",
		slog.String("refund_id", result.Refund.RefundID), slog.Int("warnings", len(result.Warnings)))
	c.JSON(http.StatusOK, dto.ToRefundResultResponse(result))
}

// reverseRefund godoc
// @Summary Reverse a processed refund
// @Tags refunds
// @Produce  json
// @Param   refundID path string true "Refund ID"
// @Success 200 {object} dto.RefundResultResponse
// @Security BearerAuth
// @Router /refunds/{refundID}/reverse [post]
func (h *refundHandler) reverseRefund(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	result, err := h.service.ReverseRefund(c.Request.Context(), c.Param("refundID"), userID)
	if err != nil {
		respondError(c, err, "reverse refund")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Refund reversed",
		slog.String("refund_id", result.Refund.RefundID), slog.Int("warnings", len(result.Warnings)))
	c.JSON(http.StatusOK, dto.ToRefundResultResponse(result))
}
