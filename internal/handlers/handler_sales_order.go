package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/dto"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// salesOrderHandler serves order cancellation and the stock it restores.
type salesOrderHandler struct {
	service portssvc.SalesOrderSvcFacade
}

func registerSalesOrderRoutes(rg *gin.RouterGroup, service portssvc.SalesOrderSvcFacade, command gin.HandlerFunc) {
	h := &salesOrderHandler{service: service}

	orders := rg.Group("/sales-orders")
	{
		orders.POST("", command, h.createOrder)
		orders.GET("/:orderID", h.getOrder)
		orders.POST("/:orderID/cancel", command, h.cancelOrder)
	}
	rg.PUT("/inventory/:productID", command, h.setInventory)
}

// createOrder godoc
// @Summary Record a sales order
// @Tags sales-orders
// @Accept  json
// @Produce  json
// @Param   order body dto.CreateSalesOrderRequest true "Order"
// @Success 201 {object} dto.SalesOrderResponse
// @Security BearerAuth
// @Router /sales-orders [post]
func (h *salesOrderHandler) createOrder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}
	order, err := h.service.CreateSalesOrder(c.Request.Context(), req, userID)
	if err != nil {
		respondError(c, err, "create sales order")
		return
	}
	c.JSON(http.StatusCreated, dto.ToSalesOrderResponse(order))
}

// getOrder godoc
// @Summary Get a sales order
// @Tags sales-orders
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 200 {object} dto.SalesOrderResponse
// @Security BearerAuth
// @Router /sales-orders/{orderID} [get]
func (h *salesOrderHandler) getOrder(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	order, err := h.service.GetSalesOrder(c.Request.Context(), c.Param("orderID"))
	if err != nil {
		respondError(c, err, "retrieve sales order")
		return
	}
	c.JSON(http.StatusOK, dto.ToSalesOrderResponse(order))
}

// cancelOrder godoc
// @Summary Cancel a sales order
// @Description Cancels the order and its invoices and raises pending refunds in one transaction.
// @Description Restocking runs afterwards; items that fail are returned as warnings.
// @Tags sales-orders
// @Accept  json
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Param   request body dto.CancelSalesOrderRequest true "Cancellation reason"
// @Success 200 {object} dto.CancellationResponse
// @Failure 409 {object} dto.ErrorResponse "Already cancelled or shipped"
// @Security BearerAuth
// @Router /sales-orders/{orderID}/cancel [post]
func (h *salesOrderHandler) cancelOrder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CancelSalesOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}

	result, err := h.service.CancelSalesOrder(c.Request.Context(), c.Param("orderID"), req.Reason, userID)
	if err != nil {
		respondError(c, err, "cancel sales order")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Sales order cancelled",
		slog.String("order_id", result.Order.OrderID),
		slog.Int("refunds", len(result.Refunds)),
		slog.Int("warnings", len(result.Warnings)))
	c.JSON(http.StatusOK, dto.ToCancellationResponse(result))
}

// setInventory godoc
// @Summary Set the on-hand quantity of a product
// @Tags sales-orders
// @Accept  json
// @Produce  json
// @Param   productID path string true "Product ID"
// @Param   request body dto.SetInventoryRequest true "Quantity"
// @Success 200 {object} dto.InventoryResponse
// @Security BearerAuth
// @Router /inventory/{productID} [put]
func (h *salesOrderHandler) setInventory(c *gin.Context) {
	if _, ok := requireUser(c); !ok {
		return
	}
	var req dto.SetInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "Invalid request format: "+err.Error())
		return
	}
	level, err := h.service.SetInventory(c.Request.Context(), c.Param("productID"), req.Quantity)
	if err != nil {
		respondError(c, err, "set inventory")
		return
	}
	c.JSON(http.StatusOK, dto.ToInventoryResponse(level))
}
