package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/erp_ledger/internal/core/ports/services"
	"github.com/SscSPs/erp_ledger/internal/middleware"
	"github.com/SscSPs/erp_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// metricsHandler may be nil; lim, when set, throttles every state-changing route.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	lim *limiter.Limiter,
	metricsHandler http.Handler,
) {
	RegisterValidators()

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if metricsHandler != nil {
		r.GET("/metrics", gin.WrapH(metricsHandler))
	}

	setupAPIV1Routes(r, cfg, services, lim)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
	lim *limiter.Limiter,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	var command gin.HandlerFunc = func(c *gin.Context) { c.Next() }
	if lim != nil {
		command = middleware.RateLimit(lim)
	}

	registerAccountRoutes(v1, service.Account, service.Balance, command)
	registerJournalRoutes(v1, service.Journal, command)
	registerLiquidAccountRoutes(v1, service.LiquidAccount, command)
	registerVendorPaymentRoutes(v1, service.VendorPayment, command)
	registerRefundRoutes(v1, service.Refund, command)
	registerSalesOrderRoutes(v1, service.SalesOrder, command)
	registerReportingRoutes(v1, service.Reporting, service.Balance)
	registerLedgerRoutes(v1, service.Ledger)
}
