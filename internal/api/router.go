package api

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/billforge/billforge/internal/api/v1"
	"github.com/billforge/billforge/internal/rest/middleware"
)

type Handlers struct {
	Health      *v1.HealthHandler
	Invoice     *v1.InvoiceHandler
	SalesReturn *v1.SalesReturnHandler
}

func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware)
	router.Use(middleware.CORSMiddleware)
	router.Use(middleware.TenantMiddleware)
	router.Use(middleware.ErrorHandler())

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.PUT("/:id/status", handlers.Invoice.UpdateInvoiceStatus)
		invoices.POST("/:id/payments", handlers.Invoice.RecordPayment)
	}

	returns := router.Group("/returns")
	{
		returns.POST("", handlers.SalesReturn.CreateSalesReturn)
		returns.GET("", handlers.SalesReturn.ListSalesReturns)
		returns.GET("/:id", handlers.SalesReturn.GetSalesReturn)
		returns.PUT("/:id/status", handlers.SalesReturn.UpdateSalesReturnStatus)
	}
}
