package route

import (
	"settlement-service/src/internal/delivery/http"

	"github.com/gofiber/fiber/v2"
)

type RouteConfig struct {
	App                  *fiber.App
	BookingController    *http.BookingController
	QuotationController  *http.QuotationController
	SettlementController *http.SettlementController
	LoggerMiddleware     fiber.Handler
	AuthMiddleware       fiber.Handler
}

func (c *RouteConfig) Setup() {
	c.App.Use(c.LoggerMiddleware)
	c.App.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})
	c.SetupAuthRoute()
}

func (c *RouteConfig) SetupAuthRoute() {
	api := c.App.Group("/api/v1", c.AuthMiddleware)

	api.Post("/bookings", c.BookingController.Create)
	api.Get("/bookings/statuses", c.BookingController.Statuses)
	api.Get("/bookings/:id", c.BookingController.Get)
	api.Put("/bookings/:id/status", c.BookingController.UpdateStatus)
	api.Put("/bookings/:id/assign-technician", c.BookingController.AssignTechnician)
	api.Patch("/bookings/:id/cancel", c.BookingController.Cancel)
	api.Post("/bookings/:id/refund", c.SettlementController.Refund)

	api.Post("/quotations", c.QuotationController.Create)
	api.Get("/quotations/:id", c.QuotationController.Get)
	api.Put("/quotations/:id", c.QuotationController.Decide)

	api.Post("/customers/:id/wallet/topup", c.SettlementController.TopUp)
	api.Post("/customers/:id/wallet/deduct", c.SettlementController.Deduct)
	api.Get("/customers/:id/wallet", c.SettlementController.GetWallet)
	api.Get("/customers/:id/wallet/reconcile", c.SettlementController.Reconcile)

	api.Get("/audit-logs", c.SettlementController.AuditLogs)
}
