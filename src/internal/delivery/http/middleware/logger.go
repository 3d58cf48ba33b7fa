package middleware

import (
	"fmt"
	"time"

	"settlement-service/src/pkg/log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-Id"

// NewLogger tags every request with an id and logs it once it is answered.
func NewLogger(logger log.Log) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		start := time.Now()
		requestID := ctx.Get(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx.Set(HeaderRequestID, requestID)

		err := ctx.Next()

		latency := time.Since(start)
		message := fmt.Sprintf("%s %s %d %s", ctx.Method(), ctx.Path(), ctx.Response().StatusCode(), latency)
		if latency > time.Second {
			logger.Slow("http", message, "request", requestID)
		} else {
			logger.Info("http", message, "request", requestID)
		}
		return err
	}
}
