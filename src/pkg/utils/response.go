package utils

import (
	httpError "settlement-service/src/pkg/http-error"

	"github.com/gofiber/fiber/v2"
)

// BaseResponse is the envelope shared by every endpoint.
type BaseResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

func Response(data interface{}, message string, code int, ctx *fiber.Ctx) error {
	return ctx.Status(code).JSON(BaseResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ResponseError(err error, ctx *fiber.Ctx) error {
	if fe, ok := err.(*fiber.Error); ok {
		kind := httpError.KindValidation
		if fe.Code == fiber.StatusNotFound {
			kind = httpError.KindNotFound
		}
		return ctx.Status(fe.Code).JSON(BaseResponse{
			Success: false,
			Message: fe.Message,
			Kind:    kind,
		})
	}
	errObj := httpError.As(err)
	return ctx.Status(errObj.Code).JSON(BaseResponse{
		Success: false,
		Message: errObj.Message,
		Data:    errObj.Data,
		Kind:    errObj.Kind,
	})
}
