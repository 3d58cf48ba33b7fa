package http

import (
	"settlement-service/src/internal/delivery/http/middleware"
	"settlement-service/src/internal/model"
	"settlement-service/src/internal/usecase"
	"settlement-service/src/pkg/log"
	"settlement-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type QuotationController struct {
	Log     log.Log
	UseCase *usecase.QuotationUseCase
}

func NewQuotationController(useCase *usecase.QuotationUseCase, logger log.Log) *QuotationController {
	return &QuotationController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *QuotationController) Create(ctx *fiber.Ctx) error {
	request := new(model.CreateQuotationRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("QuotationController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(fiber.NewError(fiber.StatusBadRequest, err.Error()), ctx)
	}
	request.Actor = middleware.GetUser(ctx)

	result := c.UseCase.CreateQuotation(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Quotation Created", fiber.StatusCreated, ctx)
}

func (c *QuotationController) Get(ctx *fiber.Ctx) error {
	result := c.UseCase.GetQuotation(ctx.UserContext(), &model.GetQuotationRequest{ID: ctx.Params("id")})
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Quotation Detail", fiber.StatusOK, ctx)
}

func (c *QuotationController) Decide(ctx *fiber.Ctx) error {
	request := new(model.DecideQuotationRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("QuotationController.Decide", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(fiber.NewError(fiber.StatusBadRequest, err.Error()), ctx)
	}
	request.Actor = middleware.GetUser(ctx)
	request.QuotationID = ctx.Params("id")

	result := c.UseCase.DecideQuotation(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Quotation Decided", fiber.StatusOK, ctx)
}
