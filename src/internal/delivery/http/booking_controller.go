package http

import (
	"settlement-service/src/internal/delivery/http/middleware"
	"settlement-service/src/internal/model"
	"settlement-service/src/internal/usecase"
	"settlement-service/src/pkg/log"
	"settlement-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type BookingController struct {
	Log     log.Log
	UseCase *usecase.BookingUseCase
}

func NewBookingController(useCase *usecase.BookingUseCase, logger log.Log) *BookingController {
	return &BookingController{
		Log:     logger,
		UseCase: useCase,
	}
}

func (c *BookingController) Create(ctx *fiber.Ctx) error {
	request := new(model.CreateBookingRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.Create", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(fiber.NewError(fiber.StatusBadRequest, err.Error()), ctx)
	}
	request.Actor = middleware.GetUser(ctx)

	result := c.UseCase.CreateBooking(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking Created", fiber.StatusCreated, ctx)
}

func (c *BookingController) Get(ctx *fiber.Ctx) error {
	result := c.UseCase.GetBooking(ctx.UserContext(), &model.GetBookingRequest{ID: ctx.Params("id")})
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking Detail", fiber.StatusOK, ctx)
}

func (c *BookingController) Statuses(ctx *fiber.Ctx) error {
	return utils.Response(c.UseCase.StatusTable(), "Booking Statuses", fiber.StatusOK, ctx)
}

func (c *BookingController) UpdateStatus(ctx *fiber.Ctx) error {
	request := new(model.UpdateBookingStatusRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.UpdateStatus", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(fiber.NewError(fiber.StatusBadRequest, err.Error()), ctx)
	}
	request.Actor = middleware.GetUser(ctx)
	request.BookingID = ctx.Params("id")

	result := c.UseCase.UpdateStatus(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking Status Updated", fiber.StatusOK, ctx)
}

func (c *BookingController) AssignTechnician(ctx *fiber.Ctx) error {
	request := new(model.AssignTechnicianRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.AssignTechnician", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(fiber.NewError(fiber.StatusBadRequest, err.Error()), ctx)
	}
	request.Actor = middleware.GetUser(ctx)
	request.BookingID = ctx.Params("id")

	result := c.UseCase.AssignTechnician(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Technician Assigned", fiber.StatusOK, ctx)
}

func (c *BookingController) Cancel(ctx *fiber.Ctx) error {
	request := new(model.CancelBookingRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("BookingController.Cancel", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(fiber.NewError(fiber.StatusBadRequest, err.Error()), ctx)
	}
	request.Actor = middleware.GetUser(ctx)
	request.BookingID = ctx.Params("id")

	result := c.UseCase.CancelBooking(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Booking Cancelled", fiber.StatusOK, ctx)
}
