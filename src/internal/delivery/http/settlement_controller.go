package http

import (
	"settlement-service/src/internal/delivery/http/middleware"
	"settlement-service/src/internal/model"
	"settlement-service/src/internal/usecase"
	"settlement-service/src/pkg/log"
	"settlement-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

// SettlementController serves refunds, wallets and the audit trail.
type SettlementController struct {
	Log     log.Log
	UseCase *usecase.SettlementUseCase
	Wallet  *usecase.WalletUseCase
}

func NewSettlementController(useCase *usecase.SettlementUseCase, wallet *usecase.WalletUseCase, logger log.Log) *SettlementController {
	return &SettlementController{
		Log:     logger,
		UseCase: useCase,
		Wallet:  wallet,
	}
}

func (c *SettlementController) Refund(ctx *fiber.Ctx) error {
	request := new(model.RefundPaymentRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error("SettlementController.Refund", "Failed to parse request body", "error", err.Error())
		return utils.ResponseError(fiber.NewError(fiber.StatusBadRequest, err.Error()), ctx)
	}
	request.Actor = middleware.GetUser(ctx)
	request.BookingID = ctx.Params("id")

	result := c.UseCase.RefundPayment(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Payment Refunded", fiber.StatusOK, ctx)
}

func (c *SettlementController) TopUp(ctx *fiber.Ctx) error {
	request, err := c.walletRequest(ctx, "SettlementController.TopUp")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	result := c.UseCase.TopUpWallet(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Wallet Topped Up", fiber.StatusOK, ctx)
}

func (c *SettlementController) Deduct(ctx *fiber.Ctx) error {
	request, err := c.walletRequest(ctx, "SettlementController.Deduct")
	if err != nil {
		return utils.ResponseError(err, ctx)
	}

	result := c.Wallet.Debit(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Wallet Deducted", fiber.StatusOK, ctx)
}

func (c *SettlementController) walletRequest(ctx *fiber.Ctx, scope string) (*model.WalletMutationRequest, error) {
	request := new(model.WalletMutationRequest)
	if err := ctx.BodyParser(request); err != nil {
		c.Log.Error(scope, "Failed to parse request body", "error", err.Error())
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	request.Actor = middleware.GetUser(ctx)
	request.UserID = ctx.Params("id")
	return request, nil
}

func (c *SettlementController) GetWallet(ctx *fiber.Ctx) error {
	request := &model.GetWalletRequest{UserID: ctx.Params("id"), Limit: ctx.QueryInt("limit")}
	result := c.Wallet.GetWallet(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Wallet Detail", fiber.StatusOK, ctx)
}

func (c *SettlementController) Reconcile(ctx *fiber.Ctx) error {
	result := c.Wallet.Reconcile(ctx.UserContext(), &model.GetWalletRequest{UserID: ctx.Params("id")})
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Wallet Reconciliation", fiber.StatusOK, ctx)
}

func (c *SettlementController) AuditLogs(ctx *fiber.Ctx) error {
	request := &model.ListAuditLogsRequest{
		ResourceType: ctx.Query("resourceType"),
		ResourceID:   ctx.Query("resourceId"),
		Limit:        ctx.QueryInt("limit"),
	}
	result := c.UseCase.ListAuditLogs(ctx.UserContext(), request)
	if result.Error != nil {
		return utils.ResponseError(result.Error, ctx)
	}

	return utils.Response(result.Data, "Audit Logs", fiber.StatusOK, ctx)
}
