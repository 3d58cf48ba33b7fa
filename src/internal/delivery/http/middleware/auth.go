package middleware

import (
	"strings"

	"settlement-service/src/internal/entity"
	"settlement-service/src/internal/model"
	httpError "settlement-service/src/pkg/http-error"
	"settlement-service/src/pkg/log"
	"settlement-service/src/pkg/token"
	"settlement-service/src/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/viper"
)

const authKey = "auth"

// NewAuth verifies the bearer token and stores the caller for GetUser. Only
// admins reach the settlement routes.
func NewAuth(cfg *viper.Viper, logger log.Log) fiber.Handler {
	secret := cfg.GetString("auth.jwt.secret")
	issuer := cfg.GetString("auth.jwt.issuer")

	return func(ctx *fiber.Ctx) error {
		header := ctx.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			errObj := httpError.NewUnauthorized()
			errObj.Message = "missing bearer token"
			return utils.ResponseError(errObj, ctx)
		}

		claim, err := token.Parse(strings.TrimSpace(raw), secret, issuer)
		if err != nil {
			logger.Error("middleware/auth", err.Error(), "NewAuth", ctx.Path())
			errObj := httpError.NewUnauthorized()
			errObj.Message = "invalid bearer token"
			return utils.ResponseError(errObj, ctx)
		}
		if claim.Metadata.Role != entity.RoleAdmin {
			errObj := httpError.NewForbidden()
			errObj.Message = "admin role required"
			return utils.ResponseError(errObj, ctx)
		}

		ctx.Locals(authKey, &model.Actor{UserID: claim.Metadata.UserID, Role: claim.Metadata.Role})
		return ctx.Next()
	}
}

// GetUser returns the caller stored by NewAuth.
func GetUser(ctx *fiber.Ctx) model.Actor {
	actor, ok := ctx.Locals(authKey).(*model.Actor)
	if !ok || actor == nil {
		return model.Actor{}
	}
	return *actor
}
