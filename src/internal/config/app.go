package config

import (
	"settlement-service/src/internal/delivery/http"
	"settlement-service/src/internal/delivery/http/middleware"
	"settlement-service/src/internal/delivery/http/route"
	"settlement-service/src/internal/gateway/messaging"
	"settlement-service/src/internal/pricing"
	"settlement-service/src/internal/repository"
	"settlement-service/src/internal/usecase"
	"settlement-service/src/pkg/databases/mysql"
	kafkaPkgConfluent "settlement-service/src/pkg/kafka/confluent"
	"settlement-service/src/pkg/log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type BootstrapConfig struct {
	DB       mysql.DBInterface
	App      *fiber.App
	Log      log.Log
	Validate *validator.Validate
	Config   *viper.Viper
	Producer kafkaPkgConfluent.Producer
	Locker   usecase.Locker
}

func Bootstrap(config *BootstrapConfig) error {
	calculator, err := NewCalculator(config.Config)
	if err != nil {
		return err
	}
	policy, err := usecase.ParseApprovalPolicy(config.Config.GetString("settlement.quotation_approval_policy"))
	if err != nil {
		return err
	}

	// setup repositories
	bookingRepository := repository.NewBookingRepository(config.DB)
	quotationRepository := repository.NewQuotationRepository(config.DB)
	paymentRepository := repository.NewPaymentRepository(config.DB)
	walletRepository := repository.NewWalletRepository(config.DB)
	userRepository := repository.NewUserRepository(config.DB)
	auditRepository := repository.NewAuditRepository(config.DB)
	settlementProducer := messaging.NewSettlementProducer(config.Producer, config.Log)

	// setup use cases
	walletUseCase := usecase.NewWalletUseCase(
		config.Log,
		config.Validate,
		config.DB,
		walletRepository,
		paymentRepository,
		auditRepository,
		config.Locker,
		settlementProducer,
	)
	bookingUseCase := usecase.NewBookingUseCase(
		config.Log,
		config.Validate,
		config.DB,
		bookingRepository,
		quotationRepository,
		paymentRepository,
		userRepository,
		auditRepository,
		config.Locker,
		settlementProducer,
	)
	quotationUseCase := usecase.NewQuotationUseCase(
		config.Log,
		config.Validate,
		config.DB,
		bookingRepository,
		quotationRepository,
		paymentRepository,
		userRepository,
		auditRepository,
		config.Locker,
		settlementProducer,
		calculator,
		policy,
	)
	settlementUseCase := usecase.NewSettlementUseCase(
		config.Log,
		config.Validate,
		config.DB,
		bookingRepository,
		quotationRepository,
		paymentRepository,
		userRepository,
		auditRepository,
		walletUseCase,
		config.Locker,
		settlementProducer,
	)

	// setup controller
	bookingController := http.NewBookingController(bookingUseCase, config.Log)
	quotationController := http.NewQuotationController(quotationUseCase, config.Log)
	settlementController := http.NewSettlementController(settlementUseCase, walletUseCase, config.Log)

	// setup middleware
	routeConfig := route.RouteConfig{
		App:                  config.App,
		BookingController:    bookingController,
		QuotationController:  quotationController,
		SettlementController: settlementController,
		LoggerMiddleware:     middleware.NewLogger(config.Log),
		AuthMiddleware:       middleware.NewAuth(config.Config, config.Log),
	}
	routeConfig.Setup()
	return nil
}

func NewCalculator(viper *viper.Viper) (pricing.Calculator, error) {
	rate, err := decimal.NewFromString(viper.GetString("settlement.vat_rate"))
	if err != nil {
		return pricing.Calculator{}, err
	}
	return pricing.NewCalculator(rate)
}
