package routes

import (
	"context"
	"strconv"

	_ "payment_gateway/docs" // This will be auto-generated
	"payment_gateway/internal/adapter/http/handlers"
	"payment_gateway/internal/adapter/http/middleware"
	"payment_gateway/internal/adapter/persistence/repository"
	"payment_gateway/internal/config"
	"payment_gateway/internal/domain/entities"
	"payment_gateway/internal/infrastructure/awsclient"
	"payment_gateway/internal/infrastructure/events"
	"payment_gateway/internal/infrastructure/httpclient"
	"payment_gateway/internal/infrastructure/payments"
	"payment_gateway/internal/infrastructure/secrets"
	"payment_gateway/internal/logger"
	"payment_gateway/internal/usecase"
	"payment_gateway/internal/usecase/interfaces"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

var router = gin.New()

// Run will start the server
func Run() {
	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal("Failed to load configuration", zap.Error(err))
	}
	logger.Init(cfg.AppEnv, cfg.LogLevel)
	defer logger.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	setMiddlewares()

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := getRoutes(context.Background(), cfg); err != nil {
		logger.L().Fatal("Failed to wire the application", zap.Error(err))
	}

	logger.L().Info("Starting payment gateway", zap.Int("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := router.Run(":" + strconv.Itoa(cfg.Port)); err != nil {
		logger.L().Fatal("Failed to startup the application", zap.Error(err))
	}
}

func getRoutes(ctx context.Context, cfg *config.Config) error {
	awsCfg, err := awsclient.LoadConfigFromEnv(ctx)
	if err != nil {
		return err
	}

	credentialStore := newCredentialStore(cfg, awsCfg)
	razorpayKeys := newRazorpayKeySource(cfg, awsCfg)

	razorpayClient := httpclient.New(string(entities.PaymentMethodRazorpay), cfg.ProviderTimeout, httpclient.DefaultBreakerConfig())
	zohoClient := httpclient.New(string(entities.PaymentMethodZoho), cfg.ProviderTimeout, httpclient.DefaultBreakerConfig())

	zohoTokens := payments.NewZohoTokenManager(credentialStore, cfg.ZohoAccountsURL, zohoClient)

	gateways := map[entities.PaymentMethod]interfaces.IPaymentGateway{
		entities.PaymentMethodRazorpay: payments.NewRazorpayGateway(cfg.RazorpayBaseURL, cfg.Currency, razorpayKeys, razorpayClient),
		entities.PaymentMethodZoho:     payments.NewZohoGateway(cfg.ZohoPaymentsBaseURL, cfg.ZohoBusinessName, cfg.Currency, zohoTokens, zohoClient),
	}

	var records interfaces.IPaymentRecordRepository
	if cfg.PaymentRecordsTable != "" {
		records = repository.NewPaymentRecordDynamoRepository(awsclient.NewDynamoDB(awsCfg), cfg.PaymentRecordsTable)
	} else {
		logger.L().Warn("Payment records disabled: PAYMENT_RECORDS_TABLE is empty")
	}

	var publisher interfaces.IEventPublisher
	if cfg.PaymentEventsTopicARN != "" {
		snsPublisher, err := events.NewSNSPublisher(awsclient.NewSNS(awsCfg), cfg.PaymentEventsTopicARN)
		if err != nil {
			return err
		}
		publisher = snsPublisher
	} else {
		logger.L().Warn("Payment events disabled: PAYMENT_EVENTS_TOPIC_ARN is empty")
	}

	paymentUseCase := usecase.NewPaymentUseCase(gateways, records, publisher)
	paymentHandler := handlers.NewPaymentHandler(paymentUseCase, cfg.ExposeErrorDetails)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addPaymentRoutes(v1, paymentHandler)
	return nil
}

func newCredentialStore(cfg *config.Config, awsCfg aws.Config) interfaces.ICredentialStore {
	if cfg.CredentialStore == config.CredentialStoreMemory {
		logger.L().Warn("Using in-memory credential store; refreshed tokens are lost on restart")
		seed := cfg.ZohoSeed
		return repository.NewCredentialMemoryRepository(entities.ZohoCredentials{
			ClientID:          seed.ClientID,
			ClientSecret:      seed.ClientSecret,
			RefreshToken:      seed.RefreshToken,
			AccessToken:       seed.AccessToken,
			TokenExpiresAt:    seed.TokenExpiresAt,
			OrganizationID:    seed.OrganizationID,
			PaymentsAccountID: seed.PaymentsAccountID,
			PayAPIKey:         seed.PayAPIKey,
			PaySigningKey:     seed.PaySigningKey,
		})
	}
	return repository.NewCredentialDynamoRepository(awsclient.NewDynamoDB(awsCfg), cfg.CredentialsTable)
}

func newRazorpayKeySource(cfg *config.Config, awsCfg aws.Config) interfaces.IRazorpayKeySource {
	if cfg.RazorpaySecretName != "" {
		return secrets.NewSecretsManagerRazorpayKeys(awsclient.NewSecretsManager(awsCfg), cfg.RazorpaySecretName)
	}
	return secrets.NewStaticRazorpayKeys(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
}

func setMiddlewares() {
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
}
