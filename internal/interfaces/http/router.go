package http

import (
	nethttp "net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"agencydesk/internal/application/usecases"
	"agencydesk/internal/infrastructure/agentapi"
	"agencydesk/internal/infrastructure/cache"
	"agencydesk/internal/infrastructure/config"
	"agencydesk/internal/infrastructure/email"
	"agencydesk/internal/infrastructure/payment"
	"agencydesk/internal/infrastructure/repository"
	"agencydesk/internal/interfaces/http/handlers"
	"agencydesk/internal/interfaces/http/middleware"
	"agencydesk/internal/interfaces/http/routes"
	"agencydesk/internal/shared/db"
	"agencydesk/internal/shared/logger"
	"agencydesk/internal/shared/utils"
)

// NewRouter wires repositories, outbound adapters and the reconciliation
// usecase into a gin engine.
func NewRouter(cfg *config.Config, database *gorm.DB, log logger.Interface) *gin.Engine {
	gin.SetMode(ginMode(cfg.Server.Mode))

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		utils.ErrorResponse(c, nethttp.StatusMethodNotAllowed, "method not allowed")
	})

	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.CORS(cfg.Server.AllowedOrigins))

	productCache := cache.NewProductNameCache(&cfg.Redis)
	gateway := payment.NewStripeGateway(&cfg.Stripe, productCache, log)

	processor := usecases.NewProcessWebhookEventUseCase(usecases.ProcessWebhookEventDeps{
		Subscriptions: repository.NewUserSubscriptionRepository(database),
		Addons:        repository.NewAddonSubscriptionRepository(database),
		SeatPacks:     repository.NewSeatPackRepository(database),
		Agents:        repository.NewProvisionedAgentRepository(database),
		Payments:      repository.NewPaymentRepository(database),
		Plans:         repository.NewPlanRepository(database),
		Tiers:         repository.NewAddonTierRepository(database),
		Events:        repository.NewWebhookEventRepository(database),
		Users:         repository.NewUserRepository(database),
		TxManager:     db.NewTransactionManager(database),
		Gateway:       gateway,
		Notifier:      email.NewSMTPNotificationService(&cfg.Email),
		AdminNotifier: email.NewSMTPAdminNotifier(&cfg.Email, &cfg.AdminNotify),
		Provisioner:   agentapi.NewClient(&cfg.Provisioner),
		Logger:        log,
	})

	webhookHandler := handlers.NewWebhookHandler(gateway, processor, log)
	routes.RegisterWebhookRoutes(router, webhookHandler)
	routes.RegisterHealthRoutes(router, handlers.NewHealthHandler())

	return router
}

func ginMode(mode string) string {
	switch mode {
	case "release", "production":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
