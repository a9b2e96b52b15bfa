package router

import (
	"log"
	"time"

	"rently/config"
	"rently/internal/escrow"
	"rently/internal/handler"
	"rently/internal/middleware"
	"rently/internal/repository"
	"rently/internal/service"
	"rently/internal/ws"
	"rently/pkg/cloudinary"
	"rently/pkg/email"
	"rently/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, provider payment.Provider, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	listingRepo := repository.NewListingRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	convRepo := repository.NewConversationRepository(db)
	pointsRepo := repository.NewPointsRepository(db)
	identityRepo := repository.NewIdentityRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	chatHub := ws.NewChatHub()

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	fcmSvc := service.NewFCMService(cfg.Firebase.ServiceAccountPath)
	if fcmSvc != nil {
		log.Printf("[FCM] Push notifications enabled")
	} else if cfg.Firebase.ServiceAccountPath != "" {
		log.Printf("[FCM] Push notifications disabled: failed to init (check service account file)")
	} else {
		log.Printf("[FCM] Push notifications disabled: set FIREBASE_SERVICE_ACCOUNT_PATH to enable")
	}
	mailer := email.NewClient(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From)
	notifSvc := service.NewNotificationService(notificationRepo, userRepo, fcmSvc, mailer)
	esc := escrow.NewManager(provider, cfg.Payment.Currency)
	releaseSvc := service.NewReleaseService(bookingRepo, payoutRepo, paymentRepo, userRepo, esc, notifSvc, cfg.Payment.TestMode)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditRepo)
	googleOAuthHandler := handler.NewGoogleOAuthHandler(cfg, authSvc, auditRepo)
	meHandler := handler.NewMeHandler(userRepo, pointsRepo, payoutRepo, reviewRepo)
	listingHandler := handler.NewListingHandler(listingRepo, reviewRepo)
	bookingHandler := handler.NewBookingHandler(bookingRepo, listingRepo, userRepo, paymentRepo, convRepo, esc, notifSvc)
	handoverHandler := handler.NewHandoverHandler(bookingRepo, pointsRepo, userRepo, paymentRepo, esc, notifSvc, releaseSvc, cfg.Points.FirstBookingBonus)
	reviewHandler := handler.NewReviewHandler(reviewRepo, bookingRepo, listingRepo, userRepo, notifSvc)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	chatHandler := handler.NewChatHandler(convRepo, listingRepo, userRepo, chatHub, notifSvc)
	uploadHandler := handler.NewUploadHandler(cloud)
	connectHandler := handler.NewConnectHandler(cfg, provider, userRepo, identityRepo)
	adminHandler := handler.NewAdminHandler(userRepo, bookingRepo, auditRepo)
	adminReleaseHandler := handler.NewAdminReleaseHandler(releaseSvc, auditRepo)
	webhookHandler := handler.NewPaymentWebhookHandler(cfg, bookingRepo, paymentRepo, userRepo, identityRepo, auditRepo, notifSvc)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.PATCH("/change-password", authMw, authHandler.ChangePassword)
			authGroup.GET("/google", googleOAuthHandler.Redirect)
			authGroup.GET("/google/callback", googleOAuthHandler.Callback)
		}

		// Public browse
		api.GET("/listings", listingHandler.Browse)
		api.GET("/listings/:id", listingHandler.Get)
		api.GET("/listings/:id/reviews", listingHandler.Reviews)
		api.GET("/listings/:id/quote", listingHandler.Quote)

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.GET("/profile", meHandler.Get)
			me.PATCH("/profile", meHandler.Update)
			me.PUT("/fcm-token", meHandler.UpdateFCMToken)
			me.GET("/points", meHandler.Points)
			me.GET("/payouts", meHandler.Payouts)
			me.GET("/reviews", meHandler.Reviews)
			me.GET("/listings", listingHandler.Mine)
		}

		listings := api.Group("/listings")
		listings.Use(authMw)
		{
			listings.POST("", listingHandler.Create)
			listings.PATCH("/:id", listingHandler.Update)
			listings.DELETE("/:id", listingHandler.Delete)
		}

		bookings := api.Group("/bookings")
		bookings.Use(authMw)
		{
			bookings.POST("", bookingHandler.Create)
			bookings.GET("", bookingHandler.ListMine)
			bookings.GET("/:id", bookingHandler.Get)
			bookings.POST("/:id/cancel", bookingHandler.Cancel)
			bookings.POST("/:id/pickup", handoverHandler.Pickup)
			bookings.POST("/:id/return", handoverHandler.Return)
			bookings.POST("/:id/complete", handoverHandler.Complete)
		}

		reviews := api.Group("/reviews")
		reviews.Use(authMw)
		{
			reviews.POST("", reviewHandler.Create)
			reviews.PATCH("/:id", reviewHandler.Update)
			reviews.DELETE("/:id", reviewHandler.Delete)
			reviews.POST("/:id/response", reviewHandler.Respond)
		}

		notifications := api.Group("/notifications")
		notifications.Use(authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
		}

		conversations := api.Group("/conversations")
		conversations.Use(authMw)
		{
			conversations.POST("", chatHandler.Start)
			conversations.GET("", chatHandler.List)
			conversations.GET("/:id/messages", chatHandler.Messages)
			conversations.POST("/:id/messages", chatHandler.Send)
		}
		api.GET("/ws/chat", handler.UpgradeChatWS(&cfg.JWT, chatHub, convRepo, notifSvc))

		connect := api.Group("/connect")
		connect.Use(authMw)
		{
			connect.POST("/onboarding", connectHandler.StartOnboarding)
			connect.GET("/status", connectHandler.Status)
			connect.POST("/identity", connectHandler.StartIdentity)
		}

		api.POST("/uploads", authMw, uploadHandler.Upload)

		admin := api.Group("/admin")
		admin.Use(authMw, middleware.AdminRequired())
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.GET("/bookings", adminHandler.ListBookings)
			admin.GET("/disputes", adminHandler.ListDisputes)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
			admin.GET("/payment-releases", adminReleaseHandler.List)
			admin.POST("/payment-releases", adminReleaseHandler.Release)
		}

		api.POST("/webhooks/payment", webhookHandler.Handle)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
