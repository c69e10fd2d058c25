package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	"github.com/BruksfildServices01/court-scheduler/internal/config"
	domain "github.com/BruksfildServices01/court-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/court-scheduler/internal/events"
	"github.com/BruksfildServices01/court-scheduler/internal/handlers"
	"github.com/BruksfildServices01/court-scheduler/internal/infra/banks"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	"github.com/BruksfildServices01/court-scheduler/internal/models"
	ucBooking "github.com/BruksfildServices01/court-scheduler/internal/usecase/booking"
	ucPayment "github.com/BruksfildServices01/court-scheduler/internal/usecase/payment"
)

// Deps are the process-wide singletons built in main. GridCache and
// Payments may be nil.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config

	Repo      domain.Repository
	Audit     *audit.Dispatcher
	Bus       *events.Bus
	GridCache ucBooking.GridCache
	Images    handlers.ImageStore
	Payments  ucPayment.Gateway

	// Accounts defaults to the users table when DB is set.
	Accounts middleware.AccountSource
	// Banks defaults to the VietQR bank list.
	Banks handlers.BankDirectory

	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) Policy() ucBooking.Policy {
	return ucBooking.Policy{
		MinDuration: d.Config.MinBookingDuration(),
		PendingHold: d.Config.PendingHold(),
		Now:         d.Now,
	}
}

func (d Deps) PaymentSettings() ucPayment.Settings {
	return ucPayment.Settings{
		DescriptionPrefix: d.Config.PaymentDescriptionPrefix,
		QRBaseURL:         d.Config.VietQRBaseURL,
		PendingHold:       d.Config.PendingHold(),
		Now:               d.Now,
	}
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	cfg := d.Config
	db := d.DB
	policy := d.Policy()
	settings := d.PaymentSettings()

	// ======================================================
	// 🧠 USE CASES
	// ======================================================
	checkUC := ucBooking.NewCheckAvailability(d.Repo, policy)
	createUC := ucBooking.NewCreateBooking(d.Repo, d.Audit, d.Bus, policy)
	lifecycleUC := ucBooking.NewUpdateBookingStatus(d.Repo, d.Audit, d.Bus, policy)
	listUC := ucBooking.NewListBookings(d.Repo)
	getUC := ucBooking.NewGetBooking(d.Repo)
	gridUC := ucBooking.NewGetAvailabilityGrid(d.Repo, d.GridCache, policy)

	paymentInfoUC := ucPayment.NewGetPaymentInfo(d.Repo, settings)
	paymentStatusUC := ucPayment.NewGetPaymentStatus(d.Repo, settings)

	var confirmUC *ucPayment.ConfirmPayment
	if d.Payments != nil {
		confirmUC = ucPayment.NewConfirmPayment(d.Repo, d.Payments, d.Audit, d.Bus, settings)
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	bookingHandler := handlers.NewBookingHandler(checkUC, createUC, listUC, getUC, paymentInfoUC, paymentStatusUC, settings)
	ownerBookingHandler := handlers.NewOwnerBookingHandler(createUC, listUC, lifecycleUC, gridUC, cfg.PendingHold())

	complexHandler := handlers.NewComplexHandler(db, d.Audit)
	courtHandler := handlers.NewCourtHandler(db, d.Audit)
	pricingHandler := handlers.NewPricingHandler(db, d.Audit)
	imageHandler := handlers.NewImageHandler(db, d.Images, d.Audit)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	publicHandler := handlers.NewPublicHandler(db, gridUC)
	reviewHandler := handlers.NewReviewHandler(db, d.Audit)
	adminHandler := handlers.NewAdminHandler(db)
	webhookHandler := handlers.NewPaymentWebhookHandler(confirmUC, cfg.PaymentWebhookSecret)
	notificationHandler := handlers.NewNotificationHandler(db)
	ownerStatsHandler := handlers.NewOwnerStatsHandler(db)

	bankDirectory := d.Banks
	if bankDirectory == nil {
		bankDirectory = banks.NewDirectory(cfg.VietQRBanksURL, cfg.BankCacheTTL())
	}
	bankHandler := handlers.NewBankHandler(bankDirectory)

	accounts := d.Accounts
	if accounts == nil && db != nil {
		accounts = middleware.NewGormAccounts(db)
	}
	auth := middleware.AuthMiddleware(cfg, accounts)
	ownerOnly := middleware.RequireRole(models.RoleOwner)

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🌐 PUBLIC
		// ------------------------------
		public := api.Group("/public")
		{
			public.GET("/court-complexes", publicHandler.Search)
			public.GET("/court-complexes/:id", publicHandler.Detail)
			public.GET("/court-complexes/:id/availability-grid", publicHandler.Grid)
			public.GET("/court-complexes/:id/reviews", reviewHandler.List)
			public.GET("/cities", publicHandler.Cities)
			public.GET("/sport-types", publicHandler.SportTypes)
		}

		api.POST("/payments/webhook", webhookHandler.Handle)

		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/google", authHandler.Google)

		secured := api.Group("/")
		secured.Use(auth)
		{
			secured.GET("/auth/me", meHandler.GetMe)
			secured.PATCH("/auth/me", meHandler.UpdateMe)

			// ------------------------------
			// BOOKINGS (any signed-in user)
			// ------------------------------
			secured.POST("/booking/check-availability", bookingHandler.CheckAvailability)
			secured.POST("/booking/create", middleware.RequireRole(models.RoleCustomer), bookingHandler.Create)
			secured.POST("/booking/walk-in", ownerOnly, ownerBookingHandler.WalkIn)
			secured.GET("/booking/my-bookings", bookingHandler.MyBookings)
			secured.GET("/booking/:id", bookingHandler.Get)
			secured.GET("/booking/:id/payment-info", bookingHandler.PaymentInfo)
			secured.GET("/booking/:id/status", bookingHandler.Status)
			secured.GET("/booking/:id/receipt.pdf", bookingHandler.Receipt)

			secured.POST("/court-complexes/:id/reviews", middleware.RequireRole(models.RoleCustomer), reviewHandler.Create)
			secured.GET("/reviews/my-reviews", reviewHandler.MyReviews)
			secured.PUT("/reviews/:id", reviewHandler.Update)
			secured.DELETE("/reviews/:id", reviewHandler.Delete)

			// ------------------------------
			// NOTIFICATIONS
			// ------------------------------
			secured.GET("/notifications", notificationHandler.List)
			secured.PUT("/notifications/mark-all-read", notificationHandler.MarkAllRead)
			secured.PUT("/notifications/:id/read", notificationHandler.MarkRead)
			secured.DELETE("/notifications/:id", notificationHandler.Delete)
		}

		// ------------------------------
		// 🏟️ OWNER
		// ------------------------------
		owner := api.Group("/owner")
		owner.Use(auth, ownerOnly)
		{
			owner.GET("/statistics", ownerStatsHandler.Statistics)
			owner.GET("/banks", bankHandler.List)

			owner.GET("/court-complexes", complexHandler.List)
			owner.POST("/court-complexes", complexHandler.Create)
			owner.GET("/court-complexes/:id", complexHandler.Get)
			owner.PUT("/court-complexes/:id", complexHandler.Update)
			owner.GET("/court-complexes/:id/availability-grid", ownerBookingHandler.Grid)
			owner.GET("/court-complexes/:id/audit-logs", auditLogsHandler.List)

			owner.GET("/court-complexes/:id/courts", courtHandler.List)
			owner.POST("/court-complexes/:id/courts", courtHandler.Create)
			owner.PUT("/courts/:id", courtHandler.Update)
			owner.DELETE("/courts/:id", courtHandler.Delete)
			owner.GET("/courts/:id/pricing-rules", pricingHandler.Get)
			owner.PUT("/courts/:id/pricing-rules", pricingHandler.Update)

			owner.POST("/court-complexes/:id/images", imageHandler.Upload)
			owner.PUT("/court-complexes/:id/images/:imageId/main", imageHandler.SetMain)
			owner.DELETE("/court-complexes/:id/images/:imageId", imageHandler.Delete)

			owner.GET("/bookings", ownerBookingHandler.List)
			owner.GET("/bookings/pending", ownerBookingHandler.Pending)
			owner.PUT("/bookings/:id/approve", ownerBookingHandler.Transition(domain.ActionApprove))
			owner.PUT("/bookings/:id/reject", ownerBookingHandler.Transition(domain.ActionReject))
			owner.PUT("/bookings/:id/cancel", ownerBookingHandler.Transition(domain.ActionCancel))
			owner.PUT("/bookings/:id/complete", ownerBookingHandler.Transition(domain.ActionComplete))
		}

		// ------------------------------
		// 🛡️ ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(auth, middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/status", adminHandler.SetStatus)
			admin.PUT("/users/:id/role", adminHandler.SetRole)
			admin.GET("/statistics", adminHandler.Statistics)
		}
	}
}
