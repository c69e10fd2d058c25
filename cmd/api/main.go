package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BruksfildServices01/court-scheduler/internal/audit"
	"github.com/BruksfildServices01/court-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/court-scheduler/internal/db"
	"github.com/BruksfildServices01/court-scheduler/internal/events"
	"github.com/BruksfildServices01/court-scheduler/internal/infra/cache"
	"github.com/BruksfildServices01/court-scheduler/internal/infra/mq"
	"github.com/BruksfildServices01/court-scheduler/internal/infra/notify"
	"github.com/BruksfildServices01/court-scheduler/internal/infra/payments"
	infraRepo "github.com/BruksfildServices01/court-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/court-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/court-scheduler/internal/logging"
	"github.com/BruksfildServices01/court-scheduler/internal/middleware"
	"github.com/BruksfildServices01/court-scheduler/internal/obs"
	"github.com/BruksfildServices01/court-scheduler/internal/routes"
	"github.com/BruksfildServices01/court-scheduler/internal/timezone"
	ucBooking "github.com/BruksfildServices01/court-scheduler/internal/usecase/booking"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	logging.Setup(cfg.LogLevel, cfg.IsDev())
	timezone.DefaultTimezone = cfg.DefaultTimezone

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.OTLPEndpoint, "court-scheduler", cfg.AppEnv)
	if err != nil {
		log.Fatal().Err(err).Msg("tracer")
	}

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}

	// ======================================================
	// INFRA
	// ======================================================
	repo := infraRepo.NewBookingGormRepository(db)
	auditDispatcher := audit.NewDispatcher(audit.New(db))
	bus := events.NewBus(256)

	deps := routes.Deps{
		DB:     db,
		Config: cfg,
		Repo:   repo,
		Audit:  auditDispatcher,
		Bus:    bus,
		Images: storage.NewS3Store(storage.Options{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		}),
	}

	if cfg.RedisURL != "" {
		client, err := cache.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, grid cache disabled")
		} else {
			defer client.Close()
			gridCache := cache.NewGridCache(client, cfg.GridCacheTTL())
			deps.GridCache = gridCache
			bus.Attach(gridCache, events.Inline)
		}
	}

	if cfg.RabbitURL != "" {
		publisher, err := mq.NewPublisher(cfg.RabbitURL, cfg.BookingExchange)
		if err != nil {
			log.Warn().Err(err).Msg("rabbitmq unavailable, event publishing disabled")
		} else {
			defer publisher.Close()
			bus.Attach(publisher, events.Queued)
		}
	}

	if cfg.TelegramBotToken != "" {
		bot, err := notify.NewTelegram(cfg.TelegramBotToken, notify.OwnerChats(db))
		if err != nil {
			log.Warn().Err(err).Msg("telegram unavailable, owner alerts disabled")
		} else {
			bus.Attach(bot, events.Queued)
		}
	}

	bus.Attach(notify.NewInbox(notify.NewGormNotifications(db)), events.Queued)

	mail := notify.MailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
	}
	if mail.Enabled() {
		bus.Attach(notify.NewEmail(mail, notify.CustomerRecipients(db)), events.Queued)
	} else {
		log.Info().Msg("smtp not configured, customer emails disabled")
	}

	if cfg.MercadoPagoAccessToken != "" {
		gateway, err := payments.NewMercadoPago(cfg.MercadoPagoAccessToken)
		if err != nil {
			log.Warn().Err(err).Msg("mercado pago unavailable, payment webhook disabled")
		} else {
			deps.Payments = gateway
		}
	}

	// ======================================================
	// EXPIRY SWEEPER
	// ======================================================
	sweeper := ucBooking.NewExpirePendingBookings(repo, auditDispatcher, bus, deps.Policy())
	go sweeper.Run(ctx, cfg.SweepInterval())

	// ======================================================
	// HTTP
	// ======================================================
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORSMiddleware(cfg.AllowedOrigins()),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	// drain in-flight events before their sinks close
	bus.Close()
	auditDispatcher.Close()

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("tracer shutdown")
	}
}
