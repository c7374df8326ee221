package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"github.com/falahalshidi/shrfa-app/internal/admin"
	"github.com/falahalshidi/shrfa-app/internal/api"
	"github.com/falahalshidi/shrfa-app/internal/auth"
	"github.com/falahalshidi/shrfa-app/internal/booking"
	booking_db "github.com/falahalshidi/shrfa-app/internal/booking/db"
	"github.com/falahalshidi/shrfa-app/internal/catalog"
	catalog_db "github.com/falahalshidi/shrfa-app/internal/catalog/db"
	"github.com/falahalshidi/shrfa-app/internal/config"
	"github.com/falahalshidi/shrfa-app/internal/database/migrations"
	"github.com/falahalshidi/shrfa-app/internal/identity"
	"github.com/falahalshidi/shrfa-app/internal/kafka"
	"github.com/falahalshidi/shrfa-app/internal/logger"
	"github.com/falahalshidi/shrfa-app/internal/qr"
	"github.com/falahalshidi/shrfa-app/internal/quota"
)

// openDatabase selects the row-store backend at composition time; business
// packages only ever see their own store interfaces.
func openDatabase(cfg *config.Config, log *logger.Logger) *bun.DB {
	if cfg.Database.Driver == "postgres" {
		dsn := cfg.Database.PostgresDSN
		if dsn == "" {
			log.Fatal("CONFIG", "POSTGRES_DSN not set")
		}

		var sqldb *sql.DB
		var err error
		maxRetries := 5

		for i := 0; i < maxRetries; i++ {
			log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
			sqldb, err = sql.Open("postgres", dsn)
			if err == nil {
				err = sqldb.Ping()
			}
			if err == nil {
				break
			}
			log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
			if i < maxRetries-1 {
				time.Sleep(2 * time.Second)
			}
		}
		if err != nil {
			log.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
		}

		log.Info("DATABASE", "✅ PostgreSQL connection successful")
		return bun.NewDB(sqldb, pgdialect.New())
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.Database.SQLitePath)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Failed to open SQLite database: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("✅ SQLite database opened at %s", cfg.Database.SQLitePath))
	return bun.NewDB(sqldb, sqlitedialect.New())
}

func openRedis(ctx context.Context, cfg *config.Config, log *logger.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Warn("REDIS", "REDIS_ADDR not set, quota guard disabled (falling back to query re-check)")
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	log.Info("DATABASE", fmt.Sprintf("✅ Redis connection successful to %s", cfg.Redis.Addr))
	return client
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting Shrfa festival ticketing service")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	bunDB := openDatabase(cfg, logger)
	defer bunDB.Close()

	if err := migrations.Setup(ctx, bunDB); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Schema setup failed: %v", err))
	}
	logger.Info("DATABASE", "Schema is up to date")

	redisClient := openRedis(ctx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers)
		defer producer.Close()
		requiredTopics := []string{kafka.TopicBookingCreated, kafka.TopicTicketIssued}
		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, requiredTopics); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			logger.Info("KAFKA", "Required topics ensured successfully")
		}
	} else {
		logger.Info("KAFKA", "Kafka disabled, booking events will not be published")
	}

	authClient := auth.NewClient(cfg.Auth.BaseURL, cfg.Auth.APIKey, cfg.Auth.Timeout, logger)

	identityService := identity.NewService(&identity.DB{Bun: bunDB}, authClient, cfg.Admin.Email, logger)
	catalogService := catalog.NewService(&catalog_db.DB{Bun: bunDB}, logger)

	var guard quota.ReserveGuard
	if redisClient != nil {
		guard = quota.NewGuard(redisClient, cfg.Redis.QuotaTTL, logger)
	}
	quotaService := quota.NewService(&quota.DB{Bun: bunDB}, guard, logger)

	qrGenerator := qr.NewGenerator(cfg.QRSecret)

	var events booking.EventPublisher
	if producer != nil {
		events = producer
	}
	bookingService := booking.NewService(&booking_db.DB{Bun: bunDB}, quotaService, events, qrGenerator, logger)

	adminService := admin.NewService(&admin.DB{Bun: bunDB}, logger)

	handler := &api.Handler{
		Auth:     authClient,
		Identity: identityService,
		Catalog:  catalogService,
		Booking:  bookingService,
		Quota:    quotaService,
		Admin:    adminService,
		Logger:   logger,
	}

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Post("/api/auth/register", handler.Register)
	r.Post("/api/auth/login", handler.Login)
	r.Post("/api/auth/logout", handler.Logout)
	r.Get("/api/festivals", handler.ListFestivals)
	logger.Info("ROUTER", "Public auth and festival routes registered")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(authClient))
		logger.Info("AUTH", "Bearer middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			r.Get("/me", handler.Me)
			r.Get("/quota", handler.RemainingQuota)

			r.Post("/bookings", handler.PurchaseBooking)
			r.Get("/bookings/{bookingID}", handler.GetBooking)
			r.Get("/tickets", handler.MyTickets)
			r.Get("/tickets/{ticketID}", handler.GetTicket)
			r.Get("/tickets/{ticketID}/qr", handler.TicketQR)
			logger.Info("ROUTER", "Booking and ticket routes registered under /api")

			r.Group(func(r chi.Router) {
				r.Use(handler.RequireAdmin)
				r.Get("/admin/festivals", handler.AdminListFestivals)
				r.Post("/festivals", handler.SaveFestival)
				r.Put("/festivals", handler.SaveFestival)
				r.Delete("/festivals/{festivalID}", handler.DeleteFestival)
				r.Get("/admin/stats", handler.AdminStats)
			})
			logger.Info("ROUTER", "Admin routes registered under /api")
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("🚀 Shrfa service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "✅ Shrfa service shutdown complete")
	}
}
