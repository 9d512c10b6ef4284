package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/veermshah/congruency/internal/completion"
	"github.com/veermshah/congruency/internal/config"
	"github.com/veermshah/congruency/internal/database"
	"github.com/veermshah/congruency/internal/database/migration"
	"github.com/veermshah/congruency/internal/esign"
	handlers "github.com/veermshah/congruency/internal/http/handler"
	"github.com/veermshah/congruency/internal/http/middleware"
	"github.com/veermshah/congruency/internal/otel"
	"github.com/veermshah/congruency/internal/render"
	"github.com/veermshah/congruency/internal/repository/postgres"
	"github.com/veermshah/congruency/internal/service"
	"github.com/veermshah/congruency/internal/storage"
	"github.com/veermshah/congruency/internal/token"
)

func main() {
	ctx := context.Background()
	loc := time.UTC

	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	objStore, err := storage.NewMinIO(cfg.MinIO)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	tokens := token.NewJWT(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)
	userRepo := postgres.NewUserPostgres(db)
	authSvc := service.NewAuthService(userRepo, tokens)

	llm := completion.NewHTTPClient(cfg.Completion)
	renderer := render.NewPDFRenderer()
	signer := esign.NewDocuSign(cfg.ESign)
	contractSvc := service.NewContractService(objStore, llm, renderer, signer, cfg.ESign.ReturnURL)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, db, authSvc, contractSvc, tokens, cfg.Auth, esign.OAuthConfig(cfg.ESign))

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
