package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/federal-associados/app-cadastro/internal/config"
	"github.com/federal-associados/app-cadastro/internal/handlers"
	"github.com/federal-associados/app-cadastro/internal/logging"
	"github.com/federal-associados/app-cadastro/internal/middleware"
	"github.com/federal-associados/app-cadastro/internal/observability"
	"github.com/federal-associados/app-cadastro/internal/services"
	"github.com/federal-associados/app-cadastro/internal/utils/httpclient"
	"github.com/federal-associados/app-cadastro/internal/wizard"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/federal-associados/app-cadastro/docs"
)

// @title           Cadastro Federal Associados API
// @version         1.0
// @description     API do formulário de cadastro de associados: catálogo de planos, consulta de CEP, assistente de cadastro em passos e encaminhamento do cadastro para a Federal Associados.

// @contact.name   Suporte Federal Associados

// @host      localhost:8080
// @BasePath  /v1

// @tag.name registrations
// @tag.description Encaminhamento de cadastros

// @tag.name wizard
// @tag.description Assistente de cadastro em passos

// @tag.name catalog
// @tag.description Planos e unidades federativas

// @tag.name cep
// @tag.description Consulta de endereço por CEP

// @tag.name health
// @tag.description Health check operations

func main() {
	// Initialize logger first
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer logging.Logger.Sync()

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig

	// Initialize observability
	observability.InitTracer(cfg)
	defer observability.ShutdownTracer()

	if err := config.InitRedis(); err != nil {
		logging.Logger.Fatal("failed to configure Redis", zap.Error(err))
	}
	defer config.CloseRedis()

	// Outbound clients never follow redirects: the registration endpoint
	// answers with one on success
	pool := httpclient.NewHTTPClientPool(20)
	defer pool.Close()

	cepService := services.NewCEPService(config.Redis, cfg.CEPBaseURL, cfg.CEPCacheTTL, cfg.CEPTimeout, pool, logging.Logger)

	proxy, err := services.NewRegistrationProxy(services.ProxyConfigFrom(cfg), pool, logging.Logger)
	if err != nil {
		logging.Logger.Fatal("failed to configure registration proxy", zap.Error(err))
	}

	layout, err := wizard.ParseLayout(cfg.WizardLayout)
	if err != nil {
		logging.Logger.Fatal("invalid wizard layout", zap.Error(err))
	}
	sessions := services.NewWizardSessionService(config.Redis, cfg.WizardSessionTTL, layout, cepService, proxy, logging.Logger)
	limiter := services.NewPerMinuteRateLimiter(cfg.RegistrationRateLimit, logging.Logger)

	registrationHandlers := handlers.NewRegistrationHandlers(proxy, limiter, logging.Logger)
	cepHandlers := handlers.NewCEPHandlers(cepService, logging.Logger)
	wizardHandlers := handlers.NewWizardHandlers(sessions, logging.Logger)

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router with middleware
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		middleware.RequestTiming(),
		cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
			AllowHeaders:    []string{"authorization", "x-client-info", "apikey", "content-type"},
			MaxAge:          12 * time.Hour,
		}),
	)

	// Metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		v1.GET("/health", handlers.HealthCheck)

		v1.GET("/plans", handlers.ListPlans)
		v1.GET("/states", handlers.ListStates)
		v1.GET("/cep/:cep", cepHandlers.GetCEP)

		v1.POST("/registrations", registrationHandlers.SubmitRegistration)

		wizardGroup := v1.Group("/wizard")
		{
			wizardGroup.POST("", wizardHandlers.CreateSession)
			wizardGroup.GET("/:id", wizardHandlers.GetSession)
			wizardGroup.PATCH("/:id/fields", wizardHandlers.SetFields)
			wizardGroup.POST("/:id/advance", wizardHandlers.Advance)
			wizardGroup.POST("/:id/retreat", wizardHandlers.Retreat)
			wizardGroup.POST("/:id/submit", wizardHandlers.Submit)
			wizardGroup.POST("/:id/reset", wizardHandlers.Reset)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// WriteTimeout covers a CSRF fetch plus the registration post
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.String("wizard_layout", string(layout)),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logging.Logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Logger.Error("server forced to shutdown", zap.Error(err))
		return
	}

	logging.Logger.Info("server exited gracefully")
}
