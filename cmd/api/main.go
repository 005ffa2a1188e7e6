package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"

	appanalytics "github.com/jhoicas/Analytics-api/internal/application/analytics"
	"github.com/jhoicas/Analytics-api/internal/domain/repository"
	"github.com/jhoicas/Analytics-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Analytics-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Analytics-api/internal/infrastructure/upstream"
	httpRouter "github.com/jhoicas/Analytics-api/internal/interfaces/http"
	"github.com/jhoicas/Analytics-api/pkg/config"
	"github.com/jhoicas/Analytics-api/pkg/jwt"
	"github.com/jhoicas/Analytics-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.Log.Level,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("order_source", cfg.Analytics.OrderSource).
		Str("order_service", cfg.Services.OrderURL).
		Msg("iniciando servicio de analítica")

	collector := metrics.NewCollector("analytics")

	// Token de servicio para los endpoints de administración upstream (solo si hay JWT_SECRET).
	upstreamOpts := upstream.Options{
		Timeout:  cfg.Services.Timeout,
		Observer: collector,
		Log:      log.Component("upstream"),
	}
	if tokens := jwt.NewServiceTokenSource(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.App.Name, cfg.JWT.Expiration); tokens != nil {
		upstreamOpts.Tokens = tokens
	}

	orderClient := upstream.NewOrderServiceClient(cfg.Services.OrderURL, upstreamOpts)
	statsSources := map[string]repository.StatsSource{
		appanalytics.ServiceOrders:   orderClient,
		appanalytics.ServiceProducts: upstream.NewProductStatsClient(cfg.Services.ProductURL, upstreamOpts),
		appanalytics.ServiceUsers:    upstream.NewUserStatsClient(cfg.Services.UserURL, upstreamOpts),
	}

	// Fuente de pedidos: order-service por HTTP (por defecto) o lectura directa en PostgreSQL.
	var orderSource repository.OrderPageSource = orderClient
	if cfg.Analytics.OrderSource == config.OrderSourcePostgres {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		pool, err := postgres.NewPool(ctx, cfg.DB)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		orderSource = postgres.NewOrderPageRepository(pool)
	}

	fetcher := appanalytics.NewOrderFetcher(orderSource, log.Component("order_fetcher"), collector)
	salesReportUC := appanalytics.NewSalesReportUseCase(fetcher, statsSources, appanalytics.ReportConfig{
		PageSize:         cfg.Analytics.PageSize,
		ReportTimeout:    cfg.Analytics.ReportTimeout,
		DashboardTimeout: cfg.Analytics.DashboardTimeout,
	}, log.Component("sales_report"), collector)

	app := httpRouter.NewApp(httpRouter.RouterDeps{
		Analytics:      salesReportUC,
		Metrics:        collector,
		Log:            log.Component("http"),
		AppName:        cfg.App.Name,
		ServiceName:    cfg.App.Name,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		JWTSecret:      cfg.JWT.Secret,
		AuthRequired:   cfg.JWT.AuthRequired,
		WriteTimeout:   cfg.Analytics.ReportTimeout + 15*time.Second,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Analytics API",
	}))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
