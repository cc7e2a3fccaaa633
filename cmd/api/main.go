package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/tu-usuario/crm-pro/internal/application/account"
	"github.com/tu-usuario/crm-pro/internal/application/auth"
	"github.com/tu-usuario/crm-pro/internal/application/crm"
	"github.com/tu-usuario/crm-pro/internal/cache"
	infrapdf "github.com/tu-usuario/crm-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/crm-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/crm-pro/internal/infrastructure/session"
	"github.com/tu-usuario/crm-pro/internal/infrastructure/xmlexport"
	httpRouter "github.com/tu-usuario/crm-pro/internal/interfaces/http"
	"github.com/tu-usuario/crm-pro/internal/obs"
	"github.com/tu-usuario/crm-pro/pkg/config"
	"github.com/tu-usuario/crm-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	sessionStore, err := session.NewRedisStore(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a Redis")
	}
	defer sessionStore.Close()

	obs.Init()
	cacheStore := cache.New(cache.Options{TTL: cfg.Cache.TTL()}, log)

	profileRepo := postgres.NewProfileRepository(pool)
	orgRepo := postgres.NewOrganizationRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	projectRepo := postgres.NewProjectRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	proposalRepo := postgres.NewProposalRepository(pool)
	timeEntryRepo := postgres.NewTimeEntryRepository(pool)
	leadRepo := postgres.NewLeadRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	resolver := auth.NewResolver(profileRepo, orgRepo, log)
	sessions := auth.NewSessionStore(profileRepo, sessionStore, resolver, cacheStore, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	// El ciclo de sesión alimenta las métricas.
	sessions.Subscribe(func(ev auth.Event) {
		switch ev.Type {
		case auth.EventSignedIn:
			obs.SessionOpened()
		case auth.EventSignedOut:
			obs.SessionClosed()
		}
	})

	accountUC := account.NewUseCase(profileRepo, orgRepo, cacheStore, log)
	clientUC := crm.NewClientUseCase(clientRepo, cacheStore)
	projectUC := crm.NewProjectUseCase(projectRepo, cacheStore)
	taskUC := crm.NewTaskUseCase(taskRepo, cacheStore)
	invoiceUC := crm.NewInvoiceUseCase(invoiceRepo, orgRepo, infrapdf.NewMarotoPDFGenerator(), xmlexport.NewExporter(), cacheStore)
	proposalUC := crm.NewProposalUseCase(proposalRepo, cacheStore)
	timeEntryUC := crm.NewTimeEntryUseCase(timeEntryRepo, cacheStore)
	leadUC := crm.NewLeadUseCase(leadRepo, cacheStore)
	dashboardUC := crm.NewDashboardUseCase(analyticsRepo, cacheStore)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "CRM Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(obs.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:    sessions,
		SessionRepo: sessionStore,
		AccountUC:   accountUC,
		ClientUC:    clientUC,
		ProjectUC:   projectUC,
		TaskUC:      taskUC,
		InvoiceUC:   invoiceUC,
		ProposalUC:  proposalUC,
		TimeEntryUC: timeEntryUC,
		LeadUC:      leadUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

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
