package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/devtama101/customer-support-dashboard/internal/ai"
	httptransport "github.com/devtama101/customer-support-dashboard/internal/api/http"
	"github.com/devtama101/customer-support-dashboard/internal/api/http/handlers"
	"github.com/devtama101/customer-support-dashboard/internal/auth"
	"github.com/devtama101/customer-support-dashboard/internal/config"
	"github.com/devtama101/customer-support-dashboard/internal/events"
	"github.com/devtama101/customer-support-dashboard/internal/observability"
	"github.com/devtama101/customer-support-dashboard/internal/persistence"
	"github.com/devtama101/customer-support-dashboard/internal/repository"
	"github.com/devtama101/customer-support-dashboard/internal/service"
	"github.com/devtama101/customer-support-dashboard/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)
	messageRepo := repository.NewMessageRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	agentRepo := repository.NewAgentRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	aiLogRepo := repository.NewAILogRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	inference := ai.NewClient(cfg.AI, logger)

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:   ticketRepo,
		MessageRepo:  messageRepo,
		CustomerRepo: customerRepo,
		AgentRepo:    agentRepo,
		TeamRepo:     teamRepo,
		Dispatcher:   dispatcher,
	})
	messageService := service.NewMessageService(service.MessageDependencies{
		TicketRepo:  ticketRepo,
		MessageRepo: messageRepo,
		AILogRepo:   aiLogRepo,
		Inference:   inference,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})
	enrichmentService := service.NewEnrichmentService(service.EnrichmentDependencies{
		TicketRepo:  ticketRepo,
		MessageRepo: messageRepo,
		AILogRepo:   aiLogRepo,
		Inference:   inference,
		Logger:      logger,
	})
	widgetService := service.NewWidgetService(service.WidgetDependencies{
		TeamRepo:     teamRepo,
		CustomerRepo: customerRepo,
		AgentRepo:    agentRepo,
		TicketRepo:   ticketRepo,
		MessageRepo:  messageRepo,
		AILogRepo:    aiLogRepo,
		Inference:    inference,
		Dispatcher:   dispatcher,
		Logger:       logger,
	})
	authService := service.NewAuthService(cfg.Auth, agentRepo)
	customerService := service.NewCustomerService(customerRepo)
	agentService := service.NewAgentService(agentRepo, teamRepo, authService)
	teamService := service.NewTeamService(teamRepo)
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)

	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), agentRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:            handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Tickets:           handlers.NewTicketsHandler(ticketService, messageService),
		AI:                handlers.NewAIHandler(enrichmentService),
		Customers:         handlers.NewCustomersHandler(customerService),
		Agents:            handlers.NewAgentsHandler(agentService, teamService, authService),
		Widget:            handlers.NewWidgetHandler(widgetService),
		AuthMiddleware:    authMiddleware,
		WidgetRateLimiter: httptransport.WidgetRateLimiter(redis, logger, cfg.Widget.RateLimitPerMinute),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
