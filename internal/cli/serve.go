package cli

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclecast/internal/api"
	"github.com/terraincognita07/cyclecast/internal/config"
	"github.com/terraincognita07/cyclecast/internal/db"
	"github.com/terraincognita07/cyclecast/internal/services"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Server bundles the HTTP app with the background work that shares its lifetime.
type Server struct {
	cfg      *config.Config
	database *gorm.DB
	location *time.Location
	app      *fiber.App
	notifier *services.NotificationService
}

func ServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath(cmd))
			if err != nil {
				return err
			}

			server, err := NewServer(cfg)
			if err != nil {
				return err
			}
			defer server.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	}
}

func NewServer(cfg *config.Config) (*Server, error) {
	database, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	location := cfg.Location()
	repos := db.NewRepositories(database)
	source := db.NewSource(repos)
	predictions := services.NewPredictionService(source, source)

	handler := api.NewHandler(api.Dependencies{
		Accounts:    services.NewAccountService(repos.Users),
		Auth:        services.NewAuthService(repos.Users, cfg.Auth.SecretKey, cfg.Auth.TokenTTL),
		Entries:     services.NewEntryService(repos.Entries, predictions),
		Predictions: predictions,
	}, location, cfg.Server.CookieSecure)

	notifier := services.NewNotificationService(repos.Users, source, services.NotificationConfig{
		BotToken:           cfg.Notifications.TelegramBotToken,
		ChatID:             cfg.Notifications.TelegramChatID,
		PeriodReminderDays: cfg.Notifications.PeriodReminderDays,
		FertilityReminder:  cfg.Notifications.FertilityReminder,
		Interval:           cfg.Notifications.Interval,
	}, location)

	return &Server{
		cfg:      cfg,
		database: database,
		location: location,
		app:      newApp(handler),
		notifier: notifier,
	}, nil
}

func newApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "cyclecast",
		DisableStartupMessage: true,
		ErrorHandler:          api.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)
	return app
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (server *Server) Run(ctx context.Context) error {
	lifecycleCtx, cancelLifecycle := context.WithCancel(ctx)
	defer cancelLifecycle()
	server.notifier.Start(lifecycleCtx)

	go func() {
		<-lifecycleCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	port := strconv.Itoa(server.cfg.Server.Port)
	log.Printf("cyclecast listening on http://0.0.0.0:%s (db: %s, tz: %s)", port, server.cfg.Database.Path, server.location)
	if err := server.app.Listen(":" + port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func (server *Server) Close() error {
	return db.Close(server.database)
}
