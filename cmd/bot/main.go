package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/apiclient"
	"github.com/barberbros/barbershop_bot/internal/app"
	"github.com/barberbros/barbershop_bot/internal/catalog"
	"github.com/barberbros/barbershop_bot/internal/config"
	"github.com/barberbros/barbershop_bot/internal/controller"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting barbershop bot",
		zap.String("environment", cfg.Environment),
		zap.String("api_url", cfg.BookingAPIURL),
		zap.String("timezone", cfg.Timezone))

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal("Failed to load timezone", zap.Error(err))
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("Failed to load catalog", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}
	logger.Info("✅ Catalog loaded",
		zap.Int("barberos", len(cat.Barberos)),
		zap.Int("servicios", len(cat.Servicios)))

	api := apiclient.NewClient(cfg.BookingAPIURL, cfg.CSRFToken, logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.CatalogFresh {
		// Подтягиваем актуальные длительности и цены услуг из API;
		// ошибки не фатальны, остаёмся на данных из файла
		cat.Refresh(ctx, api, logger)
	}

	b, err := bot.New(cfg.TelegramToken)
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	botController := controller.NewBotController(b, api, cat, cfg.CSRFToken, loc, logger)
	if err := botController.RegisterHandlers(ctx); err != nil {
		logger.Fatal("Failed to register handlers", zap.Error(err))
	}

	botController.Start(ctx)

	// Контекст отменён сигналом: глушим дебаунс-таймеры и фоновые проверки
	botController.Shutdown()
	logger.Info("Bot stopped")
}
