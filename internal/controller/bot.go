package controller

import (
	"context"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/apiclient"
	"github.com/barberbros/barbershop_bot/internal/booking"
	"github.com/barberbros/barbershop_bot/internal/cache"
	"github.com/barberbros/barbershop_bot/internal/catalog"
	"github.com/barberbros/barbershop_bot/internal/controller/callbacks"
	"github.com/barberbros/barbershop_bot/internal/controller/handlers"
	"github.com/barberbros/barbershop_bot/internal/controller/session"
	"github.com/barberbros/barbershop_bot/internal/controller/state"
)

type BotController struct {
	bot             *bot.Bot
	sessions        *session.Manager
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	api *apiclient.Client,
	cat *catalog.Catalog,
	csrfToken string,
	loc *time.Location,
	logger *zap.Logger,
) *BotController {
	// Кэш доступности общий на процесс: те же слоты видят все чаты
	availabilityCache := cache.New()

	// Фабрика сессий: каждому чату — свой процесс записи и рендерер
	sessions := session.NewManager(func(chatID int64) *session.Session {
		renderer := session.NewRenderer(botInstance, chatID, cat, loc, logger)
		flow := booking.NewFlow(booking.FlowConfig{
			API:       api,
			Cache:     availabilityCache,
			Catalog:   cat,
			Renderer:  renderer,
			Logger:    logger.With(zap.Int64("chat_id", chatID)),
			Location:  loc,
			CSRFToken: csrfToken,
		})
		renderer.AttachSelection(flow.Selection())
		return &session.Session{ChatID: chatID, Flow: flow, Renderer: renderer}
	})

	// Создаём менеджер состояний диалога контактов
	stateManager := state.NewManager()

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(sessions, stateManager, cat, logger)

	// Создаём callback handler; диалог контактов запускается из команд
	callbackHandler := callbacks.NewHandler(sessions, cat, logger, cmdHandlers.StartContactDialog)

	return &BotController{
		bot:             botInstance,
		sessions:        sessions,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Регистрируем команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/book", bot.MatchTypeExact, c.handlers.HandleBook)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/servicios", bot.MatchTypeExact, c.handlers.HandleServicios)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Обработчик текстовых сообщений (для диалога контактов)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "start", Description: "🚀 Начать работу с ботом"},
		{Command: "help", Description: "❓ Как записаться"},
		{Command: "book", Description: "📅 Записаться на стрижку"},
		{Command: "servicios", Description: "💈 Услуги и цены"},
		{Command: "cancel", Description: "✖️ Прервать ввод контактов"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})
	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокируется до отмены контекста
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
}

// Shutdown глушит фоновые ресурсы всех сессий
func (c *BotController) Shutdown() {
	c.sessions.Shutdown()
}
