package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/controller/ui"
)

// HandleStart — приветствие и кнопка начала записи
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	h.stateManager.ClearState(update.Message.From.ID)

	kb := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "📅 Записаться", CallbackData: ui.StartBooking}},
		},
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: "💈 Добро пожаловать в BarberBros!\n\n" +
			"Здесь можно записаться на стрижку: выберите барбера, услугу, " +
			"дату и свободное время, оставьте контакты — и ждите подтверждения на почту.\n\n" +
			"Команды:\n" +
			"/book — начать запись\n" +
			"/servicios — услуги и цены\n" +
			"/cancel — прервать ввод",
		ReplyMarkup: kb,
	})
	if err != nil {
		h.logger.Error("Failed to send start message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleHelp — справка по командам
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text: "ℹ️ Как записаться:\n\n" +
			"1. /book — открыть экран записи\n" +
			"2. Выберите барбера и услугу — бот покажет свободные слоты\n" +
			"3. Выберите дату и время\n" +
			"4. Подтвердите запись и оставьте контакты\n\n" +
			"Заявку нужно подтвердить по ссылке из письма в течение часа.\n\n" +
			"/servicios — услуги и цены\n" +
			"/cancel — прервать ввод контактов",
	})
	if err != nil {
		h.logger.Error("Failed to send help message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleBook открывает экран записи
func (h *Handlers) HandleBook(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	h.stateManager.ClearState(update.Message.From.ID)

	sess := h.sessions.GetOrCreate(chatID)
	sess.Flow.Reset()
}

// HandleServicios — список услуг с ценами
func (h *Handlers) HandleServicios(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   ui.ServiciosList(h.catalog),
	})
	if err != nil {
		h.logger.Error("Failed to send services list", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleCancel прерывает ввод контактов, панель подтверждения остаётся
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID

	if h.stateManager.GetState(telegramID) == "" {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "Сейчас нечего отменять. /book — начать запись.",
		})
		return
	}

	h.stateManager.ClearState(telegramID)

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "Ввод контактов прерван. Запись можно подтвердить заново кнопкой на панели.",
	})
	if err != nil {
		h.logger.Error("Failed to send cancel message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
