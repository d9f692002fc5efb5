package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/booking"
	"github.com/barberbros/barbershop_bot/internal/controller/state"
)

// skipMark — ответ "без примечаний" на последнем шаге диалога
const skipMark = "-"

// StartContactDialog запускает пошаговый сбор контактов после того, как
// пользователь подтвердил выбранное время
func (h *Handlers) StartContactDialog(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	sess := h.sessions.GetOrCreate(chatID)
	if _, ok := sess.Flow.Pending(); !ok {
		h.sendText(ctx, b, chatID, "Сначала выберите время. /book — начать запись.")
		return
	}

	h.stateManager.SetState(telegramID, state.StateEnterNombre)
	h.sendText(ctx, b, chatID, "✍️ Как вас зовут?")
}

// HandleTextMessage маршрутизирует текст по шагам диалога контактов
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	chatID := update.Message.Chat.ID
	telegramID := update.Message.From.ID
	text := strings.TrimSpace(update.Message.Text)

	switch h.stateManager.GetState(telegramID) {
	case state.StateEnterNombre:
		h.handleNombreStep(ctx, b, chatID, telegramID, text)
	case state.StateEnterEmail:
		h.handleEmailStep(ctx, b, chatID, telegramID, text)
	case state.StateEnterTelefono:
		h.handleTelefonoStep(ctx, b, chatID, telegramID, text)
	case state.StateEnterNotas:
		h.handleNotasStep(ctx, b, chatID, telegramID, text)
	default:
		h.sendText(ctx, b, chatID, "Не понимаю 🤔 Посмотрите /help или начните запись: /book")
	}
}

func (h *Handlers) handleNombreStep(ctx context.Context, b *bot.Bot, chatID, telegramID int64, text string) {
	if text == "" {
		h.sendText(ctx, b, chatID, "Имя не может быть пустым. Как вас зовут?")
		return
	}

	h.stateManager.SetData(telegramID, state.DataNombre, text)
	h.stateManager.SetState(telegramID, state.StateEnterEmail)
	h.sendText(ctx, b, chatID, "📧 Укажите email — на него придёт письмо для подтверждения записи")
}

func (h *Handlers) handleEmailStep(ctx context.Context, b *bot.Bot, chatID, telegramID int64, text string) {
	if !booking.ValidEmail(text) {
		h.sendText(ctx, b, chatID, "Email выглядит некорректно, проверьте адрес и отправьте ещё раз")
		return
	}

	h.stateManager.SetData(telegramID, state.DataEmail, text)
	h.stateManager.SetState(telegramID, state.StateEnterTelefono)
	h.sendText(ctx, b, chatID, "📱 Укажите номер телефона")
}

func (h *Handlers) handleTelefonoStep(ctx context.Context, b *bot.Bot, chatID, telegramID int64, text string) {
	if text == "" {
		h.sendText(ctx, b, chatID, "Телефон не может быть пустым. Укажите номер")
		return
	}

	h.stateManager.SetData(telegramID, state.DataTelefono, text)
	h.stateManager.SetState(telegramID, state.StateEnterNotas)
	h.sendText(ctx, b, chatID, "📝 Примечания к записи? Если нет, отправьте \""+skipMark+"\"")
}

// handleNotasStep — последний шаг: собираем контакты и отправляем заявку
func (h *Handlers) handleNotasStep(ctx context.Context, b *bot.Bot, chatID, telegramID int64, text string) {
	notas := text
	if notas == skipMark {
		notas = ""
	}

	contact := booking.Contact{
		Nombre:   h.stateManager.GetString(telegramID, state.DataNombre),
		Email:    h.stateManager.GetString(telegramID, state.DataEmail),
		Telefono: h.stateManager.GetString(telegramID, state.DataTelefono),
		Notas:    notas,
	}
	h.stateManager.ClearState(telegramID)

	sess := h.sessions.GetOrCreate(chatID)
	sess.Renderer.ShowSubmitting()

	res := sess.Flow.Submit(ctx, contact)
	if res == nil {
		// Заявка уже в полёте
		return
	}

	switch res.Outcome {
	case booking.OutcomeSuccess, booking.OutcomeConflict:
		// Экран уже обновлён процессом записи

	case booking.OutcomeValidationError, booking.OutcomeNetworkError:
		// Возвращаем панель, чтобы можно было подтвердить заново
		if summary, ok := sess.Flow.Pending(); ok {
			sess.Renderer.RenderConfirmation(summary)
		}
	}
}

func (h *Handlers) sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		h.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
