package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/booking"
	"github.com/barberbros/barbershop_bot/internal/catalog"
	"github.com/barberbros/barbershop_bot/internal/controller/ui"
)

// telegramCallTimeout ограничивает обращения к Telegram API из движка
const telegramCallTimeout = 10 * time.Second

// Renderer реализует booking.Renderer поверх Telegram: экран записи —
// одно редактируемое сообщение (селекторы + слоты), панель подтверждения —
// отдельное сообщение с кнопками, уведомления — обычные сообщения.
type Renderer struct {
	bot    *bot.Bot
	logger *zap.Logger
	cat    *catalog.Catalog
	loc    *time.Location
	now    func() time.Time
	chatID int64

	mu         sync.Mutex
	sel        *booking.Selection
	flowMsgID  int // экран записи
	panelMsgID int // панель подтверждения
}

// NewRenderer создаёт рендерер для чата
func NewRenderer(b *bot.Bot, chatID int64, cat *catalog.Catalog, loc *time.Location, logger *zap.Logger) *Renderer {
	return &Renderer{
		bot:    b,
		logger: logger,
		cat:    cat,
		loc:    loc,
		now:    time.Now,
		chatID: chatID,
	}
}

// AttachSelection привязывает состояние выбора: рендерер читает его,
// чтобы собрать шапку и пометить выбранные кнопки
func (r *Renderer) AttachSelection(sel *booking.Selection) {
	r.mu.Lock()
	r.sel = sel
	r.mu.Unlock()
}

// RenderInstruction — подсказка и селекторы
func (r *Renderer) RenderInstruction(text string) {
	snap := r.snapshot()
	r.editFlow(ui.SelectionHeader(snap, r.cat)+"\n"+text, r.selectorKeyboard(snap))
}

// RenderLoading — индикатор загрузки. Клавиатура убирается целиком:
// селекторы барбера и услуги недоступны, пока запрос в полёте.
func (r *Renderer) RenderLoading() {
	snap := r.snapshot()
	r.editFlow(ui.SelectionHeader(snap, r.cat)+"\n⏳ Загружаем свободные слоты...", nil)
}

// RenderSlots — свободные слоты кнопками под селекторами
func (r *Renderer) RenderSlots(fecha string, slots []booking.Slot) {
	snap := r.snapshot()
	kb := append(r.selectorKeyboard(snap), ui.SlotRows(slots)...)
	r.editFlow(ui.SelectionHeader(snap, r.cat)+"\n🕐 Выберите время:", kb)
}

// RenderEmpty — свободных слотов нет (это не ошибка)
func (r *Renderer) RenderEmpty(text string) {
	snap := r.snapshot()
	r.editFlow(ui.SelectionHeader(snap, r.cat)+"\nℹ️ "+text, r.selectorKeyboard(snap))
}

// RenderError — ошибка загрузки с кнопкой повтора
func (r *Renderer) RenderError(text string) {
	snap := r.snapshot()
	kb := append(r.selectorKeyboard(snap), ui.RetryRow())
	r.editFlow(ui.SelectionHeader(snap, r.cat)+"\n❌ "+text, kb)
}

// RenderConfirmation — панель подтверждения отдельным сообщением
func (r *Renderer) RenderConfirmation(s booking.Summary) {
	ctx, cancel := r.callCtx()
	defer cancel()

	text := ui.ConfirmationText(s)
	kb := ui.ConfirmationKeyboard()

	r.mu.Lock()
	panelID := r.panelMsgID
	r.mu.Unlock()

	if panelID != 0 {
		_, err := r.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      r.chatID,
			MessageID:   panelID,
			Text:        text,
			ReplyMarkup: kb,
		})
		if err == nil {
			return
		}
		r.logger.Warn("Failed to edit confirmation panel, sending a new one", zap.Error(err))
	}

	msg, err := r.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      r.chatID,
		Text:        text,
		ReplyMarkup: kb,
	})
	if err != nil {
		r.logger.Error("Failed to send confirmation panel", zap.Int64("chat_id", r.chatID), zap.Error(err))
		return
	}

	r.mu.Lock()
	r.panelMsgID = msg.ID
	r.mu.Unlock()
}

// HideConfirmation убирает панель подтверждения, если она показана
func (r *Renderer) HideConfirmation() {
	r.mu.Lock()
	panelID := r.panelMsgID
	r.panelMsgID = 0
	r.mu.Unlock()

	if panelID == 0 {
		return
	}

	ctx, cancel := r.callCtx()
	defer cancel()

	if _, err := r.bot.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: r.chatID, MessageID: panelID}); err != nil {
		r.logger.Warn("Failed to delete confirmation panel", zap.Int64("chat_id", r.chatID), zap.Error(err))
	}
}

// ShowSubmitting переводит панель в режим отправки: кнопки убраны,
// повторное подтверждение невозможно
func (r *Renderer) ShowSubmitting() {
	r.mu.Lock()
	panelID := r.panelMsgID
	r.mu.Unlock()

	if panelID == 0 {
		return
	}

	ctx, cancel := r.callCtx()
	defer cancel()

	_, err := r.bot.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    r.chatID,
		MessageID: panelID,
		Text:      "⏳ Отправляем заявку...",
	})
	if err != nil {
		r.logger.Warn("Failed to show submitting label", zap.Error(err))
	}
}

// RenderSuccess — заявка принята
func (r *Renderer) RenderSuccess(confirmationID, message string) {
	r.HideConfirmation()

	ctx, cancel := r.callCtx()
	defer cancel()

	_, err := r.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      r.chatID,
		Text:        ui.SuccessText(confirmationID, message),
		ReplyMarkup: ui.SuccessKeyboard(),
	})
	if err != nil {
		r.logger.Error("Failed to send success message", zap.Int64("chat_id", r.chatID), zap.Error(err))
	}
}

// Notify — короткое уведомление отдельным сообщением
func (r *Renderer) Notify(text string) {
	ctx, cancel := r.callCtx()
	defer cancel()

	_, err := r.bot.SendMessage(ctx, &bot.SendMessageParams{ChatID: r.chatID, Text: text})
	if err != nil {
		r.logger.Warn("Failed to send notification", zap.Int64("chat_id", r.chatID), zap.Error(err))
	}
}

// editFlow редактирует экран записи, создавая его при первом обращении
func (r *Renderer) editFlow(text string, rows [][]models.InlineKeyboardButton) {
	ctx, cancel := r.callCtx()
	defer cancel()

	r.mu.Lock()
	msgID := r.flowMsgID
	r.mu.Unlock()

	if msgID != 0 {
		params := &bot.EditMessageTextParams{
			ChatID:    r.chatID,
			MessageID: msgID,
			Text:      text,
		}
		if len(rows) > 0 {
			params.ReplyMarkup = &models.InlineKeyboardMarkup{InlineKeyboard: rows}
		}

		_, err := r.bot.EditMessageText(ctx, params)
		if err == nil || strings.Contains(err.Error(), "message is not modified") {
			return
		}
		r.logger.Warn("Failed to edit booking screen, sending a new one",
			zap.Int64("chat_id", r.chatID),
			zap.Error(err))
	}

	params := &bot.SendMessageParams{
		ChatID: r.chatID,
		Text:   text,
	}
	if len(rows) > 0 {
		params.ReplyMarkup = &models.InlineKeyboardMarkup{InlineKeyboard: rows}
	}

	msg, err := r.bot.SendMessage(ctx, params)
	if err != nil {
		r.logger.Error("Failed to send booking screen", zap.Int64("chat_id", r.chatID), zap.Error(err))
		return
	}

	r.mu.Lock()
	r.flowMsgID = msg.ID
	r.mu.Unlock()
}

func (r *Renderer) snapshot() booking.Snapshot {
	r.mu.Lock()
	sel := r.sel
	r.mu.Unlock()

	if sel == nil {
		return booking.Snapshot{}
	}
	return sel.Snapshot()
}

func (r *Renderer) selectorKeyboard(snap booking.Snapshot) [][]models.InlineKeyboardButton {
	return ui.SelectorRows(snap, r.cat, r.now(), r.loc)
}

func (r *Renderer) callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), telegramCallTimeout)
}
