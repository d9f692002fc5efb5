package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/catalog"
	"github.com/barberbros/barbershop_bot/internal/controller/session"
	"github.com/barberbros/barbershop_bot/internal/controller/ui"
)

// StartDialogFunc запускает диалог сбора контактов. Передаётся из слоя
// команд, чтобы не замыкать пакеты друг на друга.
type StartDialogFunc func(ctx context.Context, b *bot.Bot, chatID, telegramID int64)

// Handler обрабатывает нажатия inline-кнопок
type Handler struct {
	Sessions    *session.Manager
	Catalog     *catalog.Catalog
	Logger      *zap.Logger
	StartDialog StartDialogFunc
}

// NewHandler создаёт обработчик callbacks
func NewHandler(sessions *session.Manager, cat *catalog.Catalog, logger *zap.Logger, startDialog StartDialogFunc) *Handler {
	return &Handler{
		Sessions:    sessions,
		Catalog:     cat,
		Logger:      logger,
		StartDialog: startDialog,
	}
}

// HandleCallbackQuery — главный обработчик callback queries
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	callback := update.CallbackQuery
	data := callback.Data

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}
	chatID := msg.Chat.ID

	h.Logger.Info("Callback received",
		zap.String("data", data),
		zap.Int64("chat_id", chatID),
		zap.Int64("user_id", callback.From.ID))

	sess := h.Sessions.GetOrCreate(chatID)

	switch {
	case data == ui.StartBooking, data == ui.BookAnother:
		sess.Flow.Reset()
		AnswerCallback(ctx, b, callback.ID, "")

	case strings.HasPrefix(data, ui.PickBarbero):
		h.handlePickBarbero(ctx, b, callback, sess, strings.TrimPrefix(data, ui.PickBarbero))

	case strings.HasPrefix(data, ui.PickServicio):
		h.handlePickServicio(ctx, b, callback, sess, strings.TrimPrefix(data, ui.PickServicio))

	case strings.HasPrefix(data, ui.PickFecha):
		h.handlePickFecha(ctx, b, callback, sess, strings.TrimPrefix(data, ui.PickFecha))

	case strings.HasPrefix(data, ui.PickHora):
		// Значение слота само содержит двоеточие ("09:30"), поэтому
		// только TrimPrefix, никаких Split по ":"
		h.handlePickHora(ctx, b, callback, sess, strings.TrimPrefix(data, ui.PickHora))

	case data == ui.RetrySlots:
		sess.Flow.Retry()
		AnswerCallback(ctx, b, callback.ID, "Повторяем загрузку...")

	case data == ui.ConfirmBooking:
		h.handleConfirm(ctx, b, callback, sess, chatID)

	case data == ui.CancelConfirmation:
		sess.Flow.DismissConfirmation()
		AnswerCallback(ctx, b, callback.ID, "Запись отменена")

	default:
		h.Logger.Warn("Unknown callback data", zap.String("data", data))
		AnswerCallback(ctx, b, callback.ID, "")
	}
}

func (h *Handler) handlePickBarbero(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, sess *session.Session, raw string) {
	// ID уходит в путь запроса к API, поэтому пропускаем только числовые
	id, err := catalog.ParseID(raw)
	if err != nil {
		h.Logger.Warn("Malformed barbero id in callback", zap.String("raw", raw))
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	barbero, ok := h.Catalog.BarberoByID(id)
	if !ok {
		AnswerCallbackAlert(ctx, b, callback.ID, "Барбер не найден, откройте запись заново: /book")
		return
	}

	sess.Flow.SelectBarbero(id)
	AnswerCallback(ctx, b, callback.ID, "Барбер: "+barbero.Name)
}

func (h *Handler) handlePickServicio(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, sess *session.Session, raw string) {
	id, err := catalog.ParseID(raw)
	if err != nil {
		h.Logger.Warn("Malformed servicio id in callback", zap.String("raw", raw))
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	servicio, ok := h.Catalog.ServicioByID(id)
	if !ok {
		AnswerCallbackAlert(ctx, b, callback.ID, "Услуга не найдена, откройте запись заново: /book")
		return
	}

	sess.Flow.SelectServicio(id)
	AnswerCallback(ctx, b, callback.ID, "Услуга: "+servicio.Name)
}

func (h *Handler) handlePickFecha(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, sess *session.Session, fecha string) {
	sess.Flow.SelectFecha(fecha)
	AnswerCallback(ctx, b, callback.ID, "")
}

func (h *Handler) handlePickHora(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, sess *session.Session, hora string) {
	if err := sess.Flow.SelectHora(ctx, hora); err != nil {
		h.Logger.Warn("Slot selection rejected", zap.String("hora", hora), zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "Сначала выберите барбера, услугу и дату")
		return
	}
	AnswerCallback(ctx, b, callback.ID, "")
}

func (h *Handler) handleConfirm(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, sess *session.Session, chatID int64) {
	if _, ok := sess.Flow.Pending(); !ok {
		AnswerCallbackAlert(ctx, b, callback.ID, "Это время уже неактуально, выберите слот заново")
		return
	}

	AnswerCallback(ctx, b, callback.ID, "")
	h.StartDialog(ctx, b, chatID, callback.From.ID)
}
