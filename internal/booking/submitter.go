package booking

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/apiclient"
	"github.com/barberbros/barbershop_bot/internal/model"
)

// Простая проверка формата email, как на сайте
var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail проверяет формат email той же проверкой, что и сабмиттер.
// Диалог сбора контактов использует её, чтобы переспросить адрес сразу.
func ValidEmail(email string) bool {
	return emailRe.MatchString(strings.ToLower(strings.TrimSpace(email)))
}

// Contact — контактные данные клиента, собранные диалогом
type Contact struct {
	Nombre   string
	Email    string
	Telefono string
	Notas    string
}

// BookingAPI — часть API-клиента, нужная сабмиттеру
type BookingAPI interface {
	AgendarCita(ctx context.Context, req model.BookingRequest) (*model.BookingConfirmation, error)
}

// Submitter валидирует данные записи и отправляет заявку. Любая ошибка
// клиентской валидации возвращается без единого сетевого вызова.
type Submitter struct {
	api       BookingAPI
	csrfToken string
	logger    *zap.Logger
}

// NewSubmitter создаёт сабмиттер
func NewSubmitter(api BookingAPI, csrfToken string, logger *zap.Logger) *Submitter {
	return &Submitter{api: api, csrfToken: csrfToken, logger: logger}
}

// Submit проверяет и отправляет заявку. Порядок проверок: обязательные
// поля → формат email → CSRF-токен.
func (s *Submitter) Submit(ctx context.Context, snap Snapshot, contact Contact) Result {
	contact.Nombre = strings.TrimSpace(contact.Nombre)
	contact.Email = strings.TrimSpace(contact.Email)
	contact.Telefono = strings.TrimSpace(contact.Telefono)

	if res, ok := s.validate(snap, contact); !ok {
		return res
	}

	req := model.BookingRequest{
		Nombre:     contact.Nombre,
		Email:      contact.Email,
		Telefono:   contact.Telefono,
		BarberoID:  snap.BarberoID,
		ServicioID: snap.ServicioID,
		Fecha:      snap.Fecha,
		Hora:       snap.Hora,
		Notas:      strings.TrimSpace(contact.Notas),
	}

	confirmation, err := s.api.AgendarCita(ctx, req)
	switch {
	case err == nil:
		message := confirmation.Message
		if message == "" {
			message = "Заявка получена! Проверьте почту и подтвердите запись в течение часа."
		}
		return Result{Outcome: OutcomeSuccess, ConfirmationID: confirmation.ID, Message: message}

	case errors.Is(err, apiclient.ErrSlotConflict):
		// Ожидаемый исход гонки двух клиентов за один слот
		return Result{
			Outcome: OutcomeConflict,
			Message: "Кто-то только что занял это время. Сейчас покажем обновлённые слоты.",
		}

	case errors.Is(err, apiclient.ErrRejected):
		// Серверное бизнес-правило (вне рабочих часов и т.п.)
		return Result{
			Outcome: OutcomeValidationError,
			Message: "Сервер отклонил данные записи: " + err.Error(),
		}

	default:
		s.logger.Error("Booking submission failed", zap.Error(err))
		return Result{
			Outcome: OutcomeNetworkError,
			Message: "Не удалось отправить заявку. Попробуйте ещё раз.",
			Cause:   err,
		}
	}
}

// validate — клиентская валидация, без сети
func (s *Submitter) validate(snap Snapshot, contact Contact) (Result, bool) {
	invalid := func(field, message string) (Result, bool) {
		return Result{Outcome: OutcomeValidationError, Field: field, Message: message}, false
	}

	switch {
	case contact.Nombre == "":
		return invalid("nombre", "Укажите имя")
	case contact.Email == "":
		return invalid("email", "Укажите email")
	case contact.Telefono == "":
		return invalid("telefono", "Укажите телефон")
	case IsPlaceholder(snap.BarberoID):
		return invalid("barbero_id", "Выберите барбера")
	case IsPlaceholder(snap.ServicioID):
		return invalid("servicio_id", "Выберите услугу")
	case snap.Fecha == "":
		return invalid("fecha", "Выберите дату")
	case snap.Hora == "":
		return invalid("hora", "Выберите время")
	}

	if !emailRe.MatchString(strings.ToLower(contact.Email)) {
		return invalid("email", "Email выглядит некорректно, проверьте адрес")
	}

	if s.csrfToken == "" {
		return invalid("csrf", "Бот настроен без токена безопасности, запись невозможна. Сообщите администратору.")
	}

	return Result{}, true
}
