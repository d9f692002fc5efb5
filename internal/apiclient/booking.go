package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/model"
)

// AgendarCita отправляет заявку на запись: POST /api/agendar-cita.
// Статусы ответа не ретраятся и мапятся на ошибки:
//
//	409 → ErrSlotConflict — слот успел занять другой клиент
//	400 → ErrRejected — сервер отклонил данные (вне рабочих часов и т.п.)
//	прочие не-2xx и не-JSON → ErrUnexpectedResponse
func (c *Client) AgendarCita(ctx context.Context, req model.BookingRequest) (*model.BookingConfirmation, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking request: %w", err)
	}

	endpoint := c.baseURL + "/api/agendar-cita"
	resp, err := c.fetch(ctx, http.MethodPost, endpoint, payload, true)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.status == http.StatusConflict:
		return nil, fmt.Errorf("%w: %s", ErrSlotConflict, apiErrorMessage(resp.body))
	case resp.status == http.StatusBadRequest:
		return nil, fmt.Errorf("%w: %s", ErrRejected, apiErrorMessage(resp.body))
	case resp.status < 200 || resp.status > 299:
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnexpectedResponse, resp.status, apiErrorMessage(resp.body))
	}

	var body model.BookingResponse
	if err := json.Unmarshal(resp.body, &body); err != nil {
		return nil, fmt.Errorf("%w: invalid booking body: %v", ErrUnexpectedResponse, err)
	}
	if !body.Success {
		return nil, fmt.Errorf("%w: success=false: %s", ErrUnexpectedResponse, body.Error)
	}

	confirmation := &model.BookingConfirmation{
		ID:      body.CitaID.String(),
		Message: body.Mensaje,
	}

	c.logger.Info("Booking accepted by backend",
		zap.String("cita_id", confirmation.ID),
		zap.String("barbero_id", req.BarberoID),
		zap.String("fecha", req.Fecha),
		zap.String("hora", req.Hora))

	return confirmation, nil
}
