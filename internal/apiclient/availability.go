package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/model"
)

// Disponibilidad запрашивает свободные слоты барбера на дату с учётом
// длительности услуги: GET /api/disponibilidad/{barbero}/{fecha}?servicio_id=
func (c *Client) Disponibilidad(ctx context.Context, barberoID, fecha, servicioID string) (*model.AvailabilityResponse, error) {
	endpoint := fmt.Sprintf("%s/api/disponibilidad/%s/%s?servicio_id=%s",
		c.baseURL, url.PathEscape(barberoID), url.PathEscape(fecha), url.QueryEscape(servicioID))

	return c.disponibilidad(ctx, endpoint)
}

// ValidateSlot проверяет, что конкретный слот всё ещё свободен. Используется
// перед показом панели подтверждения и в периодической ревалидации.
func (c *Client) ValidateSlot(ctx context.Context, barberoID, fecha, servicioID, hora string) (bool, error) {
	endpoint := fmt.Sprintf("%s/api/disponibilidad/%s/%s?servicio_id=%s&validate_slot=%s",
		c.baseURL, url.PathEscape(barberoID), url.PathEscape(fecha), url.QueryEscape(servicioID), url.QueryEscape(hora))

	resp, err := c.disponibilidad(ctx, endpoint)
	if err != nil {
		return false, err
	}

	return resp.Contains(hora), nil
}

func (c *Client) disponibilidad(ctx context.Context, endpoint string) (*model.AvailabilityResponse, error) {
	resp, err := c.fetch(ctx, http.MethodGet, endpoint, nil, false)
	if err != nil {
		return nil, err
	}

	if resp.status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnexpectedResponse, resp.status, apiErrorMessage(resp.body))
	}

	var availability model.AvailabilityResponse
	if err := json.Unmarshal(resp.body, &availability); err != nil {
		return nil, fmt.Errorf("%w: invalid availability body: %v", ErrUnexpectedResponse, err)
	}

	c.logger.Debug("Availability fetched",
		zap.String("url", endpoint),
		zap.Int("slots", len(availability.Horarios)))

	return &availability, nil
}
