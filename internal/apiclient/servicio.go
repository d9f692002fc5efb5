package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/barberbros/barbershop_bot/internal/model"
)

// Servicio запрашивает данные услуги: GET /api/servicio/{id}.
// Используется для обновления длительностей и цен в каталоге.
func (c *Client) Servicio(ctx context.Context, servicioID string) (*model.ServicioDetails, error) {
	endpoint := fmt.Sprintf("%s/api/servicio/%s", c.baseURL, url.PathEscape(servicioID))

	resp, err := c.fetch(ctx, http.MethodGet, endpoint, nil, false)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.status == http.StatusNotFound:
		return nil, fmt.Errorf("%w: id %s", ErrServicioNotFound, servicioID)
	case resp.status != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnexpectedResponse, resp.status, apiErrorMessage(resp.body))
	}

	var details model.ServicioDetails
	if err := json.Unmarshal(resp.body, &details); err != nil {
		return nil, fmt.Errorf("%w: invalid servicio body: %v", ErrUnexpectedResponse, err)
	}

	return &details, nil
}
