package apiclient

import (
	"encoding/json"
	"errors"
	"strings"
)

// Ошибки клиента букинг-API. Транспортные проблемы (ErrNetwork) ретраятся
// внутри клиента; HTTP-статусы отдаются вызывающему как есть — конфликт
// брони (409) обязан дойти до обработчика конфликтов нетронутым.
var (
	ErrNetwork            = errors.New("booking api unreachable")
	ErrSlotConflict       = errors.New("slot already taken")            // 409 — гонка двух клиентов за один слот
	ErrRejected           = errors.New("booking rejected by backend")   // 400 — бизнес-правило сервера
	ErrServicioNotFound   = errors.New("servicio not found")            // 404 на /api/servicio/{id}
	ErrUnexpectedResponse = errors.New("unexpected booking api response")
)

// errorBody — формат тела ошибки бэкенда
type errorBody struct {
	Error string `json:"error"`
}

// apiErrorMessage достаёт человекочитаемое сообщение из тела ошибки.
// Не-JSON тело обрезается до короткого фрагмента.
func apiErrorMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Error != "" {
		return eb.Error
	}

	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 100 {
		snippet = snippet[:100]
	}
	return snippet
}
