package model

import "encoding/json"

// BookingRequest — тело POST /api/agendar-cita. Собирается один раз при
// подтверждении записи и после этого не изменяется. Имена полей фиксированы
// контрактом бэкенда (испанские), менять их нельзя.
type BookingRequest struct {
	Nombre     string `json:"nombre"`
	Email      string `json:"email"`
	Telefono   string `json:"telefono"`
	BarberoID  string `json:"barbero_id"`
	ServicioID string `json:"servicio_id"`
	Fecha      string `json:"fecha"` // YYYY-MM-DD
	Hora       string `json:"hora"`  // HH:MM, 24ч
	Notas      string `json:"notas,omitempty"`
}

// BookingResponse — тело ответа бэкенда на попытку записи
type BookingResponse struct {
	Success bool        `json:"success"`
	Mensaje string      `json:"mensaje,omitempty"`
	CitaID  json.Number `json:"cita_id,omitempty"` // Бэкенд отдаёт число, в интерфейсе показываем как строку
	Error   string      `json:"error,omitempty"`
}

// BookingConfirmation — успешно принятая заявка на запись
type BookingConfirmation struct {
	ID      string
	Message string
}
