package model

// ServicioDetails — ответ GET /api/servicio/{id}. Используется для
// обновления длительности и цены услуги в каталоге при старте бота.
type ServicioDetails struct {
	ID               int64   `json:"id"`
	Nombre           string  `json:"nombre"`
	Descripcion      string  `json:"descripcion"`
	PrecioFormateado string  `json:"precio_formateado"`
	PrecioValor      float64 `json:"precio_valor"`
	DuracionEstimada int     `json:"duracion_estimada"` // минуты
	Activo           bool    `json:"activo"`
}
