package model

// AvailabilityResponse — ответ бэкенда барбершопа на запрос свободных
// слотов. Поле Horarios содержит только свободные слоты в формате "HH:MM",
// отсортированные по возрастанию. Ответ неизменяем после получения.
type AvailabilityResponse struct {
	Barbero  string   `json:"barbero,omitempty"`
	Fecha    string   `json:"fecha,omitempty"`
	Horarios []string `json:"horarios"`
	Mensaje  string   `json:"mensaje,omitempty"` // Причина пустого списка ("fully booked" и т.п.)
}

// Contains проверяет, есть ли конкретный слот в списке свободных
func (r *AvailabilityResponse) Contains(slot string) bool {
	for _, h := range r.Horarios {
		if h == slot {
			return true
		}
	}
	return false
}
