package booking

import (
	"fmt"
	"sync"
)

// PlaceholderID — значение "ничего не выбрано" в селекторах (формат бэкенда)
const PlaceholderID = "0"

// IsPlaceholder проверяет, что ID не выбран
func IsPlaceholder(id string) bool {
	return id == "" || id == PlaceholderID
}

// Snapshot — неизменяемая копия текущего выбора
type Snapshot struct {
	BarberoID  string
	ServicioID string
	Fecha      string // YYYY-MM-DD
	Hora       string // HH:MM, 24ч
}

// SameQuery сравнивает части выбора, от которых зависит запрос
// доступности (барбер, услуга, дата)
func (s Snapshot) SameQuery(o Snapshot) bool {
	return s.BarberoID == o.BarberoID && s.ServicioID == o.ServicioID && s.Fecha == o.Fecha
}

// HasQuery — выбраны ли барбер, услуга и дата
func (s Snapshot) HasQuery() bool {
	return !IsPlaceholder(s.BarberoID) && !IsPlaceholder(s.ServicioID) && s.Fecha != ""
}

// IsComplete — выбраны все четыре поля
func (s Snapshot) IsComplete() bool {
	return s.HasQuery() && s.Hora != ""
}

// Selection — единственный источник правды о текущем выборе в процессе
// записи. Инвариант: время задано только при выбранных барбере, услуге и
// дате; смена барбера или услуги сбрасывает дату и время. Мутации только
// через сеттеры, каждый сеттер уведомляет подписчиков.
type Selection struct {
	mu   sync.Mutex
	cur  Snapshot
	subs []func(Snapshot)
}

// NewSelection создаёт пустой выбор
func NewSelection() *Selection {
	return &Selection{}
}

// Subscribe добавляет подписчика на изменения. Подписчики вызываются
// синхронно после каждой мутации, со снимком нового состояния.
func (s *Selection) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// SetBarbero выбирает барбера и сбрасывает зависимые дату и время
func (s *Selection) SetBarbero(id string) {
	s.mutate(func(cur *Snapshot) {
		cur.BarberoID = id
		cur.Fecha = ""
		cur.Hora = ""
	})
}

// SetServicio выбирает услугу и сбрасывает зависимые дату и время
func (s *Selection) SetServicio(id string) {
	s.mutate(func(cur *Snapshot) {
		cur.ServicioID = id
		cur.Fecha = ""
		cur.Hora = ""
	})
}

// SetFecha выбирает дату и сбрасывает время
func (s *Selection) SetFecha(fecha string) {
	s.mutate(func(cur *Snapshot) {
		cur.Fecha = fecha
		cur.Hora = ""
	})
}

// SetHora выбирает слот. Допустимо только при выбранных барбере, услуге
// и дате.
func (s *Selection) SetHora(hora string) error {
	s.mu.Lock()
	if !s.cur.HasQuery() {
		s.mu.Unlock()
		return fmt.Errorf("cannot set hora %q: barbero, servicio and fecha must be selected first", hora)
	}
	s.cur.Hora = hora
	snap := s.cur
	subs := append([]func(Snapshot){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
	return nil
}

// Reset очищает выбор целиком
func (s *Selection) Reset() {
	s.mutate(func(cur *Snapshot) {
		*cur = Snapshot{}
	})
}

// IsComplete — выбраны все четыре поля
func (s *Selection) IsComplete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur.IsComplete()
}

// Snapshot возвращает копию текущего выбора
func (s *Selection) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// mutate применяет изменение и уведомляет подписчиков вне блокировки
func (s *Selection) mutate(apply func(*Snapshot)) {
	s.mu.Lock()
	apply(&s.cur)
	snap := s.cur
	subs := append([]func(Snapshot){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}
