package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/barberbros/barbershop_bot/internal/model"
)

// DefaultTTL — время жизни закэшированного ответа о доступности
const DefaultTTL = 5 * time.Minute

// AvailabilityCache — кэш ответов о доступности по ключу
// "barberoID:servicioID:fecha". Записи живут TTL и вычищаются лениво при
// чтении, фонового обхода нет. Только в памяти, никуда не сохраняется.
type AvailabilityCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

type entry struct {
	payload  *model.AvailabilityResponse
	storedAt time.Time
}

// New создаёт кэш с TTL по умолчанию
func New() *AvailabilityCache {
	return NewWithClock(DefaultTTL, time.Now)
}

// NewWithClock создаёт кэш с заданным TTL и источником времени (для тестов)
func NewWithClock(ttl time.Duration, now func() time.Time) *AvailabilityCache {
	return &AvailabilityCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

// Key собирает ключ кэша. Точное строковое равенство, без нормализации —
// те же ID, что и в API.
func Key(barberoID, servicioID, fecha string) string {
	return fmt.Sprintf("%s:%s:%s", barberoID, servicioID, fecha)
}

// Get возвращает закэшированный ответ, если запись есть и не старше TTL.
// Просроченная запись удаляется и считается отсутствующей.
func (c *AvailabilityCache) Get(barberoID, servicioID, fecha string) (*model.AvailabilityResponse, bool) {
	key := Key(barberoID, servicioID, fecha)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.payload, true
}

// Set безусловно перезаписывает запись
func (c *AvailabilityCache) Set(barberoID, servicioID, fecha string, payload *model.AvailabilityResponse) {
	key := Key(barberoID, servicioID, fecha)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{payload: payload, storedAt: c.now()}
}

// Invalidate удаляет записи, ключ которых подходит под предикат.
// Вызывается при смене барбера или услуги, чтобы не держать в памяти
// уже неактуальные ответы.
func (c *AvailabilityCache) Invalidate(match func(key string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		if match(key) {
			delete(c.entries, key)
		}
	}
}

// Clear очищает кэш целиком. Используется после успешной записи, чтобы
// следующий показ слотов ушёл за свежими данными.
func (c *AvailabilityCache) Clear() {
	c.Invalidate(func(string) bool { return true })
}

// Len возвращает число записей (включая ещё не вычищенные просроченные)
func (c *AvailabilityCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
