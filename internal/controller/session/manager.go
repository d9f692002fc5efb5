package session

import (
	"sync"

	"github.com/barberbros/barbershop_bot/internal/booking"
)

// Session — состояние одного чата: процесс записи и его рендерер
type Session struct {
	ChatID   int64
	Flow     *booking.Flow
	Renderer *Renderer
}

// Factory собирает сессию для нового чата
type Factory func(chatID int64) *Session

// Manager хранит сессии по ID чата
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
	factory  Factory
}

// NewManager создаёт менеджер сессий
func NewManager(factory Factory) *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
		factory:  factory,
	}
}

// GetOrCreate возвращает сессию чата, создавая её при первом обращении
func (m *Manager) GetOrCreate(chatID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[chatID]; ok {
		return s
	}
	s := m.factory(chatID)
	m.sessions[chatID] = s
	return s
}

// Get возвращает сессию чата, если она уже создана
func (m *Manager) Get(chatID int64) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[chatID]
	return s, ok
}

// Shutdown глушит фоновые ресурсы всех сессий
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		s.Flow.Shutdown()
	}
}
