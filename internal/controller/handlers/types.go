package handlers

import (
	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/catalog"
	"github.com/barberbros/barbershop_bot/internal/controller/session"
	"github.com/barberbros/barbershop_bot/internal/controller/state"
)

// Handlers обрабатывает команды и текстовые сообщения
type Handlers struct {
	sessions     *session.Manager
	stateManager *state.Manager
	catalog      *catalog.Catalog
	logger       *zap.Logger
}

// NewHandlers создаёт обработчики команд
func NewHandlers(sessions *session.Manager, sm *state.Manager, cat *catalog.Catalog, logger *zap.Logger) *Handlers {
	return &Handlers{
		sessions:     sessions,
		stateManager: sm,
		catalog:      cat,
		logger:       logger,
	}
}
