package booking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ValidationInterval — период фоновой проверки, что выбранный слот всё
// ещё свободен, пока открыта панель подтверждения
const ValidationInterval = 30 * time.Second

// SlotChecker — часть API-клиента, нужная валидатору
type SlotChecker interface {
	ValidateSlot(ctx context.Context, barberoID, fecha, servicioID, hora string) (bool, error)
}

// Validator следит за выбранным слотом, пока пользователь заполняет
// контакты. Если слот заняли — сообщает и принудительно перезагружает
// слоты. Таймер — ресурс с гарантированной остановкой на всех путях
// выхода, включая ошибочные.
type Validator struct {
	checker  SlotChecker
	logger   *zap.Logger
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewValidator создаёт валидатор
func NewValidator(checker SlotChecker, logger *zap.Logger, interval time.Duration) *Validator {
	if interval <= 0 {
		interval = ValidationInterval
	}
	return &Validator{
		checker:  checker,
		logger:   logger,
		interval: interval,
	}
}

// CheckOnce — разовая проверка слота перед показом панели подтверждения.
// Сетевые ошибки трактуются как "считаем свободным" (fail-open): реальный
// конфликт всё равно поймается при отправке заявки.
func (v *Validator) CheckOnce(ctx context.Context, snap Snapshot) bool {
	available, err := v.checker.ValidateSlot(ctx, snap.BarberoID, snap.Fecha, snap.ServicioID, snap.Hora)
	if err != nil {
		v.logger.Warn("Slot pre-check failed, assuming available",
			zap.String("hora", snap.Hora),
			zap.Error(err))
		return true
	}
	return available
}

// Start запускает периодическую проверку слота. Предыдущая проверка, если
// была, останавливается. onTaken вызывается один раз, когда слот пропал
// из списка свободных; после этого проверка гасится сама.
func (v *Validator) Start(snap Snapshot, onTaken func()) {
	v.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	v.mu.Lock()
	v.cancel = cancel
	v.mu.Unlock()

	go v.watch(ctx, snap, onTaken)
}

// Stop останавливает текущую проверку, если она идёт
func (v *Validator) Stop() {
	v.mu.Lock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.mu.Unlock()
}

func (v *Validator) watch(ctx context.Context, snap Snapshot, onTaken func()) {
	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			available, err := v.checker.ValidateSlot(ctx, snap.BarberoID, snap.Fecha, snap.ServicioID, snap.Hora)
			if err != nil {
				// Fail-open и здесь: перепроверим на следующем тике
				v.logger.Warn("Periodic slot check failed",
					zap.String("hora", snap.Hora),
					zap.Error(err))
				continue
			}
			if !available {
				v.logger.Info("Selected slot was taken while user was filling the form",
					zap.String("barbero_id", snap.BarberoID),
					zap.String("fecha", snap.Fecha),
					zap.String("hora", snap.Hora))
				v.Stop()
				onTaken()
				return
			}
		}
	}
}
