package booking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/cache"
	"github.com/barberbros/barbershop_bot/internal/catalog"
)

// API — всё, что движку нужно от клиента бэкенда
type API interface {
	AvailabilityAPI
	SlotChecker
	BookingAPI
}

// FlowConfig — зависимости и настройки процесса записи
type FlowConfig struct {
	API       API
	Cache     *cache.AvailabilityCache
	Catalog   *catalog.Catalog
	Renderer  Renderer
	Logger    *zap.Logger
	Location  *time.Location
	CSRFToken string

	// Переопределения для тестов; нули → значения по умолчанию
	Debounce           time.Duration
	ValidationInterval time.Duration
	Clock              func() time.Time
}

// Flow — процесс записи одного чата: выбор → слоты → подтверждение →
// контакты → отправка. Владеет Selection и связывает лоадер, валидатор и
// сабмиттер; все решения принимает движок, рисует Renderer.
type Flow struct {
	sel       *Selection
	loader    *Loader
	validator *Validator
	submitter *Submitter
	cache     *cache.AvailabilityCache
	catalog   *catalog.Catalog
	renderer  Renderer
	logger    *zap.Logger
	loc       *time.Location

	mu         sync.Mutex
	pending    *Summary // показанная панель подтверждения
	submitting bool
}

// NewFlow собирает процесс записи
func NewFlow(cfg FlowConfig) *Flow {
	sel := NewSelection()

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	loaderOpts := []LoaderOption{WithClock(clock)}
	if cfg.Debounce > 0 {
		loaderOpts = append(loaderOpts, WithDebounce(cfg.Debounce))
	}

	f := &Flow{
		sel:       sel,
		loader:    NewLoader(sel, cfg.Cache, cfg.API, cfg.Renderer, cfg.Location, cfg.Logger, loaderOpts...),
		validator: NewValidator(cfg.API, cfg.Logger, cfg.ValidationInterval),
		submitter: NewSubmitter(cfg.API, cfg.CSRFToken, cfg.Logger),
		cache:     cfg.Cache,
		catalog:   cfg.Catalog,
		renderer:  cfg.Renderer,
		logger:    cfg.Logger,
		loc:       cfg.Location,
	}

	// Вход лоадера в Loading делает показанное время недействительным:
	// панель прячется, фоновая проверка слота глушится
	f.loader.SetOnLoading(func() {
		f.validator.Stop()
		f.clearPending()
		f.renderer.HideConfirmation()
	})

	// Смена барбера, услуги или даты сбрасывает время — открытая панель
	// подтверждения при этом прячется сразу, не дожидаясь загрузки
	sel.Subscribe(func(snap Snapshot) {
		if snap.Hora != "" {
			return
		}
		f.validator.Stop()
		if _, shown := f.Pending(); shown {
			f.clearPending()
			f.renderer.HideConfirmation()
		}
	})

	return f
}

// Selection отдаёт состояние выбора (для контроллера и тестов)
func (f *Flow) Selection() *Selection {
	return f.sel
}

// SelectBarbero — пользователь выбрал барбера
func (f *Flow) SelectBarbero(id string) {
	f.sel.SetBarbero(id)
}

// SelectServicio — пользователь выбрал услугу
func (f *Flow) SelectServicio(id string) {
	f.sel.SetServicio(id)
}

// SelectFecha — пользователь выбрал дату
func (f *Flow) SelectFecha(fecha string) {
	f.sel.SetFecha(fecha)
}

// SelectHora — пользователь выбрал слот. Перед показом панели
// подтверждения слот разово перепроверяется на сервере; занятый слот
// панель не открывает, а перезагружает список. Сетевая ошибка проверки —
// fail-open: панель показывается, конфликт поймается при отправке.
func (f *Flow) SelectHora(ctx context.Context, hora string) error {
	if err := f.sel.SetHora(hora); err != nil {
		return err
	}

	snap := f.sel.Snapshot()

	if !f.validator.CheckOnce(ctx, snap) {
		f.renderer.Notify("К сожалению, это время уже заняли. Сейчас покажем обновлённые слоты.")
		f.loader.Refresh()
		return nil
	}

	summary, err := BuildSummary(snap, f.catalog, f.loc)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.pending = &summary
	f.mu.Unlock()

	f.renderer.RenderConfirmation(summary)

	f.validator.Start(snap, func() {
		f.renderer.Notify("Выбранное время уже занято. Обновляем слоты.")
		f.loader.Refresh()
	})

	return nil
}

// Pending возвращает показанную панель подтверждения, если она есть
func (f *Flow) Pending() (Summary, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending == nil {
		return Summary{}, false
	}
	return *f.pending, true
}

// Submit отправляет заявку. Повторный вызов, пока заявка в полёте,
// игнорируется — дублирующих запросов при обычном использовании не будет.
func (f *Flow) Submit(ctx context.Context, contact Contact) *Result {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil
	}
	f.submitting = true
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.submitting = false
		f.mu.Unlock()
	}()

	snap := f.sel.Snapshot()
	res := f.submitter.Submit(ctx, snap, contact)

	switch res.Outcome {
	case OutcomeSuccess:
		f.validator.Stop()
		f.clearPending()
		// Кэш сбрасывается целиком: следующий показ слотов пойдёт за
		// свежими данными
		f.cache.Clear()
		f.renderer.RenderSuccess(res.ConfirmationID, res.Message)
		f.sel.Reset()

	case OutcomeConflict:
		// Самовосстановление: сообщаем и обновляем слоты, панель
		// скроется при входе лоадера в Loading
		f.renderer.Notify(res.Message)
		f.loader.Refresh()

	case OutcomeValidationError:
		f.renderer.Notify(res.Message)

	case OutcomeNetworkError:
		f.renderer.Notify(res.Message)
	}

	return &res
}

// DismissConfirmation убирает панель подтверждения по инициативе
// пользователя. Выбранные барбер, услуга и дата сохраняются.
func (f *Flow) DismissConfirmation() {
	f.validator.Stop()
	f.clearPending()
	f.renderer.HideConfirmation()
}

// Retry — ручной повтор после ошибки загрузки слотов
func (f *Flow) Retry() {
	f.loader.Reload()
}

// Reset сбрасывает процесс записи и показывает начальный экран. Рендер
// принудительный: если выбор и так был пуст, подписчики лоадера смену
// запроса не увидят.
func (f *Flow) Reset() {
	f.validator.Stop()
	f.loader.Stop()
	f.clearPending()
	f.sel.Reset()
	f.loader.Stop()
	f.loader.Reload()
}

// Shutdown глушит все фоновые ресурсы процесса. Вызывается при
// завершении чата и остановке бота.
func (f *Flow) Shutdown() {
	f.validator.Stop()
	f.loader.Stop()
}

func (f *Flow) clearPending() {
	f.mu.Lock()
	f.pending = nil
	f.mu.Unlock()
}
