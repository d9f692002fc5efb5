package booking

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/cache"
	"github.com/barberbros/barbershop_bot/internal/model"
)

// State — состояние лоадера доступности
type State int

const (
	StateIdle     State = iota // Выбор неполон, показана подсказка
	StateLoading               // Запрос в полёте
	StateRendered              // Слоты показаны (возможно, пустые)
	StateError                 // Запрос не удался, показана кнопка повтора
)

// DebounceDelay — окно схлопывания быстрых последовательных изменений
// выбора в один запрос
const DebounceDelay = 300 * time.Millisecond

// MessageNoSlots — общий текст пустого списка, когда сервер не прислал свой
const MessageNoSlots = "Нет свободных слотов на выбранную дату 😔"

// MessageSelectAll — подсказка при неполном выборе
const MessageSelectAll = "Выберите барбера, услугу и дату, чтобы увидеть свободные слоты"

// AvailabilityAPI — часть API-клиента, нужная лоадеру
type AvailabilityAPI interface {
	Disponibilidad(ctx context.Context, barberoID, fecha, servicioID string) (*model.AvailabilityResponse, error)
}

// Loader загружает и отдаёт на отрисовку слоты для текущего выбора.
// Машина состояний Idle → Loading → {Rendered, Error}, повторный вход в
// Loading при любой смене зависимости. Срабатывания дебаунсятся; каждый
// запрос помечается снимком выбора, и устаревший ответ (выбор успел
// измениться) отбрасывается, а не рисуется поверх нового.
type Loader struct {
	mu        sync.Mutex
	state     State
	timer     *time.Timer
	lastQuery Snapshot

	sel      *Selection
	cache    *cache.AvailabilityCache
	api      AvailabilityAPI
	renderer Renderer
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
	debounce time.Duration

	// onLoading дёргается при входе в Loading: панель подтверждения
	// скрывается, периодическая ревалидация останавливается
	onLoading func()
}

// LoaderOption настраивает лоадер
type LoaderOption func(*Loader)

// WithDebounce задаёт окно дебаунса (для тестов)
func WithDebounce(d time.Duration) LoaderOption {
	return func(l *Loader) { l.debounce = d }
}

// WithClock задаёт источник времени (для тестов)
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) { l.now = now }
}

// NewLoader создаёт лоадер и подписывает его на изменения выбора
func NewLoader(sel *Selection, c *cache.AvailabilityCache, api AvailabilityAPI, renderer Renderer, loc *time.Location, logger *zap.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		state:    StateIdle,
		sel:      sel,
		cache:    c,
		api:      api,
		renderer: renderer,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
		debounce: DebounceDelay,
	}
	for _, opt := range opts {
		opt(l)
	}

	sel.Subscribe(l.onSelectionChange)

	return l
}

// SetOnLoading задаёт хук входа в Loading
func (l *Loader) SetOnLoading(fn func()) {
	l.mu.Lock()
	l.onLoading = fn
	l.mu.Unlock()
}

// State возвращает текущее состояние
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// onSelectionChange реагирует только на смену запроса (барбер, услуга,
// дата); выбор слота загрузку не перезапускает
func (l *Loader) onSelectionChange(snap Snapshot) {
	l.mu.Lock()
	prev := l.lastQuery
	if snap.SameQuery(prev) {
		l.mu.Unlock()
		return
	}
	l.lastQuery = snap
	l.mu.Unlock()

	// Смена барбера или услуги делает записи прежней пары неактуальными
	if snap.BarberoID != prev.BarberoID || snap.ServicioID != prev.ServicioID {
		l.invalidateStale(prev)
	}

	l.Trigger()
}

// invalidateStale выкидывает из кэша записи прежней пары барбер/услуга:
// к ней уже не вернутся по этим кнопкам, а свежие данные всё равно
// перезапросятся. Кэш общий на процесс, поэтому трогаем только свой
// префикс — записи других чатов доживают TTL.
func (l *Loader) invalidateStale(prev Snapshot) {
	if prev.BarberoID == "" && prev.ServicioID == "" {
		return
	}
	prefix := prev.BarberoID + ":" + prev.ServicioID + ":"
	l.cache.Invalidate(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	})
}

// Trigger запрашивает загрузку с дебаунсом: из пачки быстрых изменений
// выбора до сервера доходит только последнее
func (l *Loader) Trigger() {
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timer = time.AfterFunc(l.debounce, l.load)
	l.mu.Unlock()
}

// Reload загружает немедленно, минуя дебаунс. Используется кнопкой
// "повторить" и самовосстановлением после конфликта брони.
func (l *Loader) Reload() {
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.mu.Unlock()

	go l.load()
}

// Refresh сбрасывает кэш текущего запроса и перезагружает слоты.
// Используется после конфликта брони: показать нужно заведомо свежие
// данные, а не пятиминутный кэш, в котором спорный слот ещё свободен.
func (l *Loader) Refresh() {
	snap := l.sel.Snapshot()
	if snap.HasQuery() {
		key := cache.Key(snap.BarberoID, snap.ServicioID, snap.Fecha)
		l.cache.Invalidate(func(k string) bool { return k == key })
	}
	l.Reload()
}

// Stop гасит отложенную загрузку
func (l *Loader) Stop() {
	l.mu.Lock()
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.mu.Unlock()
}

// load — тело машины состояний
func (l *Loader) load() {
	snap := l.sel.Snapshot()

	// Неполный выбор — подсказка, без похода в сеть
	if !snap.HasQuery() {
		l.setState(StateIdle)
		l.renderer.RenderInstruction(MessageSelectAll)
		return
	}

	// Свежий кэш — рисуем сразу, сеть не трогаем
	if payload, ok := l.cache.Get(snap.BarberoID, snap.ServicioID, snap.Fecha); ok {
		l.logger.Debug("Availability served from cache",
			zap.String("key", cache.Key(snap.BarberoID, snap.ServicioID, snap.Fecha)))
		l.render(snap, payload)
		return
	}

	l.setState(StateLoading)
	if fn := l.loadingHook(); fn != nil {
		fn()
	}
	l.renderer.RenderLoading()

	payload, err := l.api.Disponibilidad(context.Background(), snap.BarberoID, snap.Fecha, snap.ServicioID)

	// Выбор успел разойтись с запрошенным — ответ устарел, не рисуем
	if cur := l.sel.Snapshot(); !cur.SameQuery(snap) {
		l.logger.Info("Discarding stale availability response",
			zap.String("requested_fecha", snap.Fecha),
			zap.String("current_fecha", cur.Fecha))
		return
	}

	if err != nil {
		// Ошибки не кэшируются
		l.logger.Error("Failed to load availability",
			zap.String("barbero_id", snap.BarberoID),
			zap.String("fecha", snap.Fecha),
			zap.Error(err))
		l.setState(StateError)
		l.renderer.RenderError("Не удалось загрузить слоты. Проверьте связь и попробуйте ещё раз.")
		return
	}

	l.cache.Set(snap.BarberoID, snap.ServicioID, snap.Fecha, payload)
	l.render(snap, payload)
}

// render фильтрует прошедшие слоты и отдаёт результат на отрисовку
func (l *Loader) render(snap Snapshot, payload *model.AvailabilityResponse) {
	remaining := FilterElapsed(payload.Horarios, snap.Fecha, l.now(), l.loc)

	l.setState(StateRendered)

	if len(remaining) == 0 {
		// Пустой успешный ответ — не ошибка
		text := payload.Mensaje
		if text == "" {
			text = MessageNoSlots
		}
		l.renderer.RenderEmpty(text)
		return
	}

	l.renderer.RenderSlots(snap.Fecha, BuildSlots(remaining))
}

func (l *Loader) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

func (l *Loader) loadingHook() func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.onLoading
}
