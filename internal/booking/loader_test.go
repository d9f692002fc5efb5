package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/cache"
	"github.com/barberbros/barbershop_bot/internal/model"
)

// recordingRenderer копит вызовы движка, чтобы тесты проверяли, что и в
// каком порядке было показано
type recordingRenderer struct {
	mu            sync.Mutex
	instructions  []string
	loading       int
	slotFechas    []string
	slots         [][]Slot
	empties       []string
	errs          []string
	confirmations []Summary
	hidden        int
	successIDs    []string
	notices       []string
}

func (r *recordingRenderer) RenderInstruction(text string) {
	r.mu.Lock()
	r.instructions = append(r.instructions, text)
	r.mu.Unlock()
}

func (r *recordingRenderer) RenderLoading() {
	r.mu.Lock()
	r.loading++
	r.mu.Unlock()
}

func (r *recordingRenderer) RenderSlots(fecha string, slots []Slot) {
	r.mu.Lock()
	r.slotFechas = append(r.slotFechas, fecha)
	r.slots = append(r.slots, slots)
	r.mu.Unlock()
}

func (r *recordingRenderer) RenderEmpty(text string) {
	r.mu.Lock()
	r.empties = append(r.empties, text)
	r.mu.Unlock()
}

func (r *recordingRenderer) RenderError(text string) {
	r.mu.Lock()
	r.errs = append(r.errs, text)
	r.mu.Unlock()
}

func (r *recordingRenderer) RenderConfirmation(s Summary) {
	r.mu.Lock()
	r.confirmations = append(r.confirmations, s)
	r.mu.Unlock()
}

func (r *recordingRenderer) HideConfirmation() {
	r.mu.Lock()
	r.hidden++
	r.mu.Unlock()
}

func (r *recordingRenderer) RenderSuccess(confirmationID, _ string) {
	r.mu.Lock()
	r.successIDs = append(r.successIDs, confirmationID)
	r.mu.Unlock()
}

func (r *recordingRenderer) Notify(text string) {
	r.mu.Lock()
	r.notices = append(r.notices, text)
	r.mu.Unlock()
}

func (r *recordingRenderer) snapshot() (slots int, loading int, empties, errs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots), r.loading, append([]string(nil), r.empties...), append([]string(nil), r.errs...)
}

func (r *recordingRenderer) lastSlots() []Slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.slots) == 0 {
		return nil
	}
	return r.slots[len(r.slots)-1]
}

// fakeAvailabilityAPI отдаёт заготовленные ответы и считает запросы
type fakeAvailabilityAPI struct {
	mu      sync.Mutex
	calls   int
	payload *model.AvailabilityResponse
	err     error
	block   chan struct{} // если задан, запрос висит до закрытия канала
}

func (f *fakeAvailabilityAPI) Disponibilidad(_ context.Context, _, _, _ string) (*model.AvailabilityResponse, error) {
	f.mu.Lock()
	f.calls++
	payload, err, block := f.payload, f.err, f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	return payload, nil
}

func (f *fakeAvailabilityAPI) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeAvailabilityAPI) set(payload *model.AvailabilityResponse, err error) {
	f.mu.Lock()
	f.payload = payload
	f.err = err
	f.mu.Unlock()
}

const testDebounce = 2 * time.Millisecond

// futureClock держит тесты на утре 2025-06-10, чтобы фильтрация
// прошедших слотов вела себя предсказуемо
func futureClock() time.Time {
	return time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
}

func newLoaderFixture(api *fakeAvailabilityAPI) (*Selection, *Loader, *recordingRenderer, *cache.AvailabilityCache) {
	sel := NewSelection()
	c := cache.New()
	r := &recordingRenderer{}
	l := NewLoader(sel, c, api, r, time.UTC, zap.NewNop(), WithDebounce(testDebounce), WithClock(futureClock))
	return sel, l, r, c
}

func TestLoader_IncompleteSelectionShowsInstruction(t *testing.T) {
	api := &fakeAvailabilityAPI{}
	sel, l, r, _ := newLoaderFixture(api)
	defer l.Stop()

	sel.SetBarbero("1")
	sel.SetServicio("2")

	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.instructions) > 0
	}, time.Second, time.Millisecond)

	assert.Equal(t, 0, api.callCount(), "no fetch until barbero, servicio and fecha are all set")
	assert.Equal(t, StateIdle, l.State())
}

func TestLoader_FullSelectionFetchesAndRenders(t *testing.T) {
	api := &fakeAvailabilityAPI{payload: &model.AvailabilityResponse{Horarios: []string{"09:00", "09:30"}}}
	sel, l, r, _ := newLoaderFixture(api)
	defer l.Stop()

	sel.SetBarbero("1")
	sel.SetServicio("2")
	sel.SetFecha("2025-06-10")

	require.Eventually(t, func() bool {
		slots, _, _, _ := r.snapshot()
		return slots == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, 1, api.callCount())
	assert.Equal(t, StateRendered, l.State())
	require.Len(t, r.lastSlots(), 2)
	assert.Equal(t, "9:00 am", r.lastSlots()[0].Display)
}

func TestLoader_DebounceCollapsesRapidChanges(t *testing.T) {
	api := &fakeAvailabilityAPI{payload: &model.AvailabilityResponse{Horarios: []string{"09:00"}}}
	sel, l, r, _ := newLoaderFixture(api)
	defer l.Stop()

	sel.SetBarbero("1")
	sel.SetServicio("2")
	sel.SetFecha("2025-06-10")
	sel.SetFecha("2025-06-11")
	sel.SetFecha("2025-06-12")

	require.Eventually(t, func() bool {
		slots, _, _, _ := r.snapshot()
		return slots == 1
	}, time.Second, time.Millisecond)

	// Из пачки изменений до сервера дошло только последнее
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, api.callCount())
	r.mu.Lock()
	assert.Equal(t, []string{"2025-06-12"}, r.slotFechas)
	r.mu.Unlock()
}

func TestLoader_CacheHitSkipsNetwork(t *testing.T) {
	api := &fakeAvailabilityAPI{payload: &model.AvailabilityResponse{Horarios: []string{"09:00"}}}
	sel, l, r, _ := newLoaderFixture(api)
	defer l.Stop()

	sel.SetBarbero("1")
	sel.SetServicio("2")
	sel.SetFecha("2025-06-10")

	require.Eventually(t, func() bool {
		slots, _, _, _ := r.snapshot()
		return slots == 1
	}, time.Second, time.Millisecond)

	// Уход на другую дату и возврат: вторая дата — новый запрос, возврат
	// обслуживается кэшем
	sel.SetFecha("2025-06-11")
	require.Eventually(t, func() bool {
		slots, _, _, _ := r.snapshot()
		return slots == 2
	}, time.Second, time.Millisecond)

	sel.SetFecha("2025-06-10")
	require.Eventually(t, func() bool {
		slots, _, _, _ := r.snapshot()
		return slots == 3
	}, time.Second, time.Millisecond)

	assert.Equal(t, 2, api.callCount(), "return to a cached fecha must not refetch")

	_, loading, _, _ := r.snapshot()
	assert.Equal(t, 2, loading, "cache hits must not flash the loading state")
}

func TestLoader_BarberoChangeDropsPreviousPairEntries(t *testing.T) {
	api := &fakeAvailabilityAPI{payload: &model.AvailabilityResponse{Horarios: []string{"09:00"}}}
	sel, l, r, c := newLoaderFixture(api)
	defer l.Stop()

	sel.SetBarbero("1")
	sel.SetServicio("2")
	sel.SetFecha("2025-06-10")

	require.Eventually(t, func() bool {
		slots, _, _, _ := r.snapshot()
		return slots == 1
	}, time.Second, time.Millisecond)
	require.Equal(t, 1, c.Len())

	sel.SetBarbero("3")

	require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, time.Millisecond)
}

func TestLoader_SharedCacheSurvivesOtherChatsSelections(t *testing.T) {
	shared := cache.New()

	apiA := &fakeAvailabilityAPI{payload: &model.AvailabilityResponse{Horarios: []string{"09:00"}}}
	selA := NewSelection()
	rA := &recordingRenderer{}
	loaderA := NewLoader(selA, shared, apiA, rA, time.UTC, zap.NewNop(), WithDebounce(testDebounce), WithClock(futureClock))
	defer loaderA.Stop()

	apiB := &fakeAvailabilityAPI{payload: &model.AvailabilityResponse{Horarios: []string{"10:00"}}}
	selB := NewSelection()
	rB := &recordingRenderer{}
	loaderB := NewLoader(selB, shared, apiB, rB, time.UTC, zap.NewNop(), WithDebounce(testDebounce), WithClock(futureClock))
	defer loaderB.Stop()

	// Первый чат закэшировал свою тройку
	selA.SetBarbero("1")
	selA.SetServicio("2")
	selA.SetFecha("2025-06-10")

	require.Eventually(t, func() bool {
		slots, _, _, _ := rA.snapshot()
		return slots == 1
	}, time.Second, time.Millisecond)
	require.Equal(t, 1, shared.Len())

	// Выбор во втором чате не трогает чужие записи общего кэша
	selB.SetBarbero("9")
	selB.SetServicio("5")
	selB.SetFecha("2025-06-10")

	require.Eventually(t, func() bool {
		slots, _, _, _ := rB.snapshot()
		return slots == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, 2, shared.Len(), "chat B must not evict chat A's entry")

	// Повторная загрузка той же тройки в пределах TTL — из кэша, без сети
	loaderA.Trigger()
	require.Eventually(t, func() bool {
		slots, _, _, _ := rA.snapshot()
		return slots == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, 1, apiA.callCount(), "second load of the same triple within TTL must not refetch")
}

func TestLoader_EmptyResponseIsNotAnError(t *testing.T) {
	api := &fakeAvailabilityAPI{payload: &model.AvailabilityResponse{Horarios: []string{}, Mensaje: "Totalmente reservado"}}
	sel, l, r, _ := newLoaderFixture(api)
	defer l.Stop()

	sel.SetBarbero("1")
	sel.SetServicio("2")
	sel.SetFecha("2025-06-10")

	require.Eventually(t, func() bool {
		_, _, empties, _ := r.snapshot()
		return len(empties) == 1
	}, time.Second, time.Millisecond)

	_, _, empties, errs := r.snapshot()
	assert.Equal(t, "Totalmente reservado", empties[0], "server-provided message wins")
	assert.Empty(t, errs)
	assert.Equal(t, StateRendered, l.State())
}

func TestLoader_EmptyResponseDefaultMessage(t *testing.T) {
	api := &fakeAvailabilityAPI{payload: &model.AvailabilityResponse{}}
	sel, l, r, _ := newLoaderFixture(api)
	defer l.Stop()

	sel.SetBarbero("1")
	sel.SetServicio("2")
	sel.SetFecha("2025-06-10")

	require.Eventually(t, func() bool {
		_, _, empties, _ := r.snapshot()
		return len(empties) == 1
	}, time.Second, time.Millisecond)

	_, _, empties, _ := r.snapshot()
	assert.Equal(t, MessageNoSlots, empties[0])
}

func TestLoader_ErrorRendersRetryAndIsNotCached(t *testing.T) {
	api := &fakeAvailabilityAPI{err: errors.New("boom")}
	sel, l, r, c := newLoaderFixture(api)
	defer l.Stop()

	sel.SetBarbero("1")
	sel.SetServicio("2")
	sel.SetFecha("2025-06-10")

	require.Eventually(t, func() bool {
		_, _, _, errs := r.snapshot()
		return len(errs) == 1
	}, time.Second, time.Millisecond)

	assert.Equal(t, StateError, l.State())
	assert.Equal(t, 0, c.Len(), "failed responses must not be cached")

	// Повтор после восстановления связи идёт в сеть и показывает слоты
	api.set(&model.AvailabilityResponse{Horarios: []string{"10:00"}}, nil)
	l.Reload()

	require.Eventually(t, func() bool {
		slots, _, _, _ := r.snapshot()
		return slots == 1
	}, time.Second, time.Millisecond)
	assert.Equal(t, 2, api.callCount())
	assert.Equal(t, StateRendered, l.State())
}

func TestLoader_RefreshBustsCurrentCacheEntry(t *testing.T) {
	api := &fakeAvailabilityAPI{payload: &model.AvailabilityResponse{Horarios: []string{"09:00"}}}
	sel, l, r, _ := newLoaderFixture(api)
	defer l.Stop()

	sel.SetBarbero("1")
	sel.SetServicio("2")
	sel.SetFecha("2025-06-10")

	require.Eventually(t, func() bool {
		slots, _, _, _ := r.snapshot()
		return slots == 1
	}, time.Second, time.Millisecond)

	// После конфликта брони кэш не годится: Refresh обязан сходить в сеть
	api.set(&model.AvailabilityResponse{Horarios: []string{"10:00"}}, nil)
	l.Refresh()

	require.Eventually(t, func() bool {
		last := r.lastSlots()
		return len(last) == 1 && last[0].Value == "10:00"
	}, time.Second, time.Millisecond)
	assert.Equal(t, 2, api.callCount())
}

func TestLoader_StaleResponseIsDiscarded(t *testing.T) {
	block := make(chan struct{})
	api := &fakeAvailabilityAPI{
		payload: &model.AvailabilityResponse{Horarios: []string{"09:00"}},
		block:   block,
	}
	sel, l, r, _ := newLoaderFixture(api)
	defer l.Stop()

	sel.SetBarbero("1")
	sel.SetServicio("2")
	sel.SetFecha("2025-06-10")

	// Ждём, пока запрос повиснет в полёте
	require.Eventually(t, func() bool { return api.callCount() == 1 }, time.Second, time.Millisecond)

	// Пока ответ в полёте, пользователь выбрал другую дату. Отпускаем
	// первый ответ: он устарел и не должен быть нарисован.
	api.mu.Lock()
	api.block = nil
	api.mu.Unlock()
	sel.SetFecha("2025-06-11")
	close(block)

	require.Eventually(t, func() bool {
		slots, _, _, _ := r.snapshot()
		return slots >= 1
	}, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, fecha := range r.slotFechas {
		assert.NotEqual(t, "2025-06-10", fecha, "stale payload must never render")
	}
}

func TestLoader_ElapsedSlotsFilteredForToday(t *testing.T) {
	api := &fakeAvailabilityAPI{payload: &model.AvailabilityResponse{Horarios: []string{"09:00", "09:30", "10:00"}}}
	sel := NewSelection()
	r := &recordingRenderer{}
	// Часы стоят на 09:15 сегодняшнего дня
	clock := func() time.Time { return time.Date(2025, 6, 10, 9, 15, 0, 0, time.UTC) }
	l := NewLoader(sel, cache.New(), api, r, time.UTC, zap.NewNop(), WithDebounce(testDebounce), WithClock(clock))
	defer l.Stop()

	sel.SetBarbero("1")
	sel.SetServicio("2")
	sel.SetFecha("2025-06-10")

	require.Eventually(t, func() bool {
		slots, _, _, _ := r.snapshot()
		return slots == 1
	}, time.Second, time.Millisecond)

	slots := r.lastSlots()
	require.Len(t, slots, 2)
	assert.Equal(t, "09:30", slots[0].Value)
	assert.Equal(t, "9:30 am", slots[0].Display)
	assert.Equal(t, "10:00 am", slots[1].Display)
}

func TestLoader_OnLoadingHookFires(t *testing.T) {
	api := &fakeAvailabilityAPI{payload: &model.AvailabilityResponse{Horarios: []string{"09:00"}}}
	sel, l, r, _ := newLoaderFixture(api)
	defer l.Stop()

	var mu sync.Mutex
	fired := 0
	l.SetOnLoading(func() {
		mu.Lock()
		fired++
		mu.Unlock()
	})

	sel.SetBarbero("1")
	sel.SetServicio("2")
	sel.SetFecha("2025-06-10")

	require.Eventually(t, func() bool {
		slots, _, _, _ := r.snapshot()
		return slots == 1
	}, time.Second, time.Millisecond)

	mu.Lock()
	assert.Equal(t, 1, fired)
	mu.Unlock()
}
