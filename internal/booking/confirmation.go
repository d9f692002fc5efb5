package booking

import (
	"fmt"
	"time"

	"github.com/barberbros/barbershop_bot/internal/catalog"
)

// Summary — резюме будущей записи для панели подтверждения. Хранит и
// готовые к показу строки, и сырые значения, из которых собирается
// BookingRequest при отправке.
type Summary struct {
	BarberoID    string
	BarberoName  string
	ServicioID   string
	ServicioName string
	DurationMin  int
	Precio       string
	Fecha        string // YYYY-MM-DD
	FechaDisplay string // "Вторник, 10 июня 2025"
	Hora         string // HH:MM
	HoraDisplay  string // "9:30 am - 10:00 am"
}

// BuildSummary собирает резюме по снимку выбора и каталогу. Диапазон
// времени — начало плюс длительность услуги.
func BuildSummary(snap Snapshot, cat *catalog.Catalog, loc *time.Location) (Summary, error) {
	if !snap.IsComplete() {
		return Summary{}, fmt.Errorf("selection is incomplete: %+v", snap)
	}

	barbero, ok := cat.BarberoByID(snap.BarberoID)
	if !ok {
		return Summary{}, fmt.Errorf("unknown barbero id %q", snap.BarberoID)
	}
	servicio, ok := cat.ServicioByID(snap.ServicioID)
	if !ok {
		return Summary{}, fmt.Errorf("unknown servicio id %q", snap.ServicioID)
	}

	duration := servicio.Duration()

	return Summary{
		BarberoID:    snap.BarberoID,
		BarberoName:  barbero.Name,
		ServicioID:   snap.ServicioID,
		ServicioName: servicio.Name,
		DurationMin:  duration,
		Precio:       servicio.Price,
		Fecha:        snap.Fecha,
		FechaDisplay: FormatFechaLarga(snap.Fecha, loc),
		Hora:         snap.Hora,
		HoraDisplay:  FormatTimeRange(snap.Hora, duration),
	}, nil
}

// ServicioLine — строка услуги с длительностью: "Стрижка (30 мин)"
func (s Summary) ServicioLine() string {
	return fmt.Sprintf("%s (%s)", s.ServicioName, FormatDuration(s.DurationMin))
}
