package booking

import "time"

// Slot — слот, готовый к показу: значение для API и 12-часовой текст
type Slot struct {
	Value   string // "HH:MM", 24ч
	Display string // "9:30 am"
}

// FilterElapsed убирает уже прошедшие слоты, если fecha — сегодняшний день
// в поясе loc. Сравнивается полная дата-время слота с now, а не только
// время суток: так смена дат и DST не дают ложных срабатываний. Для других
// дат список возвращается без фильтрации. Слоты с неразбираемым временем
// отбрасываются.
func FilterElapsed(horarios []string, fecha string, now time.Time, loc *time.Location) []string {
	day, err := ParseFecha(fecha, loc)
	if err != nil {
		return nil
	}

	localNow := now.In(loc)
	isToday := day.Year() == localNow.Year() && day.Month() == localNow.Month() && day.Day() == localNow.Day()

	out := make([]string, 0, len(horarios))
	for _, hhmm := range horarios {
		hh, mm, err := ParseHora(hhmm)
		if err != nil {
			continue
		}
		if isToday {
			slotAt := time.Date(day.Year(), day.Month(), day.Day(), hh, mm, 0, 0, loc)
			if !slotAt.After(localNow) {
				continue
			}
		}
		out = append(out, hhmm)
	}
	return out
}

// BuildSlots готовит слоты к показу
func BuildSlots(horarios []string) []Slot {
	slots := make([]Slot, 0, len(horarios))
	for _, hhmm := range horarios {
		slots = append(slots, Slot{Value: hhmm, Display: Format12h(hhmm)})
	}
	return slots
}

// UpcomingFechas — даты, открытые для записи: count дней начиная с
// сегодняшнего в поясе loc. На сайте этот список рендерится сервером,
// бот строит его сам.
func UpcomingFechas(now time.Time, loc *time.Location, count int) []time.Time {
	localNow := now.In(loc)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)

	out := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, today.AddDate(0, 0, i))
	}
	return out
}
