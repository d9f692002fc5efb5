package booking

import (
	"fmt"
	"time"
)

// ParseHora разбирает слот "HH:MM" (24ч)
func ParseHora(hhmm string) (hours, minutes int, err error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time slot %q: %w", hhmm, err)
	}
	return t.Hour(), t.Minute(), nil
}

// Format12h переводит "HH:MM" в 12-часовой вид: "09:30" → "9:30 am"
func Format12h(hhmm string) string {
	hh, mm, err := ParseHora(hhmm)
	if err != nil {
		return hhmm
	}

	suffix := "am"
	if hh >= 12 {
		suffix = "pm"
	}
	hour12 := hh % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, mm, suffix)
}

// EndTime считает время окончания: старт + длительность, минутная
// арифметика с переносом часов по модулю 24
func EndTime(hhmm string, durationMin int) string {
	hh, mm, err := ParseHora(hhmm)
	if err != nil {
		return hhmm
	}

	totalMin := mm + durationMin
	endHH := (hh + totalMin/60) % 24
	endMM := totalMin % 60
	return fmt.Sprintf("%02d:%02d", endHH, endMM)
}

// FormatTimeRange — диапазон занятия в 12-часовом виде:
// ("09:30", 30) → "9:30 am - 10:00 am"
func FormatTimeRange(hhmm string, durationMin int) string {
	return fmt.Sprintf("%s - %s", Format12h(hhmm), Format12h(EndTime(hhmm, durationMin)))
}

// ParseFecha разбирает дату "YYYY-MM-DD" в заданном часовом поясе
func ParseFecha(fecha string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", fecha, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid fecha %q: %w", fecha, err)
	}
	return t, nil
}

// FormatFechaLarga — дата для панели подтверждения, с днём недели
func FormatFechaLarga(fecha string, loc *time.Location) string {
	t, err := ParseFecha(fecha, loc)
	if err != nil {
		return fecha
	}
	return fmt.Sprintf("%s, %02d %s %d", weekdayName(t.Weekday()), t.Day(), monthName(t.Month()), t.Year())
}

// FormatFechaCorta — дата для кнопок выбора: "Пн 02.06"
func FormatFechaCorta(t time.Time) string {
	return fmt.Sprintf("%s %02d.%02d", weekdayShort(t.Weekday()), t.Day(), int(t.Month()))
}

func weekdayName(d time.Weekday) string {
	names := [...]string{"Воскресенье", "Понедельник", "Вторник", "Среда", "Четверг", "Пятница", "Суббота"}
	return names[int(d)]
}

func weekdayShort(d time.Weekday) string {
	names := [...]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}
	return names[int(d)]
}

func monthName(m time.Month) string {
	names := map[time.Month]string{
		time.January:   "января",
		time.February:  "февраля",
		time.March:     "марта",
		time.April:     "апреля",
		time.May:       "мая",
		time.June:      "июня",
		time.July:      "июля",
		time.August:    "августа",
		time.September: "сентября",
		time.October:   "октября",
		time.November:  "ноября",
		time.December:  "декабря",
	}
	return names[m]
}

// FormatDuration — длительность услуги в минутах/часах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}
