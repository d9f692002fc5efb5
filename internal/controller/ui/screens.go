package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/barberbros/barbershop_bot/internal/booking"
	"github.com/barberbros/barbershop_bot/internal/catalog"
	"github.com/barberbros/barbershop_bot/internal/controller/keyboard"
)

// FechaWindowDays — сколько дней открыто для записи (как на сайте)
const FechaWindowDays = 7

// SelectionHeader — шапка экрана записи с текущим выбором
func SelectionHeader(snap booking.Snapshot, cat *catalog.Catalog) string {
	var sb strings.Builder
	sb.WriteString("💈 Запись в барбершоп\n\n")

	if b, ok := cat.BarberoByID(snap.BarberoID); ok {
		fmt.Fprintf(&sb, "Барбер: %s\n", b.Name)
	} else {
		sb.WriteString("Барбер: —\n")
	}

	if s, ok := cat.ServicioByID(snap.ServicioID); ok {
		line := s.Name
		if s.Price != "" {
			line += " — " + s.Price
		}
		fmt.Fprintf(&sb, "Услуга: %s\n", line)
	} else {
		sb.WriteString("Услуга: —\n")
	}

	if snap.Fecha != "" {
		fmt.Fprintf(&sb, "Дата: %s\n", snap.Fecha)
	} else {
		sb.WriteString("Дата: —\n")
	}

	return sb.String()
}

// SelectorRows — ряды кнопок выбора барбера, услуги и даты. Выбранные
// пункты помечаются галочкой.
func SelectorRows(snap booking.Snapshot, cat *catalog.Catalog, now time.Time, loc *time.Location) [][]models.InlineKeyboardButton {
	b := keyboard.NewBuilder()

	barberos := make([]models.InlineKeyboardButton, 0, len(cat.Barberos))
	for _, barbero := range cat.Barberos {
		text := "💈 " + barbero.Name
		if barbero.ID == snap.BarberoID {
			text = "✅ " + barbero.Name
		}
		barberos = append(barberos, keyboard.Button(text, PickBarbero+barbero.ID))
	}
	b.AddRows(keyboard.Grid(barberos, 2))

	servicios := make([]models.InlineKeyboardButton, 0, len(cat.Servicios))
	for _, servicio := range cat.Servicios {
		text := "✂️ " + servicio.Name
		if servicio.ID == snap.ServicioID {
			text = "✅ " + servicio.Name
		}
		servicios = append(servicios, keyboard.Button(text, PickServicio+servicio.ID))
	}
	b.AddRows(keyboard.Grid(servicios, 2))

	// Даты доступны только при выбранных барбере и услуге
	if !booking.IsPlaceholder(snap.BarberoID) && !booking.IsPlaceholder(snap.ServicioID) {
		fechas := make([]models.InlineKeyboardButton, 0, FechaWindowDays)
		for _, day := range booking.UpcomingFechas(now, loc, FechaWindowDays) {
			value := day.Format("2006-01-02")
			text := booking.FormatFechaCorta(day)
			if value == snap.Fecha {
				text = "✅ " + text
			}
			fechas = append(fechas, keyboard.Button(text, PickFecha+value))
		}
		b.AddRows(keyboard.Grid(fechas, 4))
	}

	return b.Build().InlineKeyboard
}

// SlotRows — сетка кнопок свободных слотов
func SlotRows(slots []booking.Slot) [][]models.InlineKeyboardButton {
	buttons := make([]models.InlineKeyboardButton, 0, len(slots))
	for _, slot := range slots {
		buttons = append(buttons, keyboard.Button("🕐 "+slot.Display, PickHora+slot.Value))
	}
	return keyboard.Grid(buttons, 3)
}

// RetryRow — кнопка повторной загрузки слотов
func RetryRow() []models.InlineKeyboardButton {
	return []models.InlineKeyboardButton{keyboard.Button("🔄 Повторить", RetrySlots)}
}

// ConfirmationText — текст панели подтверждения
func ConfirmationText(s booking.Summary) string {
	var sb strings.Builder
	sb.WriteString("📋 Проверьте данные записи:\n\n")
	fmt.Fprintf(&sb, "💈 Барбер: %s\n", s.BarberoName)
	fmt.Fprintf(&sb, "✂️ Услуга: %s\n", s.ServicioLine())
	if s.Precio != "" {
		fmt.Fprintf(&sb, "💵 Цена: %s\n", s.Precio)
	}
	fmt.Fprintf(&sb, "📅 Дата: %s\n", s.FechaDisplay)
	fmt.Fprintf(&sb, "🕐 Время: %s\n\n", s.HoraDisplay)
	sb.WriteString("Для подтверждения понадобятся имя, email и телефон.")
	return sb.String()
}

// ConfirmationKeyboard — кнопки панели подтверждения
func ConfirmationKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.Button("✅ Подтвердить запись", ConfirmBooking)).
		Row(keyboard.Button("❌ Отмена", CancelConfirmation)).
		Build()
}

// SuccessText — сообщение об успешно принятой заявке
func SuccessText(confirmationID, message string) string {
	var sb strings.Builder
	sb.WriteString("✅ Заявка принята!\n\n")
	sb.WriteString(message + "\n")
	if confirmationID != "" {
		fmt.Fprintf(&sb, "\n📝 Номер заявки: %s\n", confirmationID)
	}
	sb.WriteString("\nЕсли письмо не пришло за пару минут, проверьте папку «Спам».")
	return sb.String()
}

// SuccessKeyboard — кнопки под сообщением об успехе
func SuccessKeyboard() *models.InlineKeyboardMarkup {
	return keyboard.NewBuilder().
		Row(keyboard.Button("➕ Записаться ещё", BookAnother)).
		Build()
}

// ServiciosList — прайс-лист для /servicios
func ServiciosList(cat *catalog.Catalog) string {
	var sb strings.Builder
	sb.WriteString("✂️ Наши услуги:\n\n")
	for _, s := range cat.Servicios {
		fmt.Fprintf(&sb, "• %s — %s", s.Name, booking.FormatDuration(s.Duration()))
		if s.Price != "" {
			fmt.Fprintf(&sb, ", %s", s.Price)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nЗаписаться: /book")
	return sb.String()
}
