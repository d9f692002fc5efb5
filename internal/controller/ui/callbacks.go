package ui

// ========================
// Callback Data Patterns
// ========================
// Форматы callback-данных, используемые по всему боту

const (
	StartBooking = "start_booking" // Начать запись (кнопка из /start)
	BookAnother  = "book_another"  // Записаться ещё раз после успеха

	PickBarbero  = "pick_barbero:"  // pick_barbero:3
	PickServicio = "pick_servicio:" // pick_servicio:5
	PickFecha    = "pick_fecha:"    // pick_fecha:2025-06-10
	PickHora     = "pick_hora:"     // pick_hora:09:30

	RetrySlots = "retry_slots" // Повторить загрузку слотов после ошибки

	ConfirmBooking     = "confirm_booking"     // Перейти к вводу контактов
	CancelConfirmation = "cancel_confirmation" // Закрыть панель подтверждения
)
