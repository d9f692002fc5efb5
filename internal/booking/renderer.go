package booking

// Renderer — отображающая половина процесса записи. Движок (loader,
// submitter, validator) считает и решает, Renderer рисует; благодаря этому
// вся логика тестируется без Telegram. Реализация в internal/controller
// редактирует сообщения бота.
type Renderer interface {
	// RenderInstruction — подсказка вместо слотов, пока выбор неполон
	RenderInstruction(text string)
	// RenderLoading — индикатор загрузки; селекторы барбера и услуги на
	// это время скрываются, чтобы исключить конкурирующий выбор
	RenderLoading()
	// RenderSlots — свободные слоты на дату как выбираемые кнопки
	RenderSlots(fecha string, slots []Slot)
	// RenderEmpty — успешный, но пустой ответ. Не путать с ошибкой:
	// текст приходит от сервера ("fully booked") или генерится общий
	RenderEmpty(text string)
	// RenderError — ошибка загрузки слотов с кнопкой "повторить"
	RenderError(text string)
	// RenderConfirmation — панель подтверждения с резюме записи
	RenderConfirmation(s Summary)
	// HideConfirmation скрывает панель (вход лоадера в Loading делает
	// показанное время недействительным)
	HideConfirmation()
	// RenderSuccess — заявка принята
	RenderSuccess(confirmationID, message string)
	// Notify — короткое уведомление (аналог toast)
	Notify(text string)
}
