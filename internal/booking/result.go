package booking

// Outcome — исход попытки записи. Каждый исход ведёт ровно в одну ветку
// интерфейса и никогда не теряется молча.
type Outcome int

const (
	OutcomeSuccess         Outcome = iota // Заявка принята
	OutcomeConflict                       // 409 — слот занял другой клиент
	OutcomeValidationError                // Ошибка в данных (клиентская или серверное бизнес-правило)
	OutcomeNetworkError                   // Транспорт/таймаут/непонятный ответ
)

// Result — результат Submit
type Result struct {
	Outcome        Outcome
	ConfirmationID string // для OutcomeSuccess
	Message        string // текст для пользователя
	Field          string // для OutcomeValidationError: какое поле исправить
	Cause          error  // для OutcomeNetworkError
}
