package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Шаги ввода контактных данных после подтверждения слота
	StateEnterNombre   UserState = "enter_nombre"
	StateEnterEmail    UserState = "enter_email"
	StateEnterTelefono UserState = "enter_telefono"
	StateEnterNotas    UserState = "enter_notas"
)

// Ключи временных данных диалога
const (
	DataNombre   = "nombre"
	DataEmail    = "email"
	DataTelefono = "telefono"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
