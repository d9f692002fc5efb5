package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager_StateLifecycle(t *testing.T) {
	m := NewManager()

	assert.Equal(t, StateNone, m.GetState(1))

	m.SetState(1, StateEnterNombre)
	assert.Equal(t, StateEnterNombre, m.GetState(1))
	assert.Equal(t, StateNone, m.GetState(2), "states are per user")

	m.SetData(1, DataNombre, "Иван")
	m.SetState(1, StateEnterEmail)
	assert.Equal(t, "Иван", m.GetString(1, DataNombre), "data survives state transitions")

	m.ClearState(1)
	assert.Equal(t, StateNone, m.GetState(1))
	assert.Empty(t, m.GetString(1, DataNombre))
}

func TestManager_GetStringMissing(t *testing.T) {
	m := NewManager()
	assert.Empty(t, m.GetString(7, DataEmail))

	m.SetData(7, DataEmail, 42) // не строка
	assert.Empty(t, m.GetString(7, DataEmail))
}
