package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/model"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, `{
		"barberos": [{"id":"1","nombre":"Carlos"},{"id":"2","nombre":"Miguel"}],
		"servicios": [
			{"id":"2","nombre":"Corte + barba","duracion":60,"precio":"$40.000"},
			{"id":"1","nombre":"Corte clásico","duracion":30}
		]
	}`)

	c, err := Load(path)
	require.NoError(t, err)

	require.Len(t, c.Barberos, 2)
	require.Len(t, c.Servicios, 2)
	// Услуги отсортированы по имени
	assert.Equal(t, "Corte + barba", c.Servicios[0].Name)
	assert.Equal(t, "Corte clásico", c.Servicios[1].Name)

	b, ok := c.BarberoByID("2")
	require.True(t, ok)
	assert.Equal(t, "Miguel", b.Name)

	_, ok = c.ServicioByID("99")
	assert.False(t, ok)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeCatalog(t, `not json`))
	assert.Error(t, err)

	_, err = Load(writeCatalog(t, `{"barberos":[],"servicios":[{"id":"1","nombre":"Corte"}]}`))
	assert.Error(t, err, "catalog without barbers is unusable")

	_, err = Load(writeCatalog(t, `{"barberos":[{"id":"1","nombre":"Carlos"}],"servicios":[]}`))
	assert.Error(t, err, "catalog without services is unusable")
}

func TestServicioDuration(t *testing.T) {
	assert.Equal(t, 45, Servicio{DurationMin: 45}.Duration())
	assert.Equal(t, DefaultDurationMin, Servicio{}.Duration())
}

type fakeServicioAPI struct {
	details map[string]*model.ServicioDetails
}

func (f *fakeServicioAPI) Servicio(_ context.Context, id string) (*model.ServicioDetails, error) {
	d, ok := f.details[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return d, nil
}

func TestRefresh(t *testing.T) {
	c := &Catalog{
		Barberos: []Barbero{{ID: "1", Name: "Carlos"}},
		Servicios: []Servicio{
			{ID: "1", Name: "Corte clásico", DurationMin: 30, Price: "$20.000"},
			{ID: "2", Name: "Corte + barba", DurationMin: 60},
		},
	}

	api := &fakeServicioAPI{details: map[string]*model.ServicioDetails{
		"1": {Nombre: "Corte clásico", DuracionEstimada: 45, PrecioFormateado: "$25.000"},
		// Услуга 2 отсутствует в API: остаётся на данных из файла
	}}

	c.Refresh(context.Background(), api, zap.NewNop())

	s1, _ := c.ServicioByID("1")
	assert.Equal(t, 45, s1.DurationMin)
	assert.Equal(t, "$25.000", s1.Price)

	s2, _ := c.ServicioByID("2")
	assert.Equal(t, 60, s2.DurationMin)
	assert.Empty(t, s2.Price)
}

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, "42", id)

	_, err = ParseID("abc")
	assert.Error(t, err)
	_, err = ParseID("1; DROP TABLE citas")
	assert.Error(t, err)
}
