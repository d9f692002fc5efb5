package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/barberbros/barbershop_bot/internal/model"
)

// Barbero — барбер из каталога. Списка барберов в API нет (на сайте опции
// рендерятся сервером вместе со страницей), поэтому бот берёт каталог из
// JSON-файла, путь к которому задаётся конфигом.
type Barbero struct {
	ID   string `json:"id"`
	Name string `json:"nombre"`
}

// Servicio — услуга из каталога
type Servicio struct {
	ID          string `json:"id"`
	Name        string `json:"nombre"`
	DurationMin int    `json:"duracion"` // минуты; 0 → значение по умолчанию
	Price       string `json:"precio,omitempty"`
}

// DefaultDurationMin — длительность услуги, если каталог её не задал.
// Совпадает с дефолтом бэкенда.
const DefaultDurationMin = 30

// Catalog хранит барберов и услуги, доступные для записи
type Catalog struct {
	Barberos  []Barbero  `json:"barberos"`
	Servicios []Servicio `json:"servicios"`
}

// Load читает каталог из JSON-файла
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	if len(c.Barberos) == 0 {
		return nil, fmt.Errorf("catalog %s has no barbers", path)
	}
	if len(c.Servicios) == 0 {
		return nil, fmt.Errorf("catalog %s has no services", path)
	}

	sort.Slice(c.Servicios, func(i, j int) bool { return c.Servicios[i].Name < c.Servicios[j].Name })

	return &c, nil
}

// BarberoByID возвращает барбера по ID
func (c *Catalog) BarberoByID(id string) (Barbero, bool) {
	for _, b := range c.Barberos {
		if b.ID == id {
			return b, true
		}
	}
	return Barbero{}, false
}

// ServicioByID возвращает услугу по ID
func (c *Catalog) ServicioByID(id string) (Servicio, bool) {
	for _, s := range c.Servicios {
		if s.ID == id {
			return s, true
		}
	}
	return Servicio{}, false
}

// Duration возвращает длительность услуги в минутах
func (s Servicio) Duration() int {
	if s.DurationMin <= 0 {
		return DefaultDurationMin
	}
	return s.DurationMin
}

// ServicioAPI — часть API-клиента, нужная для обновления каталога
type ServicioAPI interface {
	Servicio(ctx context.Context, servicioID string) (*model.ServicioDetails, error)
}

// Refresh подтягивает актуальные длительности и цены услуг из
// GET /api/servicio/{id}. Ошибки по отдельным услугам не фатальны:
// остаёмся на данных из файла.
func (c *Catalog) Refresh(ctx context.Context, api ServicioAPI, logger *zap.Logger) {
	for i := range c.Servicios {
		s := &c.Servicios[i]
		details, err := api.Servicio(ctx, s.ID)
		if err != nil {
			logger.Warn("Failed to refresh service from API, keeping catalog values",
				zap.String("servicio_id", s.ID),
				zap.Error(err))
			continue
		}

		if details.DuracionEstimada > 0 {
			s.DurationMin = details.DuracionEstimada
		}
		if details.PrecioFormateado != "" {
			s.Price = details.PrecioFormateado
		}
		if details.Nombre != "" {
			s.Name = details.Nombre
		}

		logger.Info("Service refreshed from API",
			zap.String("servicio_id", s.ID),
			zap.String("nombre", s.Name),
			zap.Int("duracion_min", s.DurationMin))
	}
}

// ParseID проверяет, что ID из callback-данных числовой (формат бэкенда)
func ParseID(raw string) (string, error) {
	if _, err := strconv.ParseInt(raw, 10, 64); err != nil {
		return "", fmt.Errorf("invalid catalog id %q", raw)
	}
	return raw, nil
}
