package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string // TELEGRAM_TOKEN
	BookingAPIURL string // BOOKING_API_URL — базовый URL бэкенда барбершопа
	CSRFToken     string // BOOKING_CSRF_TOKEN — требуется бэкендом на изменяющих запросах
	Environment   string // ENV
	Timezone      string // TIMEZONE — IANA-имя, часовой пояс барбершопа
	CatalogPath   string // CATALOG_PATH — JSON с барберами и услугами
	CatalogFresh  bool   // CATALOG_REFRESH — обновлять длительности услуг из API при старте
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		BookingAPIURL: os.Getenv("BOOKING_API_URL"),
		CSRFToken:     os.Getenv("BOOKING_CSRF_TOKEN"),
		Environment:   os.Getenv("ENV"),
		Timezone:      os.Getenv("TIMEZONE"),
		CatalogPath:   os.Getenv("CATALOG_PATH"),
		CatalogFresh:  os.Getenv("CATALOG_REFRESH") == "true",
	}

	// Дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "America/Bogota"
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = "catalog.json"
	}

	// Обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.BookingAPIURL == "" {
		return nil, fmt.Errorf("BOOKING_API_URL is required but not set")
	}

	return cfg, nil
}

// Location разбирает часовой пояс из конфига. Фильтрация прошедших слотов
// сравнивает полные дату и время именно в этом поясе.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
