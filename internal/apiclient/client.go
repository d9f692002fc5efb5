package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

// Параметры по умолчанию. Данные о слотах читаются часто и с мобильных
// сетей, поэтому короткие сетевые сбои ретраятся с фиксированной паузой.
const (
	DefaultAttemptTimeout = 10 * time.Second
	DefaultRetryDelay     = 1 * time.Second
	DefaultMaxRetries     = 3
)

// Client — HTTP-клиент букинг-бэкенда барбершопа. Каждая попытка запроса
// ограничена таймаутом через context (по истечении запрос обрывается);
// ретраятся только транспортные ошибки и таймауты, до maxRetries
// дополнительных попыток. Ответы с любым HTTP-статусом возвращаются
// вызывающему без ретраев.
type Client struct {
	baseURL        string
	csrfToken      string
	httpClient     *http.Client
	logger         *zap.Logger
	attemptTimeout time.Duration
	retryDelay     time.Duration
	maxRetries     uint64
}

// Option настраивает клиент
type Option func(*Client)

// WithAttemptTimeout задаёт таймаут одной попытки
func WithAttemptTimeout(d time.Duration) Option {
	return func(c *Client) { c.attemptTimeout = d }
}

// WithRetryDelay задаёт паузу между попытками
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) { c.retryDelay = d }
}

// WithMaxRetries задаёт число дополнительных попыток
func WithMaxRetries(n uint64) Option {
	return func(c *Client) { c.maxRetries = n }
}

// WithHTTPClient подменяет транспорт (для тестов)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient создаёт клиент букинг-API
func NewClient(baseURL, csrfToken string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:        baseURL,
		csrfToken:      csrfToken,
		httpClient:     &http.Client{},
		logger:         logger,
		attemptTimeout: DefaultAttemptTimeout,
		retryDelay:     DefaultRetryDelay,
		maxRetries:     DefaultMaxRetries,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// response — снимок HTTP-ответа: статус и уже прочитанное тело.
// Тело читается внутри попытки, до отмены её контекста.
type response struct {
	status int
	body   []byte
}

// fetch выполняет запрос с ретраями. stateChanging добавляет CSRF-заголовок.
func (c *Client) fetch(ctx context.Context, method, url string, payload []byte, stateChanging bool) (*response, error) {
	requestID := uuid.NewString()

	backoff := retry.WithMaxRetries(c.maxRetries, retry.NewConstant(c.retryDelay))

	var result *response
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()

		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(attemptCtx, method, url, body)
		if err != nil {
			return err // не ретраится: запрос собран неверно
		}

		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if stateChanging {
			req.Header.Set("X-CSRFToken", c.csrfToken)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("Booking API request failed, will retry",
				zap.String("request_id", requestID),
				zap.String("url", url),
				zap.Error(err))
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			c.logger.Warn("Failed to read booking API response, will retry",
				zap.String("request_id", requestID),
				zap.Error(err))
			return retry.RetryableError(err)
		}

		result = &response{status: resp.StatusCode, body: data}
		return nil
	})
	if err != nil {
		c.logger.Error("Booking API unreachable after retries",
			zap.String("request_id", requestID),
			zap.String("url", url),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	return result, nil
}
