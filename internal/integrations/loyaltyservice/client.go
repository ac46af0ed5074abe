package loyaltyservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с LoyaltyService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента LoyaltyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetProfile получает профиль лояльности пользователя
func (c *Client) GetProfile(ctx context.Context, userID int64) (*LoyaltyProfile, error) {
	url := fmt.Sprintf("%s/internal/users/%d/loyalty", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrProfileNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var profile LoyaltyProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &profile, nil
}

// GetProfileWithGracefulDegradation получает профиль лояльности с graceful
// degradation: при недоступности LoyaltyService возвращает
// ErrServiceDegraded, и бронирование продолжается без скидки лояльности.
func (c *Client) GetProfileWithGracefulDegradation(ctx context.Context, userID int64) (*LoyaltyProfile, error) {
	profile, err := c.GetProfile(ctx, userID)
	if err != nil {
		// Отсутствие профиля — нормальная бизнес-ситуация, пробрасываем
		if errors.Is(err, ErrProfileNotFound) {
			c.log.Info("No loyalty profile found for user_id=%d", userID)
			return nil, err
		}

		// Для всех остальных ошибок (недоступность сервиса, timeout,
		// ошибки парсинга и т.д.) применяем graceful degradation
		c.log.Error("LoyaltyService unavailable, applying graceful degradation for user_id=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: user_id=%d, error=%v", ErrServiceDegraded, userID, err)
	}

	c.log.Info("Successfully fetched loyalty profile for user_id=%d, tier=%s", userID, profile.Tier)
	return profile, nil
}
