package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/corridormap/internal/domain"
	"github.com/vadiminshakov/corridormap/pkg/retrier"
	"go.uber.org/zap"
)

const (
	defaultAnalyticsTimeout = 15 * time.Second
	maxErrorBodyBytes       = 512
)

// ErrUnexpectedStatus is returned when the analytics API answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("unexpected status from analytics API")

// ErrCorridorNotFound is returned by GetCorridor when the API does not know the key.
var ErrCorridorNotFound = errors.New("corridor not found")

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrUnexpectedStatus, e.code, e.body)
}

func (e *statusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// corridorsEnvelope is the wrapped form of the list endpoint response.
type corridorsEnvelope struct {
	Corridors []domain.CorridorRecord `json:"corridors"`
}

// AnalyticsClient reads corridor analytics from the insights HTTP API.
type AnalyticsClient struct {
	baseURL    string
	httpClient *http.Client
	retrier    *retrier.Retrier
	logger     *zap.Logger
}

// NewAnalyticsClient creates a client for the API rooted at baseURL.
func NewAnalyticsClient(baseURL string, timeout time.Duration, logger *zap.Logger) *AnalyticsClient {
	if timeout <= 0 {
		timeout = defaultAnalyticsTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		retrier: retrier.New(
			retrier.WithMaxRetries(3),
			retrier.WithInitialInterval(500*time.Millisecond),
			retrier.WithMaxInterval(5*time.Second),
			retrier.WithRetryIf(isRetryable),
		),
		logger: logger,
	}
}

// ListCorridors fetches all corridors aggregated over period.
func (c *AnalyticsClient) ListCorridors(ctx context.Context, period domain.Period) ([]domain.CorridorRecord, error) {
	query := url.Values{}
	query.Set("period", period.String())
	endpoint := c.baseURL + "/api/corridors?" + query.Encode()

	body, err := retrier.DoWithData(c.retrier, ctx, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "list corridors for %s", period)
	}

	corridors, err := decodeCorridors(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("fetched corridors", zap.String("period", period.String()), zap.Int("count", len(corridors)))
	return corridors, nil
}

// GetCorridor fetches a single corridor by key.
func (c *AnalyticsClient) GetCorridor(ctx context.Context, corridorKey string) (domain.CorridorRecord, error) {
	endpoint := c.baseURL + "/api/corridors/" + url.PathEscape(corridorKey)

	body, err := retrier.DoWithData(c.retrier, ctx, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, endpoint)
	})
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return domain.CorridorRecord{}, errors.Wrapf(ErrCorridorNotFound, "%s", corridorKey)
		}
		return domain.CorridorRecord{}, errors.Wrapf(err, "get corridor %s", corridorKey)
	}

	var corridor domain.CorridorRecord
	if err := json.Unmarshal(body, &corridor); err != nil {
		return domain.CorridorRecord{}, errors.Wrap(err, "decode corridor")
	}
	return corridor, nil
}

func (c *AnalyticsClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("analytics request failed", zap.String("url", endpoint), zap.Error(err))
		return nil, errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if len(body) > maxErrorBodyBytes {
			body = body[:maxErrorBodyBytes]
		}
		return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	return body, nil
}

// decodeCorridors accepts either a bare array or {"corridors": [...]}.
func decodeCorridors(body []byte) ([]domain.CorridorRecord, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var corridors []domain.CorridorRecord
		if err := json.Unmarshal(body, &corridors); err != nil {
			return nil, errors.Wrap(err, "decode corridors")
		}
		return corridors, nil
	}

	var envelope corridorsEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrap(err, "decode corridors")
	}
	return envelope.Corridors, nil
}

// isRetryable keeps client errors (4xx) from being retried.
func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code >= 500 || se.code == http.StatusTooManyRequests
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
