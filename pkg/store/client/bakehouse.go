package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bakeops/ovenboard/pkg/models/api"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Bakehouse is the remote API owning the forecasting, scheduling and
// simulation engines. Ovenboard only consumes it.
type Bakehouse interface {
	GetInventory(ctx context.Context, lookbackDays, leadTimeDays int) ([]api.RawInventoryRecord, error)
	UpdatePosition(ctx context.Context, productKey string, edit api.PositionEdit) (*api.RawInventoryRecord, error)
	GenerateForecast(ctx context.Context, req api.ForecastRequest) (*api.ForecastResponse, error)
	Health(ctx context.Context) (*api.HealthStatus, error)
}

// Config carries the explicitly injected backend address. There is no
// process-wide default; whoever builds the client decides where it points.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	MaxRetries uint64
}

type bakehouse struct {
	cfg  Config
	http *http.Client
}

func NewBakehouse(cfg Config) (Bakehouse, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("bakehouse base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid bakehouse base URL %q: %w", cfg.BaseURL, err)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	return &bakehouse{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (b *bakehouse) GetInventory(ctx context.Context, lookbackDays, leadTimeDays int) ([]api.RawInventoryRecord, error) {
	q := url.Values{}
	q.Set("lookbackDays", strconv.Itoa(lookbackDays))
	q.Set("leadTimeDays", strconv.Itoa(leadTimeDays))

	var records []api.RawInventoryRecord
	err := b.getWithRetry(ctx, "/inventory?"+q.Encode(), &records)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (b *bakehouse) UpdatePosition(ctx context.Context, productKey string, edit api.PositionEdit) (*api.RawInventoryRecord, error) {
	var updated api.RawInventoryRecord
	path := "/inventory/" + url.PathEscape(productKey)
	if err := b.do(ctx, http.MethodPut, path, edit, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (b *bakehouse) GenerateForecast(ctx context.Context, req api.ForecastRequest) (*api.ForecastResponse, error) {
	var resp api.ForecastResponse
	if err := b.do(ctx, http.MethodPost, "/forecast", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (b *bakehouse) Health(ctx context.Context) (*api.HealthStatus, error) {
	var status api.HealthStatus
	if err := b.getWithRetry(ctx, "/health", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// getWithRetry wraps idempotent GETs in exponential backoff. Application
// errors are permanent: the server answered, retrying will not change its
// mind. Only transport failures are retried.
func (b *bakehouse) getWithRetry(ctx context.Context, path string, out any) error {
	operation := func() error {
		err := b.do(ctx, http.MethodGet, path, nil, out)
		var appErr *ApplicationError
		if errors.As(err, &appErr) {
			return backoff.Permanent(err)
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), b.cfg.MaxRetries),
		ctx,
	)
	return backoff.Retry(operation, policy)
}

func (b *bakehouse) do(ctx context.Context, method, path string, body, out any) error {
	logger := zerolog.Ctx(ctx)
	fullURL := b.cfg.BaseURL + path

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.cfg.APIKey)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	logger.Debug().
		Str("method", method).
		Str("url", fullURL).
		Str("request_id", requestID).
		Msg("calling bakehouse API")

	resp, err := b.http.Do(req)
	if err != nil {
		return &TransportError{URL: fullURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeApplicationError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode bakehouse response from %s: %w", path, err)
	}
	return nil
}

func decodeApplicationError(resp *http.Response) error {
	appErr := &ApplicationError{StatusCode: resp.StatusCode}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err == nil {
		var envelope api.ErrorEnvelope
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error.Message != "" {
			appErr.Message = envelope.Error.Message
			appErr.Details = envelope.Error.Details
			return appErr
		}
	}

	appErr.Message = http.StatusText(resp.StatusCode)
	return appErr
}
