package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/LavaJover/shvark-bonus-service/internal/domain"
)

// HTTPBackendClient ходит во внешний бэкенд за заработками и сменами.
// Движок бонусов эти данные только читает.
type HTTPBackendClient struct {
	Address string
	client  *http.Client
}

func NewHTTPBackendClient(address string) (*HTTPBackendClient, error) {
	return &HTTPBackendClient{
		Address: address,
		client:  &http.Client{Timeout: 3 * time.Second},
	}, nil
}

type earningsEventResponse struct {
	WorkerID    string    `json:"worker_id"`
	Metric      string    `json:"metric"`
	AmountCents int64     `json:"amount_cents"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
}

type shiftResponse struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPBackendClient) GetEarningsInWindow(ctx context.Context, companyID, workerID, metric string, start, end time.Time) ([]domain.EarningsEvent, error) {
	query := url.Values{}
	query.Set("companyId", companyID)
	query.Set("workerId", workerID)
	query.Set("metric", metric)
	query.Set("from", start.Format(time.RFC3339))
	query.Set("to", end.Format(time.RFC3339))

	var events []earningsEventResponse
	if err := c.getJSON(ctx, fmt.Sprintf("%s/earnings?%s", c.Address, query.Encode()), &events); err != nil {
		return nil, err
	}

	result := make([]domain.EarningsEvent, 0, len(events))
	for _, e := range events {
		result = append(result, domain.EarningsEvent{
			WorkerID:    e.WorkerID,
			Metric:      e.Metric,
			AmountCents: e.AmountCents,
			OccurredAt:  e.OccurredAt,
			Type:        e.Type,
		})
	}
	return result, nil
}

func (c *HTTPBackendClient) ListActiveWorkers(ctx context.Context, companyID string, start, end time.Time) ([]string, error) {
	query := url.Values{}
	query.Set("companyId", companyID)
	query.Set("from", start.Format(time.RFC3339))
	query.Set("to", end.Format(time.RFC3339))

	var workerIDs []string
	if err := c.getJSON(ctx, fmt.Sprintf("%s/workers/active?%s", c.Address, query.Encode()), &workerIDs); err != nil {
		return nil, err
	}
	return workerIDs, nil
}

func (c *HTTPBackendClient) GetShiftCoveringDate(ctx context.Context, companyID, workerID string, date time.Time) (*domain.Shift, error) {
	query := url.Values{}
	query.Set("companyId", companyID)
	query.Set("workerId", workerID)
	query.Set("date", date.Format("2006-01-02"))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/shifts/covering?%s", c.Address, query.Encode()), nil)
	if err != nil {
		return nil, err
	}

	response, err := c.client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	// Смена не найдена - не ошибка, движок падает на календарный день
	if response.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, decodeError(responseBodyBytes, response.StatusCode)
	}

	var shift shiftResponse
	if err := json.Unmarshal(responseBodyBytes, &shift); err != nil {
		return nil, err
	}
	return &domain.Shift{Start: shift.Start, End: shift.End}, nil
}

func (c *HTTPBackendClient) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	response, err := c.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return decodeError(responseBodyBytes, response.StatusCode)
	}
	return json.Unmarshal(responseBodyBytes, out)
}

func decodeError(body []byte, statusCode int) error {
	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("backend returned status %d", statusCode)
	}
	return errors.New(errResp.Error)
}
