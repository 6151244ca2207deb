package terminal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/config"
)

// Punch event states as reported by the device.
const (
	StateCheckIn  = 0
	StateCheckOut = 1
)

// PunchEvent is a single check-in or check-out reported by a biometric
// attendance device.
type PunchEvent struct {
	ExternalEmployeeID string    `json:"employee_id"`
	Timestamp          time.Time `json:"timestamp"`
	State              int       `json:"state"` // 0 = check-in, 1 = check-out
	VerificationType   int       `json:"verification_type"`
	Sequence           int64     `json:"sequence"`
}

// Client talks to the terminal gateway's punch-log endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg config.TerminalConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// APIError represents a terminal gateway error
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("terminal API error [%d]: %s", e.StatusCode, e.Message)
}

// FetchPunchLogs returns every punch event the device recorded inside the
// inclusive date window.
func (c *Client) FetchPunchLogs(ctx context.Context, start, end time.Time) ([]PunchEvent, error) {
	endpoint := fmt.Sprintf("%s/api/punch-logs?%s", c.baseURL, url.Values{
		"start_date": {start.Format("2006-01-02")},
		"end_date":   {end.Format("2006-01-02")},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build punch log request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch punch logs: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return nil, &APIError{StatusCode: resp.StatusCode, Message: body.Message}
	}

	var payload struct {
		Events []PunchEvent `json:"events"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode punch logs: %w", err)
	}

	return payload.Events, nil
}
