package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fundlist/internal/config"
)

type Client struct {
	cfg            config.Config
	httpClient     *http.Client
	catalogLimiter *RateLimiter
	navLimiter     *RateLimiter
}

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		cfg:            cfg,
		httpClient:     &http.Client{Timeout: time.Duration(cfg.FundTimeoutMs) * time.Millisecond},
		catalogLimiter: NewRateLimiter(cfg.FundRateLimitRPS),
		navLimiter:     NewIntervalLimiter(time.Duration(cfg.NavSleepMs) * time.Millisecond),
	}
}

// statusError is returned for non-2xx responses so callers can tell a
// retired endpoint (404/410) apart from an actual failure.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("fund api error: status=%d body=%s", e.status, e.body)
}

func isEndpointGone(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return false
	}
	return se.status == http.StatusNotFound || se.status == http.StatusGone
}

func (c *Client) fetchJSON(ctx context.Context, limiter *RateLimiter, endpoint string, params map[string]string) ([]byte, error) {
	baseURL := strings.TrimRight(c.cfg.FundAPIBaseURL, "/") + "/"
	u, err := url.Parse(baseURL + endpoint)
	if err != nil {
		return nil, err
	}

	q := u.Query()
	for k, v := range params {
		if strings.TrimSpace(v) != "" {
			q.Set(k, v)
		}
	}
	u.RawQuery = q.Encode()

	limiter.WaitTurn()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	body, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{status: resp.StatusCode, body: string(body)}
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, err
	}
	if !apiResp.Success {
		return nil, fmt.Errorf("fund api unsuccessful: %s", string(apiResp.Errors))
	}
	return apiResp.Data, nil
}

func toCellString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
