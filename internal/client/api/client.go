// Package api is the HTTP client for the sync server. It speaks the JSON
// wire contract of the server's /api endpoints and maps transport and
// server failures onto the shared sentinel errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/amyzhang-commits/spanish-cards/internal/common"
	"github.com/amyzhang-commits/spanish-cards/internal/models"
)

// Stats is the server-wide card summary returned by /api/stats.
type Stats struct {
	TotalCards   int64 `json:"total_cards"`
	TotalDevices int64 `json:"total_devices"`
}

type uploadRequest struct {
	DeviceID string         `json:"device_id"`
	Cards    []*models.Card `json:"cards"`
}

type uploadResponse struct {
	Success   bool  `json:"success"`
	Uploaded  int   `json:"uploaded"`
	Timestamp int64 `json:"timestamp"`
}

type downloadResponse struct {
	Success   bool           `json:"success"`
	Cards     []*models.Card `json:"cards"`
	Count     int            `json:"count"`
	Timestamp int64          `json:"timestamp"`
}

type statsResponse struct {
	TotalCards   int64 `json:"total_cards"`
	TotalDevices int64 `json:"total_devices"`
	Timestamp    int64 `json:"timestamp"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client talks to one sync server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the server at baseURL. Every request is
// bounded by timeout in addition to any context deadline.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Push uploads locally created cards and returns the accepted count.
func (c *Client) Push(ctx context.Context, deviceID string, cards []*models.Card) (int, error) {
	if cards == nil {
		cards = []*models.Card{}
	}
	body, err := json.Marshal(uploadRequest{DeviceID: deviceID, Cards: cards})
	if err != nil {
		return 0, err
	}

	var resp uploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/cards", bytes.NewReader(body), &resp); err != nil {
		return 0, err
	}
	return resp.Uploaded, nil
}

// Pull downloads cards from other devices updated after since.
func (c *Client) Pull(ctx context.Context, deviceID string, since int64) ([]*models.Card, error) {
	path := "/api/cards/" + url.PathEscape(deviceID)
	if since > 0 {
		path += "?since=" + strconv.FormatInt(since, 10)
	}

	var resp downloadResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

// Stats fetches the server-wide card summary.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var resp statsResponse
	if err := c.do(ctx, http.MethodGet, "/api/stats", nil, &resp); err != nil {
		return nil, err
	}
	return &Stats{TotalCards: resp.TotalCards, TotalDevices: resp.TotalDevices}, nil
}

// Health reports whether the server is reachable and answering.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrServerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.mapError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: malformed response: %v", common.ErrServerUnavailable, err)
	}
	return nil
}

func (c *Client) mapError(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = resp.Status
	}

	if resp.StatusCode == http.StatusBadRequest {
		return fmt.Errorf("%w: %s", common.ErrValidation, msg)
	}
	return fmt.Errorf("%w: %s", common.ErrServerUnavailable, msg)
}
