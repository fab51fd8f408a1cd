// Package recreation implements a thin client for the recreation.gov
// permit endpoints: monthly division availability and permit metadata.
// Responses are returned as parsed JSON payloads; interpretation of the
// data belongs to the availability package.
package recreation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL = "https://www.recreation.gov/api"
	// The service rejects requests carrying Go's default agent string.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	monthParamFormat = "2006-01-02T15:04:05.000Z"
)

// Client fetches permit availability and metadata from recreation.gov.
type Client struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// New creates a Client with the given options applied.
func New(opts ...Option) *Client {
	c := &Client{
		client:    &http.Client{},
		baseURL:   defaultBaseURL,
		userAgent: userAgent,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithClient sets the HTTP client.
func WithClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithUserAgent overrides the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// DateCount is the per-date slot count for one division.
type DateCount struct {
	Remaining int `json:"remaining"`
	Total     int `json:"total"`
}

// DivisionMonth is one division's availability within a monthly response,
// keyed by ISO date string.
type DivisionMonth struct {
	DateAvailability map[string]DateCount `json:"date_availability"`
}

// MonthlyAvailability is the response of the monthly availability endpoint.
type MonthlyAvailability struct {
	Payload struct {
		Availability map[string]DivisionMonth `json:"availability"`
	} `json:"payload"`
}

// DivisionInfo is the metadata for one division of a permit.
type DivisionInfo struct {
	Name string `json:"name"`
}

// PermitContent is the response of the permit metadata endpoint.
type PermitContent struct {
	Payload struct {
		Name      string                  `json:"name"`
		Divisions map[string]DivisionInfo `json:"divisions"`
	} `json:"payload"`
}

// GetPermitAvailability fetches one month of availability for a permit.
// Only the year and month of the given time are significant.
func (c *Client) GetPermitAvailability(ctx context.Context, permitID int, month time.Time) (*MonthlyAvailability, error) {
	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	reqURL := fmt.Sprintf("%s/permits/%d/availability/month?start_date=%s",
		c.baseURL, permitID, url.QueryEscape(first.Format(monthParamFormat)))

	var resp MonthlyAvailability
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("permit %d availability for %s: %w", permitID, first.Format("2006-01"), err)
	}

	slog.Debug("retrieved permit availability", "permit", permitID,
		"month", first.Format("2006-01"), "divisions", len(resp.Payload.Availability))

	return &resp, nil
}

// GetPermitInfo fetches display metadata (permit name, division names)
// for a permit.
func (c *Client) GetPermitInfo(ctx context.Context, permitID int) (*PermitContent, error) {
	reqURL := fmt.Sprintf("%s/permitcontent/%d", c.baseURL, permitID)

	var resp PermitContent
	if err := c.getJSON(ctx, reqURL, &resp); err != nil {
		return nil, fmt.Errorf("permit %d info: %w", permitID, err)
	}

	return &resp, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req) //nolint:gosec // URL built from internal config
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("recreation.gov returned HTTP %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
