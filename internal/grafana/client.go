package grafana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds every request made by the Client.
const DefaultTimeout = 5 * time.Second

const userAgent = "grafana2moira"

// FetchError reports a failed request. StatusCode is 0 when no response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("no response from %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("unexpected response from %s: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 if there is none.
func StatusCode(err error) int {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode
	}
	return 0
}

// Client talks to the Grafana HTTP API, e.g. https://grafana.example.com/api.
type Client struct {
	apiURL     string
	token      string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient creates a Grafana API client. A nil httpClient gets one with DefaultTimeout.
func NewClient(apiURL, token string, httpClient *http.Client, log logrus.FieldLogger) *Client {
	if apiURL == "" || token == "" {
		log.Error("Couldn't initialize Grafana client (missing URL or Auth Token)")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		token:      token,
		httpClient: httpClient,
		log:        log,
	}
}

// APIURL returns the base api url the client was configured with.
func (c *Client) APIURL() string {
	return c.apiURL
}

// GetDashboard fetches the dashboard definition by uid.
func (c *Client) GetDashboard(ctx context.Context, uid string) (*DashboardResponse, error) {
	var dashboard DashboardResponse
	if err := c.getJSON(ctx, "/dashboards/uid/"+uid, &dashboard); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

// GetHealth fetches the server health, which includes the running Grafana version.
func (c *Client) GetHealth(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.getJSON(ctx, "/health", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	reqURL := c.apiURL + path
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", reqURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)

	c.log.WithField("url", reqURL).Debug("Requesting Grafana API")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Errorf("ConnectionError: %v", err)
		return &FetchError{URL: reqURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{URL: reqURL, StatusCode: resp.StatusCode, Err: fmt.Errorf("reading body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return &FetchError{URL: reqURL, StatusCode: resp.StatusCode}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", reqURL, err)
	}
	return nil
}
