package grafana

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGetDashboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/dashboards/uid/abc", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(dashboardJSON))
	}))
	defer server.Close()

	logger, _ := logtest.NewNullLogger()
	client := NewClient(server.URL+"/api/", "secret", server.Client(), logger)

	resp, err := client.GetDashboard(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Backend", resp.Dashboard.Title)
	assert.Equal(t, "/grafana/d/abc/backend", resp.Meta.URL)
}

func TestClientGetDashboardStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Dashboard not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	logger, _ := logtest.NewNullLogger()
	client := NewClient(server.URL, "secret", nil, logger)

	_, err := client.GetDashboard(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestClientGetDashboardNoResponse(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	serverURL := server.URL
	server.Close()

	logger, hook := logtest.NewNullLogger()
	client := NewClient(serverURL, "secret", nil, logger)

	_, err := client.GetDashboard(context.Background(), "abc")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 0, StatusCode(err))
	assert.NotNil(t, fetchErr.Unwrap())
	assert.NotNil(t, hook.LastEntry())
}

func TestNewClientDefaultTimeout(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	client := NewClient("https://grafana.example.com/api", "secret", nil, logger)

	assert.Equal(t, 5*time.Second, DefaultTimeout)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
}

func TestClientGetDashboardDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	logger, _ := logtest.NewNullLogger()
	client := NewClient(server.URL, "secret", server.Client(), logger)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetDashboard(ctx, "abc")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 0, fetchErr.StatusCode)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClientGetHealth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"commit":"abc","database":"ok","version":"9.5.2"}`))
	}))
	defer server.Close()

	logger, _ := logtest.NewNullLogger()
	health, err := NewClient(server.URL+"/api", "secret", nil, logger).GetHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "9.5.2", health.Version)
}

func TestStatusCodeOfOtherErrors(t *testing.T) {
	assert.Equal(t, 0, StatusCode(errors.New("boom")))
	assert.Equal(t, 0, StatusCode(nil))
}
