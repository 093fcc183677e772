package liveapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(srv *httptest.Server) *Client {
	u, _ := url.Parse(srv.URL)
	c := NewClient(u.Host, "test-key")
	c.scheme = "http"
	return c
}

func TestFlightStatusPassthrough(t *testing.T) {
	const payload = `{"flnr":"AA100","status":"LANDED"}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/flight/info", r.URL.Path)
		assert.Equal(t, "AA100", r.URL.Query().Get("flnr"))
		assert.Equal(t, "test-key", r.Header.Get("x-rapidapi-key"))
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	raw, err := testClient(srv).FlightStatusByNumber(context.Background(), "AA100")
	require.NoError(t, err)
	// 响应原样透传，不重编码
	assert.Equal(t, payload, string(raw))
}

func TestAirportDeparturesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/airport/departures", r.URL.Path)
		assert.Equal(t, "JFK", r.URL.Query().Get("ident"))
		assert.Equal(t, "4", r.URL.Query().Get("time"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := testClient(srv).AirportDepartures(context.Background(), "JFK", 4)
	require.NoError(t, err)
}

func TestUpstreamErrorCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"message":"配额已用尽"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv).FlightStatusByNumber(context.Background(), "AA100")
	require.Error(t, err)

	var apiErr *LiveAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
	assert.Contains(t, apiErr.Body, "配额已用尽")
}

// 超长错误响应体必须截断，避免上游错误页刷爆日志
func TestUpstreamErrorBodyTruncated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(strings.Repeat("x", 2000)))
	}))
	defer srv.Close()

	_, err := testClient(srv).FlightStatusByNumber(context.Background(), "AA100")

	var apiErr *LiveAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.LessOrEqual(t, len(apiErr.Body), maxErrorBody+len("..."))
	assert.True(t, strings.HasSuffix(apiErr.Body, "..."))
}

func TestNewFromEnvMissingKey(t *testing.T) {
	t.Setenv("RAPIDAPI_KEY", "")

	_, err := NewFromEnv()
	var apiErr *LiveAPIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 0, apiErr.Status)
}

func TestNewFromEnvDefaults(t *testing.T) {
	t.Setenv("RAPIDAPI_KEY", "abc")
	t.Setenv("RAPIDAPI_HOST", "")

	c, err := NewFromEnv()
	require.NoError(t, err)
	assert.Equal(t, defaultHost, c.host)
	assert.Equal(t, "abc", c.key)
}
