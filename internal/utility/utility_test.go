package utility

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext(headers map[string]string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestGetRealIPPrefersForwardedFor(t *testing.T) {
	c := newContext(map[string]string{
		"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1",
		"X-Real-IP":       "198.51.100.2",
	})
	assert.Equal(t, "203.0.113.7", GetRealIP(c))
}

func TestGetRealIPFallsBackToRealIPHeader(t *testing.T) {
	c := newContext(map[string]string{"X-Real-IP": "198.51.100.2"})
	assert.Equal(t, "198.51.100.2", GetRealIP(c))
}

func TestCheckIPRateLimit(t *testing.T) {
	ip := "192.0.2.55" // unique to this test; the limiter map is package-global
	for i := 0; i < 10; i++ {
		require.NoError(t, CheckIPRateLimit(ip))
	}
	assert.Error(t, CheckIPRateLimit(ip))
}

func TestCheckIPRateLimitCountsConcurrentRequests(t *testing.T) {
	ip := "192.0.2.56"

	var wg sync.WaitGroup
	var allowed int64
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if CheckIPRateLimit(ip) == nil {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 10, allowed, "every concurrent attempt is counted against the window")
}

func TestWriteArtifact(t *testing.T) {
	t.Setenv("FITLAB_OUTPUTS_DIR", t.TempDir())

	path, err := WriteArtifact("latest_persona.json", map[string]string{"persona_name": "The Wildfire"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(OutputsDir(), "latest_persona.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "The Wildfire", decoded["persona_name"])
}
