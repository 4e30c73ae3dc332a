package utility

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

var (
	ipAttempts   = make(map[string][]time.Time)
	ipAttemptsMu sync.Mutex
)

// GetRealIP is a helper function to get the caller's real IP address.
// It checks proxy headers first.
func GetRealIP(c echo.Context) string {
	// X-Forwarded-For can be a list: "client, proxy1, proxy2"
	xForwardedFor := c.Request().Header.Get("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		return strings.TrimSpace(ips[0])
	}

	xRealIP := c.Request().Header.Get("X-Real-IP")
	if xRealIP != "" {
		return xRealIP
	}

	return c.RealIP()
}

// CheckIPRateLimit enforces a sliding window of at most 10 generation
// requests per 15 minutes per IP. Generation endpoints only; page loads
// and health checks are never limited. The read-prune-append sequence runs
// under one lock so concurrent requests from the same IP are all counted.
func CheckIPRateLimit(ip string) error {
	now := time.Now()
	window := 15 * time.Minute
	maxAttempts := 10

	ipAttemptsMu.Lock()
	defer ipAttemptsMu.Unlock()

	// Remove old attempts
	var recent []time.Time
	for _, t := range ipAttempts[ip] {
		if now.Sub(t) < window {
			recent = append(recent, t)
		}
	}

	if len(recent) >= maxAttempts {
		ipAttempts[ip] = recent
		return fmt.Errorf("too many generation requests, please try again later")
	}

	ipAttempts[ip] = append(recent, now)
	return nil
}

// OutputsDir resolves where experiment artifacts are written.
func OutputsDir() string {
	dir := os.Getenv("FITLAB_OUTPUTS_DIR")
	if dir == "" {
		dir = "outputs"
	}
	return dir
}

// WriteArtifact marshals v as indented JSON and writes it under the outputs
// directory, creating the directory on first use. Artifacts are side effects
// only; nothing reads them back.
func WriteArtifact(name string, v interface{}) (string, error) {
	dir := OutputsDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating outputs directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshalling artifact: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing artifact: %w", err)
	}
	return path, nil
}
