package health

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// Pinger is anything that can report whether a dependency answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type ComponentStatus struct {
	Status       string  `json:"status"`
	ResponseTime *string `json:"response_time,omitempty"`
	Error        *string `json:"error,omitempty"`
}

type VersionInfo struct {
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
}

type SystemInfo struct {
	Uptime       string `json:"uptime"`
	NumGoroutine int    `json:"num_goroutine"`
	MemoryAlloc  string `json:"memory_alloc"`
}

type HealthResponse struct {
	Status     string                     `json:"status"`
	Timestamp  string                     `json:"timestamp"`
	Version    VersionInfo                `json:"version"`
	Components map[string]ComponentStatus `json:"components"`
	System     *SystemInfo                `json:"system,omitempty"`
}

// HealthChecker pings registered components on every request. The response
// is 200 only when all of them answer within the timeout.
type HealthChecker struct {
	components map[string]Pinger
	timeout    time.Duration
	started    time.Time
}

func NewHealthChecker(timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthChecker{
		components: make(map[string]Pinger),
		timeout:    timeout,
		started:    time.Now(),
	}
}

// Register adds a component. A nil pinger is reported as unhealthy.
func (h *HealthChecker) Register(name string, p Pinger) *HealthChecker {
	h.components[name] = p
	return h
}

// Check pings every component and returns the aggregated report.
func (h *HealthChecker) Check(ctx context.Context) HealthResponse {
	resp := HealthResponse{
		Status:     "healthy",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Version:    VersionInfo{Version: Version, GoVersion: runtime.Version()},
		Components: make(map[string]ComponentStatus, len(h.components)),
		System:     systemInfo(h.started),
	}
	if len(h.components) == 0 {
		resp.Status = "degraded"
		return resp
	}

	names := make([]string, 0, len(h.components))
	for name := range h.components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		status := h.ping(ctx, h.components[name])
		if status.Status != "healthy" {
			resp.Status = "degraded"
		}
		resp.Components[name] = status
	}
	return resp
}

func (h *HealthChecker) ping(ctx context.Context, p Pinger) ComponentStatus {
	if p == nil {
		msg := "not configured"
		return ComponentStatus{Status: "unhealthy", Error: &msg}
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := p.Ping(ctx)
	elapsed := time.Since(start).String()
	if err != nil {
		msg := err.Error()
		return ComponentStatus{Status: "unhealthy", ResponseTime: &elapsed, Error: &msg}
	}
	return ComponentStatus{Status: "healthy", ResponseTime: &elapsed}
}

func systemInfo(started time.Time) *SystemInfo {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return &SystemInfo{
		Uptime:       time.Since(started).Round(time.Second).String(),
		NumGoroutine: runtime.NumGoroutine(),
		MemoryAlloc:  fmt.Sprintf("%.1f MiB", float64(mem.Alloc)/(1<<20)),
	}
}

// Handler serves GET /health.
func (h *HealthChecker) Handler(c *gin.Context) {
	resp := h.Check(c.Request.Context())
	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, resp)
}
