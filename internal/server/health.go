package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

var startTime = time.Now()

// serverHealthHandler reports process uptime and host-level resource usage
// alongside the session store's health.
func (s *Server) serverHealthHandler(c echo.Context) error {
	v, _ := mem.VirtualMemory()
	cpuPercent, _ := cpu.Percent(0, false)
	d, _ := disk.Usage("/")
	info, _ := host.Info()

	cpuLoad := "n/a"
	if len(cpuPercent) > 0 {
		cpuLoad = fmt.Sprintf("%.1f%%", cpuPercent[0])
	}
	ramUsage := "n/a"
	if v != nil {
		ramUsage = fmt.Sprintf("%.1f%%", v.UsedPercent)
	}

	payload := map[string]interface{}{
		"uptime": time.Since(startTime).Round(time.Second).String(),
		"server_health": map[string]interface{}{
			"cpu_load":  cpuLoad,
			"ram_usage": ramUsage,
		},
		"store": s.store.Health(),
	}
	if d != nil {
		payload["disk_usage"] = fmt.Sprintf("%.1f%%", d.UsedPercent)
	}
	if info != nil {
		payload["host"] = map[string]interface{}{
			"hostname": info.Hostname,
			"os":       info.OS,
			"platform": info.Platform,
		}
	}

	return c.JSON(http.StatusOK, payload)
}
