package services

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

const ServiceName = "Brand Intelligence API"

const (
	StatusOK        = "ok"
	StatusUnhealthy = "unhealthy"
)

type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemSample is a point-in-time view of host and process memory.
type SystemSample struct {
	ProcessRSSBytes   int64 `json:"processRssBytes"`
	SystemMemoryTotal int64 `json:"systemMemoryTotalBytes"`
	SystemMemoryUsed  int64 `json:"systemMemoryUsedBytes"`
}

type HealthReport struct {
	Status    string                 `json:"status"`
	Service   string                 `json:"service"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
	System    *SystemSample          `json:"system,omitempty"`
}

func (r HealthReport) Healthy() bool {
	return r.Status == StatusOK
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// CheckHealth pings the store and samples memory usage. The report is
// unhealthy only when the store is unreachable.
func CheckHealth(ctx context.Context, store Pinger) HealthReport {
	report := HealthReport{
		Status:    StatusOK,
		Service:   ServiceName,
		Timestamp: time.Now().UTC(),
		Checks:    map[string]CheckResult{},
	}

	start := time.Now()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.PingContext(pingCtx); err != nil {
		report.Status = StatusUnhealthy
		report.Checks["database"] = CheckResult{Status: StatusUnhealthy, Message: err.Error(), Latency: time.Since(start).String()}
	} else {
		report.Checks["database"] = CheckResult{Status: StatusOK, Latency: time.Since(start).String()}
	}

	if sample, ok := sampleSystem(); ok {
		report.System = &sample
	}
	return report
}

func sampleSystem() (SystemSample, bool) {
	memStat, err := mem.VirtualMemory()
	if err != nil || memStat == nil {
		return SystemSample{}, false
	}
	sample := SystemSample{
		SystemMemoryTotal: int64(memStat.Total),
		SystemMemoryUsed:  int64(memStat.Total - memStat.Available),
	}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			sample.ProcessRSSBytes = int64(info.RSS)
		}
	}
	return sample, true
}
