package benchmark

import (
	"time"

	"github.com/user/rsafile/internal/keypair"
)

type Config struct {
	Operations   []string `json:"operations"`
	PayloadSize  int      `json:"payload_size"`
	Iterations   int      `json:"iterations"`
	Parallel     int      `json:"parallel"`
	ShowProgress bool     `json:"show_progress"`
	Timeout      int      `json:"timeout"`
	Seed         int64    `json:"seed"`
	Verbose      bool     `json:"verbose"`
}

type Result struct {
	Operation    string        `json:"operation"`
	PayloadSize  int           `json:"payload_size"`
	Iterations   int           `json:"iterations"`
	Parallel     int           `json:"parallel"`
	TotalTime    time.Duration `json:"total_time"`
	AverageTime  time.Duration `json:"average_time"`
	MinTime      time.Duration `json:"min_time"`
	MaxTime      time.Duration `json:"max_time"`
	StdDev       time.Duration `json:"std_dev"`
	OpsPerSecond float64       `json:"ops_per_second"`
	CPUUsage     float64       `json:"cpu_usage"`
	MemoryUsed   uint64        `json:"memory_used"`
	Errors       int           `json:"errors"`
	Completed    int           `json:"completed"`
	TimedOut     bool          `json:"timed_out"`
	CompletedAt  time.Time     `json:"completed_at"`
}

// Operation is one timed unit of work. Run must only use src and payload,
// so workers can run it without sharing state.
type Operation interface {
	Name() string
	Run(src keypair.Source, payload []byte) error
}
