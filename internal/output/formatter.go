package output

import (
	"fmt"
	"io"

	"github.com/user/rsafile/internal/benchmark"
	"github.com/user/rsafile/internal/rsafile"
	"github.com/user/rsafile/pkg/sysinfo"
)

type Data struct {
	SystemInfo *sysinfo.SystemInfo
	Results    []rsafile.Result
	Benchmarks []benchmark.Result
	Config     rsafile.Config

	// BenchConfig replaces Config in reports of benchmark runs.
	BenchConfig *benchmark.Config
}

type Formatter interface {
	Format(w io.Writer, data Data) error
}

func NewFormatter(format string) (Formatter, error) {
	switch format {
	case "table":
		return &TableFormatter{}, nil
	case "json":
		return &JSONFormatter{}, nil
	case "csv":
		return &CSVFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func totalUnits(results []rsafile.Result) int {
	total := 0
	for _, r := range results {
		total += r.Units
	}
	return total
}
