package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/user/rsafile/internal/benchmark"
)

func writeBenchmarkTable(w io.Writer, results []benchmark.Result) {
	fmt.Fprintln(w, "\nBenchmark Results")
	fmt.Fprintln(w, "=================")
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Operation",
		"Payload",
		"Iterations",
		"Parallel",
		"Avg Time",
		"Min Time",
		"Max Time",
		"Std Dev",
		"Ops/sec",
		"CPU %",
		"Memory (MB)",
		"Errors",
		"Timed Out",
	})

	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, result := range results {
		table.Append([]string{
			result.Operation,
			fmt.Sprintf("%d", result.PayloadSize),
			fmt.Sprintf("%d", result.Iterations),
			fmt.Sprintf("%d", result.Parallel),
			formatDuration(result.AverageTime),
			formatDuration(result.MinTime),
			formatDuration(result.MaxTime),
			formatDuration(result.StdDev),
			fmt.Sprintf("%.2f", result.OpsPerSecond),
			fmt.Sprintf("%.1f", result.CPUUsage),
			fmt.Sprintf("%.2f", float64(result.MemoryUsed)/(1024*1024)),
			fmt.Sprintf("%d", result.Errors),
			fmt.Sprintf("%t", result.TimedOut),
		})
	}

	table.Render()
}

func writeBenchmarkCSV(writer *csv.Writer, results []benchmark.Result) error {
	header := []string{
		"Timestamp",
		"Operation",
		"PayloadSize",
		"Iterations",
		"Parallel",
		"TotalTime(ms)",
		"AverageTime(ms)",
		"MinTime(ms)",
		"MaxTime(ms)",
		"StdDev(ms)",
		"OpsPerSecond",
		"CPUUsage(%)",
		"MemoryUsed(MB)",
		"Errors",
		"Completed",
		"TimedOut",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, result := range results {
		row := []string{
			result.CompletedAt.Format(time.RFC3339),
			result.Operation,
			fmt.Sprintf("%d", result.PayloadSize),
			fmt.Sprintf("%d", result.Iterations),
			fmt.Sprintf("%d", result.Parallel),
			millis(result.TotalTime),
			millis(result.AverageTime),
			millis(result.MinTime),
			millis(result.MaxTime),
			millis(result.StdDev),
			fmt.Sprintf("%.2f", result.OpsPerSecond),
			fmt.Sprintf("%.2f", result.CPUUsage),
			fmt.Sprintf("%.2f", float64(result.MemoryUsed)/(1024*1024)),
			fmt.Sprintf("%d", result.Errors),
			fmt.Sprintf("%d", result.Completed),
			fmt.Sprintf("%t", result.TimedOut),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func millis(d time.Duration) string {
	return fmt.Sprintf("%.2f", float64(d.Nanoseconds())/1e6)
}
