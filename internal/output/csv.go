package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

type CSVFormatter struct{}

func (c *CSVFormatter) Format(w io.Writer, data Data) error {
	writer := csv.NewWriter(w)

	if len(data.Results) == 0 && len(data.Benchmarks) > 0 {
		if err := writeBenchmarkCSV(writer, data.Benchmarks); err != nil {
			return err
		}
		writer.Flush()
		return writer.Error()
	}

	header := []string{
		"Timestamp",
		"Operation",
		"InputFile",
		"OutputFile",
		"KeyFile",
		"P",
		"Q",
		"N",
		"E",
		"D",
		"Units",
		"InputBytes",
		"OutputBytes",
		"OutputSHA256",
		"Duration(ms)",
	}

	if err := writer.Write(header); err != nil {
		return err
	}

	// Write data rows
	for _, result := range data.Results {
		var p, q, n, e, d string
		if kp := result.Keypair; kp != nil {
			p = fmt.Sprintf("%d", kp.P)
			q = fmt.Sprintf("%d", kp.Q)
			n = fmt.Sprintf("%d", kp.N)
			e = fmt.Sprintf("%d", kp.E)
			d = fmt.Sprintf("%d", kp.D)
		}

		row := []string{
			result.CompletedAt.Format(time.RFC3339),
			result.Operation,
			result.InputFile,
			result.OutputFile,
			result.KeyFile,
			p, q, n, e, d,
			fmt.Sprintf("%d", result.Units),
			fmt.Sprintf("%d", result.InputBytes),
			fmt.Sprintf("%d", result.OutputBytes),
			result.OutputSHA256,
			millis(result.Duration),
		}

		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
