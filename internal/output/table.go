package output

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/user/rsafile/internal/rsafile"
)

type TableFormatter struct{}

func (t *TableFormatter) Format(w io.Writer, data Data) error {
	for _, result := range data.Results {
		kp := result.Keypair
		switch result.Operation {
		case "encrypt":
			fmt.Fprintln(w, "Encryption successful!")
			fmt.Fprintf(w, "Public Key (n, e): (%d, %d)\n", kp.N, kp.E)
			fmt.Fprintf(w, "Private Key (d): %d\n", kp.D)
			fmt.Fprintf(w, "Encrypted %d characters\n", result.Units)
		case "decrypt":
			fmt.Fprintln(w, "Decryption successful!")
			fmt.Fprintf(w, "Decrypted %d characters\n", result.Units)
		case "keygen":
			fmt.Fprintln(w, "Key generation successful!")
			fmt.Fprintf(w, "Public Key (n, e): (%d, %d)\n", kp.N, kp.E)
			fmt.Fprintf(w, "Private Key (d): %d\n", kp.D)
		}
	}

	if data.SystemInfo != nil {
		fmt.Fprintln(w, "\nSystem Information")
		fmt.Fprintln(w, "------------------")
		fmt.Fprintf(w, "OS: %s/%s\n", data.SystemInfo.OS, data.SystemInfo.Architecture)
		fmt.Fprintf(w, "CPU: %s (%d cores)\n", data.SystemInfo.CPUModel, data.SystemInfo.CPUCores)
		fmt.Fprintf(w, "Go Version: %s\n", data.SystemInfo.GoVersion)
	}

	if len(data.Benchmarks) > 0 {
		writeBenchmarkTable(w, data.Benchmarks)
	}
	if len(data.Results) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\nOperation Results")
	fmt.Fprintln(w, "=================")
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{
		"Operation",
		"Input",
		"Output",
		"Key File",
		"p",
		"q",
		"n",
		"e",
		"d",
		"Units",
		"Bytes Out",
		"Time",
	})

	table.SetBorder(false)
	table.SetCenterSeparator("|")
	table.SetColumnSeparator("|")
	table.SetRowSeparator("-")
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, result := range data.Results {
		table.Append(row(result))
	}

	table.Render()
	return nil
}

func row(result rsafile.Result) []string {
	fields := []string{result.Operation, result.InputFile, result.OutputFile, result.KeyFile}
	if kp := result.Keypair; kp != nil {
		fields = append(fields,
			fmt.Sprintf("%d", kp.P),
			fmt.Sprintf("%d", kp.Q),
			fmt.Sprintf("%d", kp.N),
			fmt.Sprintf("%d", kp.E),
			fmt.Sprintf("%d", kp.D),
		)
	} else {
		fields = append(fields, "", "", "", "", "")
	}
	return append(fields,
		fmt.Sprintf("%d", result.Units),
		fmt.Sprintf("%d", result.OutputBytes),
		formatDuration(result.Duration),
	)
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/1000)
	} else if d < time.Second {
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1e6)
	} else if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	return fmt.Sprintf("%.2fm", d.Minutes())
}
