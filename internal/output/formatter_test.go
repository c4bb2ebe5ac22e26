package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/user/rsafile/internal/benchmark"
	"github.com/user/rsafile/internal/keypair"
	"github.com/user/rsafile/internal/rsafile"
	"github.com/user/rsafile/pkg/sysinfo"
)

func sampleData() Data {
	return Data{
		SystemInfo: &sysinfo.SystemInfo{
			OS:           "linux",
			Architecture: "amd64",
			CPUModel:     "Test CPU",
			CPUCores:     8,
			GoVersion:    "go1.21",
		},
		Results: []rsafile.Result{
			{
				Operation:    "encrypt",
				InputFile:    "in.txt",
				OutputFile:   "out.txt",
				KeyFile:      "key.txt",
				Keypair:      &keypair.Keypair{P: 6917, Q: 983, N: 6799411, Lambda: 6791512, E: 3, D: 4527675},
				Units:        2,
				InputBytes:   2,
				OutputBytes:  14,
				OutputSHA256: "abc123",
				Duration:     1500 * time.Microsecond,
				CompletedAt:  time.Now(),
			},
		},
		Config: rsafile.DefaultConfig(),
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		format    string
		expectErr bool
	}{
		{"table", false},
		{"json", false},
		{"csv", false},
		{"xml", true},
		{"invalid", true},
	}

	for _, test := range tests {
		_, err := NewFormatter(test.format)
		if test.expectErr && err == nil {
			t.Errorf("Expected error for format %s", test.format)
		}
		if !test.expectErr && err != nil {
			t.Errorf("Unexpected error for format %s: %v", test.format, err)
		}
	}
}

func TestJSONFormatter(t *testing.T) {
	formatter := &JSONFormatter{}
	buf := &bytes.Buffer{}

	if err := formatter.Format(buf, sampleData()); err != nil {
		t.Fatalf("JSON formatting failed: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Errorf("Invalid JSON output: %v", err)
	}

	for _, field := range []string{"system_info", "results", "summary", "config"} {
		if _, ok := result[field]; !ok {
			t.Errorf("Missing %s in JSON output", field)
		}
	}

	summary := result["summary"].(map[string]any)
	if summary["total_units"] != float64(2) {
		t.Errorf("Expected total_units 2, got %v", summary["total_units"])
	}

	results := result["results"].([]any)
	first := results[0].(map[string]any)
	kp := first["keypair"].(map[string]any)
	if kp["d"] != float64(4527675) {
		t.Errorf("Expected d 4527675, got %v", kp["d"])
	}
}

func TestJSONFormatterOmitsSystemInfo(t *testing.T) {
	data := sampleData()
	data.SystemInfo = nil
	buf := &bytes.Buffer{}

	if err := (&JSONFormatter{}).Format(buf, data); err != nil {
		t.Fatalf("JSON formatting failed: %v", err)
	}
	if strings.Contains(buf.String(), "system_info") {
		t.Error("system_info should be omitted without host info")
	}
}

func TestCSVFormatter(t *testing.T) {
	formatter := &CSVFormatter{}
	buf := &bytes.Buffer{}

	if err := formatter.Format(buf, sampleData()); err != nil {
		t.Fatalf("CSV formatting failed: %v", err)
	}

	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected header and one row, got %d records", len(records))
	}

	header := strings.Join(records[0], ",")
	if !strings.Contains(header, "Operation") || !strings.Contains(header, "Units") {
		t.Errorf("CSV header missing fields: %s", header)
	}
	if records[1][1] != "encrypt" || records[1][7] != "6799411" {
		t.Errorf("Unexpected CSV row: %v", records[1])
	}
}

func TestTableFormatter(t *testing.T) {
	formatter := &TableFormatter{}
	buf := &bytes.Buffer{}

	if err := formatter.Format(buf, sampleData()); err != nil {
		t.Fatalf("Table formatting failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Encryption successful!",
		"Public Key (n, e): (6799411, 3)",
		"Private Key (d): 4527675",
		"Encrypted 2 characters",
		"Operation Results",
		"System Information",
		"Test CPU",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Table output missing %q", want)
		}
	}
}

func TestTableFormatterDecrypt(t *testing.T) {
	data := Data{Results: []rsafile.Result{{Operation: "decrypt", Units: 5}}}
	buf := &bytes.Buffer{}

	if err := (&TableFormatter{}).Format(buf, data); err != nil {
		t.Fatalf("Table formatting failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Decrypted 5 characters") {
		t.Errorf("Unexpected output: %s", buf.String())
	}
	if strings.Contains(buf.String(), "System Information") {
		t.Error("System information should be absent")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{500 * time.Nanosecond, "0.50µs"},
		{1500 * time.Microsecond, "1.50ms"},
		{2500 * time.Millisecond, "2.50s"},
		{150 * time.Second, "2.50m"},
	}

	for _, test := range tests {
		result := formatDuration(test.duration)
		if result != test.expected {
			t.Errorf("For duration %v, expected %s, got %s", test.duration, test.expected, result)
		}
	}
}

func benchmarkData() Data {
	return Data{
		Benchmarks: []benchmark.Result{
			{
				Operation:    "roundtrip",
				PayloadSize:  64,
				Iterations:   10,
				Parallel:     2,
				TotalTime:    40 * time.Millisecond,
				AverageTime:  2 * time.Millisecond,
				MinTime:      time.Millisecond,
				MaxTime:      5 * time.Millisecond,
				OpsPerSecond: 450.5,
				Errors:       2,
				Completed:    20,
				CompletedAt:  time.Now(),
			},
		},
		Config:      rsafile.DefaultConfig(),
		BenchConfig: &benchmark.Config{Operations: []string{"roundtrip"}, PayloadSize: 64, Iterations: 10, Parallel: 2, Seed: 9},
	}
}

func TestTableFormatterBenchmarks(t *testing.T) {
	buf := &bytes.Buffer{}

	if err := (&TableFormatter{}).Format(buf, benchmarkData()); err != nil {
		t.Fatalf("Table formatting failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "Benchmark Results") || !strings.Contains(output, "roundtrip") {
		t.Errorf("Benchmark table missing: %s", output)
	}
	if strings.Contains(output, "Operation Results") {
		t.Error("Operation table should be absent without file results")
	}
}

func TestJSONFormatterBenchmarks(t *testing.T) {
	buf := &bytes.Buffer{}

	if err := (&JSONFormatter{}).Format(buf, benchmarkData()); err != nil {
		t.Fatalf("JSON formatting failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}
	benchmarks, ok := decoded["benchmarks"].([]any)
	if !ok || len(benchmarks) != 1 {
		t.Fatalf("Expected one benchmark entry, got %v", decoded["benchmarks"])
	}

	config := decoded["config"].(map[string]any)
	if config["seed"] != float64(9) || config["payload_size"] != float64(64) {
		t.Errorf("Expected the benchmark config in the report, got %v", config)
	}
}

func TestCSVFormatterBenchmarks(t *testing.T) {
	buf := &bytes.Buffer{}

	if err := (&CSVFormatter{}).Format(buf, benchmarkData()); err != nil {
		t.Fatalf("CSV formatting failed: %v", err)
	}

	records, err := csv.NewReader(buf).ReadAll()
	if err != nil {
		t.Fatalf("Invalid CSV output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected header and one row, got %d records", len(records))
	}
	if records[0][2] != "PayloadSize" || records[1][1] != "roundtrip" || records[1][13] != "2" || records[1][15] != "false" {
		t.Errorf("Unexpected CSV output: %v", records)
	}
}
