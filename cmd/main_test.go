package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/rsafile/internal/codec"
	"github.com/user/rsafile/internal/rsafile"
)

func execute(args ...string) error {
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestCommandSurfaceErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no command", nil, ErrWrongArgumentCount},
		{"unknown command", []string{"sign", "a", "b", "c"}, ErrUnknownCommand},
		{"encrypt too few", []string{"encrypt", "a", "b"}, ErrWrongArgumentCount},
		{"decrypt too many", []string{"decrypt", "a", "b", "c", "d"}, ErrWrongArgumentCount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestEncryptDecryptCommands(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "plain.txt")
	cipherFile := filepath.Join(dir, "cipher.txt")
	keyFile := filepath.Join(dir, "key.txt")
	plainOut := filepath.Join(dir, "plain.out")
	reportPath := filepath.Join(dir, "report.json")

	content := []byte("He said hello")
	if err := os.WriteFile(input, content, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if err := execute("encrypt", input, cipherFile, keyFile, "--seed", "1", "--format", "json", "--report", reportPath); err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	raw, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var rep struct {
		Results []rsafile.Result `json:"results"`
	}
	if err := json.Unmarshal(raw, &rep); err != nil {
		t.Fatalf("Invalid report: %v", err)
	}
	if len(rep.Results) != 1 || rep.Results[0].Units != len(content) {
		t.Errorf("Unexpected report: %s", raw)
	}

	f, err := os.Open(keyFile)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	kf, err := codec.ParseKeyFile(f)
	f.Close()
	if err != nil {
		t.Fatalf("Key file did not parse: %v", err)
	}
	if kf.Length != len(content) {
		t.Errorf("Expected length %d, got %d", len(content), kf.Length)
	}

	if err := execute("decrypt", cipherFile, plainOut, keyFile, "--format", "csv", "--report", reportPath); err != nil {
		t.Fatalf("decrypt failed: %v", err)
	}

	got, err := os.ReadFile(plainOut)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(got) != len(content) {
		t.Fatalf("Expected %d bytes, got %d", len(content), len(got))
	}
	if kf.Keypair.N > 255 && kf.Keypair.P != kf.Keypair.Q && !bytes.Equal(got, content) {
		t.Errorf("Round trip mismatch: %q != %q", got, content)
	}
}

func TestEncryptCommandEmptyInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(input, nil, 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	err := execute("encrypt", input, filepath.Join(dir, "c"), filepath.Join(dir, "k"), "--report", filepath.Join(dir, "r"))
	if !errors.Is(err, rsafile.ErrEmptyInput) {
		t.Errorf("Expected ErrEmptyInput, got %v", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("Expected only the input file, found %d entries", len(entries))
	}
}

func TestBenchCommand(t *testing.T) {
	reportPath := filepath.Join(t.TempDir(), "bench.json")

	err := execute("bench", "--operations", "keygen,encrypt", "--iterations", "1", "--payload", "8",
		"--seed", "3", "--format", "json", "--report", reportPath)
	if err != nil {
		t.Fatalf("bench failed: %v", err)
	}

	raw, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var rep struct {
		Config struct {
			Seed        int64 `json:"seed"`
			PayloadSize int   `json:"payload_size"`
		} `json:"config"`
		Benchmarks []struct {
			Operation string `json:"operation"`
			Errors    int    `json:"errors"`
		} `json:"benchmarks"`
	}
	if err := json.Unmarshal(raw, &rep); err != nil {
		t.Fatalf("Invalid report: %v", err)
	}
	if len(rep.Benchmarks) != 2 || rep.Benchmarks[0].Operation != "keygen" || rep.Benchmarks[1].Operation != "encrypt" {
		t.Errorf("Unexpected report: %s", raw)
	}
	if rep.Config.Seed != 3 || rep.Config.PayloadSize != 8 {
		t.Errorf("Expected the flags used in the report config, got %+v", rep.Config)
	}
}

func TestBenchCommandUnknownOperation(t *testing.T) {
	err := execute("bench", "--operations", "ecdsa", "--iterations", "1", "--report", filepath.Join(t.TempDir(), "r"))
	if err == nil {
		t.Error("Expected error for unknown operation")
	}
}
