package sysinfo

import (
	"context"
	"math/bits"
	"runtime"
	"testing"
)

func TestCollect(t *testing.T) {
	info, err := Collect(context.Background())
	if err != nil {
		t.Fatalf("Failed to collect system info: %v", err)
	}

	if info.OS != runtime.GOOS {
		t.Errorf("OS mismatch: expected %s, got %s", runtime.GOOS, info.OS)
	}

	if info.Architecture != runtime.GOARCH {
		t.Errorf("Architecture mismatch: expected %s, got %s", runtime.GOARCH, info.Architecture)
	}

	if info.WordSize != bits.UintSize {
		t.Errorf("Word size mismatch: expected %d, got %d", bits.UintSize, info.WordSize)
	}

	if info.GoVersion != runtime.Version() {
		t.Errorf("Go version mismatch: expected %s, got %s", runtime.Version(), info.GoVersion)
	}

	if info.CPUCores != runtime.NumCPU() {
		t.Errorf("CPU cores mismatch: expected %d, got %d", runtime.NumCPU(), info.CPUCores)
	}

	// Not every platform reports load.
	if info.LoadAverage < 0 {
		t.Error("LoadAverage should not be negative")
	}
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	info, err := Collect(ctx)
	if err == nil {
		t.Error("Expected an error from a cancelled context")
	}
	if info == nil || info.OS != runtime.GOOS {
		t.Error("Static fields should still be filled")
	}
}
