package benchmark

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/rsafile/internal/keypair"
)

func TestCalculateStatistics(t *testing.T) {
	timings := []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		150 * time.Millisecond,
		180 * time.Millisecond,
		170 * time.Millisecond,
	}

	avg := calculateAverage(timings)
	expectedAvg := 160 * time.Millisecond
	if avg != expectedAvg {
		t.Errorf("Expected average %v, got %v", expectedAvg, avg)
	}

	min := calculateMin(timings)
	if min != 100*time.Millisecond {
		t.Errorf("Expected min %v, got %v", 100*time.Millisecond, min)
	}

	max := calculateMax(timings)
	if max != 200*time.Millisecond {
		t.Errorf("Expected max %v, got %v", 200*time.Millisecond, max)
	}

	stdDev := calculateStdDev(timings, avg)
	if stdDev < 35*time.Millisecond || stdDev > 40*time.Millisecond {
		t.Errorf("Expected stdDev around 37ms, got %v", stdDev)
	}

	if calculateAverage(nil) != 0 || calculateStdDev(timings[:1], avg) != 0 {
		t.Error("Expected zero statistics for short samples")
	}
}

func TestGetOperation(t *testing.T) {
	for _, name := range []string{"keygen", "encrypt", "roundtrip"} {
		op, err := getOperation(name)
		if err != nil {
			t.Fatalf("getOperation(%q) failed: %v", name, err)
		}
		if op.Name() != name {
			t.Errorf("Expected operation %q, got %q", name, op.Name())
		}
	}

	if _, err := getOperation("rsa-4096"); err == nil {
		t.Error("Expected error for unknown operation")
	}
}

func TestRoundTripOperationDetectsLossyKey(t *testing.T) {
	op := &RoundTripOperation{}

	// Both primes come out as 7 when every draw is zero, so n=49.
	if err := op.Run(zeroSource{}, []byte{200, 201}); err != errLossyRoundTrip {
		t.Errorf("Expected lossy round trip, got %v", err)
	}
}

func TestNewRunnerClampsConfig(t *testing.T) {
	runner := NewRunner(Config{Operations: []string{"keygen"}, Iterations: 1})

	if runner.config.Parallel != 1 {
		t.Errorf("Expected parallel 1, got %d", runner.config.Parallel)
	}
	if runner.config.PayloadSize != MinPayloadSize {
		t.Errorf("Expected payload size %d, got %d", MinPayloadSize, runner.config.PayloadSize)
	}
}

func TestRunnerBasic(t *testing.T) {
	config := Config{
		Operations:   []string{"keygen"},
		PayloadSize:  16,
		Iterations:   2,
		Parallel:     2,
		ShowProgress: false,
		Timeout:      30,
		Seed:         42,
		Verbose:      false,
	}

	runner := NewRunner(config)
	results, err := runner.Run(context.Background())

	if err != nil {
		t.Fatalf("Runner failed: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	if results[0].Operation != "keygen" {
		t.Errorf("Expected keygen operation, got %s", results[0].Operation)
	}

	if results[0].Iterations != 2 || results[0].Parallel != 2 {
		t.Errorf("Expected 2x2 iterations, got %dx%d", results[0].Iterations, results[0].Parallel)
	}

	if results[0].Errors != 0 {
		t.Errorf("Expected 0 errors, got %d", results[0].Errors)
	}

	if results[0].Completed != 4 || results[0].TimedOut {
		t.Errorf("Expected 4 completed iterations, got %d (timed out: %v)", results[0].Completed, results[0].TimedOut)
	}

	if results[0].OpsPerSecond <= 0 {
		t.Errorf("Expected positive throughput, got %f", results[0].OpsPerSecond)
	}
}

func TestRunnerUnknownOperation(t *testing.T) {
	runner := NewRunner(Config{Operations: []string{"ecdsa"}, Iterations: 1})

	if _, err := runner.Run(context.Background()); err == nil {
		t.Error("Expected error for unknown operation")
	}
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(Config{Operations: []string{"keygen", "encrypt"}, Iterations: 5, Seed: 1})
	results, err := runner.Run(ctx)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected no finished results, got %d", len(results))
	}
}

func TestRunnerTimeoutMarksResult(t *testing.T) {
	config := Config{
		Operations: []string{"keygen"},
		Iterations: 1000000,
		Timeout:    1,
		Seed:       7,
	}

	results, err := NewRunner(config).Run(context.Background())
	if err != nil {
		t.Fatalf("Runner failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if !results[0].TimedOut {
		t.Error("Expected the result to be marked as timed out")
	}
	if results[0].Completed >= config.Iterations {
		t.Errorf("Expected fewer than %d iterations, got %d", config.Iterations, results[0].Completed)
	}
}

type zeroSource struct{}

func (zeroSource) Intn(int) int { return 0 }

var _ keypair.Source = zeroSource{}
