package benchmark

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/user/rsafile/internal/keypair"
)

// MinPayloadSize is the smallest payload that can seed a keypair.
const MinPayloadSize = 2

type Runner struct {
	config Config
}

func NewRunner(config Config) *Runner {
	if config.Parallel < 1 {
		config.Parallel = 1
	}
	if config.PayloadSize < MinPayloadSize {
		config.PayloadSize = MinPayloadSize
	}
	return &Runner{config: config}
}

func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	var results []Result

	for _, name := range r.config.Operations {
		op, err := getOperation(name)
		if err != nil {
			return nil, err
		}

		if r.config.Verbose {
			fmt.Printf("Running %s with %d-byte payloads\n", op.Name(), r.config.PayloadSize)
		}

		result, err := r.runSingleBenchmark(ctx, op)
		if err != nil {
			return results, fmt.Errorf("%s benchmark interrupted: %w", op.Name(), err)
		}

		results = append(results, result)
	}

	return results, nil
}

func (r *Runner) runSingleBenchmark(parent context.Context, op Operation) (Result, error) {
	result := Result{
		Operation:   op.Name(),
		PayloadSize: r.config.PayloadSize,
		Iterations:  r.config.Iterations,
		Parallel:    r.config.Parallel,
		CompletedAt: time.Now(),
	}

	totalIterations := r.config.Iterations * r.config.Parallel
	var progress *progressbar.ProgressBar

	if r.config.ShowProgress {
		progress = progressbar.NewOptions(totalIterations,
			progressbar.OptionSetDescription(fmt.Sprintf("[%s-%d]", op.Name(), r.config.PayloadSize)),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionOnCompletion(func() {
				fmt.Println()
			}),
		)
	}

	// Collect initial CPU and memory stats
	initialCPU, _ := cpu.Percent(100*time.Millisecond, false)
	initialMem, _ := mem.VirtualMemory()

	ctx := parent
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, time.Duration(r.config.Timeout)*time.Second)
		defer cancel()
	}

	var timings []time.Duration
	var errors, completed int
	var mu sync.Mutex

	// Run benchmark
	startTime := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < r.config.Parallel; i++ {
		wg.Add(1)
		// Each worker owns its source; math/rand sources are not goroutine safe.
		src := keypair.NewSource(r.workerSeed(i))
		go func() {
			defer wg.Done()

			payload := make([]byte, r.config.PayloadSize)
			for j := 0; j < r.config.Iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
					for k := range payload {
						payload[k] = byte(src.Intn(256))
					}

					iterStart := time.Now()
					err := op.Run(src, payload)
					elapsed := time.Since(iterStart)

					mu.Lock()
					completed++
					if err != nil {
						errors++
					} else {
						timings = append(timings, elapsed)
					}
					mu.Unlock()

					if progress != nil {
						progress.Add(1)
					}
				}
			}
		}()
	}

	wg.Wait()

	result.TotalTime = time.Since(startTime)
	result.Errors = errors
	result.Completed = completed

	if err := parent.Err(); err != nil {
		return result, err
	}
	result.TimedOut = completed < totalIterations

	// Calculate statistics
	if len(timings) > 0 {
		result.AverageTime = calculateAverage(timings)
		result.MinTime = calculateMin(timings)
		result.MaxTime = calculateMax(timings)
		result.StdDev = calculateStdDev(timings, result.AverageTime)
		result.OpsPerSecond = float64(len(timings)) / result.TotalTime.Seconds()
	}

	// Collect final CPU and memory stats
	finalCPU, _ := cpu.Percent(100*time.Millisecond, false)
	finalMem, _ := mem.VirtualMemory()

	if len(initialCPU) > 0 && len(finalCPU) > 0 {
		result.CPUUsage = finalCPU[0] - initialCPU[0]
	}

	if initialMem != nil && finalMem != nil && finalMem.Used > initialMem.Used {
		result.MemoryUsed = finalMem.Used - initialMem.Used
	}

	// Force garbage collection between operations
	runtime.GC()

	return result, nil
}

// workerSeed spreads a fixed seed across workers; zero keeps clock seeding.
func (r *Runner) workerSeed(worker int) int64 {
	if r.config.Seed == 0 {
		return time.Now().UnixNano() + int64(worker)
	}
	return r.config.Seed + int64(worker)
}

func getOperation(name string) (Operation, error) {
	switch name {
	case "keygen":
		return &KeygenOperation{}, nil
	case "encrypt":
		return &EncryptOperation{}, nil
	case "roundtrip":
		return &RoundTripOperation{}, nil
	default:
		return nil, fmt.Errorf("unknown operation: %s", name)
	}
}

func calculateAverage(timings []time.Duration) time.Duration {
	if len(timings) == 0 {
		return 0
	}

	var sum time.Duration
	for _, t := range timings {
		sum += t
	}
	return sum / time.Duration(len(timings))
}

func calculateMin(timings []time.Duration) time.Duration {
	if len(timings) == 0 {
		return 0
	}

	min := timings[0]
	for _, t := range timings[1:] {
		if t < min {
			min = t
		}
	}
	return min
}

func calculateMax(timings []time.Duration) time.Duration {
	if len(timings) == 0 {
		return 0
	}

	max := timings[0]
	for _, t := range timings[1:] {
		if t > max {
			max = t
		}
	}
	return max
}

func calculateStdDev(timings []time.Duration, avg time.Duration) time.Duration {
	if len(timings) <= 1 {
		return 0
	}

	var sum float64
	avgFloat := float64(avg)

	for _, t := range timings {
		diff := float64(t) - avgFloat
		sum += diff * diff
	}

	variance := sum / float64(len(timings)-1)
	stdDev := math.Sqrt(variance)

	return time.Duration(stdDev)
}
