package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/user/rsafile/internal/benchmark"
	"github.com/user/rsafile/internal/cipher"
	"github.com/user/rsafile/internal/codec"
	"github.com/user/rsafile/internal/keypair"
	"github.com/user/rsafile/internal/output"
	"github.com/user/rsafile/internal/rsafile"
	"github.com/user/rsafile/internal/server"
	"github.com/user/rsafile/pkg/sysinfo"
)

var (
	ErrUnknownCommand     = errors.New("unknown command")
	ErrWrongArgumentCount = errors.New("wrong number of arguments")
)

var (
	outputFormat string
	reportFile   string
	verbose      bool
	showProgress bool
	seed         int64
	separator    string
	maxUnits     int
	webPort      string

	benchOperations []string
	payloadSize     int
	iterations      int
	parallel        int
	timeout         int
)

var rootCmd = &cobra.Command{
	Use:   "rsafile",
	Short: "Toy RSA file encryption",
	Long: `rsafile encrypts a file one byte at a time with a toy RSA keypair
derived from two tiny primes seeded by the file's first two bytes.

It exists to show how RSA works. The keys are tiny and the randomness is
predictable, so it must never be used to protect real data.`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runRoot,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt <input_file> <output_file> <key_file>",
	Short: "Encrypt the input file and save keys",
	Args:  exactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, config := newRunner("[encrypt]")
		result, err := runner.EncryptFile(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return report(cmd.Context(), config, result)
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt <input_file> <output_file> <key_file>",
	Short: "Decrypt the input file using saved keys",
	Args:  exactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, config := newRunner("[decrypt]")
		result, err := runner.DecryptFile(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return err
		}
		return report(cmd.Context(), config, result)
	},
}

var keygenCmd = &cobra.Command{
	Use:   "keygen <sample_file> <key_file>",
	Short: "Derive a key file from a file's first two bytes without encrypting",
	Args:  exactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, config := newRunner("[keygen]")
		result, err := runner.KeygenFile(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return report(cmd.Context(), config, result)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket API",
	Args:  exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		src := keypair.NewLockedSource(keypair.NewSource(seed))
		srv, err := server.NewServer(webPort, src, maxUnits)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		log.Println("Press Ctrl+C to stop")
		return srv.Start()
	},
}

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark key generation and the byte cipher",
	Long: `Time the keygen, encrypt and roundtrip operations over random payloads.
A roundtrip whose key cannot carry every byte value is counted as an error.`,
	Args: exactArgs(0),
	RunE: func(cmd *cobra.Command, args []string) error {
		config := benchmark.Config{
			Operations:   benchOperations,
			PayloadSize:  payloadSize,
			Iterations:   iterations,
			Parallel:     parallel,
			ShowProgress: showProgress,
			Timeout:      timeout,
			Seed:         seed,
			Verbose:      verbose,
		}

		results, err := benchmark.NewRunner(config).Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("benchmark failed: %w", err)
		}

		return writeReport(cmd.Context(), output.Data{
			Benchmarks:  results,
			BenchConfig: &config,
		})
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&outputFormat, "format", "f", "table", "Report format (table, json, csv)")
	flags.StringVarP(&reportFile, "report", "r", "", "Report file (default: stdout)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Include host information in the report")
	flags.BoolVar(&showProgress, "progress", false, "Show progress bar")
	flags.Int64Var(&seed, "seed", 0, "Random seed for prime generation (0 seeds from the clock)")
	flags.StringVar(&separator, "separator", codec.DefaultSeparator, "Separator between ciphertext units (empty concatenates them)")
	flags.IntVar(&maxUnits, "max-units", rsafile.DefaultMaxUnits, "Maximum bytes or ciphertext units held in memory")

	serveCmd.Flags().StringVar(&webPort, "port", "8080", "Web server port")

	benchFlags := benchCmd.Flags()
	benchFlags.StringSliceVarP(&benchOperations, "operations", "o", []string{"keygen", "encrypt", "roundtrip"}, "Operations to benchmark (keygen, encrypt, roundtrip)")
	benchFlags.IntVarP(&payloadSize, "payload", "s", 256, "Payload size in bytes")
	benchFlags.IntVarP(&iterations, "iterations", "i", 10, "Iterations per worker")
	benchFlags.IntVarP(&parallel, "parallel", "p", 1, "Number of parallel workers")
	benchFlags.IntVarP(&timeout, "timeout", "t", 300, "Timeout per operation in seconds")

	rootCmd.AddCommand(encryptCmd, decryptCmd, keygenCmd, serveCmd, benchCmd)
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		cmd.Usage()
		return fmt.Errorf("%w: expected a command", ErrWrongArgumentCount)
	}
	return fmt.Errorf("%w '%s'", ErrUnknownCommand, args[0])
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return fmt.Errorf("%w: %s expects %d, got %d\nUsage: %s", ErrWrongArgumentCount, cmd.Name(), n, len(args), cmd.UseLine())
		}
		return nil
	}
}

func newRunner(description string) (*rsafile.Runner, rsafile.Config) {
	config := rsafile.Config{
		Separator:    separator,
		MaxUnits:     maxUnits,
		Seed:         seed,
		ShowProgress: showProgress,
		Verbose:      verbose,
	}

	runner := rsafile.NewRunner(config, keypair.NewSource(seed))
	if showProgress {
		runner.SetProgress(newProgressBar(description))
	}
	return runner, config
}

// newProgressBar creates its bar on the first callback, once the total is known.
func newProgressBar(description string) cipher.Progress {
	var bar *progressbar.ProgressBar
	return func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription(description),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(os.Stderr)
				}),
			)
		}
		bar.Set(done)
	}
}

func report(ctx context.Context, config rsafile.Config, result *rsafile.Result) error {
	return writeReport(ctx, output.Data{
		Results: []rsafile.Result{*result},
		Config:  config,
	})
}

func writeReport(ctx context.Context, data output.Data) error {
	formatter, err := output.NewFormatter(outputFormat)
	if err != nil {
		return fmt.Errorf("invalid output format: %w", err)
	}

	// Collect system information
	if verbose {
		info, err := sysinfo.Collect(ctx)
		if err != nil {
			return fmt.Errorf("failed to collect system info: %w", err)
		}
		data.SystemInfo = info
	}

	writer := os.Stdout
	if reportFile != "" {
		writer, err = os.Create(reportFile)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer writer.Close()
	}

	// Format and output results
	if err := formatter.Format(writer, data); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		if kind := rsafile.KindOf(err); kind != "" && verbose {
			fmt.Fprintf(os.Stderr, "Error [%s]: %v\n", kind, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
