// Package rsafile runs the encrypt, decrypt and keygen file operations.
package rsafile

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/user/rsafile/internal/cipher"
	"github.com/user/rsafile/internal/codec"
	"github.com/user/rsafile/internal/keypair"
	"github.com/user/rsafile/internal/storage"
)

// Result describes one completed operation.
type Result struct {
	Operation    string           `json:"operation"`
	InputFile    string           `json:"input_file"`
	OutputFile   string           `json:"output_file,omitempty"`
	KeyFile      string           `json:"key_file"`
	Keypair      *keypair.Keypair `json:"keypair,omitempty"`
	Units        int              `json:"units"`
	InputBytes   int64            `json:"input_bytes"`
	OutputBytes  int64            `json:"output_bytes"`
	OutputSHA256 string           `json:"output_sha256,omitempty"`
	Duration     time.Duration    `json:"duration"`
	CompletedAt  time.Time        `json:"completed_at"`
}

type Runner struct {
	config   Config
	src      keypair.Source
	progress cipher.Progress
}

func NewRunner(config Config, src keypair.Source) *Runner {
	return &Runner{config: config, src: src}
}

// SetProgress installs a callback invoked after each unit is processed.
func (r *Runner) SetProgress(p cipher.Progress) {
	r.progress = p
}

// EncryptFile encrypts input into output and writes the keypair to keyFile.
// Either both files are created or neither is.
func (r *Runner) EncryptFile(ctx context.Context, input, output, keyFile string) (*Result, error) {
	start := time.Now()

	if err := distinctPaths(input, output, keyFile); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrFileOpen, input, err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	if len(data) > r.config.maxUnits() {
		return nil, fmt.Errorf("%w: input has %d bytes, limit is %d", ErrAllocation, len(data), r.config.maxUnits())
	}

	kp, err := keypair.FromSeedBytes(r.src, data)
	if err != nil {
		return nil, err
	}

	units, err := cipher.Encrypt(ctx, data, kp.E, kp.N, r.progress)
	if err != nil {
		return nil, err
	}

	var batch storage.Batch
	cipherOut, err := batch.Create(output)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrFileOpen, output, err)
	}
	keyOut, err := batch.Create(keyFile)
	if err != nil {
		batch.Abort()
		return nil, fmt.Errorf("%w %q: %w", ErrFileOpen, keyFile, err)
	}

	if err := codec.WriteUnits(cipherOut, units, r.config.Separator); err != nil {
		batch.Abort()
		return nil, fmt.Errorf("failed to write ciphertext: %w", err)
	}
	if err := codec.WriteKeyFile(keyOut, kp, len(units)); err != nil {
		batch.Abort()
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}
	if err := batch.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileOpen, err)
	}

	return &Result{
		Operation:    "encrypt",
		InputFile:    input,
		OutputFile:   output,
		KeyFile:      keyFile,
		Keypair:      kp,
		Units:        len(units),
		InputBytes:   int64(len(data)),
		OutputBytes:  cipherOut.Size(),
		OutputSHA256: cipherOut.Sum(),
		Duration:     time.Since(start),
		CompletedAt:  time.Now(),
	}, nil
}

// DecryptFile reads keyFile and the ciphertext in input, and writes the
// recovered bytes to output. output is untouched on failure.
func (r *Runner) DecryptFile(ctx context.Context, input, output, keyFile string) (*Result, error) {
	start := time.Now()

	if err := distinctPaths(input, output, keyFile); err != nil {
		return nil, err
	}

	kf, err := readKeyFile(keyFile)
	if err != nil {
		return nil, err
	}
	if kf.Length > r.config.maxUnits() {
		return nil, fmt.Errorf("%w: key file declares %d units, limit is %d", ErrAllocation, kf.Length, r.config.maxUnits())
	}

	in, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrFileOpen, input, err)
	}
	counter := &countingReader{r: in}
	units, err := codec.ReadUnits(counter, kf.Length)
	in.Close()
	if err != nil {
		return nil, err
	}

	plain, err := cipher.Decrypt(ctx, units, kf.Keypair.D, kf.Keypair.N, r.progress)
	if err != nil {
		return nil, err
	}

	out, err := storage.CreateStaged(output)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrFileOpen, output, err)
	}
	if _, err := out.Write(plain); err != nil {
		out.Abort()
		return nil, fmt.Errorf("failed to write output: %w", err)
	}
	if err := out.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileOpen, err)
	}

	return &Result{
		Operation:    "decrypt",
		InputFile:    input,
		OutputFile:   output,
		KeyFile:      keyFile,
		Keypair:      &kf.Keypair,
		Units:        len(units),
		InputBytes:   counter.n,
		OutputBytes:  out.Size(),
		OutputSHA256: out.Sum(),
		Duration:     time.Since(start),
		CompletedAt:  time.Now(),
	}, nil
}

// KeygenFile derives a keypair from the first two bytes of sample and writes
// it to keyFile with a length of zero.
func (r *Runner) KeygenFile(ctx context.Context, sample, keyFile string) (*Result, error) {
	start := time.Now()

	if err := distinctPaths(sample, keyFile); err != nil {
		return nil, err
	}

	f, err := os.Open(sample)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrFileOpen, sample, err)
	}
	head := make([]byte, 2)
	n, err := io.ReadFull(f, head)
	f.Close()
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w %q: %w", ErrFileOpen, sample, err)
	}
	if n == 0 {
		return nil, ErrEmptyInput
	}

	kp, err := keypair.FromSeedBytes(r.src, head[:n])
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out, err := storage.CreateStaged(keyFile)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrFileOpen, keyFile, err)
	}
	if err := codec.WriteKeyFile(out, kp, 0); err != nil {
		out.Abort()
		return nil, fmt.Errorf("failed to write key file: %w", err)
	}
	if err := out.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileOpen, err)
	}

	return &Result{
		Operation:    "keygen",
		InputFile:    sample,
		KeyFile:      keyFile,
		Keypair:      kp,
		InputBytes:   int64(n),
		OutputBytes:  out.Size(),
		OutputSHA256: out.Sum(),
		Duration:     time.Since(start),
		CompletedAt:  time.Now(),
	}, nil
}

func readKeyFile(path string) (*codec.KeyFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrFileOpen, path, err)
	}
	defer f.Close()
	return codec.ParseKeyFile(f)
}

// distinctPaths fails when any two paths name the same file, either
// lexically or, for files that already exist, on disk.
func distinctPaths(paths ...string) error {
	for i := range paths {
		for j := i + 1; j < len(paths); j++ {
			if sameFile(paths[i], paths[j]) {
				return fmt.Errorf("%w: %q and %q", ErrSamePath, paths[i], paths[j])
			}
		}
	}
	return nil
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}

	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
