// Package codec reads and writes the plain-text key file and the decimal
// ciphertext file.
package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/user/rsafile/internal/keypair"
	"github.com/user/rsafile/internal/numtheory"
)

var (
	ErrInvalidKeyFile        = errors.New("invalid key file format")
	ErrInvalidCiphertextFile = errors.New("invalid encrypted file format")
)

// KeyFieldNames is the order fields must appear in a key file.
var KeyFieldNames = []string{"p", "q", "n", "e", "d", "length"}

// KeyFile is a parsed key file: the keypair plus the number of ciphertext
// units it was written for.
type KeyFile struct {
	Keypair keypair.Keypair `json:"keypair"`
	Length  int             `json:"length"`
}

// WriteKeyFile writes one name=value line per field.
func WriteKeyFile(w io.Writer, kp *keypair.Keypair, length int) error {
	values := []int64{kp.P, kp.Q, kp.N, kp.E, kp.D, int64(length)}

	bw := bufio.NewWriter(w)
	for i, name := range KeyFieldNames {
		if _, err := fmt.Fprintf(bw, "%s=%s\n", name, numtheory.FormatInt(values[i])); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ParseKeyFile reads the six fields in order. Whitespace may surround each
// field and follow its '=', and values may carry a sign. Anything after the
// length field other than whitespace is rejected.
func ParseKeyFile(r io.Reader) (*KeyFile, error) {
	br := bufio.NewReader(r)

	values := make([]int64, len(KeyFieldNames))
	for i, name := range KeyFieldNames {
		if err := expectLabel(br, name+"="); err != nil {
			return nil, fmt.Errorf("%w: field %d must be %s=<integer>: %v", ErrInvalidKeyFile, i+1, name, err)
		}
		v, err := scanInt(br)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidKeyFile, name, err)
		}
		values[i] = v
	}

	c, err := skipSpace(br)
	if err == nil {
		return nil, fmt.Errorf("%w: unexpected %q after length", ErrInvalidKeyFile, c)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKeyFile, err)
	}

	p, q, n, e, d, length := values[0], values[1], values[2], values[3], values[4], values[5]
	if n < 1 {
		return nil, fmt.Errorf("%w: n must be positive, got %d", ErrInvalidKeyFile, n)
	}
	if length < 0 || length > math.MaxInt32 {
		return nil, fmt.Errorf("%w: length out of range: %d", ErrInvalidKeyFile, length)
	}

	return &KeyFile{
		Keypair: keypair.Keypair{P: p, Q: q, N: n, Lambda: (p - 1) * (q - 1), E: e, D: d},
		Length:  int(length),
	}, nil
}

// expectLabel skips whitespace and then requires label byte for byte.
func expectLabel(br *bufio.Reader, label string) error {
	c, err := skipSpace(br)
	if err != nil {
		return err
	}
	for i := 0; i < len(label); i++ {
		if i > 0 {
			if c, err = br.ReadByte(); err != nil {
				return io.ErrUnexpectedEOF
			}
		}
		if c != label[i] {
			return fmt.Errorf("unexpected %q", c)
		}
	}
	return nil
}
