package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/user/rsafile/internal/numtheory"
)

// DefaultSeparator is written between ciphertext units.
const DefaultSeparator = ","

var errNoDigits = errors.New("expected a decimal integer")

// WriteUnits writes each unit in decimal, joined by sep. An empty sep
// concatenates the units, which cannot be read back for more than one unit.
func WriteUnits(w io.Writer, units []int64, sep string) error {
	bw := bufio.NewWriter(w)
	for i, u := range units {
		if i > 0 && sep != "" {
			if _, err := bw.WriteString(sep); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(numtheory.FormatInt(u)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ReadUnits reads exactly length integers. Whitespace before each integer is
// skipped and exactly one byte is consumed between integers, whatever it is.
// Content after the last integer is ignored.
func ReadUnits(r io.Reader, length int) ([]int64, error) {
	br := bufio.NewReader(r)
	units := make([]int64, 0, length)

	for i := 0; i < length; i++ {
		v, err := scanInt(br)
		if err != nil {
			return nil, fmt.Errorf("%w: unit %d of %d: %v", ErrInvalidCiphertextFile, i+1, length, err)
		}
		units = append(units, v)

		if i < length-1 {
			// A missing separator surfaces as a scan error on the next unit.
			_, _ = br.ReadByte()
		}
	}
	return units, nil
}

func scanInt(br *bufio.Reader) (int64, error) {
	c, err := skipSpace(br)
	if err != nil {
		return 0, err
	}

	var digits []byte
	if c == '-' || c == '+' {
		if c == '-' {
			digits = append(digits, c)
		}
		if c, err = br.ReadByte(); err != nil {
			return 0, errNoDigits
		}
	}

	for c >= '0' && c <= '9' {
		digits = append(digits, c)
		if c, err = br.ReadByte(); err != nil {
			break
		}
	}
	if err == nil {
		_ = br.UnreadByte()
	}

	return numtheory.ParseInt(string(digits))
}

func skipSpace(br *bufio.Reader) (byte, error) {
	for {
		c, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return 0, io.ErrUnexpectedEOF
			}
			return 0, err
		}
		switch c {
		case ' ', '\t', '\n', '\v', '\f', '\r':
			continue
		}
		return c, nil
	}
}
