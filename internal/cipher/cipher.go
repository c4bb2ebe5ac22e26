// Package cipher encrypts and decrypts byte buffers one byte per unit with
// a toy RSA keypair.
package cipher

import (
	"context"

	"github.com/user/rsafile/internal/numtheory"
)

// Progress is called after each unit with the number done so far.
type Progress func(done, total int)

// EncryptBuffer returns data[i]^e mod n for every byte.
func EncryptBuffer(data []byte, e, n int64) []int64 {
	units, _ := Encrypt(context.Background(), data, e, n, nil)
	return units
}

// DecryptBuffer returns unit^d mod n for every unit, narrowed to a byte.
// Results above 255 keep only their low eight bits.
func DecryptBuffer(units []int64, d, n int64) []byte {
	data, _ := Decrypt(context.Background(), units, d, n, nil)
	return data
}

// Encrypt is EncryptBuffer with progress reporting and cancellation between
// units. ctx is checked before each unit.
func Encrypt(ctx context.Context, data []byte, e, n int64, progress Progress) ([]int64, error) {
	units := make([]int64, len(data))
	for i, b := range data {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		units[i] = numtheory.ModPow(int64(b), e, n)
		if progress != nil {
			progress(i+1, len(data))
		}
	}
	return units, nil
}

// Decrypt is DecryptBuffer with progress reporting and cancellation.
func Decrypt(ctx context.Context, units []int64, d, n int64, progress Progress) ([]byte, error) {
	data := make([]byte, len(units))
	for i, u := range units {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data[i] = byte(numtheory.ModPow(u, d, n))
		if progress != nil {
			progress(i+1, len(units))
		}
	}
	return data, nil
}
