package rsafile

import (
	"errors"

	"github.com/user/rsafile/internal/codec"
	"github.com/user/rsafile/internal/keypair"
)

var (
	ErrFileOpen   = errors.New("cannot open file")
	ErrEmptyInput = errors.New("input file is empty")
	ErrAllocation = errors.New("memory allocation failed")
	ErrSamePath   = errors.New("input, output and key files must be different paths")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrSamePath, "PathConflict"},
	{ErrFileOpen, "FileOpenFailed"},
	{ErrEmptyInput, "EmptyInput"},
	{keypair.ErrInputTooShort, "InputTooShort"},
	{ErrAllocation, "AllocationFailed"},
	{keypair.ErrKeyGeneration, "KeyGenerationFailed"},
	{keypair.ErrPrivateKey, "PrivateKeyFailed"},
	{codec.ErrInvalidKeyFile, "InvalidKeyFile"},
	{codec.ErrInvalidCiphertextFile, "InvalidCiphertextFile"},
}

// KindOf names the failure kind of err, or returns "" when err is nil or
// not one of ours.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}
	return ""
}
