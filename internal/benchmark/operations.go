package benchmark

import (
	"bytes"
	"errors"

	"github.com/user/rsafile/internal/cipher"
	"github.com/user/rsafile/internal/keypair"
)

var errLossyRoundTrip = errors.New("round trip did not recover the payload")

// KeygenOperation derives a keypair seeded by the payload.
type KeygenOperation struct{}

func (k *KeygenOperation) Name() string {
	return "keygen"
}

func (k *KeygenOperation) Run(src keypair.Source, payload []byte) error {
	_, err := keypair.FromSeedBytes(src, payload)
	return err
}

// EncryptOperation derives a keypair and encrypts the payload with it.
type EncryptOperation struct{}

func (e *EncryptOperation) Name() string {
	return "encrypt"
}

func (e *EncryptOperation) Run(src keypair.Source, payload []byte) error {
	kp, err := keypair.FromSeedBytes(src, payload)
	if err != nil {
		return err
	}
	cipher.EncryptBuffer(payload, kp.E, kp.N)
	return nil
}

// RoundTripOperation encrypts and decrypts the payload. A key too small to
// carry every byte counts as an error.
type RoundTripOperation struct{}

func (r *RoundTripOperation) Name() string {
	return "roundtrip"
}

func (r *RoundTripOperation) Run(src keypair.Source, payload []byte) error {
	kp, err := keypair.FromSeedBytes(src, payload)
	if err != nil {
		return err
	}
	units := cipher.EncryptBuffer(payload, kp.E, kp.N)
	if !bytes.Equal(cipher.DecryptBuffer(units, kp.D, kp.N), payload) {
		return errLossyRoundTrip
	}
	return nil
}
