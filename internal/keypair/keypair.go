package keypair

import (
	"errors"
	"fmt"

	"github.com/user/rsafile/internal/numtheory"
)

var (
	ErrKeyGeneration = errors.New("key generation failed")
	ErrPrivateKey    = errors.New("private key generation failed")
	ErrInputTooShort = errors.New("input must contain at least 2 bytes")
)

// Keypair is a toy RSA keypair. It is never mutated after Generate.
type Keypair struct {
	P      int64 `json:"p"`
	Q      int64 `json:"q"`
	N      int64 `json:"n"`
	Lambda int64 `json:"lambda"`
	E      int64 `json:"e"`
	D      int64 `json:"d"`
}

// DerivePublicKey returns n = p*q and the smallest prime e >= 2 coprime to
// (p-1)*(q-1).
func DerivePublicKey(p, q int64) (n, e int64, err error) {
	n = p * q
	lambda := (p - 1) * (q - 1)

	e = 2
	for e < lambda && (!numtheory.IsPrime(int32(e)) || numtheory.GCD(int32(e), int32(lambda)) != 1) {
		e++
	}
	if e >= lambda {
		return 0, 0, fmt.Errorf("%w: no public exponent below lambda=%d", ErrKeyGeneration, lambda)
	}
	return n, e, nil
}

// DerivePrivateKey searches d = 1, 2, ... for (d*e) mod lambda == 1 and
// gives up once d passes lambda.
func DerivePrivateKey(p, q, e, lambda int64) (int64, error) {
	if lambda <= 0 {
		return 0, fmt.Errorf("%w: lambda=%d for p=%d q=%d", ErrPrivateKey, lambda, p, q)
	}
	d := int64(1)
	for (d*e)%lambda != 1 {
		d++
		if d > lambda {
			return 0, fmt.Errorf("%w: e=%d has no inverse modulo %d", ErrPrivateKey, e, lambda)
		}
	}
	return d, nil
}

// Generate builds a keypair from two primes seeded by seed1 and seed2.
func Generate(src Source, seed1, seed2 int) (*Keypair, error) {
	p := MakePrime(src, seed1)
	q := MakePrime(src, seed2)
	return FromPrimes(p, q)
}

// FromPrimes derives the rest of a keypair from p and q.
func FromPrimes(p, q int64) (*Keypair, error) {
	n, e, err := DerivePublicKey(p, q)
	if err != nil {
		return nil, err
	}
	lambda := (p - 1) * (q - 1)
	d, err := DerivePrivateKey(p, q, e, lambda)
	if err != nil {
		return nil, err
	}
	return &Keypair{P: p, Q: q, N: n, Lambda: lambda, E: e, D: d}, nil
}

// FromSeedBytes seeds the generator with data[0]%10 and data[1]%10.
func FromSeedBytes(src Source, data []byte) (*Keypair, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInputTooShort, len(data))
	}
	return Generate(src, int(data[0])%10, int(data[1])%10)
}

// Validate checks n = p*q and d*e = 1 mod lambda.
func (k *Keypair) Validate() error {
	if k.N != k.P*k.Q {
		return fmt.Errorf("n=%d is not p*q=%d", k.N, k.P*k.Q)
	}
	if k.Lambda != (k.P-1)*(k.Q-1) {
		return fmt.Errorf("lambda=%d is not (p-1)*(q-1)", k.Lambda)
	}
	if k.Lambda <= 1 || numtheory.ModMul(k.D, k.E, k.Lambda) != 1 {
		return fmt.Errorf("d=%d is not the inverse of e=%d modulo %d", k.D, k.E, k.Lambda)
	}
	return nil
}
