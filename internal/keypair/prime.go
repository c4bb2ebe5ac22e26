package keypair

import "github.com/user/rsafile/internal/numtheory"

// NormalizeSeed reduces seed to a digit 1-9, mapping 0 to 3.
func NormalizeSeed(seed int) int {
	seed %= 10
	if seed < 0 {
		seed = -seed
	}
	if seed == 0 {
		seed = 3
	}
	return seed
}

// MakePrime draws a in [1, seed*10] and b in [9, 99] and walks down from
// a*b to the first value IsPrime accepts. The walk never goes below 3.
func MakePrime(src Source, seed int) int64 {
	seed = NormalizeSeed(seed)

	a := int64(src.Intn(seed*10)) + 1
	b := int64(9 + src.Intn(100-9))
	maybe := a * b

	for maybe > 2 && !numtheory.IsPrime(int32(maybe)) {
		maybe--
		if maybe < 3 {
			maybe = 3
		}
	}
	return maybe
}
