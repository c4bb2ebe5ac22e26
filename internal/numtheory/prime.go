package numtheory

import "math"

// GCD returns the greatest common divisor of a and b using Euclid's
// algorithm. GCD(a, 0) is a.
func GCD(a, b int32) int32 {
	if b == 0 {
		return a
	}
	return GCD(b, a%b)
}

// IsPrime reports whether |v| is prime by trial division with odd divisors
// up to floor(sqrt(|v|)).
func IsPrime(v int32) bool {
	n := int64(v)
	if n < 0 {
		n = -n
	}
	if n < 2 || (n > 2 && n%2 == 0) {
		return false
	}
	if n == 2 {
		return true
	}
	limit := int64(math.Sqrt(float64(n)))
	for i := int64(3); i <= limit; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
