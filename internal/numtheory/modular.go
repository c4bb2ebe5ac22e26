package numtheory

// ModMul returns (a*b) mod m by doubling a and halving b, so no
// intermediate exceeds 2*m. Negative b yields 0.
func ModMul(a, b, m int64) int64 {
	var result int64
	a %= m
	for b > 0 {
		if b%2 == 1 {
			result = (result + a) % m
		}
		a = (2 * a) % m
		b /= 2
	}
	return result
}

// ModPow returns base^exp mod m by square-and-multiply. Products are taken
// directly on int64 and wrap modulo 2^64 once m exceeds about 3.03e9. An
// exp of zero or below returns 1.
func ModPow(base, exp, m int64) int64 {
	result := int64(1)
	base %= m
	for exp > 0 {
		if exp%2 == 1 {
			result = (result * base) % m
		}
		exp /= 2
		base = (base * base) % m
	}
	return result
}

// ModPowWide is ModPow with every product routed through ModMul. It stays
// exact for non-negative operands and m below 2^62.
func ModPowWide(base, exp, m int64) int64 {
	result := int64(1)
	base %= m
	for exp > 0 {
		if exp%2 == 1 {
			result = ModMul(result, base, m)
		}
		exp /= 2
		base = ModMul(base, base, m)
	}
	return result
}
