// Package numtheory holds the small-integer arithmetic behind the toy RSA
// scheme: digit counting, decimal conversion, gcd, trial-division primality
// and modular exponentiation.
//
// Everything here works on native fixed-width integers. Nothing is constant
// time and nothing is meant for real keys.
package numtheory
