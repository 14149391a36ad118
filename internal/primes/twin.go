package primes

import (
	"errors"
	"fmt"
)

const (
	DefaultMin = 95500
	DefaultMax = 96000
)

var ErrNoTwinPrimeInRange = errors.New("no twin primes in range")

func IsPrime(n int) bool {
	if n < 2 {
		return false
	}
	for i := 2; i*i <= n; i++ {
		if n%i == 0 {
			return false
		}
	}
	return true
}

// FindTwinPrime scans upward from min for the first pair (p, p+2) of
// primes inside [min, max] and returns p+2.
func FindTwinPrime(min, max int) (int, error) {
	for p := min; p <= max-2; p++ {
		if IsPrime(p) && IsPrime(p+2) {
			return p + 2, nil
		}
	}
	return 0, fmt.Errorf("%w [%d, %d]", ErrNoTwinPrimeInRange, min, max)
}
