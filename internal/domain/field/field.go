// Package field implements modular arithmetic over the fixed prime field
// shared by all secret-sharing operations.
package field

import (
	"crypto/rand"
	"errors"
	"math/big"
)

// Modulus is the field prime P = 2^521 - 1 (Mersenne). Every element and
// every secret integer must be strictly less than P.
var Modulus = newModulus()

func newModulus() *big.Int {
	p := new(big.Int).Lsh(big.NewInt(1), 521)
	return p.Sub(p, big.NewInt(1))
}

var (
	// ErrNotInvertible is returned when an inverse is requested for an
	// element with no inverse mod P (only zero, since P is prime).
	ErrNotInvertible = errors.New("element is not invertible")
	// ErrOutOfRange is returned when an input is negative or >= P.
	ErrOutOfRange = errors.New("value outside field range")
)

// Canonicalize reduces v into [0, P). Negative intermediates map to their
// positive residue; the public boundary never returns a negative value.
func Canonicalize(v *big.Int) *big.Int {
	out := new(big.Int).Mod(v, Modulus)
	if out.Sign() < 0 {
		out.Add(out, Modulus)
	}
	return out
}

// Add returns (a + b) mod P.
func Add(a, b *big.Int) *big.Int {
	return Canonicalize(new(big.Int).Add(a, b))
}

// Sub returns (a - b) mod P.
func Sub(a, b *big.Int) *big.Int {
	return Canonicalize(new(big.Int).Sub(a, b))
}

// Mul returns (a * b) mod P.
func Mul(a, b *big.Int) *big.Int {
	return Canonicalize(new(big.Int).Mul(a, b))
}

// Inverse returns a^-1 mod P. Fails with ErrNotInvertible for a ≡ 0.
func Inverse(a *big.Int) (*big.Int, error) {
	reduced := Canonicalize(a)
	if reduced.Sign() == 0 {
		return nil, ErrNotInvertible
	}
	inv := new(big.Int).ModInverse(reduced, Modulus)
	if inv == nil {
		return nil, ErrNotInvertible
	}
	return inv, nil
}

// Contains reports whether v is a canonical field element.
func Contains(v *big.Int) bool {
	return v != nil && v.Sign() >= 0 && v.Cmp(Modulus) < 0
}

// Random returns a uniformly random field element from crypto/rand.
func Random() (*big.Int, error) {
	return rand.Int(rand.Reader, Modulus)
}
