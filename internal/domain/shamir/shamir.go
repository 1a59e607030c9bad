// Package shamir implements Shamir's Secret Sharing over the shared prime
// field: a secret is split into n shares such that any k reconstruct it
// exactly and fewer than k reveal nothing.
package shamir

import (
	"bytes"
	"errors"
	"fmt"
	"math/big"

	"github.com/quorumgate/quorumgate/internal/domain/field"
)

// MaxSecretBytes bounds the secret so that the framed integer stays below
// the field modulus.
const MaxSecretBytes = 64

// guardByte is prepended to the secret before integer conversion so that
// leading zero bytes survive the round-trip through the field.
const guardByte = 0x01

var (
	ErrInvalidThreshold   = errors.New("threshold must satisfy 1 <= k <= n")
	ErrSecretTooLarge     = errors.New("secret too large for field")
	ErrEmptySecret        = errors.New("secret is empty")
	ErrInsufficientShares = errors.New("insufficient shares for reconstruction")
	ErrDuplicateShareX    = errors.New("duplicate share x-coordinate")
	ErrMalformedShare     = errors.New("malformed share")
)

// Share is one point (x, y) of the splitting polynomial. X is unique per
// split; Y is a canonical field element. A share is held exclusively by the
// participant it was issued to.
type Share struct {
	X int      `json:"x"`
	Y *big.Int `json:"y"`
}

// Split splits secret into n shares with reconstruction threshold k.
// Coefficients come from crypto/rand; the polynomial is evaluated at
// x = 1..n. Any k of the returned shares reconstruct the secret; any
// smaller subset is information-theoretically independent of it.
func Split(secret []byte, k, n int) ([]Share, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	if len(secret) > MaxSecretBytes {
		return nil, ErrSecretTooLarge
	}
	if k < 1 || n < k {
		return nil, ErrInvalidThreshold
	}
	secretInt := encodeSecret(secret)
	if !field.Contains(secretInt) {
		return nil, ErrSecretTooLarge
	}

	// f(x) = secret + a1*x + ... + a(k-1)*x^(k-1)
	coefficients := make([]*big.Int, k)
	coefficients[0] = secretInt
	for i := 1; i < k; i++ {
		coefficient, err := field.Random()
		if err != nil {
			return nil, fmt.Errorf("generate coefficient: %w", err)
		}
		coefficients[i] = coefficient
	}

	shares := make([]Share, 0, n)
	for x := 1; x <= n; x++ {
		shares = append(shares, Share{
			X: x,
			Y: evaluate(coefficients, big.NewInt(int64(x))),
		})
	}
	return shares, nil
}

// Reconstruct recovers the secret from at least k shares via Lagrange
// interpolation at x=0. Only the first k supplied shares are used; callers
// should supply exactly k. Duplicate x-coordinates are rejected so that an
// ambiguous reconstruction can never silently succeed.
func Reconstruct(shares []Share, k int) ([]byte, error) {
	if k < 1 {
		return nil, ErrInvalidThreshold
	}
	if len(shares) < k {
		return nil, ErrInsufficientShares
	}
	shares = shares[:k]

	seen := make(map[int]struct{}, k)
	for _, share := range shares {
		if share.X < 1 || share.Y == nil || !field.Contains(share.Y) {
			return nil, ErrMalformedShare
		}
		if _, dup := seen[share.X]; dup {
			return nil, ErrDuplicateShareX
		}
		seen[share.X] = struct{}{}
	}

	secret := big.NewInt(0)
	for i := range shares {
		xi := big.NewInt(int64(shares[i].X))
		numerator := big.NewInt(1)
		denominator := big.NewInt(1)
		for j := range shares {
			if i == j {
				continue
			}
			xj := big.NewInt(int64(shares[j].X))
			numerator = field.Mul(numerator, field.Sub(big.NewInt(0), xj))
			denominator = field.Mul(denominator, field.Sub(xi, xj))
		}
		inverse, err := field.Inverse(denominator)
		if err != nil {
			// Distinct x-coordinates make the denominator nonzero; this
			// branch guards the invariant rather than a reachable state.
			return nil, ErrDuplicateShareX
		}
		basis := field.Mul(numerator, inverse)
		secret = field.Add(secret, field.Mul(shares[i].Y, basis))
	}

	return decodeSecret(secret)
}

// evaluate computes f(x) mod P for the polynomial given by coefficients in
// ascending degree order.
func evaluate(coefficients []*big.Int, x *big.Int) *big.Int {
	result := new(big.Int).Set(coefficients[0])
	xPower := new(big.Int).Set(x)
	for _, coefficient := range coefficients[1:] {
		result = field.Add(result, field.Mul(coefficient, xPower))
		xPower = field.Mul(xPower, x)
	}
	return field.Canonicalize(result)
}

func encodeSecret(secret []byte) *big.Int {
	framed := make([]byte, 0, len(secret)+1)
	framed = append(framed, guardByte)
	framed = append(framed, secret...)
	return new(big.Int).SetBytes(framed)
}

func decodeSecret(v *big.Int) ([]byte, error) {
	raw := v.Bytes()
	if len(raw) < 2 || raw[0] != guardByte {
		return nil, ErrMalformedShare
	}
	return bytes.Clone(raw[1:]), nil
}
