// Package secrets exposes splitting and reconstruction to callers. Share
// and secret material never reaches the logs; only short blake2b
// fingerprints do.
package secrets

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/quorumgate/quorumgate/internal/domain/shamir"
)

// Service handles secret splitting operations.
type Service struct {
	logger zerolog.Logger
}

// NewService creates a new secrets service.
func NewService(logger zerolog.Logger) *Service {
	return &Service{logger: logger.With().Str("service", "secrets").Logger()}
}

// Fingerprint returns a short non-reversible identifier for secret bytes,
// safe for logs and audit trails.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:8])
}

// Split splits a secret into n shares with reconstruction threshold k.
func (s *Service) Split(ctx context.Context, secret []byte, k, n int) ([]shamir.Share, error) {
	shares, err := shamir.Split(secret, k, n)
	if err != nil {
		return nil, fmt.Errorf("split secret: %w", err)
	}
	s.logger.Info().
		Str("secret", Fingerprint(secret)).
		Int("threshold", k).
		Int("total", n).
		Msg("secret split")
	return shares, nil
}

// Reconstruct recovers a secret from the supplied shares, treating their
// count as the threshold. Callers should pass exactly k shares.
func (s *Service) Reconstruct(ctx context.Context, shares []shamir.Share) ([]byte, error) {
	secret, err := shamir.Reconstruct(shares, len(shares))
	if err != nil {
		return nil, fmt.Errorf("reconstruct secret: %w", err)
	}
	s.logger.Info().
		Str("secret", Fingerprint(secret)).
		Int("shares", len(shares)).
		Msg("secret reconstructed")
	return secret, nil
}
