package reference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// ErrNotFound is returned by an IdentifierResolver when nothing matches the query.
var ErrNotFound = errors.New("identifier not found")

// IdentifierResolver looks up the market-data symbol of an instrument, typically from its ISIN.
type IdentifierResolver interface {
	ResolveIdentifier(ctx context.Context, query string) (string, error)
}

// Profile is the classification of a listed company.
type Profile struct {
	Sector   string
	Industry string
	Shares   float64 // shares outstanding, NaN when unknown
}

// ProfileProvider looks up the Profile of a market-data symbol.
type ProfileProvider interface {
	Profile(ctx context.Context, symbol string) (Profile, error)
}

// UnknownProfile returns a Profile with no information.
func UnknownProfile() Profile { return Profile{Shares: math.NaN()} }

// ResolveWithRetry calls r up to maxTries times, waiting 'wait' between attempts.
//
// ErrNotFound is final and is not retried: only transient failures are.
func ResolveWithRetry(ctx context.Context, r IdentifierResolver, query string, maxTries int, wait time.Duration, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	maxTries = max(maxTries, 1)
	var err error
	for try := 1; try <= maxTries; try++ {
		var symbol string
		symbol, err = r.ResolveIdentifier(ctx, query)
		if err == nil {
			return symbol, nil
		}
		if errors.Is(err, ErrNotFound) {
			return "", err
		}
		log.Warn("identifier resolution failed", zap.String("query", query), zap.Int("try", try), zap.Error(err))
		if try == maxTries {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(wait):
		}
	}
	return "", fmt.Errorf("cannot resolve %q after %d tries: %w", query, maxTries, err)
}
