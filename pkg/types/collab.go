package types

import (
	"context"

	"github.com/shopspring/decimal"
)

// User is the authenticated caller as reported by the Identity provider.
type User struct {
	ID   string
	Name string
}

// Identity is the authentication collaborator. Every store operation checks
// the current user against the owner namespace before any I/O; the provider
// itself (sessions, token refresh) lives outside this module.
type Identity interface {
	// CurrentUser returns the authenticated user, or ErrPermissionDenied
	// when nobody is signed in.
	CurrentUser() (*User, error)
}

// StaticIdentity is an Identity fixed to one user, for the CLI and tests.
type StaticIdentity struct {
	User User
}

func (s StaticIdentity) CurrentUser() (*User, error) {
	if s.User.ID == "" {
		return nil, ErrPermissionDenied
	}
	u := s.User
	return &u, nil
}

// PriceSource is the instrument price lookup collaborator. It feeds only
// the portfolio aggregate; everything else works without it.
type PriceSource interface {
	// Prices returns current prices for the given tickers. Missing
	// tickers are simply absent from the result.
	Prices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error)
}

// StaticPrices is a PriceSource backed by a fixed table, for the CLI and
// tests.
type StaticPrices map[string]decimal.Decimal

func (s StaticPrices) Prices(_ context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(tickers))
	for _, t := range tickers {
		if p, ok := s[t]; ok {
			out[t] = p
		}
	}
	return out, nil
}

// NarrativeGenerator is the optional AI text collaborator. Its output is
// cached narrative text only; core correctness never depends on it.
type NarrativeGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
