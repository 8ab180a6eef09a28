// Package interfaces defines service contracts for ValutaHub
package interfaces

import (
	"context"

	"github.com/valutatrade/valutahub/internal/models"
)

// RateSource is one external rate provider. Implementations are independent:
// one failing must not prevent others from contributing, and a source with
// nothing to price returns an empty result rather than an error.
type RateSource interface {
	// SourceName identifies the source for logging and merge provenance.
	SourceName() string

	// FetchRates performs one bounded-timeout call and normalizes every
	// successful quote into the "{CODE}_USD" -> USD-per-unit convention.
	FetchRates(ctx context.Context) (*models.FetchResult, error)
}
