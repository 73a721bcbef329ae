// Package marketdata supplies per-symbol daily return series to the analysis
// engine, from Tiingo, a persistent cache or a deterministic generator.
package marketdata

import (
	"context"
	"time"

	"github.com/aristath/advisor/internal/domain"
)

const dateLayout = "2006-01-02"

// Provider returns the daily return series for one symbol
type Provider interface {
	Series(ctx context.Context, symbol string, r DateRange) (domain.ReturnSeries, error)
}

// ProviderFunc adapts a function to Provider
type ProviderFunc func(ctx context.Context, symbol string, r DateRange) (domain.ReturnSeries, error)

// Series implements Provider
func (f ProviderFunc) Series(ctx context.Context, symbol string, r DateRange) (domain.ReturnSeries, error) {
	return f(ctx, symbol, r)
}

// DateRange bounds a price history request. Zero values mean "provider default".
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses YYYY-MM-DD strings; empty strings leave the bound unset.
func ParseDateRange(start, end string) (DateRange, error) {
	var r DateRange
	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return r, domain.NewValidationError("startDate", "expected YYYY-MM-DD, got %q", start)
		}
		r.Start = t
	}
	if end != "" {
		t, err := time.Parse(dateLayout, end)
		if err != nil {
			return r, domain.NewValidationError("endDate", "expected YYYY-MM-DD, got %q", end)
		}
		r.End = t
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return r, domain.NewValidationError("endDate", "must not be before startDate")
	}
	return r, nil
}

// WithDefaults fills an unset start with defaultStart and an unset end with today.
func (r DateRange) WithDefaults(defaultStart time.Time, now time.Time) DateRange {
	if r.Start.IsZero() {
		r.Start = defaultStart
	}
	if r.End.IsZero() {
		r.End = now
	}
	return r
}

// Key renders the range for cache keys and logs
func (r DateRange) Key() string {
	return format(r.Start) + ".." + format(r.End)
}

func format(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}
