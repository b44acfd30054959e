package geoip

import "context"

// LookupResult is the result of a single location description.
type LookupResult = string

// Valid lookup results.
const (
	LookupResultFound    LookupResult = "found"
	LookupResultNotFound LookupResult = "not_found"
	LookupResultLocal    LookupResult = "local"
	LookupResultError    LookupResult = "error"
)

// Metrics is an interface that is used for the collection of the GeoIP database
// statistics.
type Metrics interface {
	// HandleASNUpdateStatus updates the GeoIP ASN database update status.
	HandleASNUpdateStatus(ctx context.Context, err error)

	// HandleLocationUpdateStatus updates the GeoIP location database update
	// status.
	HandleLocationUpdateStatus(ctx context.Context, err error)

	// IncrementLookups increments the number of address descriptions with the
	// given result.
	IncrementLookups(ctx context.Context, res LookupResult)
}

// EmptyMetrics is the implementation of the [Metrics] interface that does
// nothing.
type EmptyMetrics struct{}

// type check
var _ Metrics = EmptyMetrics{}

// HandleASNUpdateStatus implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) HandleASNUpdateStatus(_ context.Context, _ error) {}

// HandleLocationUpdateStatus implements the [Metrics] interface for
// EmptyMetrics.
func (EmptyMetrics) HandleLocationUpdateStatus(_ context.Context, _ error) {}

// IncrementLookups implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) IncrementLookups(_ context.Context, _ LookupResult) {}
