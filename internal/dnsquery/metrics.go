package dnsquery

import (
	"context"
	"time"
)

// QueryResult is the result of a single query.
type QueryResult = string

// Valid query results.
const (
	QueryResultSuccess  QueryResult = "success"
	QueryResultNXDomain QueryResult = "nxdomain"
	QueryResultError    QueryResult = "error"
)

// Metrics is an interface that is used for the collection of the DNS query
// statistics.
type Metrics interface {
	// ObserveQuery records a finished query of the type qt with the result res
	// that took dur.
	ObserveQuery(ctx context.Context, qt string, res QueryResult, dur time.Duration)
}

// EmptyMetrics is the implementation of the [Metrics] interface that does
// nothing.
type EmptyMetrics struct{}

// type check
var _ Metrics = EmptyMetrics{}

// ObserveQuery implements the [Metrics] interface for EmptyMetrics.
func (EmptyMetrics) ObserveQuery(_ context.Context, _ string, _ QueryResult, _ time.Duration) {}
