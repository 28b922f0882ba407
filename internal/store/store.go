// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/ashureev/propuesta/internal/domain"
)

// Repository defines the interface for persisting visitor responses.
type Repository interface {
	// EnsureSchema creates the responses table if it does not exist.
	// Safe to call any number of times.
	EnsureSchema(ctx context.Context) error

	// InsertResponse appends one record and returns its generated ID.
	InsertResponse(ctx context.Context, resp *domain.Response) (int64, error)

	// ListResponses returns every record, newest (highest ID) first.
	ListResponses(ctx context.Context) ([]domain.Response, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
