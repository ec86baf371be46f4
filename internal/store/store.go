// Package store provides read-only access to bill metadata records.
package store

import (
	"context"
	"errors"

	"github.com/vijay-prabhu/billsample/internal/bill"
)

// ErrUnparseable wraps errors for records that exist but cannot be decoded
var ErrUnparseable = errors.New("unparseable bill metadata")

// Store defines the interface for bill metadata sources
type Store interface {
	// Name returns the store identifier
	Name() string

	// List returns every bill ID in discovery order
	List(ctx context.Context) ([]string, error)

	// Get retrieves a single bill by ID. It returns nil, nil when the bill
	// has no metadata.
	Get(ctx context.Context, id string) (*bill.Record, error)
}
