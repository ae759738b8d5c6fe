// Package store persists learnt Q tables, on disk or in redis.
package store

import (
	"context"
	"errors"

	"github.com/zeu5/mixing-rl/types"
)

// ErrNotFound is returned by Load when nothing was saved at the location
var ErrNotFound = errors.New("q table not found")

// Store saves and loads a single table
type Store interface {
	Save(context.Context, *types.QTable) error
	// Load decodes the saved table, which must have exactly the given dimensions
	Load(ctx context.Context, states, actions int) (*types.QTable, error)
	// Location describes where the table lives, for logs
	Location() string
}
