package dao

import (
	"context"
)

// Service represents a record store keyed by K
type Service[K comparable, T any] interface {
	Save(ctx context.Context, t *T) error

	Load(ctx context.Context, id K) (*T, error)

	Delete(ctx context.Context, id K) error

	// List returns records in the order they were first saved
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
