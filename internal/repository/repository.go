// Package repository defines the storage interfaces the service layer
// depends on. Implementations live in subpackages (sqlite); tests inject
// in-memory mocks. The service never sees a concrete database type.
package repository

import (
	"context"

	"github.com/sakif/sweet-shop/internal/model"
)

// SweetFilter holds the optional, conjunctive search predicates.
//
// Name matches as a case-insensitive substring. Category is an exact match
// (callers lower-case the input first). Price bounds are inclusive and use
// pointers so "no bound" is distinguishable from a bound of zero. The zero
// SweetFilter matches everything.
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// SweetRepository is the narrow read/write interface over the sweets
// collection.
//
// Create and Update must fail with apperror.ErrConflict when the unique
// name constraint is violated; the store-level constraint is the
// authoritative uniqueness guard, the service's pre-check is only an early
// rejection. DecrementStock must be atomic: the sufficiency check and the
// decrement happen as one conditional operation so concurrent purchases can
// never jointly overdraw an item.
type SweetRepository interface {
	Create(ctx context.Context, sweet *model.Sweet) error
	GetByID(ctx context.Context, id string) (*model.Sweet, error)
	GetByName(ctx context.Context, name string) (*model.Sweet, error)
	List(ctx context.Context, filter SweetFilter) ([]model.Sweet, error)
	Update(ctx context.Context, sweet *model.Sweet) error
	Delete(ctx context.Context, id string) error

	// DecrementStock atomically subtracts qty from the item's quantity,
	// guarded by quantity >= qty. Returns the updated record, or
	// ErrInsufficientStock / ErrNotFound.
	DecrementStock(ctx context.Context, id string, qty int) (*model.Sweet, error)

	// IncrementStock atomically adds qty to the item's quantity.
	// Returns the updated record, or ErrNotFound.
	IncrementStock(ctx context.Context, id string, qty int) (*model.Sweet, error)
}

// UserRepository is the identity store the auth service and middleware
// depend on.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}
