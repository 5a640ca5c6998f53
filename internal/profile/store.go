// File: internal/profile/store.go
package profile

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Store lookups when no profile exists for the key.
var ErrNotFound = errors.New("profile not found")

// CreateRequest is the payload for creating a profile in the store.
type CreateRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,max=255"`
	Role  string `json:"role" binding:"required,oneof=client barber admin"`
	Phone string `json:"phone,omitempty" binding:"omitempty,max=50"`
}

// Store is the capability interface over the canonical profile record store.
// The store is the single source of truth; the session core never caches
// its contents beyond the currently published session.
type Store interface {
	// FindByEmail performs a point lookup. Returns ErrNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*Profile, error)
	// Create creates a profile. The store is expected to be idempotent by
	// email: creating an existing email yields the canonical record.
	Create(ctx context.Context, req CreateRequest) (*Profile, error)
}
