package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
)

// ErrNotFound is returned when no row matches the lookup.
var ErrNotFound = errors.New("not found")

// ErrEmailTaken is returned by Create/Update when the email unique constraint fires.
var ErrEmailTaken = errors.New("email already taken")

// ErrRoleNotFound is returned by Create/Update when role_id references no role.
var ErrRoleNotFound = errors.New("role not found")

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// List returns users ordered by id together with the total row count.
	List(ctx context.Context, limit, offset int) ([]entity.User, int64, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// EmailTaken reports whether another row (id != exceptID) already uses email.
	EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error)
	Create(ctx context.Context, u *entity.User) error
	Update(ctx context.Context, u *entity.User) error
	Delete(ctx context.Context, id int64) error
}

// RoleRepository exposes the role lookups users depend on.
type RoleRepository interface {
	Exists(ctx context.Context, id int64) (bool, error)
	Ensure(ctx context.Context, name string) (*entity.Role, error)
}
