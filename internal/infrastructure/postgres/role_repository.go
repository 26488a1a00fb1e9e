package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
	"github.com/oksasatya/go-user-resource-api/internal/domain/repository"
)

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

var _ repository.RoleRepository = (*RoleRepository)(nil)

func (r *RoleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM user_roles WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

// Ensure returns the role called name, creating it on first use.
func (r *RoleRepository) Ensure(ctx context.Context, name string) (*entity.Role, error) {
	role := &entity.Role{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO user_roles (name)
		VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET updated_at = now()
		RETURNING id, name, created_at, updated_at
	`, name).Scan(&role.ID, &role.Name, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return role, nil
}
