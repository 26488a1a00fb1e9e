package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-user-resource-api/internal/domain/entity"
	"github.com/oksasatya/go-user-resource-api/internal/domain/repository"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

const userColumns = `id, name, email, age, role_id, membership_status::text, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ repository.UserRepository = (*UserRepository)(nil)

// List returns one page ordered by id together with the total row count.
// Both reads share one repeatable-read snapshot so total always matches data.
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	var (
		users []entity.User
		total int64
	)
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := pgx.BeginTxFunc(ctx, r.pool, opts, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
			return err
		}

		rows, err := tx.Query(ctx, `
			SELECT `+userColumns+`
			FROM users
			ORDER BY id
			LIMIT $1 OFFSET $2
		`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()

		users = make([]entity.User, 0, limit)
		for rows.Next() {
			var u entity.User
			if err := scanUser(rows, &u); err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`, password_hash
		FROM users
		WHERE id = $1
	`, id)
	if err := scanUser(row, u, &u.Password); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`, password_hash
		FROM users
		WHERE lower(email) = lower($1)
	`, email)
	if err := scanUser(row, u, &u.Password); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) EmailTaken(ctx context.Context, email string, exceptID int64) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1) AND id <> $2)
	`, email, exceptID).Scan(&taken)
	return taken, err
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	status := u.MembershipStatus
	if !status.Valid() {
		status = entity.MembershipBasic
	}
	var ms string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, age, role_id, membership_status)
		VALUES ($1, $2, $3, $4, $5, $6::text::membership_status)
		RETURNING id, membership_status::text, created_at, updated_at
	`, u.Name, u.Email, u.Password, u.Age, u.RoleID, string(status)).
		Scan(&u.ID, &ms, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapConstraint(err)
	}
	u.MembershipStatus = entity.MembershipStatus(ms)
	return nil
}

// Update writes the mutable profile columns; the password hash is left alone.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	err := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $1, email = $2, age = $3, role_id = $4, updated_at = now()
		WHERE id = $5
		RETURNING updated_at
	`, u.Name, u.Email, u.Age, u.RoleID, u.ID).Scan(&u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return mapConstraint(err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row, u *entity.User, extra ...any) error {
	var ms string
	dest := append([]any{&u.ID, &u.Name, &u.Email, &u.Age, &u.RoleID, &ms, &u.CreatedAt, &u.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	u.MembershipStatus = entity.MembershipStatus(ms)
	return nil
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case codeUniqueViolation:
		return repository.ErrEmailTaken
	case codeForeignKeyViolation:
		return repository.ErrRoleNotFound
	}
	return err
}
