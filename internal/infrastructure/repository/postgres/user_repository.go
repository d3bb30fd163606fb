package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/panelcentral/backoffice/internal/domain/user"
	qb "github.com/panelcentral/backoffice/internal/platform/querybuilder"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u user.User) (user.User, error) {
	insertModel := userInsertModel{
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Capabilities: capabilitiesToArray(u.Capabilities),
		Status:       string(u.Status),
	}
	if u.AvatarURL != "" {
		insertModel.AvatarURL = &u.AvatarURL
	}
	query, args, err := qb.InsertModel("users", insertModel, "RETURNING id, created_at")
	if err != nil {
		return user.User{}, fmt.Errorf("build create user query: %w", err)
	}
	if err := r.db.QueryRowxContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt); err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return user.User{}, fmt.Errorf("create user: email already registered")
		}
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("id", id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (user.User, bool, error) {
	return r.getOne(ctx, qb.Eq("email", email))
}

func (r *UserRepository) getOne(ctx context.Context, cond qb.Condition) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").Where(cond).ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build get user query: %w", err)
	}
	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user: %w", err)
	}

	return userFromRow(row), true, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	query, args, err := qb.Select("*").From("users").
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list users query: %w", err)
	}

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, userFromRow(row))
	}
	return out, nil
}

func (r *UserRepository) Update(ctx context.Context, u user.User) error {
	builder := qb.Update("users").
		Set("name", u.Name).
		Set("email", u.Email).
		Set("role", string(u.Role)).
		Set("capabilities", capabilitiesToArray(u.Capabilities)).
		Set("status", string(u.Status)).
		Set("avatar_url", u.AvatarURL).
		Where(qb.Eq("id", u.ID))
	if u.PasswordHash != "" {
		builder = builder.Set("password_hash", u.PasswordHash)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return fmt.Errorf("build update user query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update user: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update user: not found")
	}

	return nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id int64, status user.Status) error {
	query, args, err := qb.Update("users").
		Set("status", string(status)).
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update user status query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected update user status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update user status: not found")
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := qb.DeleteFrom("users").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete user query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	return nil
}
