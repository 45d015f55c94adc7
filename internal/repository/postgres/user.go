package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"renthub-backend/internal/domain"
	"renthub-backend/internal/logger"
	"renthub-backend/internal/repository"
)

const userColumns = `id, email, name, phone, avatar_url, role, blocked, deleted, created_at, updated_at`

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.Phone, &u.AvatarURL, &u.Role, &u.Blocked, &u.Deleted, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	logger.DatabaseCall("INSERT", "users", "email", u.Email, "role", u.Role)
	query := `INSERT INTO users (email, name, phone, avatar_url, role, blocked, deleted, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	err := r.db.QueryRowContext(ctx, query, u.Email, u.Name, u.Phone, u.AvatarURL, u.Role, u.Blocked, u.Deleted, u.CreatedAt, u.UpdatedAt).Scan(&u.ID)
	logger.DatabaseResult("INSERT users", 1, err, "userID", u.ID)
	return err
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	logger.DatabaseCall("UPDATE", "users", "userID", u.ID)
	query := `UPDATE users SET name=$1, phone=$2, avatar_url=$3, role=$4, blocked=$5, deleted=$6, updated_at=$7 WHERE id=$8`
	u.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, u.Name, u.Phone, u.AvatarURL, u.Role, u.Blocked, u.Deleted, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, role, query string, page, pageSize int32) ([]domain.User, int32, error) {
	limit, offset := paginate(page, pageSize)
	where := ` FROM users WHERE deleted = FALSE`
	args := []any{}
	if role != "" {
		args = append(args, role)
		where += fmt.Sprintf(" AND role = $%d", len(args))
	}
	if query != "" {
		args = append(args, "%"+query+"%")
		where += fmt.Sprintf(" AND (email ILIKE $%d OR name ILIKE $%d)", len(args), len(args))
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*)`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	sqlQuery := `SELECT ` + userColumns + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, sqlQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, count, rows.Err()
}
