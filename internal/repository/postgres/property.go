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

const propertyColumns = `id, owner_id, owner_email, name, description, location, image_url, price_cents, status, rejection_reason, removed_by_admin, created_at, updated_at`

type propertyRepository struct {
	db *sql.DB
}

func NewPropertyRepository(db *sql.DB) repository.PropertyRepository {
	return &propertyRepository{db: db}
}

func scanProperty(row rowScanner) (*domain.Property, error) {
	p := &domain.Property{}
	err := row.Scan(&p.ID, &p.OwnerID, &p.OwnerEmail, &p.Name, &p.Description, &p.Location, &p.ImageURL,
		&p.PriceCents, &p.Status, &p.RejectionReason, &p.RemovedByAdmin, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	logger.DatabaseCall("INSERT", "properties", "ownerID", p.OwnerID)
	query := `INSERT INTO properties (owner_id, owner_email, name, description, location, image_url, price_cents, status, rejection_reason, removed_by_admin, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return r.db.QueryRowContext(ctx, query, p.OwnerID, p.OwnerEmail, p.Name, p.Description, p.Location, p.ImageURL,
		p.PriceCents, p.Status, p.RejectionReason, p.RemovedByAdmin, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
}

func (r *propertyRepository) GetByID(ctx context.Context, id int32) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	p, err := scanProperty(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property) error {
	logger.DatabaseCall("UPDATE", "properties", "propertyID", p.ID, "status", p.Status)
	query := `UPDATE properties SET name=$1, description=$2, location=$3, image_url=$4, price_cents=$5, status=$6,
	          rejection_reason=$7, removed_by_admin=$8, updated_at=$9 WHERE id=$10`
	p.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, p.Name, p.Description, p.Location, p.ImageURL, p.PriceCents, p.Status,
		p.RejectionReason, p.RemovedByAdmin, p.UpdatedAt, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id int32) error {
	logger.DatabaseCall("DELETE", "properties", "propertyID", id)
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *propertyRepository) ListPublic(ctx context.Context, query string, page, pageSize int32) ([]domain.Property, int32, error) {
	where := ` FROM properties WHERE status = 'approved' AND removed_by_admin = FALSE`
	args := []any{}
	if query != "" {
		args = append(args, "%"+query+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR description ILIKE $%d OR location ILIKE $%d)", len(args), len(args), len(args))
	}
	return r.listPage(ctx, where, args, page, pageSize)
}

func (r *propertyRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProperties(rows)
}

func (r *propertyRepository) List(ctx context.Context, status string, page, pageSize int32) ([]domain.Property, int32, error) {
	where := ` FROM properties WHERE 1=1`
	args := []any{}
	if status != "" {
		args = append(args, status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	return r.listPage(ctx, where, args, page, pageSize)
}

func (r *propertyRepository) listPage(ctx context.Context, where string, args []any, page, pageSize int32) ([]domain.Property, int32, error) {
	limit, offset := paginate(page, pageSize)

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*)`+where, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + propertyColumns + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	props, err := collectProperties(rows)
	if err != nil {
		return nil, 0, err
	}
	return props, count, nil
}

func collectProperties(rows *sql.Rows) ([]domain.Property, error) {
	var props []domain.Property
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, *p)
	}
	return props, rows.Err()
}
