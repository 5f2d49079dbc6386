package groups

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lanave/cuadre/internal/platform/httpx"
)

type Repository interface {
	List(ctx context.Context) ([]Group, error)
	Get(ctx context.Context, id string) (Group, error)
	Create(ctx context.Context, group Group) (Group, error)
	Update(ctx context.Context, id string, group Group) error
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Group, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, COALESCE(description,''), created_at, updated_at FROM agency_groups ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id string) (Group, error) {
	var g Group
	err := r.db.QueryRow(ctx, `SELECT id, name, COALESCE(description,''), created_at, updated_at FROM agency_groups WHERE id = $1`, id).
		Scan(&g.ID, &g.Name, &g.Description, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Group{}, httpx.ErrNotFound
	}
	return g, err
}

func (r *repository) Create(ctx context.Context, group Group) (Group, error) {
	group.ID = uuid.NewString()
	err := r.db.QueryRow(ctx, `INSERT INTO agency_groups (id, name, description) VALUES ($1, $2, $3) RETURNING created_at, updated_at`,
		group.ID, group.Name, group.Description).Scan(&group.CreatedAt, &group.UpdatedAt)
	return group, err
}

func (r *repository) Update(ctx context.Context, id string, group Group) error {
	tag, err := r.db.Exec(ctx, `UPDATE agency_groups SET name = $1, description = $2, updated_at = now() WHERE id = $3`,
		group.Name, group.Description, id)
	if err == nil && tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM agency_groups WHERE id = $1`, id)
	if err == nil && tag.RowsAffected() == 0 {
		return httpx.ErrNotFound
	}
	return err
}
