package repo

import (
	"context"

	dom "Camp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CampgroundRepo provides campground persistence. ReviewIDs on returned rows
// is derived from the reviews table at query time.
type CampgroundRepo interface {
	Create(ctx context.Context, c dom.Campground) (dom.Campground, error)
	GetByID(ctx context.Context, id int64) (dom.Campground, error)
	List(ctx context.Context) ([]dom.Campground, error)
	Update(ctx context.Context, id int64, patch dom.Campground) (dom.Campground, error)
	Delete(ctx context.Context, id int64) error
}

// PGCampgroundRepo implements CampgroundRepo with Postgres.
type PGCampgroundRepo struct {
	db *pgxpool.Pool
}

// NewPGCampgroundRepo returns a new PGCampgroundRepo.
func NewPGCampgroundRepo(db *pgxpool.Pool) *PGCampgroundRepo {
	return &PGCampgroundRepo{db: db}
}

// campgroundCols is the projection every query scans: row fields plus the
// aggregated review ids, ordered and unique by construction.
const campgroundCols = `
	c.id, c.title, c.image, c.price, c.owner_id, c.created_at, c.updated_at,
	COALESCE(array_agg(r.id ORDER BY r.id) FILTER (WHERE r.id IS NOT NULL), '{}')`

func (r *PGCampgroundRepo) Create(ctx context.Context, c dom.Campground) (dom.Campground, error) {
	query := `
		INSERT INTO campgrounds (title, image, price, owner_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, image, price, owner_id, created_at, updated_at`
	var out dom.Campground
	err := r.db.QueryRow(ctx, query, c.Title, c.Image, c.Price, c.OwnerID).Scan(
		&out.ID, &out.Title, &out.Image, &out.Price, &out.OwnerID,
		&out.CreatedAt, &out.UpdatedAt,
	)
	out.ReviewIDs = []int64{}
	return out, err
}

func (r *PGCampgroundRepo) GetByID(ctx context.Context, id int64) (dom.Campground, error) {
	query := `
		SELECT ` + campgroundCols + `
		FROM campgrounds c
		LEFT JOIN reviews r ON r.campground_id = c.id
		WHERE c.id = $1
		GROUP BY c.id`
	var c dom.Campground
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Title, &c.Image, &c.Price, &c.OwnerID,
		&c.CreatedAt, &c.UpdatedAt, &c.ReviewIDs,
	)
	return c, err
}

func (r *PGCampgroundRepo) List(ctx context.Context) ([]dom.Campground, error) {
	query := `
		SELECT ` + campgroundCols + `
		FROM campgrounds c
		LEFT JOIN reviews r ON r.campground_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Campground
	for rows.Next() {
		var c dom.Campground
		if err := rows.Scan(&c.ID, &c.Title, &c.Image, &c.Price, &c.OwnerID,
			&c.CreatedAt, &c.UpdatedAt, &c.ReviewIDs); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *PGCampgroundRepo) Update(ctx context.Context, id int64, patch dom.Campground) (dom.Campground, error) {
	query := `
		UPDATE campgrounds SET title = $2, image = $3, price = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, image, price, owner_id, created_at, updated_at`
	var c dom.Campground
	err := r.db.QueryRow(ctx, query, id, patch.Title, patch.Image, patch.Price).Scan(
		&c.ID, &c.Title, &c.Image, &c.Price, &c.OwnerID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// Delete removes the campground. The reviews FK is ON DELETE CASCADE, so its
// children go with it; no orphan can survive the parent.
func (r *PGCampgroundRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM campgrounds WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
