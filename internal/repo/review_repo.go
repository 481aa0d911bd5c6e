package repo

import (
	"context"

	dom "Camp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewRepo provides review persistence. Attach and detach run inside a
// transaction that locks the parent row, so the review row and the parent's
// derived review list change as one unit even under concurrent writers.
type ReviewRepo interface {
	ListByCampground(ctx context.Context, campgroundID int64) ([]dom.Review, error)
	CreateUnderParent(ctx context.Context, campgroundID int64, body string, rating int) (dom.Review, error)
	DeleteFromParent(ctx context.Context, campgroundID, reviewID int64) error
}

// PGReviewRepo implements ReviewRepo with Postgres.
type PGReviewRepo struct {
	db *pgxpool.Pool
}

// NewPGReviewRepo returns a new PGReviewRepo.
func NewPGReviewRepo(db *pgxpool.Pool) *PGReviewRepo {
	return &PGReviewRepo{db: db}
}

func (r *PGReviewRepo) ListByCampground(ctx context.Context, campgroundID int64) ([]dom.Review, error) {
	query := `
		SELECT id, body, rating, campground_id, created_at
		FROM reviews WHERE campground_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, campgroundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Review
	for rows.Next() {
		var rv dom.Review
		if err := rows.Scan(&rv.ID, &rv.Body, &rv.Rating, &rv.CampgroundID, &rv.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, rv)
	}
	return list, rows.Err()
}

// CreateUnderParent inserts a review under an existing campground. The parent
// row is locked first: a missing parent surfaces as pgx.ErrNoRows, and a
// concurrent parent delete waits for the commit instead of racing the insert.
func (r *PGReviewRepo) CreateUnderParent(ctx context.Context, campgroundID int64, body string, rating int) (dom.Review, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Review{}, err
	}
	defer tx.Rollback(ctx)

	if err := lockCampground(ctx, tx, campgroundID); err != nil {
		return dom.Review{}, err
	}

	query := `
		INSERT INTO reviews (body, rating, campground_id)
		VALUES ($1, $2, $3)
		RETURNING id, body, rating, campground_id, created_at`
	var rv dom.Review
	if err := tx.QueryRow(ctx, query, body, rating, campgroundID).Scan(
		&rv.ID, &rv.Body, &rv.Rating, &rv.CampgroundID, &rv.CreatedAt,
	); err != nil {
		return dom.Review{}, err
	}
	return rv, tx.Commit(ctx)
}

// DeleteFromParent removes a review from its campground. Deleting a review
// that is already gone is a no-op, not an error; a missing parent surfaces
// as pgx.ErrNoRows.
func (r *PGReviewRepo) DeleteFromParent(ctx context.Context, campgroundID, reviewID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := lockCampground(ctx, tx, campgroundID); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM reviews WHERE id = $1 AND campground_id = $2`,
		reviewID, campgroundID,
	); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func lockCampground(ctx context.Context, tx pgx.Tx, id int64) error {
	var got int64
	return tx.QueryRow(ctx, `SELECT id FROM campgrounds WHERE id = $1 FOR UPDATE`, id).Scan(&got)
}
