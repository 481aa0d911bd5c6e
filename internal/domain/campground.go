package domain

import "time"

// Campground is the parent content entity. ReviewIDs is a query-time
// projection of the reviews referencing this campground; it is never stored
// on the row itself, so it cannot drift from the reviews table.
type Campground struct {
	ID        int64
	Title     string
	Image     string
	Price     float64
	OwnerID   int64
	ReviewIDs []int64

	CreatedAt time.Time
	UpdatedAt time.Time
}
