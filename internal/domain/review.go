package domain

import "time"

// Review is a child record of exactly one Campground.
type Review struct {
	ID           int64
	Body         string
	Rating       int
	CampgroundID int64
	CreatedAt    time.Time
}
