package dto

import "time"

// CreateReviewRequest is the JSON body for POST /campgrounds/:id/reviews.
type CreateReviewRequest struct {
	Body   string `json:"body" binding:"required"`
	Rating *int   `json:"rating" binding:"required,gte=1,lte=5"`
}

// ReviewResponse is a single review.
type ReviewResponse struct {
	ID           int64     `json:"id"`
	Body         string    `json:"body"`
	Rating       int       `json:"rating"`
	CampgroundID int64     `json:"campground_id"`
	CreatedAt    time.Time `json:"created_at"`
}
