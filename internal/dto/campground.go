package dto

import "time"

// Price and Rating bind through pointers so a present zero survives the
// required check and range tags produce the real violation message.

// CreateCampgroundRequest is the JSON body for POST /campgrounds.
type CreateCampgroundRequest struct {
	Title string   `json:"title" binding:"required"`
	Image string   `json:"image" binding:"required"`
	Price *float64 `json:"price" binding:"required,gte=0"`
}

// UpdateCampgroundRequest is the JSON body for PUT /campgrounds/:id. The
// update is whole-record, like the form it mirrors.
type UpdateCampgroundRequest struct {
	Title string   `json:"title" binding:"required"`
	Image string   `json:"image" binding:"required"`
	Price *float64 `json:"price" binding:"required,gte=0"`
}

// CampgroundResponse is a campground row plus its derived review id list.
type CampgroundResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	Price     float64   `json:"price"`
	OwnerID   int64     `json:"owner_id"`
	ReviewIDs []int64   `json:"review_ids"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListCampgroundsResponse is the listing payload.
type ListCampgroundsResponse struct {
	Items []CampgroundResponse `json:"items"`
}

// CampgroundDetailResponse is the detail payload with resolved reviews.
type CampgroundDetailResponse struct {
	CampgroundResponse
	Reviews []ReviewResponse `json:"reviews"`
}
