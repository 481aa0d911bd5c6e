package handlers

import (
	"net/http"
	"strconv"

	"Camp/internal/apperr"
	"Camp/internal/auth"
	dom "Camp/internal/domain"
	"Camp/internal/dto"
	"Camp/internal/service"

	"github.com/gin-gonic/gin"
)

// CampgroundHandler handles campground CRUD and nested reviews.
type CampgroundHandler struct {
	svc *service.CampgroundService
}

// NewCampgroundHandler returns a new CampgroundHandler.
func NewCampgroundHandler(svc *service.CampgroundService) *CampgroundHandler {
	return &CampgroundHandler{svc: svc}
}

// List godoc
// @Summary      List campgrounds
// @Tags         campgrounds
// @Produce      json
// @Security     CookieAuth
// @Success      200  {object}  dto.ListCampgroundsResponse
// @Router       /campgrounds [get]
func (h *CampgroundHandler) List(c *gin.Context) error {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, dto.ListCampgroundsResponse{Items: campgroundsToResponses(list)})
	return nil
}

// Create godoc
// @Summary      Create a campground
// @Tags         campgrounds
// @Accept       json
// @Security     CookieAuth
// @Param        body  body  dto.CreateCampgroundRequest  true  "Campground"
// @Success      303
// @Failure      400  {object}  map[string]string
// @Router       /campgrounds [post]
func (h *CampgroundHandler) Create(c *gin.Context) error {
	var req dto.CreateCampgroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperr.FromBindError(err)
	}
	ownerID := auth.UserIDFromContext(c)
	cg, err := h.svc.Create(c.Request.Context(), ownerID, req.Title, req.Image, *req.Price)
	if err != nil {
		return err
	}
	c.Redirect(http.StatusSeeOther, detailPath(cg.ID))
	return nil
}

// GetByID godoc
// @Summary      Campground detail with resolved reviews
// @Tags         campgrounds
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      int  true  "Campground ID"
// @Success      200  {object}  dto.CampgroundDetailResponse
// @Failure      404  {object}  map[string]string
// @Router       /campgrounds/{id} [get]
func (h *CampgroundHandler) GetByID(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	cg, reviews, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		return err
	}
	c.JSON(http.StatusOK, dto.CampgroundDetailResponse{
		CampgroundResponse: campgroundToResponse(cg),
		Reviews:            reviewsToResponses(reviews),
	})
	return nil
}

// Update godoc
// @Summary      Update a campground
// @Tags         campgrounds
// @Accept       json
// @Security     CookieAuth
// @Param        id    path  int  true  "Campground ID"
// @Param        body  body  dto.UpdateCampgroundRequest  true  "Campground fields"
// @Success      303
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /campgrounds/{id} [put]
func (h *CampgroundHandler) Update(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateCampgroundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperr.FromBindError(err)
	}
	cg, err := h.svc.Update(c.Request.Context(), id, req.Title, req.Image, *req.Price)
	if err != nil {
		return err
	}
	c.Redirect(http.StatusSeeOther, detailPath(cg.ID))
	return nil
}

// Delete godoc
// @Summary      Delete a campground and its reviews
// @Tags         campgrounds
// @Security     CookieAuth
// @Param        id   path  int  true  "Campground ID"
// @Success      303
// @Failure      404  {object}  map[string]string
// @Router       /campgrounds/{id} [delete]
func (h *CampgroundHandler) Delete(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		return err
	}
	c.Redirect(http.StatusSeeOther, "/campgrounds")
	return nil
}

// AddReview godoc
// @Summary      Attach a review to a campground
// @Tags         reviews
// @Accept       json
// @Security     CookieAuth
// @Param        id    path  int  true  "Campground ID"
// @Param        body  body  dto.CreateReviewRequest  true  "Review"
// @Success      303
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /campgrounds/{id}/reviews [post]
func (h *CampgroundHandler) AddReview(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return apperr.FromBindError(err)
	}
	if _, err := h.svc.AddReview(c.Request.Context(), id, req.Body, *req.Rating); err != nil {
		return err
	}
	c.Redirect(http.StatusSeeOther, detailPath(id))
	return nil
}

// DeleteReview godoc
// @Summary      Detach and delete a review
// @Tags         reviews
// @Security     CookieAuth
// @Param        id        path  int  true  "Campground ID"
// @Param        reviewId  path  int  true  "Review ID"
// @Success      303
// @Failure      404  {object}  map[string]string
// @Router       /campgrounds/{id}/reviews/{reviewId} [delete]
func (h *CampgroundHandler) DeleteReview(c *gin.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	reviewID, err := parseID(c, "reviewId")
	if err != nil {
		return err
	}
	if err := h.svc.RemoveReview(c.Request.Context(), id, reviewID); err != nil {
		return err
	}
	c.Redirect(http.StatusSeeOther, detailPath(id))
	return nil
}

func parseID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(name + " must be a positive integer")
	}
	return id, nil
}

func detailPath(id int64) string {
	return "/campgrounds/" + strconv.FormatInt(id, 10)
}

func campgroundToResponse(cg dom.Campground) dto.CampgroundResponse {
	ids := cg.ReviewIDs
	if ids == nil {
		ids = []int64{}
	}
	return dto.CampgroundResponse{
		ID:        cg.ID,
		Title:     cg.Title,
		Image:     cg.Image,
		Price:     cg.Price,
		OwnerID:   cg.OwnerID,
		ReviewIDs: ids,
		CreatedAt: cg.CreatedAt,
		UpdatedAt: cg.UpdatedAt,
	}
}

func campgroundsToResponses(list []dom.Campground) []dto.CampgroundResponse {
	out := make([]dto.CampgroundResponse, len(list))
	for i := range list {
		out[i] = campgroundToResponse(list[i])
	}
	return out
}

func reviewsToResponses(list []dom.Review) []dto.ReviewResponse {
	out := make([]dto.ReviewResponse, len(list))
	for i := range list {
		out[i] = dto.ReviewResponse{
			ID:           list[i].ID,
			Body:         list[i].Body,
			Rating:       list[i].Rating,
			CampgroundID: list[i].CampgroundID,
			CreatedAt:    list[i].CreatedAt,
		}
	}
	return out
}
