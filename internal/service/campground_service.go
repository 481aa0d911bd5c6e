package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"Camp/internal/apperr"
	"Camp/internal/cache"
	dom "Camp/internal/domain"
	"Camp/internal/repo"
	"Camp/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

// CampgroundService owns campground and review operations, including the
// parent/child consistency rules. Reads go through the Redis cache guarded
// by singleflight; every write invalidates.
type CampgroundService struct {
	camps   repo.CampgroundRepo
	reviews repo.ReviewRepo
	cache   *cache.CampgroundCache
	sf      singleflight.Group
}

// NewCampgroundService creates a CampgroundService. If c is nil, caching is
// disabled.
func NewCampgroundService(camps repo.CampgroundRepo, reviews repo.ReviewRepo, c *cache.CampgroundCache) *CampgroundService {
	return &CampgroundService{camps: camps, reviews: reviews, cache: c}
}

func (s *CampgroundService) Create(ctx context.Context, ownerID int64, title, image string, price float64) (dom.Campground, error) {
	cg, err := s.camps.Create(ctx, dom.Campground{
		Title:   strings.TrimSpace(title),
		Image:   strings.TrimSpace(image),
		Price:   price,
		OwnerID: ownerID,
	})
	if err != nil {
		return dom.Campground{}, err
	}
	s.invalidate(ctx, cg.ID)
	return cg, nil
}

func (s *CampgroundService) List(ctx context.Context) ([]dom.Campground, error) {
	if s.cache == nil {
		return s.camps.List(ctx)
	}
	v, err, _ := s.sf.Do("list", func() (interface{}, error) {
		if list, err := s.cache.GetList(ctx); err == nil && list != nil {
			return list, nil
		}
		list, err := s.camps.List(ctx)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetList(ctx, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Campground), nil
}

// GetByID returns the campground together with its resolved reviews.
func (s *CampgroundService) GetByID(ctx context.Context, id int64) (dom.Campground, []dom.Review, error) {
	if s.cache == nil {
		return s.getByID(ctx, id)
	}
	v, err, _ := s.sf.Do("detail:"+strconv.FormatInt(id, 10), func() (interface{}, error) {
		if d, err := s.cache.GetDetail(ctx, id); err == nil && d != nil {
			return *d, nil
		}
		cg, reviews, err := s.getByID(ctx, id)
		if err != nil {
			return nil, err
		}
		d := cache.Detail{Campground: cg, Reviews: reviews}
		_ = s.cache.SetDetail(ctx, id, d)
		return d, nil
	})
	if err != nil {
		return dom.Campground{}, nil, err
	}
	d := v.(cache.Detail)
	return d.Campground, d.Reviews, nil
}

func (s *CampgroundService) getByID(ctx context.Context, id int64) (dom.Campground, []dom.Review, error) {
	cg, err := s.camps.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Campground{}, nil, apperr.NotFound("campground not found")
		}
		return dom.Campground{}, nil, err
	}
	reviews, err := s.reviews.ListByCampground(ctx, id)
	if err != nil {
		return dom.Campground{}, nil, err
	}
	return cg, reviews, nil
}

func (s *CampgroundService) Update(ctx context.Context, id int64, title, image string, price float64) (dom.Campground, error) {
	cg, err := s.camps.Update(ctx, id, dom.Campground{
		Title: strings.TrimSpace(title),
		Image: strings.TrimSpace(image),
		Price: price,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Campground{}, apperr.NotFound("campground not found")
		}
		return dom.Campground{}, err
	}
	s.invalidate(ctx, id)
	return cg, nil
}

// Delete removes the campground and every review referencing it, so no
// orphan review outlives its parent.
func (s *CampgroundService) Delete(ctx context.Context, id int64) error {
	if err := s.camps.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("campground not found")
		}
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// AddReview attaches a review to an existing campground.
func (s *CampgroundService) AddReview(ctx context.Context, campgroundID int64, body string, rating int) (dom.Review, error) {
	rv, err := s.reviews.CreateUnderParent(ctx, campgroundID, strings.TrimSpace(body), rating)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || utils.IsPGForeignKeyViolation(err) {
			return dom.Review{}, apperr.NotFound("campground not found")
		}
		return dom.Review{}, err
	}
	s.invalidate(ctx, campgroundID)
	return rv, nil
}

// RemoveReview detaches and deletes a review. Removing an already-removed
// review is a no-op.
func (s *CampgroundService) RemoveReview(ctx context.Context, campgroundID, reviewID int64) error {
	if err := s.reviews.DeleteFromParent(ctx, campgroundID, reviewID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperr.NotFound("campground not found")
		}
		return err
	}
	s.invalidate(ctx, campgroundID)
	return nil
}

func (s *CampgroundService) invalidate(ctx context.Context, id int64) {
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, id)
	}
}
