package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "Camp/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyList         = "campground:list"
	keyDetailPrefix = "campground:detail:"
)

// Detail is the cached GetByID projection: the campground plus its resolved
// reviews.
type Detail struct {
	Campground dom.Campground `json:"campground"`
	Reviews    []dom.Review   `json:"reviews"`
}

// CampgroundCache caches the campground listing and per-campground detail
// projections in Redis.
type CampgroundCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCampgroundCache returns a new CampgroundCache.
func NewCampgroundCache(rdb *redis.Client, ttl time.Duration) *CampgroundCache {
	return &CampgroundCache{rdb: rdb, ttl: ttl}
}

// GetList returns the cached listing or nil on miss.
func (c *CampgroundCache) GetList(ctx context.Context) ([]dom.Campground, error) {
	b, err := c.rdb.Get(ctx, keyList).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Campground
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetList stores the listing.
func (c *CampgroundCache) SetList(ctx context.Context, list []dom.Campground) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyList, b, c.ttl).Err()
}

// GetDetail returns the cached detail for id or nil on miss.
func (c *CampgroundCache) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	b, err := c.rdb.Get(ctx, detailKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var d Detail
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// SetDetail stores the detail projection for id.
func (c *CampgroundCache) SetDetail(ctx context.Context, id int64, d Detail) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, detailKey(id), b, c.ttl).Err()
}

// Invalidate drops the listing and the detail for id (cache invalidation on
// write).
func (c *CampgroundCache) Invalidate(ctx context.Context, id int64) error {
	return c.rdb.Del(ctx, keyList, detailKey(id)).Err()
}

func detailKey(id int64) string {
	return keyDetailPrefix + strconv.FormatInt(id, 10)
}
