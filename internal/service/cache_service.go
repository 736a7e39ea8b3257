package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/internal/dto"
	ctxutil "github.com/Payphone-Digital/marketplace/pkg/context"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/Payphone-Digital/marketplace/pkg/redis"
)

// CacheService caches offer list pages. Cache failures are logged and never
// fail the request.
type CacheService struct {
	redisClient redis.Client
	ttl         time.Duration
}

func NewCacheService(redisClient redis.Client, ttl time.Duration) *CacheService {
	return &CacheService{
		redisClient: redisClient,
		ttl:         ttl,
	}
}

func (s *CacheService) GetOfferList(ctx context.Context, key string) (*dto.OfferListResponse, bool) {
	if !s.redisClient.IsEnabled() {
		return nil, false
	}
	ctx = ctxutil.WithFunction(ctx, "service", "GetOfferList")

	data, found, err := s.redisClient.Get(ctx, key)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to read offer list cache").
			String("cache_key", key).
			Err(err).
			Log()
		return nil, false
	}
	if !found {
		return nil, false
	}

	var resp dto.OfferListResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		logger.WarnWithContext(ctx, "Discarding unreadable offer list cache entry").
			String("cache_key", key).
			Err(err).
			Log()
		return nil, false
	}

	logger.DebugWithContext(ctx, "Offer list cache hit").
		String("cache_key", key).
		Log()
	return &resp, true
}

func (s *CacheService) SetOfferList(ctx context.Context, key string, resp *dto.OfferListResponse) {
	if !s.redisClient.IsEnabled() {
		return
	}
	ctx = ctxutil.WithFunction(ctx, "service", "SetOfferList")

	data, err := json.Marshal(resp)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to encode offer list for cache").
			Err(err).
			Log()
		return
	}

	if err := s.redisClient.Set(ctx, key, data, s.ttl); err != nil {
		logger.WarnWithContext(ctx, "Failed to write offer list cache").
			String("cache_key", key).
			Err(err).
			Log()
	}
}

// InvalidateOfferLists drops every cached list page after a write.
func (s *CacheService) InvalidateOfferLists(ctx context.Context) {
	if !s.redisClient.IsEnabled() {
		return
	}
	ctx = ctxutil.WithFunction(ctx, "service", "InvalidateOfferLists")

	if err := s.redisClient.DeleteByPattern(ctx, constants.CacheKeyOfferList+"*"); err != nil {
		logger.WarnWithContext(ctx, "Failed to invalidate offer list cache").
			Err(err).
			Log()
	}
}
