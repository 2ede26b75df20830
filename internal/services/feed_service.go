package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Zayan93/yatube/internal/cache"
	"github.com/Zayan93/yatube/internal/repositories"
	"github.com/rs/zerolog"
)

const (
	// feedCacheTTL bounds how stale a cached feed page may be. Within the
	// window a page is served as stored, even if posts were added or removed
	// in the interim.
	feedCacheTTL = 20 * time.Second

	feedCacheKeyPrefix = "index-cache-page-"
)

// FeedService produces paginated post listings. Only the global feed is
// cached, per page: different page numbers expire independently and may be
// mutually inconsistent during the freshness window.
type FeedService struct {
	postRepository repositories.PostRepository
	cache          cache.PageCache
	logger         zerolog.Logger
}

// NewFeedService creates a new FeedService
func NewFeedService(postRepo repositories.PostRepository, pageCache cache.PageCache, logger zerolog.Logger) *FeedService {
	return &FeedService{
		postRepository: postRepo,
		cache:          pageCache,
		logger:         logger,
	}
}

// GetFeedPage returns one page of the global feed, newest first. A cache hit
// within the freshness window is returned verbatim; a miss queries the
// datastore, slices the requested page and stores it under the page's key.
// Cache failures degrade to a plain query, never to a request error.
func (s *FeedService) GetFeedPage(ctx context.Context, pageNumber int) (*Page, error) {
	if pageNumber < 1 {
		pageNumber = 1
	}
	key := fmt.Sprintf("%s%d", feedCacheKeyPrefix, pageNumber)

	raw, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("feed cache read failed, falling back to datastore")
	}
	if hit {
		var page Page
		if err := json.Unmarshal(raw, &page); err == nil {
			return &page, nil
		}
		s.logger.Warn().Str("key", key).Msg("discarding undecodable feed cache entry")
	}

	posts, err := s.postRepository.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	page := paginate(posts, pageNumber)

	if raw, err := json.Marshal(page); err == nil {
		if err := s.cache.Set(ctx, key, raw, feedCacheTTL); err != nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("feed cache write failed")
		}
	}
	return page, nil
}

// GetGroupPage returns one page of a group's posts. Not cached.
func (s *FeedService) GetGroupPage(ctx context.Context, groupID uint, pageNumber int) (*Page, error) {
	posts, err := s.postRepository.GetPostsByGroupID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return paginate(posts, pageNumber), nil
}

// GetProfilePage returns one page of an author's posts. Not cached.
func (s *FeedService) GetProfilePage(ctx context.Context, authorID uint, pageNumber int) (*Page, error) {
	posts, err := s.postRepository.GetPostsByAuthorID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return paginate(posts, pageNumber), nil
}

// GetFollowedPage returns one page of posts by the authors userID follows.
// Not cached.
func (s *FeedService) GetFollowedPage(ctx context.Context, userID uint, pageNumber int) (*Page, error) {
	posts, err := s.postRepository.GetPostsByFollowedAuthors(ctx, userID)
	if err != nil {
		return nil, err
	}
	return paginate(posts, pageNumber), nil
}

// Invalidate drops every cached feed page. Post mutations deliberately do not
// call this: serving a bounded-staleness page is the chosen trade-off.
func (s *FeedService) Invalidate(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
