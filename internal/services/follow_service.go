package services

import (
	"context"
	"errors"

	"github.com/Zayan93/yatube/internal/models"
	"github.com/Zayan93/yatube/internal/repositories"
	"github.com/rs/zerolog"
)

// FollowService maintains the follow graph. The only states per ordered user
// pair are not-following and following; every transition that would leave the
// state unchanged is a silent no-op, never an error.
type FollowService struct {
	followRepository repositories.FollowRepository
	logger           zerolog.Logger
}

// NewFollowService creates a new FollowService
func NewFollowService(followRepo repositories.FollowRepository, logger zerolog.Logger) *FollowService {
	return &FollowService{
		followRepository: followRepo,
		logger:           logger,
	}
}

// Follow creates the edge from follower to author. Self-follows and already
// existing edges are absorbed. postID optionally records the post that
// triggered the follow. Two concurrent calls for the same pair are safe: the
// loser of the insert race observes the duplicate-key violation and treats
// the edge as created.
func (s *FollowService) Follow(ctx context.Context, followerID, authorID uint, postID *uint) error {
	if followerID == authorID {
		s.logger.Debug().Uint("user_id", followerID).Msg("ignoring self-follow")
		return nil
	}

	exists, err := s.followRepository.IsFollowing(ctx, followerID, authorID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	follow := &models.Follow{
		UserID:   followerID,
		AuthorID: authorID,
		PostID:   postID,
	}
	if err := s.followRepository.CreateFollow(ctx, follow); err != nil {
		if errors.Is(err, repositories.ErrAlreadyFollowing) {
			// Lost the race to a concurrent follow; the edge exists.
			return nil
		}
		return err
	}
	return nil
}

// Unfollow removes the edge from follower to author; removing a missing edge
// is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, followerID, authorID uint) error {
	if err := s.followRepository.DeleteFollow(ctx, followerID, authorID); err != nil {
		if errors.Is(err, repositories.ErrFollowNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// IsFollowing reports whether follower follows author
func (s *FollowService) IsFollowing(ctx context.Context, followerID, authorID uint) (bool, error) {
	return s.followRepository.IsFollowing(ctx, followerID, authorID)
}

// FollowerCount returns how many users follow the author
func (s *FollowService) FollowerCount(ctx context.Context, authorID uint) (int64, error) {
	return s.followRepository.GetFollowerCount(ctx, authorID)
}

// FollowingCount returns how many authors the user follows
func (s *FollowService) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	return s.followRepository.GetFollowingCount(ctx, userID)
}
