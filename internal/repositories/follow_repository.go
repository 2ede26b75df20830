package repositories

import (
	"context"
	"errors"

	"github.com/Zayan93/yatube/internal/models"
	"gorm.io/gorm"
)

// ErrAlreadyFollowing is returned when the (user, author) edge already exists.
var ErrAlreadyFollowing = errors.New("already following")

// ErrFollowNotFound is returned when no edge exists for the pair.
var ErrFollowNotFound = errors.New("follow relationship not found")

// FollowRepository defines the interface for follow-graph data operations
type FollowRepository interface {
	CreateFollow(ctx context.Context, follow *models.Follow) error
	DeleteFollow(ctx context.Context, userID, authorID uint) error
	IsFollowing(ctx context.Context, userID, authorID uint) (bool, error)
	GetFollowerCount(ctx context.Context, authorID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
}

// GormFollowRepository implements FollowRepository on a relational store
type GormFollowRepository struct {
	db *gorm.DB
}

// NewGormFollowRepository creates a new GormFollowRepository
func NewGormFollowRepository(db *gorm.DB) *GormFollowRepository {
	return &GormFollowRepository{db: db}
}

// CreateFollow inserts a follow edge. A unique-constraint violation on the
// (user, author) pair is reported as ErrAlreadyFollowing so callers can treat
// a lost race as success.
func (r *GormFollowRepository) CreateFollow(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFollowing
		}
		return err
	}
	return nil
}

// DeleteFollow removes the edge for the pair, reporting ErrFollowNotFound
// when there was nothing to remove.
func (r *GormFollowRepository) DeleteFollow(ctx context.Context, userID, authorID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrFollowNotFound
	}
	return nil
}

// IsFollowing checks whether userID follows authorID
func (r *GormFollowRepository) IsFollowing(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ? AND author_id = ?", userID, authorID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowerCount returns how many users follow authorID
func (r *GormFollowRepository) GetFollowerCount(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// GetFollowingCount returns how many authors userID follows
func (r *GormFollowRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
