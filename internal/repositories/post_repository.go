package repositories

import (
	"context"

	"github.com/Zayan93/yatube/internal/models"
	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByAuthorUsernameAndID(ctx context.Context, username string, id uint) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPostsByAuthorID(ctx context.Context, authorID uint) ([]models.Post, error)
	GetPostsByGroupID(ctx context.Context, groupID uint) ([]models.Post, error)
	GetPostsByFollowedAuthors(ctx context.Context, userID uint) ([]models.Post, error)
	CountPostsByAuthorID(ctx context.Context, authorID uint) (int64, error)
	UpdatePost(ctx context.Context, post *models.Post) error
	DeletePost(ctx context.Context, id uint) error
}

// GormPostRepository implements PostRepository on a relational store
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// CreatePost creates a new post
func (r *GormPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetPostByAuthorUsernameAndID retrieves a post addressed by its author's
// username and the post ID, the way the public post URLs address them.
func (r *GormPostRepository) GetPostByAuthorUsernameAndID(ctx context.Context, username string, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").Preload("Group").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("users.username = ? AND posts.id = ?", username, id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetAllPosts retrieves every post, newest first. Ties on the publish
// timestamp fall back to the ID so one query always yields a stable order.
func (r *GormPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("Author").Order("pub_date DESC, id DESC").Find(&posts).Error
	return posts, err
}

// GetPostsByAuthorID retrieves an author's posts, newest first
func (r *GormPostRepository) GetPostsByAuthorID(ctx context.Context, authorID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("Author").Where("author_id = ?", authorID).Order("pub_date DESC, id DESC").Find(&posts).Error
	return posts, err
}

// GetPostsByGroupID retrieves the posts of a group, newest first
func (r *GormPostRepository) GetPostsByGroupID(ctx context.Context, groupID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).Preload("Author").Where("group_id = ?", groupID).Order("pub_date DESC, id DESC").Find(&posts).Error
	return posts, err
}

// GetPostsByFollowedAuthors retrieves the posts of every author the user
// follows, newest first.
func (r *GormPostRepository) GetPostsByFollowedAuthors(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id IN (?)",
			r.db.Model(&models.Follow{}).Select("author_id").Where("user_id = ?", userID),
		).
		Order("pub_date DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// CountPostsByAuthorID counts an author's posts
func (r *GormPostRepository) CountPostsByAuthorID(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

// UpdatePost saves changes to an existing post
func (r *GormPostRepository) UpdatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Omit("Author", "Group").Save(post).Error
}

// DeletePost deletes a post and, in the same transaction, its comments
func (r *GormPostRepository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		// Follow edges tagged with this post survive; only the tag is cleared.
		if err := tx.Model(&models.Follow{}).Where("post_id = ?", id).Update("post_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}
