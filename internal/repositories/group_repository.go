package repositories

import (
	"context"

	"github.com/Zayan93/yatube/internal/models"
	"gorm.io/gorm"
)

// GroupRepository defines the interface for group data operations
type GroupRepository interface {
	CreateGroup(ctx context.Context, group *models.Group) error
	GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error)
	GetGroups(ctx context.Context) ([]models.Group, error)
	DeleteGroup(ctx context.Context, id uint) error
}

// GormGroupRepository implements GroupRepository on a relational store
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GormGroupRepository
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// CreateGroup creates a new group
func (r *GormGroupRepository) CreateGroup(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// GetGroupBySlug retrieves a group by its slug
func (r *GormGroupRepository) GetGroupBySlug(ctx context.Context, slug string) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetGroups retrieves all groups
func (r *GormGroupRepository) GetGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	err := r.db.WithContext(ctx).Order("title ASC").Find(&groups).Error
	return groups, err
}

// DeleteGroup deletes a group. Posts referencing it keep existing with their
// group reference cleared, in the same transaction as the delete.
func (r *GormGroupRepository) DeleteGroup(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).Where("group_id = ?", id).Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, id).Error
	})
}
