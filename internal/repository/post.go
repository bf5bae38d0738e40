package repository

import (
	"context"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// postCategory is a row of the post/category join table.
type postCategory struct {
	PostID     uint `gorm:"primaryKey"`
	CategoryID uint `gorm:"primaryKey"`
}

func (postCategory) TableName() string { return "post_categories" }

// PostRepository defines the interface for post data operations
type PostRepository interface {
	List(ctx context.Context) ([]models.Post, error)
	ListByCategory(ctx context.Context, categoryID uint) ([]models.Post, error)
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	Exists(ctx context.Context, id uint) (bool, error)
	// Create inserts post and links it to categoryIDs in one transaction.
	Create(ctx context.Context, post *models.Post, categoryIDs []uint) error
	// Update saves post. A nil categoryIDs keeps the current links; a non-nil
	// slice replaces them.
	Update(ctx context.Context, post *models.Post, categoryIDs []uint) error
	// Delete removes the post with its comments and category links in one transaction.
	Delete(ctx context.Context, id uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withRefs resolves the owner and categories inline.
func withRefs(db *gorm.DB) *gorm.DB {
	return db.Preload("User", userRef).
		Preload("Categories", func(db *gorm.DB) *gorm.DB { return db.Order("categories.id ASC") })
}

func (r *postRepository) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := withRefs(r.db.WithContext(ctx)).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) ListByCategory(ctx context.Context, categoryID uint) ([]models.Post, error) {
	var posts []models.Post
	err := withRefs(r.db.WithContext(ctx)).
		Joins("JOIN post_categories ON post_categories.post_id = posts.id").
		Where("post_categories.category_id = ?", categoryID).
		Order("posts.created_at DESC, posts.id DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := withRefs(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, lookupError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) Create(ctx context.Context, post *models.Post, categoryIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		return linkCategories(tx, post.ID, categoryIDs)
	})
	return passThrough(err)
}

func (r *postRepository) Update(ctx context.Context, post *models.Post, categoryIDs []uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Select("title", "subheader", "body", "image_url", "is_published", "publish_date", "edit_date", "updated_at").
			Updates(post)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", post.ID)
		}
		if categoryIDs == nil {
			return nil
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&postCategory{}).Error; err != nil {
			return err
		}
		return linkCategories(tx, post.ID, categoryIDs)
	})
	return passThrough(err)
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&postCategory{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Post", id)
		}
		return nil
	})
	return passThrough(err)
}

func linkCategories(tx *gorm.DB, postID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	rows := make([]postCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		rows = append(rows, postCategory{PostID: postID, CategoryID: id})
	}
	return tx.Create(&rows).Error
}
