package models

import "time"

// Post represents a blog post. Categories are linked through the post_categories join table.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"type:text;not null" json:"title"`
	Subheader   string     `json:"subheader"`
	Body        string     `gorm:"type:text;not null" json:"body"`
	UserID      uint       `gorm:"not null;index" json:"userId"`
	User        *UserRef   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Categories  []Category `gorm:"many2many:post_categories;" json:"categories"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	IsPublished bool       `gorm:"not null;default:false" json:"isPublished"`
	PublishDate *time.Time `json:"publishDate"`
	EditDate    *time.Time `json:"editDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// CategoryIDs returns the ids of the post's linked categories.
func (p *Post) CategoryIDs() []uint {
	ids := make([]uint, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// OwnerID returns the author of the post.
func (p *Post) OwnerID() uint { return p.UserID }
