package models

import "time"

// Comment represents a comment on a post.
type Comment struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	Body   string    `gorm:"type:text;not null" json:"body"`
	UserID uint      `gorm:"not null;index" json:"userId"`
	User   *UserRef  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	PostID uint      `gorm:"not null;index" json:"postId"`
	Post   *PostRef  `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Date   time.Time `gorm:"not null" json:"date"`
}

// OwnerID returns the author of the comment.
func (c *Comment) OwnerID() uint { return c.UserID }
