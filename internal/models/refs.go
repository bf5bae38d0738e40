package models

// UserRef is the inline projection of a user embedded in posts and comments.
type UserRef struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

// TableName maps the projection onto the users table.
func (UserRef) TableName() string { return "users" }

// PostRef is the inline projection of a post embedded in comments.
type PostRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// TableName maps the projection onto the posts table.
func (PostRef) TableName() string { return "posts" }
