package models

import "time"

// Comment is a reply to a post. Ordering key is (post_id, created_at).
type Comment struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	PostID    int       `gorm:"column:post_id;index;not null" json:"post_id"`
	UserID    int       `gorm:"column:user_id;index;not null" json:"user_id"`
	Comment   string    `gorm:"column:comment;type:text;not null" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the canonical table name.
func (Comment) TableName() string { return "comments" }
