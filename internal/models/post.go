package models

import "time"

type Post struct {
	ID          int64      `db:"id" json:"id"`
	Content     string     `db:"content" json:"content"`
	UserID      int64      `db:"user_id" json:"userId"`
	ForumID     int64      `db:"forum_id" json:"forumId"`
	Author      string     `db:"author" json:"author"`
	PublishedAt time.Time  `db:"published_at" json:"publishedAt"`
	UpdatedAt   *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
	Comments    []Comment  `db:"-" json:"comments"`
}

type Comment struct {
	ID        int64      `db:"id" json:"id"`
	Content   string     `db:"content" json:"content"`
	UserID    int64      `db:"user_id" json:"userId"`
	PostID    int64      `db:"post_id" json:"postId"`
	Author    string     `db:"author" json:"author"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt *time.Time `db:"updated_at" json:"updatedAt,omitempty"`
}
