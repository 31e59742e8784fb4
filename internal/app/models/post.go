package models

import "time"

// Post is a user-authored feed entry.
type Post struct {
	ID           int64        `json:"id" db:"id"`
	AuthorID     int64        `json:"authorId" db:"author_id"`
	Content      string       `json:"content" db:"content"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time    `json:"updatedAt" db:"updated_at"`
	Images       []PostImage  `json:"images,omitempty"`
	LikeCount    int          `json:"likeCount"`
	CommentCount int          `json:"commentCount"`
	LikedByMe    bool         `json:"likedByMe"`
	Author       *UserSummary `json:"author,omitempty"`
}

// PostImage is an image attachment on a post.
type PostImage struct {
	ID         int64  `json:"id" db:"id"`
	PostID     int64  `json:"postId" db:"post_id"`
	URL        string `json:"url" db:"url"`
	StorageKey string `json:"-" db:"storage_key"`
	Caption    string `json:"caption,omitempty" db:"caption"`
}

// Comment is a comment on a post.
type Comment struct {
	ID        int64        `json:"id" db:"id"`
	PostID    int64        `json:"postId" db:"post_id"`
	AuthorID  int64        `json:"authorId" db:"author_id"`
	Content   string       `json:"content" db:"content"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
	Author    *UserSummary `json:"author,omitempty"`
}
