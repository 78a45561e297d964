package domain

import "time"

type Post struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Title      string    `json:"title" gorm:"not null"`
	Body       string    `json:"body" gorm:"not null"`
	ImageURL   string    `json:"image_url" gorm:"column:image_url"`
	Author     string    `json:"author" gorm:"not null"`
	AuthorType Role      `json:"author_type" gorm:"not null;default:owner"`
	CreatedAt  time.Time `json:"created_at"`
}

type Comment struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	PostID     int64     `json:"post_id" gorm:"index;not null"`
	ParentID   *int64    `json:"parent_id"`
	Body       string    `json:"body" gorm:"not null"`
	Author     string    `json:"author" gorm:"not null"`
	AuthorType Role      `json:"author_type" gorm:"not null;default:owner"`
	CreatedAt  time.Time `json:"created_at"`
}

// PostVote holds at most one row per (post, voter); a repeat vote updates the
// existing row in place.
type PostVote struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	PostID    int64     `json:"post_id" gorm:"uniqueIndex:idx_post_voter;not null"`
	VoterKey  string    `json:"voter_key" gorm:"uniqueIndex:idx_post_voter;not null"`
	Vote      int       `json:"vote" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// VoteCounts are the derived up/down tallies for one post.
type VoteCounts struct {
	UpCount   int64 `json:"up_count"`
	DownCount int64 `json:"down_count"`
}

// PostSummary is a list-view row with aggregate counts.
type PostSummary struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	AuthorType   Role      `json:"author_type"`
	ImageURL     string    `json:"image_url"`
	CreatedAt    time.Time `json:"created_at"`
	CommentCount int64     `json:"comment_count"`
	UpCount      int64     `json:"up_count"`
	DownCount    int64     `json:"down_count"`
}

// HotPost is a trending-list row: posts from the last day ranked by upvotes.
type HotPost struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpCount   int64     `json:"up_count"`
}
