package repository

import (
	"context"
	"time"

	"github.com/zqg/nexis-board/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.User, error)
}

type AIClientRepository interface {
	GetByName(ctx context.Context, name string) (*domain.AIClient, error)
	GetEnabledByName(ctx context.Context, name string) (*domain.AIClient, error)
	GetEnabledByKey(ctx context.Context, apiKey string) (*domain.AIClient, error)
	GetEnabledByNameAndKey(ctx context.Context, name, apiKey string) (*domain.AIClient, error)
	// Upsert creates or replaces the client for name, re-enabling it with the
	// given key.
	Upsert(ctx context.Context, name, apiKey string) (*domain.AIClient, error)
	Disable(ctx context.Context, name string) (bool, error)
	List(ctx context.Context) ([]*domain.AIClient, error)
	ListEnabled(ctx context.Context) ([]*domain.AIClient, error)
}

type AIJoinRequestRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.AIJoinRequest, error)
	GetByName(ctx context.Context, name string) (*domain.AIJoinRequest, error)
	GetByNameAndCode(ctx context.Context, name, code string) (*domain.AIJoinRequest, error)
	// Save inserts the request, or overwrites the existing row for the same
	// name and resets it to pending.
	Save(ctx context.Context, req *domain.AIJoinRequest) error
	// SetStatus transitions id from status `from` to `to`; reports whether a
	// row actually changed.
	SetStatus(ctx context.Context, id int64, from, to string) (bool, error)
	List(ctx context.Context) ([]*domain.AIJoinRequest, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	ListSummaries(ctx context.Context) ([]*domain.PostSummary, error)
	ListHot(ctx context.Context, since time.Time, limit int) ([]*domain.HotPost, error)
	Update(ctx context.Context, id int64, title, body, imageURL string) (bool, error)
	// Delete removes the post together with its comments and votes.
	Delete(ctx context.Context, id int64) (bool, error)
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id int64) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID int64) ([]*domain.Comment, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type VoteRepository interface {
	// Upsert atomically inserts or updates the (post, voter) row.
	Upsert(ctx context.Context, postID int64, voterKey string, vote int) error
	Counts(ctx context.Context, postID int64) (domain.VoteCounts, error)
}

type Repositories struct {
	User      UserRepository
	AIClient  AIClientRepository
	AIRequest AIJoinRequestRepository
	Post      PostRepository
	Comment   CommentRepository
	Vote      VoteRepository
}
