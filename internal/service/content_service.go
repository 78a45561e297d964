package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/zqg/nexis-board/internal/domain"
	"github.com/zqg/nexis-board/internal/repository"
	"gorm.io/gorm"
)

type ContentService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	voteRepo    repository.VoteRepository
}

func NewContentService(postRepo repository.PostRepository, commentRepo repository.CommentRepository, voteRepo repository.VoteRepository) *ContentService {
	return &ContentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		voteRepo:    voteRepo,
	}
}

type PostInput struct {
	Title    string
	Body     string
	ImageURL string
	// AuthorOverride lets the owner publish under another name; ignored for
	// everyone else.
	AuthorOverride string
}

type PostDetail struct {
	Post     *domain.Post
	Counts   domain.VoteCounts
	Comments []*domain.Comment
}

func (s *ContentService) ListPosts(ctx context.Context) ([]*domain.PostSummary, error) {
	return s.postRepo.ListSummaries(ctx)
}

func (s *ContentService) HotPosts(ctx context.Context) ([]*domain.HotPost, error) {
	return s.postRepo.ListHot(ctx, time.Now().Add(-24*time.Hour), 10)
}

func (s *ContentService) GetPost(ctx context.Context, id int64) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}

	counts, err := s.voteRepo.Counts(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}

	return &PostDetail{Post: post, Counts: counts, Comments: comments}, nil
}

func (s *ContentService) CreatePost(ctx context.Context, principal domain.Principal, input PostInput) (*domain.Post, error) {
	author, authorType := resolveAuthor(principal, input.AuthorOverride)
	post := &domain.Post{
		Title:      strings.TrimSpace(input.Title),
		Body:       strings.TrimSpace(input.Body),
		ImageURL:   strings.TrimSpace(input.ImageURL),
		Author:     author,
		AuthorType: authorType,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *ContentService) UpdatePost(ctx context.Context, id int64, input PostInput) error {
	changed, err := s.postRepo.Update(ctx, id,
		strings.TrimSpace(input.Title),
		strings.TrimSpace(input.Body),
		strings.TrimSpace(input.ImageURL))
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrPostNotFound
	}
	return nil
}

func (s *ContentService) DeletePost(ctx context.Context, id int64) error {
	changed, err := s.postRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrPostNotFound
	}
	return nil
}

type CommentInput struct {
	Body           string
	ParentID       *int64
	AuthorOverride string
}

// CreateComment allows one level of nesting: the parent must exist and
// belong to the same post.
func (s *ContentService) CreateComment(ctx context.Context, principal domain.Principal, postID int64, input CommentInput) (*domain.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPostNotFound
		}
		return nil, err
	}

	if input.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *input.ParentID)
		if err != nil || parent.PostID != postID {
			return nil, domain.ErrInvalidParent
		}
	}

	author, authorType := resolveAuthor(principal, input.AuthorOverride)
	comment := &domain.Comment{
		PostID:     postID,
		ParentID:   input.ParentID,
		Body:       strings.TrimSpace(input.Body),
		Author:     author,
		AuthorType: authorType,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ContentService) DeleteComment(ctx context.Context, id int64) error {
	changed, err := s.commentRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrCommentNotFound
	}
	return nil
}

// Vote upserts the caller's vote and returns the fresh tallies.
func (s *ContentService) Vote(ctx context.Context, principal domain.Principal, postID int64, vote int) (domain.VoteCounts, error) {
	if vote != 1 && vote != -1 {
		return domain.VoteCounts{}, domain.ErrInvalidVote
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.VoteCounts{}, domain.ErrPostNotFound
		}
		return domain.VoteCounts{}, err
	}

	if err := s.voteRepo.Upsert(ctx, postID, principal.VoterKey(), vote); err != nil {
		return domain.VoteCounts{}, err
	}
	return s.voteRepo.Counts(ctx, postID)
}

// resolveAuthor picks the stored author for a write. The owner may publish
// under an arbitrary name; humans and AI always write as themselves.
func resolveAuthor(principal domain.Principal, override string) (string, domain.Role) {
	if principal.Role == domain.RoleOwner {
		if name := strings.TrimSpace(override); name != "" {
			return name, domain.RoleOwner
		}
		return principal.Name, domain.RoleOwner
	}
	return principal.Name, principal.Role
}
