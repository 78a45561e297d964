package sqlite

import (
	"context"
	"time"

	"github.com/zqg/nexis-board/internal/domain"
	"gorm.io/gorm"
)

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *postRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *domain.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	var post domain.Post
	err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListSummaries(ctx context.Context) ([]*domain.PostSummary, error) {
	var rows []*domain.PostSummary
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id, p.title, p.author, p.author_type, p.image_url, p.created_at,
		       (SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
		       COALESCE((SELECT SUM(CASE WHEN v.vote = 1 THEN 1 ELSE 0 END) FROM post_votes v WHERE v.post_id = p.id), 0) AS up_count,
		       COALESCE((SELECT SUM(CASE WHEN v.vote = -1 THEN 1 ELSE 0 END) FROM post_votes v WHERE v.post_id = p.id), 0) AS down_count
		FROM posts p
		ORDER BY p.id DESC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *postRepository) ListHot(ctx context.Context, since time.Time, limit int) ([]*domain.HotPost, error) {
	var rows []*domain.HotPost
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id, p.title, p.created_at,
		       COALESCE((SELECT SUM(CASE WHEN v.vote = 1 THEN 1 ELSE 0 END) FROM post_votes v WHERE v.post_id = p.id), 0) AS up_count
		FROM posts p
		WHERE p.created_at >= ?
		ORDER BY up_count DESC, p.created_at DESC
		LIMIT ?
	`, since, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *postRepository) Update(ctx context.Context, id int64, title, body, imageURL string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":     title,
			"body":      body,
			"image_url": imageURL,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *postRepository) Delete(ctx context.Context, id int64) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&domain.PostVote{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Post{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		changed = result.RowsAffected > 0
		return nil
	})
	return changed, err
}
