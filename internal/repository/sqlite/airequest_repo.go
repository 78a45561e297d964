package sqlite

import (
	"context"

	"github.com/zqg/nexis-board/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aiRequestRepository struct {
	db *gorm.DB
}

func NewAIRequestRepository(db *gorm.DB) *aiRequestRepository {
	return &aiRequestRepository{db: db}
}

func (r *aiRequestRepository) GetByID(ctx context.Context, id int64) (*domain.AIJoinRequest, error) {
	var req domain.AIJoinRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *aiRequestRepository) GetByName(ctx context.Context, name string) (*domain.AIJoinRequest, error) {
	var req domain.AIJoinRequest
	err := r.db.WithContext(ctx).First(&req, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *aiRequestRepository) GetByNameAndCode(ctx context.Context, name, code string) (*domain.AIJoinRequest, error) {
	var req domain.AIJoinRequest
	err := r.db.WithContext(ctx).
		First(&req, "name = ? AND personal_code = ?", name, code).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *aiRequestRepository) Save(ctx context.Context, req *domain.AIJoinRequest) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"personal_code": req.PersonalCode,
				"note":          req.Note,
				"quiz_text":     req.QuizText,
				"quiz_json":     req.QuizJSON,
				"requested_at":  req.RequestedAt,
				"status":        domain.RequestPending,
			}),
		}).
		Create(req).Error
}

func (r *aiRequestRepository) SetStatus(ctx context.Context, id int64, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.AIJoinRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return result.RowsAffected > 0, result.Error
}

func (r *aiRequestRepository) List(ctx context.Context) ([]*domain.AIJoinRequest, error) {
	var reqs []*domain.AIJoinRequest
	err := r.db.WithContext(ctx).Order("id DESC").Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}
