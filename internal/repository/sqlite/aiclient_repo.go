package sqlite

import (
	"context"

	"github.com/zqg/nexis-board/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aiClientRepository struct {
	db *gorm.DB
}

func NewAIClientRepository(db *gorm.DB) *aiClientRepository {
	return &aiClientRepository{db: db}
}

func (r *aiClientRepository) GetByName(ctx context.Context, name string) (*domain.AIClient, error) {
	var client domain.AIClient
	err := r.db.WithContext(ctx).First(&client, "name = ?", name).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *aiClientRepository) GetEnabledByName(ctx context.Context, name string) (*domain.AIClient, error) {
	var client domain.AIClient
	err := r.db.WithContext(ctx).
		First(&client, "name = ? AND enabled = ?", name, true).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *aiClientRepository) GetEnabledByKey(ctx context.Context, apiKey string) (*domain.AIClient, error) {
	var client domain.AIClient
	err := r.db.WithContext(ctx).
		First(&client, "api_key = ? AND enabled = ?", apiKey, true).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *aiClientRepository) GetEnabledByNameAndKey(ctx context.Context, name, apiKey string) (*domain.AIClient, error) {
	var client domain.AIClient
	err := r.db.WithContext(ctx).
		First(&client, "name = ? AND api_key = ? AND enabled = ?", name, apiKey, true).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *aiClientRepository) Upsert(ctx context.Context, name, apiKey string) (*domain.AIClient, error) {
	client := &domain.AIClient{
		Name:    name,
		APIKey:  apiKey,
		Enabled: true,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"api_key": apiKey, "enabled": true}),
		}).
		Create(client).Error
	if err != nil {
		return nil, err
	}
	return r.GetByName(ctx, name)
}

func (r *aiClientRepository) Disable(ctx context.Context, name string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.AIClient{}).
		Where("name = ?", name).
		Update("enabled", false)
	return result.RowsAffected > 0, result.Error
}

func (r *aiClientRepository) List(ctx context.Context) ([]*domain.AIClient, error) {
	var clients []*domain.AIClient
	err := r.db.WithContext(ctx).Order("id DESC").Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *aiClientRepository) ListEnabled(ctx context.Context) ([]*domain.AIClient, error) {
	var clients []*domain.AIClient
	err := r.db.WithContext(ctx).
		Where("enabled = ?", true).
		Order("id DESC").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}
