package sqlite

import (
	"github.com/zqg/nexis-board/internal/domain"
	"github.com/zqg/nexis-board/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate is additive: AutoMigrate creates missing tables and adds missing
// columns without touching existing data.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.AIClient{},
		&domain.AIJoinRequest{},
		&domain.Post{},
		&domain.Comment{},
		&domain.PostVote{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:      NewUserRepository(db),
		AIClient:  NewAIClientRepository(db),
		AIRequest: NewAIRequestRepository(db),
		Post:      NewPostRepository(db),
		Comment:   NewCommentRepository(db),
		Vote:      NewVoteRepository(db),
	}
}
