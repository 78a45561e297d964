package service

import (
	"github.com/zqg/nexis-board/internal/config"
	"github.com/zqg/nexis-board/internal/repository"
	"github.com/zqg/nexis-board/internal/session"
)

type Services struct {
	Auth      *AuthService
	Admission *AdmissionService
	Content   *ContentService
}

func NewServices(repos *repository.Repositories, sessions session.Store, cfg *config.Config) *Services {
	return &Services{
		Auth:      NewAuthService(repos.User, repos.AIClient, repos.AIRequest, sessions, cfg),
		Admission: NewAdmissionService(repos.AIClient, repos.AIRequest),
		Content:   NewContentService(repos.Post, repos.Comment, repos.Vote),
	}
}
