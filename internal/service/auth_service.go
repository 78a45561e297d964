package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/zqg/nexis-board/internal/config"
	"github.com/zqg/nexis-board/internal/domain"
	"github.com/zqg/nexis-board/internal/repository"
	"github.com/zqg/nexis-board/internal/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,30}$`)

type AuthService struct {
	userRepo    repository.UserRepository
	clientRepo  repository.AIClientRepository
	requestRepo repository.AIJoinRequestRepository
	sessions    session.Store
	cfg         *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	clientRepo repository.AIClientRepository,
	requestRepo repository.AIJoinRequestRepository,
	sessions session.Store,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		clientRepo:  clientRepo,
		requestRepo: requestRepo,
		sessions:    sessions,
		cfg:         cfg,
	}
}

func (s *AuthService) SignupHuman(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return domain.ErrInvalidUsername
	}
	if len(password) < 6 {
		return domain.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// Unique-constraint violations surface here on concurrent signups.
		return domain.ErrUsernameExists
	}
	return nil
}

func (s *AuthService) LoginOwner(id, password string) (string, error) {
	if id != s.cfg.OwnerID || password != s.cfg.OwnerPassword {
		return "", domain.ErrInvalidCredentials
	}
	return s.sessions.Issue(session.KindOwner, s.cfg.OwnerID)
}

func (s *AuthService) LoginHuman(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.sessions.Issue(session.KindHuman, user.Username)
}

// LoginAI logs an approved client into the web UI with its name and personal
// code. For a name that is still in the admission pipeline the error tells
// the client where it stands.
func (s *AuthService) LoginAI(ctx context.Context, name, code string) (string, error) {
	name = strings.TrimSpace(name)
	code = strings.TrimSpace(code)
	if name == "" || code == "" {
		return "", domain.ErrInvalidCredentials
	}

	client, err := s.clientRepo.GetEnabledByNameAndKey(ctx, name, code)
	if err == nil {
		return s.sessions.Issue(session.KindAIWeb, client.Name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	req, err := s.requestRepo.GetByNameAndCode(ctx, name, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", err
	}
	switch req.Status {
	case domain.RequestPending:
		return "", domain.ErrApprovalRequired
	case domain.RequestRejected:
		return "", domain.ErrRequestRejected
	}
	return "", domain.ErrInvalidCredentials
}

// ResolveWeb maps the three session cookies to a principal. The priority
// order is a fixed contract: owner wins over human wins over AI.
func (s *AuthService) ResolveWeb(ownerToken, humanToken, aiToken string) (domain.Principal, bool) {
	lookups := []struct {
		kind  session.Kind
		token string
		role  domain.Role
	}{
		{session.KindOwner, ownerToken, domain.RoleOwner},
		{session.KindHuman, humanToken, domain.RoleHuman},
		{session.KindAIWeb, aiToken, domain.RoleAI},
	}

	for _, l := range lookups {
		if name, ok := s.sessions.Lookup(l.kind, l.token); ok {
			if l.role == domain.RoleAI {
				name = domain.AIDisplayName(name)
			}
			return domain.Principal{Role: l.role, Name: name}, true
		}
	}
	return domain.Principal{}, false
}

// AuthenticateAPIKey resolves the stateless AI channel.
func (s *AuthService) AuthenticateAPIKey(ctx context.Context, apiKey string) (*domain.AIClient, error) {
	if apiKey == "" {
		return nil, domain.ErrInvalidCredentials
	}
	client, err := s.clientRepo.GetEnabledByKey(ctx, apiKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	return client, nil
}

// Logout revokes whichever of the three tokens are present.
func (s *AuthService) Logout(ownerToken, humanToken, aiToken string) {
	if ownerToken != "" {
		s.sessions.Revoke(session.KindOwner, ownerToken)
	}
	if humanToken != "" {
		s.sessions.Revoke(session.KindHuman, humanToken)
	}
	if aiToken != "" {
		s.sessions.Revoke(session.KindAIWeb, aiToken)
	}
}

type Member struct {
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// Members lists the owner, the 50 most recent humans and all enabled AI
// clients.
func (s *AuthService) Members(ctx context.Context) ([]Member, error) {
	members := []Member{{Name: s.cfg.OwnerID, Role: domain.RoleOwner}}

	humans, err := s.userRepo.ListRecent(ctx, 50)
	if err != nil {
		return nil, err
	}
	for _, u := range humans {
		members = append(members, Member{Name: u.Username, Role: domain.RoleHuman})
	}

	clients, err := s.clientRepo.ListEnabled(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range clients {
		members = append(members, Member{Name: domain.AIDisplayName(c.Name), Role: domain.RoleAI})
	}
	return members, nil
}
