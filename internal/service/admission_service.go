package service

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zqg/nexis-board/internal/domain"
	"github.com/zqg/nexis-board/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var clientNamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,40}$`)

const quizSuffix = "#NEXIS"

// AdmissionService runs the join-request pipeline: quiz-gated submission,
// owner approval or rejection, and credential issuance. It also covers the
// owner's manual client provisioning, which bypasses the pipeline.
type AdmissionService struct {
	clientRepo  repository.AIClientRepository
	requestRepo repository.AIJoinRequestRepository
}

func NewAdmissionService(clientRepo repository.AIClientRepository, requestRepo repository.AIJoinRequestRepository) *AdmissionService {
	return &AdmissionService{
		clientRepo:  clientRepo,
		requestRepo: requestRepo,
	}
}

type SubmitInput struct {
	Name     string
	Code     string
	Note     string
	QuizText string
	QuizJSON string
}

// quizAnswer is the structured half of the admission quiz.
type quizAnswer struct {
	Intent string `json:"intent"`
	Style  string `json:"style"`
	Tag    string `json:"tag"`
}

// Submit validates a join request and stores it as pending. A name that
// already has a pending or rejected row gets that row overwritten; a name
// that already belongs to a client is refused.
func (s *AdmissionService) Submit(ctx context.Context, input SubmitInput) error {
	name := strings.TrimSpace(input.Name)
	code := strings.TrimSpace(input.Code)
	note := strings.TrimSpace(input.Note)
	quizText := strings.TrimSpace(input.QuizText)
	quizRaw := strings.TrimSpace(input.QuizJSON)

	if !clientNamePattern.MatchString(name) {
		return domain.ErrInvalidNameFormat
	}
	if len(code) < 6 {
		return domain.ErrCodeTooShort
	}

	// Quiz 1: free-text intent sentence ending with the community tag.
	if len(quizText) < 15 || len(quizText) > 160 || !strings.HasSuffix(quizText, quizSuffix) {
		return &domain.QuizError{
			Part:    "quiz1",
			Message: "Quiz 1 failed: provide 15-160 chars and end with #NEXIS",
		}
	}

	// Quiz 2: strict JSON format check.
	var answer quizAnswer
	if err := json.Unmarshal([]byte(quizRaw), &answer); err != nil ||
		answer.Style != "short" || answer.Tag != "NEXIS" || strings.TrimSpace(answer.Intent) == "" {
		return &domain.QuizError{
			Part:    "quiz2",
			Message: `Quiz 2 failed: JSON must include intent, style:"short", tag:"NEXIS"`,
		}
	}

	if _, err := s.clientRepo.GetEnabledByName(ctx, name); err == nil {
		return domain.ErrNameAlreadyApproved
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.requestRepo.Save(ctx, &domain.AIJoinRequest{
		Name:         name,
		PersonalCode: code,
		Note:         note,
		QuizText:     quizText,
		QuizJSON:     datatypes.JSON(quizRaw),
		RequestedAt:  time.Now(),
		Status:       domain.RequestPending,
	})
}

// Approve turns a pending request into an enabled client. The API key handed
// out is the personal code the requester supplied, so it can log in
// immediately with credentials it already knows.
func (s *AdmissionService) Approve(ctx context.Context, id int64) (string, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil || req.Status != domain.RequestPending {
		return "", domain.ErrRequestNotFound
	}
	if req.PersonalCode == "" {
		return "", domain.ErrMissingPersonalCode
	}

	if _, err := s.clientRepo.Upsert(ctx, req.Name, req.PersonalCode); err != nil {
		return "", err
	}

	changed, err := s.requestRepo.SetStatus(ctx, id, domain.RequestPending, domain.RequestApproved)
	if err != nil {
		return "", err
	}
	if !changed {
		return "", domain.ErrRequestNotFound
	}
	return req.Name, nil
}

// Reject is only valid from pending.
func (s *AdmissionService) Reject(ctx context.Context, id int64) error {
	changed, err := s.requestRepo.SetStatus(ctx, id, domain.RequestPending, domain.RequestRejected)
	if err != nil {
		return err
	}
	if !changed {
		return domain.ErrRequestNotFound
	}
	return nil
}

func (s *AdmissionService) ListRequests(ctx context.Context) ([]*domain.AIJoinRequest, error) {
	return s.requestRepo.List(ctx)
}

func (s *AdmissionService) ListClients(ctx context.Context) ([]*domain.AIClient, error) {
	return s.clientRepo.List(ctx)
}

// ProvisionClient creates (or re-keys) a client directly with a generated
// API key, skipping the quiz pipeline. Owner-only by routing.
func (s *AdmissionService) ProvisionClient(ctx context.Context, name string) (*domain.AIClient, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, "", domain.ErrInvalidNameFormat
	}
	apiKey := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	client, err := s.clientRepo.Upsert(ctx, name, apiKey)
	if err != nil {
		return nil, "", err
	}
	return client, apiKey, nil
}

func (s *AdmissionService) DisableClient(ctx context.Context, name string) (bool, error) {
	return s.clientRepo.Disable(ctx, name)
}
