package service

import (
	"context"
	"errors"
	"fmt"

	"assembly-guide-be/internal/dto"
	"assembly-guide-be/internal/pkg/logger"
	"assembly-guide-be/internal/repository/memory"
	"assembly-guide-be/pkg/catalog"
	"assembly-guide-be/pkg/store"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrInvalidPassword rejects a login with a wrong shared secret.
var ErrInvalidPassword = errors.New("invalid password")

type IAuthService interface {
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(sessionId string)
	Teams() *dto.TeamsResponse
}

type authService struct {
	cat            *catalog.Catalog
	sessionRepo    *memory.SessionRepository
	sharedPassword string
	validate       *validator.Validate
	logger         logger.ILogger
}

func NewAuthService(cat *catalog.Catalog, sessionRepo *memory.SessionRepository, sharedPassword string, log logger.ILogger) IAuthService {
	return &authService{
		cat:            cat,
		sessionRepo:    sessionRepo,
		sharedPassword: sharedPassword,
		validate:       validator.New(),
		logger:         log,
	}
}

// Login gates entry on the shared secret and the team having work to do.
// A team with no catalog rows is recoverable: the client re-prompts.
func (s *authService) Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := s.validate.Struct(request); err != nil {
		return nil, fmt.Errorf("invalid login request: %w", err)
	}

	if request.Password != s.sharedPassword {
		s.logger.Warn("auth", "login rejected: wrong password", map[string]interface{}{
			"student": request.StudentName,
		})
		return nil, ErrInvalidPassword
	}

	tasks, err := s.cat.TasksForTeam(request.TeamNumber)
	if err != nil {
		return nil, err
	}

	session := store.NewSession(uuid.NewString(), request.StudentName, request.TeamNumber)
	s.sessionRepo.Save(session)

	s.logger.Info("auth", "session created", map[string]interface{}{
		"session_id": session.ID,
		"student":    session.StudentName,
		"team":       session.TeamNumber,
		"task_count": len(tasks),
	})

	return &dto.LoginResponse{
		SessionId:   session.ID,
		StudentName: session.StudentName,
		TeamNumber:  session.TeamNumber,
		TaskCount:   len(tasks),
	}, nil
}

func (s *authService) Logout(sessionId string) {
	s.sessionRepo.Delete(sessionId)
}

// Teams lists the selectable team numbers for the login screen.
func (s *authService) Teams() *dto.TeamsResponse {
	return &dto.TeamsResponse{Teams: s.cat.Teams()}
}
