package service

import (
	"context"
	"errors"
	"strings"

	"event-reservation/internal/auth"
	"event-reservation/internal/model"
	"event-reservation/internal/repository"
	"event-reservation/pkg/logger"
	apperrors "event-reservation/pkg/app_errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	// 註冊參與者帳號，永遠不會給予 ADMIN
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	Me(ctx context.Context, p auth.Principal) (*model.UserSummary, error)
	// 確保啟動設定的管理員存在，已存在時不做任何修改
	EnsureAdmin(ctx context.Context, email, name, password string) (*model.User, error)
}

type AuthServiceImpl struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, bcryptCost int) AuthService {
	return &AuthServiceImpl{
		users:      users,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthServiceImpl) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if email == "" || name == "" || req.Password == "" {
		return nil, apperrors.ErrInvalidInput
	}

	hash, err := auth.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Create(ctx, &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         model.RoleParticipant,
	})
	if err != nil {
		return nil, err
	}

	logger.WithComponent("service").Info("user registered", zap.String("user_id", user.ID.String()))
	return s.respond(user)
}

func (s *AuthServiceImpl) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	return s.respond(user)
}

func (s *AuthServiceImpl) Me(ctx context.Context, p auth.Principal) (*model.UserSummary, error) {
	if !p.IsAuthenticated() {
		return nil, apperrors.ErrUnauthorized
	}
	user, err := s.users.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// token 仍有效但帳號已不存在
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	return user.Summary(), nil
}

func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, email, name, password string) (*model.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.ErrInvalidInput
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}

	admin, err := s.users.Create(ctx, &model.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	})
	if errors.Is(err, apperrors.ErrEmailAlreadyRegistered) {
		// 另一個實例剛好先建立
		return s.users.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, err
	}

	logger.WithComponent("service").Info("bootstrap admin created", zap.String("user_id", admin.ID.String()))
	return admin, nil
}

func (s *AuthServiceImpl) respond(user *model.User) (*model.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &model.AuthResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        user.Summary(),
	}, nil
}
