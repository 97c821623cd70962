package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/pkg/mailer"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	IssueToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error)
	Authenticate(ctx context.Context, token string) (*entity.User, error)
	Logout(ctx context.Context, token string) error
	CleanupExpired(ctx context.Context) (sessions, codes int64, err error)
}

type authService struct {
	repo   *repository.Repository // users, sessions and confirmation codes
	config *utils.Config
	mail   mailer.Mailer
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	mail mailer.Mailer,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		mail:   mail,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

// Signup registers a user or, when the exact (username, email) pair already
// exists, re-issues a confirmation code for it.
func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	// 1. Validate
	if err := validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	// 2. Resolve existing user by both keys
	byUsername, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	byEmail, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}

	var user *entity.User
	switch {
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		user = byUsername
	case byUsername != nil:
		return nil, newValidationError("username", "A user with that username already exists")
	case byEmail != nil:
		return nil, newValidationError("email", "A user with that email already exists")
	default:
		user, err = s.createUser(ctx, req)
		if err != nil {
			return nil, err
		}
	}

	// 3. Issue code
	if err := s.issueCode(ctx, user); err != nil {
		return nil, err
	}

	return &response.SignupResponse{
		Email:    user.Email,
		Username: user.Username,
	}, nil
}

func (s *authService) createUser(ctx context.Context, req *request.SignupRequest) (*entity.User, error) {
	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username: req.Username,
		Email:    req.Email,
		Role:     entity.RoleUser,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newValidationError("username", "A user with that username or email already exists")
		}
		return nil, fmt.Errorf("signup: %w", err)
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return user, nil
}

// issueCode replaces any outstanding code of user with a fresh one and mails it.
func (s *authService) issueCode(ctx context.Context, user *entity.User) error {
	code, err := utils.GenerateCode(s.config.Code.Length)
	if err != nil {
		return fmt.Errorf("issue confirmation code: %w", err)
	}

	hash, err := utils.HashSecret(code)
	if err != nil {
		return fmt.Errorf("issue confirmation code: %w", err)
	}

	if err := s.repo.ConfirmationCode.InvalidateAll(ctx, user.ID); err != nil {
		return fmt.Errorf("issue confirmation code: %w", err)
	}

	now := s.now()
	record := &entity.ConfirmationCode{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		CodeHash:  hash,
		ExpiresAt: now.Add(time.Duration(s.config.Code.ExpiryMinutes) * time.Minute),
	}

	if err := s.repo.ConfirmationCode.Create(ctx, record); err != nil {
		return fmt.Errorf("issue confirmation code: %w", err)
	}

	msg := mailer.Message{
		To:      user.Email,
		Subject: "Your confirmation code",
		Body: fmt.Sprintf("Hello %s,\n\nYour confirmation code is %s. It expires at %s.\n",
			user.Username, code, record.ExpiresAt.Format(time.RFC3339)),
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		return fmt.Errorf("deliver confirmation code: %w", err)
	}

	return nil
}

// IssueToken exchanges a confirmation code for an access token.
func (s *authService) IssueToken(ctx context.Context, req *request.TokenRequest) (*response.TokenResponse, error) {
	// 1. Validate
	if err := validate(req); err != nil {
		return nil, err
	}

	// 2. Find user
	user, err := s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", req.Username, ErrNotFound)
	}

	// 3. Check code
	code, err := s.repo.ConfirmationCode.FindLatestValid(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	if code == nil || !utils.CheckSecretHash(req.ConfirmationCode, code.CodeHash) {
		s.log.Warn("Invalid confirmation code", zap.String("username", user.Username))
		return nil, newValidationError("confirmation_code", "Invalid or expired confirmation code")
	}

	if err := s.repo.ConfirmationCode.MarkAsUsed(ctx, code.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// consumed by a concurrent request
			return nil, newValidationError("confirmation_code", "Invalid or expired confirmation code")
		}
		return nil, fmt.Errorf("issue token: %w", err)
	}

	// 4. Create session
	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("Token issued", zap.String("user_id", user.ID.String()))

	return &response.TokenResponse{Token: session.Token.String()}, nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     uuid.New(),
		ExpiresAt: now.Add(time.Duration(s.config.Token.ExpiryHours) * time.Hour),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Authenticate resolves a bearer token to its user.
func (s *authService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	tokenID, err := uuid.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("malformed token: %w", ErrUnauthorized)
	}

	session, err := s.repo.Session.FindValidSession(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("invalid or expired token: %w", ErrUnauthorized)
	}

	user, err := s.repo.User.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("token owner missing: %w", ErrUnauthorized)
	}

	return user, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	tokenID, err := uuid.Parse(token)
	if err != nil {
		return fmt.Errorf("malformed token: %w", ErrUnauthorized)
	}

	if err := s.repo.Session.Revoke(ctx, tokenID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("session already revoked: %w", ErrUnauthorized)
		}
		return fmt.Errorf("logout: %w", err)
	}

	return nil
}

// CleanupExpired purges stale sessions and confirmation codes.
func (s *authService) CleanupExpired(ctx context.Context) (int64, int64, error) {
	sessions, err := s.repo.Session.CleanExpiredSessions(ctx)
	if err != nil {
		return 0, 0, err
	}

	codes, err := s.repo.ConfirmationCode.DeleteExpired(ctx)
	if err != nil {
		return sessions, 0, err
	}

	return sessions, codes, nil
}
