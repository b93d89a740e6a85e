package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/activitylog"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

type LoginInput struct {
	Username string
	Password string
}

type LoginResult struct {
	Session user.Session
	User    user.User
}

type AuthService struct {
	users    user.Repository
	hasher   user.PasswordHasher
	sessions user.SessionIssuer
	activity *ActivityLogService
	logger   *logging.Logger
	now      func() time.Time
}

func NewAuthService(
	users user.Repository,
	hasher user.PasswordHasher,
	sessions user.SessionIssuer,
	activity *ActivityLogService,
	logger *logging.Logger,
) *AuthService {
	if logger == nil {
		logger = logging.Default()
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// Login checks credentials and issues a session token. Unknown users and wrong
// passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Login")
	defer span.End()

	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return LoginResult{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	account, exists, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return LoginResult{}, fmt.Errorf("get user by username: %w", err)
	}
	if !exists {
		return LoginResult{}, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}
	if err := s.hasher.Compare(account.PasswordHash, input.Password); err != nil {
		return LoginResult{}, fmt.Errorf("%w: invalid username or password", ErrUnauthorized)
	}
	if !account.IsActive {
		return LoginResult{}, fmt.Errorf("%w: account is disabled", ErrUnauthorized)
	}

	principal := account.Principal()
	if err := principal.Validate(); err != nil {
		return LoginResult{}, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}

	now := s.now().UTC()
	if err := s.users.TouchLastLogin(ctx, account.ID, now); err != nil {
		s.logger.WarnContext(ctx, "update last login failed", "user_id", account.ID, "error", err)
	} else {
		account.LastLogin = &now
	}

	session, err := s.sessions.Issue(ctx, principal)
	if err != nil {
		return LoginResult{}, fmt.Errorf("issue session: %w", err)
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionLogin,
		Target:   account.Username,
		TargetID: account.ID,
	})
	return LoginResult{Session: session, User: account}, nil
}

func (s *AuthService) Logout(ctx context.Context, principal user.Principal) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AuthService.Logout")
	defer span.End()

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionLogout,
		Target:   principal.Username,
		TargetID: principal.UserID,
	})
}
