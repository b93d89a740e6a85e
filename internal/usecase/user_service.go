package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/sport-alerts/internal/domain/activitylog"
	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	"github.com/riskibarqy/sport-alerts/internal/platform/id"
	"github.com/riskibarqy/sport-alerts/internal/platform/logging"
)

const minPasswordLength = 6

type CreateUserInput struct {
	Username  string
	Password  string
	Name      string
	Email     string
	Role      string
	SportType string
}

type UpdateUserInput struct {
	Username  *string
	Password  *string
	Name      *string
	Email     *string
	Role      *string
	SportType *string
	IsActive  *bool
}

type UserServiceConfig struct {
	// ProtectedUsername names the main admin account, which cannot be deleted.
	ProtectedUsername string
}

type UserService struct {
	repo     user.Repository
	hasher   user.PasswordHasher
	activity *ActivityLogService
	ids      id.Generator
	cfg      UserServiceConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewUserService(
	repo user.Repository,
	hasher user.PasswordHasher,
	activity *ActivityLogService,
	ids id.Generator,
	cfg UserServiceConfig,
	logger *logging.Logger,
) *UserService {
	if logger == nil {
		logger = logging.Default()
	}
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		activity: activity,
		ids:      ids,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *UserService) List(ctx context.Context, principal user.Principal) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.List")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return nil, err
	}
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return items, nil
}

func (s *UserService) Get(ctx context.Context, principal user.Principal, userID string) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Get")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return user.User{}, err
	}
	return s.load(ctx, userID)
}

func (s *UserService) Create(ctx context.Context, principal user.Principal, input CreateUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Create")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return user.User{}, err
	}

	username := strings.TrimSpace(input.Username)
	if username == "" || input.Password == "" {
		return user.User{}, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if len(input.Password) < minPasswordLength {
		return user.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}
	role := user.RoleUser
	if strings.TrimSpace(input.Role) != "" {
		parsed, err := user.ParseRole(input.Role)
		if err != nil {
			return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		role = parsed
	}
	sportType, err := scopedSport(role, input.SportType)
	if err != nil {
		return user.User{}, err
	}
	if err := s.ensureUsernameFree(ctx, username, ""); err != nil {
		return user.User{}, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password: %w", err)
	}
	userID, err := s.ids.NewID()
	if err != nil {
		return user.User{}, fmt.Errorf("generate user id: %w", err)
	}

	now := s.now().UTC()
	item := user.User{
		ID:           userID,
		Username:     username,
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: hash,
		Role:         role,
		SportType:    sportType,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return user.User{}, fmt.Errorf("create user: %w", err)
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionCreateUser,
		Target:   item.Username,
		TargetID: item.ID,
		Details:  map[string]any{"role": string(item.Role), "sportType": item.SportType},
	})
	return item, nil
}

func (s *UserService) Update(ctx context.Context, principal user.Principal, userID string, input UpdateUserInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Update")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return user.User{}, err
	}
	item, err := s.load(ctx, userID)
	if err != nil {
		return user.User{}, err
	}

	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return user.User{}, fmt.Errorf("%w: username cannot be empty", ErrInvalidInput)
		}
		if username != item.Username {
			if err := s.ensureUsernameFree(ctx, username, item.ID); err != nil {
				return user.User{}, err
			}
			item.Username = username
		}
	}
	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < minPasswordLength {
			return user.User{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
		}
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return user.User{}, fmt.Errorf("hash password: %w", err)
		}
		item.PasswordHash = hash
	}
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		item.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if input.Role != nil {
		role, err := user.ParseRole(*input.Role)
		if err != nil {
			return user.User{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		item.Role = role
	}
	sportType := item.SportType
	if input.SportType != nil {
		sportType = *input.SportType
	}
	if item.SportType, err = scopedSport(item.Role, sportType); err != nil {
		return user.User{}, err
	}
	if input.IsActive != nil {
		item.IsActive = *input.IsActive
	}
	item.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, item); err != nil {
		return user.User{}, fmt.Errorf("update user: %w", err)
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionUpdateUser,
		Target:   item.Username,
		TargetID: item.ID,
		Details:  map[string]any{"role": string(item.Role), "isActive": item.IsActive},
	})
	return item, nil
}

func (s *UserService) Delete(ctx context.Context, principal user.Principal, userID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.UserService.Delete")
	defer span.End()

	if err := requireAdmin(principal); err != nil {
		return err
	}
	item, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if protected := strings.TrimSpace(s.cfg.ProtectedUsername); protected != "" && strings.EqualFold(item.Username, protected) {
		return fmt.Errorf("%w: the main admin account cannot be deleted", ErrForbidden)
	}
	if item.ID == principal.UserID {
		return fmt.Errorf("%w: you cannot delete your own account", ErrForbidden)
	}

	deleted, err := s.repo.Delete(ctx, item.ID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !deleted {
		return fmt.Errorf("%w: user=%s", ErrNotFound, item.ID)
	}

	s.activity.Record(ctx, ActivityInput{
		Actor:    principal,
		Action:   activitylog.ActionDeleteUser,
		Target:   item.Username,
		TargetID: item.ID,
	})
	return nil
}

func (s *UserService) load(ctx context.Context, userID string) (user.User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	item, exists, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.User{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	return item, nil
}

func (s *UserService) ensureUsernameFree(ctx context.Context, username, selfID string) error {
	existing, exists, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("get user by username: %w", err)
	}
	if exists && existing.ID != selfID {
		return fmt.Errorf("%w: username already exists", ErrInvalidInput)
	}
	return nil
}

func requireAdmin(principal user.Principal) error {
	if !principal.IsAdmin() {
		return fmt.Errorf("%w: admin role required", ErrForbidden)
	}
	return nil
}

// scopedSport returns the sport scope to store for role: required for sport
// managers and cleared for admins.
func scopedSport(role user.Role, sportType string) (string, error) {
	sportType = strings.TrimSpace(sportType)
	switch role {
	case user.RoleSportManager:
		if sportType == "" {
			return "", fmt.Errorf("%w: sportType is required for SPORT_MANAGER", ErrInvalidInput)
		}
		return sportType, nil
	case user.RoleAdmin:
		return "", nil
	default:
		return sportType, nil
	}
}
