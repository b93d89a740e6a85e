package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/sport-alerts/internal/domain/user"
	usermock "github.com/riskibarqy/sport-alerts/internal/mocks/domain/user"
	"github.com/stretchr/testify/mock"
)

func TestUserService_Create_SportManagerNeedsSport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := usermock.NewRepository(t)
	hasher := usermock.NewPasswordHasher(t)
	service := NewUserService(repo, hasher, nil, &sequenceIDs{prefix: "user"}, UserServiceConfig{}, nil)

	_, err := service.Create(ctx, adminPrincipal, CreateUserInput{
		Username: "fb-manager",
		Password: "secret123",
		Role:     "SPORT_MANAGER",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	repo.
		On("GetByUsername", ctxIs(ctx), "fb-manager").
		Return(user.User{}, false, nil).
		Once()
	hasher.
		On("Hash", "secret123").
		Return("hashed", nil).
		Once()
	repo.
		On("Create", ctxIs(ctx), mock.MatchedBy(func(u user.User) bool {
			return u.ID == "user-1" && u.Role == user.RoleSportManager && u.SportType == "Football" && u.PasswordHash == "hashed"
		})).
		Return(nil).
		Once()

	got, err := service.Create(ctx, adminPrincipal, CreateUserInput{
		Username:  "fb-manager",
		Password:  "secret123",
		Role:      "SPORT_MANAGER",
		SportType: "Football",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if !got.IsActive {
		t.Fatalf("new user should be active")
	}
}

func TestUserService_Create_RejectsDuplicateAndShortPassword(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := usermock.NewRepository(t)
	service := NewUserService(repo, usermock.NewPasswordHasher(t), nil, &sequenceIDs{prefix: "user"}, UserServiceConfig{}, nil)

	if _, err := service.Create(ctx, adminPrincipal, CreateUserInput{Username: "editor", Password: "123"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}

	repo.
		On("GetByUsername", ctxIs(ctx), "editor").
		Return(user.User{ID: "u-editor", Username: "editor"}, true, nil).
		Once()

	if _, err := service.Create(ctx, adminPrincipal, CreateUserInput{Username: "editor", Password: "secret123"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate, got %v", err)
	}
}

func TestUserService_RequiresAdmin(t *testing.T) {
	t.Parallel()

	service := NewUserService(usermock.NewRepository(t), usermock.NewPasswordHasher(t), nil, &sequenceIDs{prefix: "user"}, UserServiceConfig{}, nil)
	if _, err := service.List(context.Background(), basketballManager); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Delete_ProtectsMainAdminAndSelf(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := usermock.NewRepository(t)
	service := NewUserService(repo, usermock.NewPasswordHasher(t), nil, &sequenceIDs{prefix: "user"}, UserServiceConfig{ProtectedUsername: "admin"}, nil)

	repo.
		On("GetByID", ctxIs(ctx), "u-root").
		Return(user.User{ID: "u-root", Username: "Admin"}, true, nil).
		Once()
	repo.
		On("GetByID", ctxIs(ctx), "u-admin").
		Return(user.User{ID: "u-admin", Username: "second-admin"}, true, nil).
		Once()
	repo.
		On("GetByID", ctxIs(ctx), "u-editor").
		Return(user.User{ID: "u-editor", Username: "editor"}, true, nil).
		Once()
	repo.
		On("Delete", ctxIs(ctx), "u-editor").
		Return(true, nil).
		Once()

	if err := service.Delete(ctx, adminPrincipal, "u-root"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for main admin, got %v", err)
	}
	if err := service.Delete(ctx, adminPrincipal, "u-admin"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self delete, got %v", err)
	}
	if err := service.Delete(ctx, adminPrincipal, "u-editor"); err != nil {
		t.Fatalf("delete editor: %v", err)
	}
}

func TestUserService_Update_PromotionToAdminClearsSport(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := usermock.NewRepository(t)
	service := NewUserService(repo, usermock.NewPasswordHasher(t), nil, &sequenceIDs{prefix: "user"}, UserServiceConfig{}, nil)

	repo.
		On("GetByID", ctxIs(ctx), "u-fb").
		Return(user.User{ID: "u-fb", Username: "fb-manager", Role: user.RoleSportManager, SportType: "Football", IsActive: true}, true, nil).
		Once()
	repo.
		On("Update", ctxIs(ctx), mock.MatchedBy(func(u user.User) bool { return u.Role == user.RoleAdmin && u.SportType == "" })).
		Return(nil).
		Once()

	role := "ADMIN"
	got, err := service.Update(ctx, adminPrincipal, "u-fb", UpdateUserInput{Role: &role})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if got.SportType != "" {
		t.Fatalf("unexpected sport scope: got=%q want empty", got.SportType)
	}
}
