package service

import (
	"context"
	"testing"

	"poultrycore/internal/config"
	"poultrycore/internal/domain"
	"poultrycore/internal/dto"
	"poultrycore/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func buildAuthSvc(env *testEnv) AuthService {
	cfg := &config.Config{
		JWTSecret:          "unit-test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return NewAuthService(env.users, cfg)
}

func seedCredentials(env *testEnv, username, password, role string) *model.User {
	u := env.users.seed(username, role, 1)
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u.PasswordHash = string(hash)
	return u
}

func TestLoginIssuesTokenPair(t *testing.T) {
	env := newTestEnv()
	svc := buildAuthSvc(env)

	seedCredentials(env, "asha", "hunter2hunter2", model.RoleManager)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "asha", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, "asha", resp.User.Username)
	assert.Equal(t, model.RoleManager, resp.User.Role)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv()
	svc := buildAuthSvc(env)
	ctx := context.Background()

	seedCredentials(env, "asha", "hunter2hunter2", model.RoleStaff)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, dto.LoginRequest{Username: "asha", Password: "wrong"})
		assert.Error(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "hunter2hunter2"})
		assert.Error(t, err)
	})

	t.Run("deactivated user", func(t *testing.T) {
		u := seedCredentials(env, "ravi", "hunter2hunter2", model.RoleStaff)
		require.NoError(t, svc.DeactivateUser(ctx, u.ID))
		_, err := svc.Login(ctx, dto.LoginRequest{Username: "ravi", Password: "hunter2hunter2"})
		assert.Error(t, err)
	})
}

func TestRefreshRotatesTokens(t *testing.T) {
	env := newTestEnv()
	svc := buildAuthSvc(env)
	ctx := context.Background()

	seedCredentials(env, "asha", "hunter2hunter2", model.RoleManager)
	login, err := svc.Login(ctx, dto.LoginRequest{Username: "asha", Password: "hunter2hunter2"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, "not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthService(env.users, &config.Config{
			JWTSecret:          "different-secret",
			JWTExpirationHours: 1,
			JWTRefreshHours:    24,
		})
		foreign, err := other.Login(ctx, dto.LoginRequest{Username: "asha", Password: "hunter2hunter2"})
		require.NoError(t, err)
		_, err = svc.Refresh(ctx, foreign.RefreshToken)
		assert.Error(t, err)
	})
}

func TestCreateUserHashesPassword(t *testing.T) {
	env := newTestEnv()
	svc := buildAuthSvc(env)
	ctx := context.Background()

	resp, err := svc.CreateUser(ctx, dto.CreateUserRequest{
		Username: "kiran",
		Name:     "Kiran N",
		Password: "longenough",
		Role:     model.RoleStaff,
		StoreIDs: []int{1, 2},
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)
	assert.Equal(t, []int{1, 2}, resp.StoreIDs)

	// The stored hash verifies against the plaintext and is not the plaintext.
	stored, err := env.users.FindByUsername(ctx, "kiran")
	require.NoError(t, err)
	assert.NotEqual(t, "longenough", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("longenough")))
}

func TestUpdateUserAppliesPartialChanges(t *testing.T) {
	env := newTestEnv()
	svc := buildAuthSvc(env)
	ctx := context.Background()

	u := seedCredentials(env, "asha", "hunter2hunter2", model.RoleStaff)

	stores := []int{2}
	resp, err := svc.UpdateUser(ctx, u.ID, dto.UpdateUserRequest{
		Role:     model.RoleManager,
		StoreIDs: &stores,
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, resp.Role)
	assert.Equal(t, []int{2}, resp.StoreIDs)
	// untouched fields survive
	assert.Equal(t, "asha", resp.Username)

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, uuid.New(), dto.UpdateUserRequest{Role: model.RoleStaff})
		var nfErr *domain.NotFoundError
		assert.ErrorAs(t, err, &nfErr)
	})
}
