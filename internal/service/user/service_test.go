package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zerofoodhero/api/internal/email"
	"github.com/zerofoodhero/api/internal/model"
	"github.com/zerofoodhero/api/internal/repository/kv"
	"github.com/zerofoodhero/api/internal/service/notification"
	"github.com/zerofoodhero/api/internal/storage"
	"github.com/zerofoodhero/api/pkg/auth"
	apperrors "github.com/zerofoodhero/api/pkg/errors"
	"github.com/zerofoodhero/api/pkg/logger"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	store := storage.NewMemoryStore()
	t.Cleanup(func() { store.Close() })

	log := logger.NewLogger(nil)
	userRepo := kv.NewUserRepository(store, log)
	notifier := notification.NewService(
		kv.NewNotificationRepository(store, log),
		kv.NewSettingsRepository(store, log),
		userRepo,
		email.NewNoopService(),
		log,
	)
	jwtSvc := auth.NewJWTService(auth.Config{Secret: "test-secret", RefreshSecret: "test-refresh"})
	return NewService(userRepo, jwtSvc, notifier, log)
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:    "asha@example.com",
		Name:     "Asha",
		Password: "s3cret-pass",
		Role:     model.RoleDonor,
	}
}

func TestRegister(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, model.RoleDonor, u.Role)

	// password is stored hashed, never verbatim
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.NotEmpty(t, u.PasswordHash)

	// signup lands in the activity log
	require.NotEmpty(t, u.Activity)
	assert.Equal(t, "signup", u.Activity[0].Action)
}

func TestRegisterDuplicateEmailCaseInsensitive(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	dup := registerRequest()
	dup.Email = "ASHA@Example.COM"
	_, err = svc.Register(ctx, dup)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	svc := newTestService(t)

	req := registerRequest()
	req.Role = model.RoleAdmin
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrBadRequest, appErr.Code)
}

func TestLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	tokens, u, err := svc.Login(ctx, "asha@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "Asha", u.Name)

	// wrong password and unknown account fail identically
	_, _, err = svc.Login(ctx, "asha@example.com", "wrong")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	require.Error(t, err)
	appErr, ok = apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestRefresh(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	tokens, _, err := svc.Login(ctx, "asha@example.com", "s3cret-pass")
	require.NoError(t, err)

	fresh, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)

	_, err = svc.Refresh(ctx, "not-a-token")
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestSwitchRole(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)

	u, err = svc.SwitchRole(ctx, u.ID, model.RoleVolunteer)
	require.NoError(t, err)
	assert.Equal(t, model.RoleVolunteer, u.Role)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleVolunteer, got.Role)
	assert.Equal(t, "switch_role", got.Activity[len(got.Activity)-1].Action)

	_, err = svc.SwitchRole(ctx, u.ID, model.RoleAdmin)
	require.Error(t, err)
}

func TestDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, registerRequest())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, u.ID))

	_, err = svc.Get(ctx, u.ID)
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
}
