package service

import (
	"learning_platform_backend/internal/config"
	"learning_platform_backend/internal/model"
	"learning_platform_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(f *testFixture) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(f.users, nil, cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	user, err := svc.Register(RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "secret-password", user.Password)

	resp, err := svc.Login(LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	claims, err := util.ParseJWT(resp.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, model.Student, claims.Role)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	_, err := svc.Register(RegisterRequest{
		Name:     "张三",
		Email:    "dup@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	_, err = svc.Register(RegisterRequest{
		Name:     "李四",
		Email:    "dup@example.com",
		Password: "another-password",
	})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLogin_WrongPassword(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	_, err := svc.Register(RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)

	_, err = svc.Login(LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestLogin_UnknownUser(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	_, err := svc.Login(LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
