package service

import (
	"context"
	"pulsa_edu_backend/internal/model"
	"pulsa_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user, err := svc.Auth.Register(ctx, RegisterRequest{Name: "Alice", Email: "Alice@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, model.Learner, user.Role)
	assert.NotEqual(t, "password123", user.Password)

	_, err = svc.Auth.Register(ctx, RegisterRequest{Name: "Again", Email: "alice@example.com", Password: "password123"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)

	res, err := svc.Auth.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)
	claims, err := util.ParseJWT(res.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = svc.Auth.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	_, err = svc.Auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestGetProfileMissingUser(t *testing.T) {
	svc := newTestServices(t)
	_, err := svc.Auth.GetProfile(context.Background(), 12345)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}
