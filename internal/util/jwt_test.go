package util

import (
	"pulsa_edu_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	user := &model.User{Email: "jean@exemple.fr", Role: model.Learner}
	user.ID = 42

	token, err := GenerateJWT(user, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Learner, claims.Role)

	_, err = ParseJWT(token, "other-secret")
	assert.Error(t, err)
}

func TestParseJWTExpired(t *testing.T) {
	user := &model.User{Email: "a@b.c", Role: model.Admin}
	token, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}
