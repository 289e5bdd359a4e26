package database

import (
	"pulsa_edu_backend/internal/config"
	"pulsa_edu_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorRejectsUnknownType(t *testing.T) {
	_, err := Dialector(&config.DatabaseConfig{Type: "oracle"})
	assert.Error(t, err)
}

func TestAutoMigrateSeedsBadgesOnce(t *testing.T) {
	db, err := InitDB(&config.DatabaseConfig{Type: "sqlite", SQLitePath: "file::memory:"}, "release")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, AutoMigrate(db))
	require.NoError(t, AutoMigrate(db))

	var count int64
	require.NoError(t, db.Model(&model.Badge{}).Count(&count).Error)
	assert.Equal(t, int64(len(DefaultBadges)), count)
}
