package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pageza/pantry/backend/config"
	"github.com/pageza/pantry/backend/internal/models"
)

func TestDatabase(t *testing.T) {
	db, err := Open(sqlite.Open(":memory:"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations())
	assert.NoError(t, db.HealthCheck(context.Background()))

	user := models.User{Email: "test@example.com", PasswordHash: "hashedpassword"}
	require.NoError(t, db.Create(&user).Error)
	assert.NotZero(t, user.ID)

	dup := models.User{Email: "test@example.com", PasswordHash: "other"}
	err = db.Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestNewSQLiteFile(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: t.TempDir() + "/app.db"}
	db, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.RunMigrations())
	assert.True(t, db.Migrator().HasTable("users"))
}

func TestNewUnsupportedDriver(t *testing.T) {
	_, err := New(&config.Config{DBDriver: "mysql"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestNewRedisClientDisabled(t *testing.T) {
	client, err := NewRedisClient(&config.Config{}, zap.NewNop())
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestNewRedisClientBadURL(t *testing.T) {
	_, err := NewRedisClient(&config.Config{RedisURL: "not a url"}, zap.NewNop())
	assert.ErrorContains(t, err, "failed to parse Redis URL")
}

func TestGormLoggerUsesZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	db, err := Open(sqlite.Open(":memory:"), zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	var user models.User
	err = db.Where("email = ?", "ghost@example.com").First(&user).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len(), "missing rows are not logged")

	require.Error(t, db.Exec("SELECT * FROM missing_table").Error)
	entries := logs.FilterMessage("Database error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "gorm", entries[0].LoggerName)
	assert.Contains(t, entries[0].ContextMap()["message"], "missing_table")
}

func TestGormLoggerSlowQuery(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := newGormLogger(zap.New(core))

	l.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)
	l.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 2", 1
	}, nil)

	entries := logs.FilterMessage("Slow query").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["message"], "SELECT 1")
	assert.Equal(t, 1, logs.Len())
}
