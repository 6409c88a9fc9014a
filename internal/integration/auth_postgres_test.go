package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/pantry/backend/internal/service"
	"github.com/pageza/pantry/backend/internal/testhelpers"
)

func TestAccountsOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	authSvc := service.NewAuthService(db.DB, bcrypt.MinCost)
	ctx := context.Background()

	require.NoError(t, db.HealthCheck(ctx))

	user, err := authSvc.Signup(ctx, "Cook@Example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "cook@example.com", user.Email)

	_, err = authSvc.Signup(ctx, "cook@example.com", "again")
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	_, err = authSvc.Login(ctx, "cook@example.com", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	loggedIn, err := authSvc.Login(ctx, "cook@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	// running migrations again is harmless
	require.NoError(t, db.RunMigrations())
}

func TestSessionRevocationOnRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	sessions := service.NewSessionService("test-secret", time.Hour, service.NewRedisRevocationStore(client))
	ctx := context.Background()

	db := testhelpers.SetupSQLite(t)
	authSvc := service.NewAuthService(db.DB, bcrypt.MinCost)
	user, err := authSvc.Signup(ctx, "cook@example.com", "secret")
	require.NoError(t, err)

	token, err := sessions.Issue(user)
	require.NoError(t, err)
	claims, err := sessions.Validate(ctx, token)
	require.NoError(t, err)

	require.NoError(t, sessions.Revoke(ctx, claims))
	_, err = sessions.Validate(ctx, token)
	assert.ErrorIs(t, err, service.ErrSessionRevoked)
}

func TestSignupRaceOnPostgres(t *testing.T) {
	db := testhelpers.SetupPostgres(t)
	authSvc := service.NewAuthService(db.DB, bcrypt.MinCost)
	ctx := context.Background()

	const attempts = 8
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			_, err := authSvc.Signup(ctx, "race@example.com", "secret")
			errs <- err
		}()
	}

	created := 0
	for i := 0; i < attempts; i++ {
		err := <-errs
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, service.ErrEmailTaken)
	}
	assert.Equal(t, 1, created)
}
