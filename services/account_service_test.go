package services

import (
	"context"
	"testing"
	"time"

	"afyaconnect_back_end_go/auth"
	"afyaconnect_back_end_go/models"
	"afyaconnect_back_end_go/validators"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRegisterAndLogin(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	svc := NewAccountService(newTestDB(t), issuer)
	ctx := context.Background()

	token, err := svc.Register(ctx, models.RegisterRequest{Email: " Jane@Example.com ", Password: "s3cret-pass", Name: "Jane"})
	require.NoError(t, err)
	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, models.RolePatient, claims.Role)

	token, err = svc.Login(ctx, models.LoginRequest{Email: "jane@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	again, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, claims.AccountID, again.AccountID)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "jane@example.com", Password: "wrong-pass"})
	assert.True(t, errors.Is(err, ErrUnauthorized))

	_, err = svc.Login(ctx, models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.True(t, errors.Is(err, ErrUnauthorized))
}

func TestAccountRegisterDuplicateEmail(t *testing.T) {
	svc := NewAccountService(newTestDB(t), auth.NewTokenIssuer("test-secret", time.Hour))
	ctx := context.Background()

	req := models.RegisterRequest{Email: "jane@example.com", Password: "s3cret-pass", Name: "Jane"}
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	req.Email = "JANE@example.com"
	_, err = svc.Register(ctx, req)
	assert.True(t, errors.Is(err, ErrConflict))
}

func TestAccountRegisterValidation(t *testing.T) {
	svc := NewAccountService(newTestDB(t), auth.NewTokenIssuer("test-secret", time.Hour))

	_, err := svc.Register(context.Background(), models.RegisterRequest{Email: "jane", Password: "short"})
	var fe validators.FieldErrors
	require.True(t, errors.As(err, &fe))
	fields := fe.Map()
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
	assert.Contains(t, fields, "name")
}

func TestAccountEnsureAdmin(t *testing.T) {
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	svc := NewAccountService(newTestDB(t), issuer)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "admin@afyaconnect.co.ke", "admin-pass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin@afyaconnect.co.ke", "admin-pass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))

	token, err := svc.Login(ctx, models.LoginRequest{Email: "admin@afyaconnect.co.ke", Password: "admin-pass"})
	require.NoError(t, err)
	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}
