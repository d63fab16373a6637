package users

import (
	"context"
	"testing"

	"github.com/alanhoffer/hf-dashboard/pkg/config"
	"github.com/alanhoffer/hf-dashboard/pkg/db/dbtest"
	"github.com/alanhoffer/hf-dashboard/pkg/enums"
	pkgerrors "github.com/alanhoffer/hf-dashboard/pkg/errors"
	"github.com/alanhoffer/hf-dashboard/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fastArgon = config.PasswordConfig{
	ArgonMemoryKB:    1024,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

func newTestService(t *testing.T) (*Service, *Repository) {
	t.Helper()
	repo := NewRepository(dbtest.Open(t))
	svc, err := NewService(repo, fastArgon)
	require.NoError(t, err)
	return svc, repo
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateUserInput{
		Email:    "  Operadora@Criadero.test ",
		Name:     "Lucia",
		Password: "jalea-real-99",
	})
	require.NoError(t, err)
	assert.Equal(t, "operadora@criadero.test", dto.Email)
	assert.Equal(t, enums.UserRoleOperator, dto.Role)
	assert.True(t, dto.IsActive)

	stored, err := repo.FindByEmail(ctx, "OPERADORA@criadero.test")
	require.NoError(t, err)
	assert.NotEqual(t, "jalea-real-99", stored.PasswordHash)
	ok, err := security.VerifyPassword("jalea-real-99", stored.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateUserValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "not-an-email",
		Password: "short",
		Role:     enums.UserRole("owner"),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	for _, field := range []string{"email", "name", "password", "role"} {
		assert.Contains(t, details, field)
	}
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	input := CreateUserInput{Email: "admin@criadero.test", Name: "Admin", Password: "colmena-123", Role: enums.UserRoleAdmin}

	_, err := svc.Create(ctx, input)
	require.NoError(t, err)
	_, err = svc.Create(ctx, input)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

func TestDeactivateAndList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	dto, err := svc.Create(ctx, CreateUserInput{Email: "b@criadero.test", Name: "B", Password: "colmena-123"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateUserInput{Email: "a@criadero.test", Name: "A", Password: "colmena-123"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, dto.ID))
	got, err := svc.Get(ctx, dto.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a@criadero.test", all[0].Email)

	assert.True(t, pkgerrors.HasCode(svc.Deactivate(ctx, uuid.New()), pkgerrors.CodeNotFound))
	_, err = svc.Get(ctx, uuid.New())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeNotFound))
}
