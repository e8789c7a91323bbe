package usecase

import (
	"context"
	"testing"

	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"
	"upbmy/internal/infrastructure/security"

	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthUseCase, *repository.UserRepository) {
	db := openTestDB(t)
	users := repository.NewUserRepository(db)
	uc := NewAuthUseCase(users, security.NewPasswordHasher(), security.NewTokenManager("test-secret"))
	return uc, users
}

func TestRegisterAndLogin(t *testing.T) {
	uc, _ := newAuthFixture(t)
	ctx := context.Background()

	res, err := uc.Register(ctx, RegisterInput{
		FirstName: "María",
		LastName:  "Pérez",
		Email:     "maria@upb.edu.co",
		Password:  "secreto1",
		Role:      "INSTRUCTOR",
	})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	require.Equal(t, domain.RoleInstructor, res.User.Role)

	logged, err := uc.Login(ctx, "maria@upb.edu.co", "secreto1")
	require.NoError(t, err)
	require.Equal(t, res.User.ID, logged.User.ID)

	_, err = uc.Login(ctx, "maria@upb.edu.co", "wrong-password")
	require.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Login(ctx, "nobody@upb.edu.co", "secreto1")
	require.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRegister_DefaultsToStudentRole(t *testing.T) {
	uc, _ := newAuthFixture(t)

	res, err := uc.Register(context.Background(), RegisterInput{
		FirstName: "Juan",
		LastName:  "López",
		Email:     "juan@upb.edu.co",
		Password:  "secreto1",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleStudent, res.User.Role)
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	uc, _ := newAuthFixture(t)

	_, err := uc.Register(context.Background(), RegisterInput{
		FirstName: "Eva",
		LastName:  "Mala",
		Email:     "eva@upb.edu.co",
		Password:  "secreto1",
		Role:      "ADMIN",
	})
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	uc, _ := newAuthFixture(t)
	ctx := context.Background()

	in := RegisterInput{FirstName: "Ana", LastName: "Gil", Email: "ana@upb.edu.co", Password: "secreto1"}
	_, err := uc.Register(ctx, in)
	require.NoError(t, err)

	_, err = uc.Register(ctx, in)
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogin_InactiveUserDenied(t *testing.T) {
	uc, users := newAuthFixture(t)
	ctx := context.Background()

	res, err := uc.Register(ctx, RegisterInput{
		FirstName: "Leo",
		LastName:  "Rojas",
		Email:     "leo@upb.edu.co",
		Password:  "secreto1",
	})
	require.NoError(t, err)
	require.NoError(t, users.SetActive(ctx, res.User.ID, false))

	_, err = uc.Login(ctx, "leo@upb.edu.co", "secreto1")
	require.ErrorIs(t, err, domain.ErrForbidden)
}
