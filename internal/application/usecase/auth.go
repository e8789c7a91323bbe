package usecase

import (
	"context"

	"upbmy/internal/domain"
	"upbmy/internal/infrastructure/repository"
	"upbmy/internal/infrastructure/security"

	"github.com/google/uuid"
)

type AuthUseCase struct {
	users  *repository.UserRepository
	hasher *security.PasswordHasher
	tokens *security.TokenManager
}

func NewAuthUseCase(users *repository.UserRepository, hasher *security.PasswordHasher, tokens *security.TokenManager) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: tokens}
}

type RegisterInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (uc *AuthUseCase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	role := domain.Role(in.Role)
	switch role {
	case domain.RoleStudent, domain.RoleInstructor:
	case "":
		role = domain.RoleStudent
	default:
		// админов через регистрацию не раздаём
		return nil, domain.ErrValidation
	}

	exists, err := uc.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrConflict
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokens.Generate(user.ID.String(), string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		// не выдаём, существует ли email
		return nil, domain.ErrForbidden
	}
	if err := uc.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, domain.ErrForbidden
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}

	token, err := uc.tokens.Generate(user.ID.String(), string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}
