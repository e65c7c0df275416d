package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/candylab/sweetshop-api/internal/application/dto"
	"github.com/candylab/sweetshop-api/internal/application/validation"
	"github.com/candylab/sweetshop-api/internal/domain"
	"github.com/candylab/sweetshop-api/internal/domain/entity"
	"github.com/candylab/sweetshop-api/internal/domain/repository"
	pkgjwt "github.com/candylab/sweetshop-api/pkg/jwt"
)

// JWTConfig token generation settings for the use case.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// UseCase implements registration, login and the per-request user lookup the
// authorization middleware relies on.
type UseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewUseCase builds the auth use case.
func NewUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *UseCase {
	return &UseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Register creates a user: validates the payload, hashes the password with
// bcrypt and persists. Returns domain.ErrEmailAlreadyExists when the email
// is taken. The role defaults to USER.
func (uc *UseCase) Register(in dto.RegisterRequest) (*dto.AuthResponse, error) {
	input, verr := validation.ValidateRegister(in)
	if verr != nil {
		return nil, verr
	}

	existing, err := uc.userRepo.GetByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = entity.RoleUser
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := pkgjwt.Generate(uc.jwtCfg.Secret, user.ID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &dto.AuthResponse{User: toUserResponse(user), Token: token}, nil
}

// Login verifies email/password and returns a fresh token. Unknown email and
// wrong password both come back as domain.ErrInvalidCredentials so callers
// cannot enumerate accounts.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.AuthResponse, error) {
	input, verr := validation.ValidateLogin(in)
	if verr != nil {
		return nil, verr
	}

	user, err := uc.userRepo.GetByEmail(input.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := pkgjwt.Generate(uc.jwtCfg.Secret, user.ID, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &dto.AuthResponse{User: toUserResponse(user), Token: token}, nil
}

// GetUser resolves a verified token's user id to the current account. The
// role comes from here, not from the token, so revoked privileges take
// effect on the next request. A malformed or unknown id yields
// domain.ErrUnauthorized.
func (uc *UseCase) GetUser(id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

func toUserResponse(u *entity.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
