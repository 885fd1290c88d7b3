package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"tokonada/internal/domain/model"
	"tokonada/internal/repository"
)

type RegisterUserInput struct {
	Email    string
	Name     string
	Password string
}

type RegisterUserOutput struct {
	User model.User
}

var (
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrNameRequired       = errors.New("name required")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrWeakPassword       = errors.New("weak password")

	ErrEmailAlreadyExists = errors.New("email already exists")
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type Clock interface {
	Now() time.Time
}

type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	clock    Clock
}

func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		clock:    clock,
	}
}

func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	// Emails are stored lowercased so the unique index catches case
	// variants.
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if !isValidEmailFormat(email) {
		return out, ErrInvalidEmailFormat
	}
	if strings.TrimSpace(in.Name) == "" {
		return out, ErrNameRequired
	}
	if len(in.Password) < 12 {
		return out, ErrPasswordTooShort
	}
	if isWeakPassword(in.Password) {
		return out, ErrWeakPassword
	}

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return out, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return out, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	now := u.clock.Now()
	user := &model.User{
		Email:        email,
		PasswordHash: hashed,
		Name:         strings.TrimSpace(in.Name),
		Role:         model.RoleCustomer,
		State:        model.StateAktif,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return out, err
	}

	out.User = *user
	return out, nil
}

func isValidEmailFormat(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}

// A few passwords we never accept no matter the length.
func isWeakPassword(pw string) bool {
	switch strings.ToLower(pw) {
	case "password1234", "123456789012", "qwertyuiop12":
		return true
	}
	return false
}
