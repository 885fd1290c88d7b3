package auth

import (
	"context"
	"errors"
	"strings"

	"tokonada/internal/domain/model"
	"tokonada/internal/repository"
)

type LoginInput struct {
	Email    string
	Password string
}

type JwtAccessToken struct {
	AccessToken  string
	ExpiresIn    int64
	TokenVersion int
}

type LoginOutput struct {
	User  model.User
	Token JwtAccessToken
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user inactive")
)

type PasswordVerifier interface {
	Verify(hashed, plain string) error
}

type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, tokenVersion int) (token string, expiresIn int64, err error)
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	clock    Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	if err := u.verifier.Verify(user.PasswordHash, in.Password); err != nil {
		return out, ErrInvalidCredentials
	}
	if user.State != model.StateAktif {
		return out, ErrUserInactive
	}

	token, expiresIn, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion)
	if err != nil {
		return out, err
	}

	now := u.clock.Now()
	user.LastLoginAt = &now
	if err := u.userRepo.Update(ctx, user); err != nil {
		return out, err
	}

	out.User = *user
	out.Token = JwtAccessToken{
		AccessToken:  token,
		ExpiresIn:    expiresIn,
		TokenVersion: user.TokenVersion,
	}
	return out, nil
}
