package auth

import (
	"time"

	"tokonada/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

const accessTokenTTL = 15 * time.Minute

// JwtIssuer signs HS256 access tokens carrying sub/role/tv claims.
type JwtIssuer struct {
	secret []byte
}

func NewJwtIssuer(secret string) *JwtIssuer {
	return &JwtIssuer{secret: []byte(secret)}
}

func (i *JwtIssuer) Issue(userID int64, role model.Role, tokenVersion int) (string, int64, error) {
	now := time.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"tv":   tokenVersion,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(i.secret)
	if err != nil {
		return "", 0, err
	}

	return signed, int64(accessTokenTTL.Seconds()), nil
}
