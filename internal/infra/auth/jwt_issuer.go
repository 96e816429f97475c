// Package auth holds the credential primitives: access tokens and SMS
// code hashing.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTIssuer(secret string, accessTTL time.Duration) *JWTIssuer {
	if accessTTL <= 0 {
		accessTTL = 24 * time.Hour
	}
	return &JWTIssuer{secret: []byte(secret), accessTTL: accessTTL}
}

// Issue signs an HS256 token whose subject is the user profile id.
func (i *JWTIssuer) Issue(userProfileID int64, now time.Time) (string, time.Time, error) {
	if userProfileID <= 0 {
		return "", time.Time{}, errors.New("invalid user profile id")
	}
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userProfileID, 10),
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
