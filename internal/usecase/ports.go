package usecase

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

// IDGenerator makes public identifiers such as invoice internal ids.
type IDGenerator interface {
	NewID() string
}

type AccessTokenIssuer interface {
	Issue(userProfileID int64, now time.Time) (token string, expiresAt time.Time, err error)
}

// CodeHasher keeps SMS codes out of the database in plain text.
type CodeHasher interface {
	Hash(plain string) (string, error)
	Verify(plain string, hashed string) bool
}

type CodeGenerator interface {
	NewCode() (string, error)
}

type SMSSender interface {
	SendVerificationCode(ctx context.Context, phone string, code string) error
}
