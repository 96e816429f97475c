package repository

import (
	"context"
	"time"

	"github.com/spsina/bookStore/internal/domain/model"
)

type UserProfileRepository interface {
	Create(ctx context.Context, p *model.UserProfile) error
	FindByID(ctx context.Context, id int64) (model.UserProfile, error)
	FindByPhone(ctx context.Context, phone string) (model.UserProfile, error)
}

type PhoneVerificationRepository interface {
	Create(ctx context.Context, v *model.PhoneVerification) error
	// LastNotExpired returns the newest code of the profile created after
	// the TTL cutoff, or ErrNotFound.
	LastNotExpired(ctx context.Context, userProfileID int64, now time.Time) (model.PhoneVerification, error)
	// MarkUsed flips used on a still usable code; false when another
	// request got there first.
	MarkUsed(ctx context.Context, id int64) (bool, error)
	// RegisterFailedAttempt bumps query_times and burns the code once it
	// reaches maxQuery. Returns the row after the update.
	RegisterFailedAttempt(ctx context.Context, id int64, maxQuery int) (model.PhoneVerification, error)
	Burn(ctx context.Context, id int64) error
}
