package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spsina/bookStore/internal/domain/model"
	repo "github.com/spsina/bookStore/internal/repository"
	"github.com/spsina/bookStore/internal/validator"
)

// PhoneAuthUsecase identifies buyers by an SMS code sent to their phone.
type PhoneAuthUsecase struct {
	profiles      repo.UserProfileRepository
	verifications repo.PhoneVerificationRepository
	hasher        CodeHasher
	codes         CodeGenerator
	sms           SMSSender
	tokens        AccessTokenIssuer
	clock         Clock
	logger        *zap.Logger
}

func NewPhoneAuthUsecase(
	profiles repo.UserProfileRepository,
	verifications repo.PhoneVerificationRepository,
	hasher CodeHasher,
	codes CodeGenerator,
	sms SMSSender,
	tokens AccessTokenIssuer,
	clock Clock,
	logger *zap.Logger,
) *PhoneAuthUsecase {
	return &PhoneAuthUsecase{
		profiles:      profiles,
		verifications: verifications,
		hasher:        hasher,
		codes:         codes,
		sms:           sms,
		tokens:        tokens,
		clock:         clock,
		logger:        logger,
	}
}

type SendCodeOutput struct {
	ID         int64     `json:"pk"`
	CreateDate time.Time `json:"create_date"`
	QueryTimes int       `json:"query_times"`
}

type ProfileOutput struct {
	ID          int64  `json:"pk"`
	PhoneNumber string `json:"phone_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Province    string `json:"province"`
	City        string `json:"city"`
	Address     string `json:"address"`
	PostalCode  string `json:"postal_code"`
}

type VerifyCodeOutput struct {
	Profile   ProfileOutput `json:"profile"`
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// SendCode creates the profile on first contact and texts it a fresh code.
// A profile with a live code gets 429 until that code expires or is spent.
func (u *PhoneAuthUsecase) SendCode(ctx context.Context, phone string) (SendCodeOutput, error) {
	phone = strings.TrimSpace(phone)
	if !validator.IsPhoneNumber(phone) {
		return SendCodeOutput{}, NewValidationError("phone_number", "Enter a valid phone number")
	}

	profile, err := u.profiles.FindByPhone(ctx, phone)
	if errors.Is(err, repo.ErrNotFound) {
		profile = model.UserProfile{PhoneNumber: phone}
		if cerr := u.profiles.Create(ctx, &profile); cerr != nil {
			// a parallel first request may have won the unique phone index
			profile, err = u.profiles.FindByPhone(ctx, phone)
			if err != nil {
				return SendCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}
	} else if err != nil {
		return SendCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()

	last, err := u.verifications.LastNotExpired(ctx, profile.ID, now)
	switch {
	case err == nil && last.IsUsable(now):
		return SendCodeOutput{}, NewHTTPError(http.StatusTooManyRequests, "verification code already sent")
	case err != nil && !errors.Is(err, repo.ErrNotFound):
		return SendCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	code, err := u.codes.NewCode()
	if err != nil {
		return SendCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	hash, err := u.hasher.Hash(code)
	if err != nil {
		return SendCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	v := model.PhoneVerification{
		UserProfileID: profile.ID,
		CodeHash:      hash,
		CreatedAt:     now,
	}
	if err := u.verifications.Create(ctx, &v); err != nil {
		return SendCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.sms.SendVerificationCode(ctx, phone, code); err != nil {
		u.logger.Warn("send verification sms failed", zap.Int64("user_profile_id", profile.ID), zap.Error(err))
		// an undelivered code must not block the next request
		if berr := u.verifications.Burn(ctx, v.ID); berr != nil {
			u.logger.Error("burn undelivered code failed", zap.Int64("verification_id", v.ID), zap.Error(berr))
		}
		return SendCodeOutput{}, NewHTTPError(http.StatusServiceUnavailable, "sms provider unavailable")
	}

	return SendCodeOutput{ID: v.ID, CreateDate: v.CreatedAt, QueryTimes: v.QueryTimes}, nil
}

// VerifyCode checks a code against the profile's live verification and
// issues an access token on a match. Every miss counts; the code burns on
// the last allowed one.
func (u *PhoneAuthUsecase) VerifyCode(ctx context.Context, phone string, code string) (VerifyCodeOutput, error) {
	phone = strings.TrimSpace(phone)
	if !validator.IsPhoneNumber(phone) {
		return VerifyCodeOutput{}, NewValidationError("phone_number", "Enter a valid phone number")
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return VerifyCodeOutput{}, NewValidationError("code", "This field is required.")
	}

	profile, err := u.profiles.FindByPhone(ctx, phone)
	if errors.Is(err, repo.ErrNotFound) {
		return VerifyCodeOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return VerifyCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := u.clock.Now()

	v, err := u.verifications.LastNotExpired(ctx, profile.ID, now)
	if errors.Is(err, repo.ErrNotFound) {
		return VerifyCodeOutput{}, NewValidationError("phone_number", "Phone number not found")
	}
	if err != nil {
		return VerifyCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !v.IsUsable(now) {
		return VerifyCodeOutput{}, NewValidationError("code", "Verification code is no longer usable")
	}

	if !u.hasher.Verify(code, v.CodeHash) {
		after, err := u.verifications.RegisterFailedAttempt(ctx, v.ID, model.MaxPhoneVerificationQuery)
		if err != nil {
			return VerifyCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return VerifyCodeOutput{}, &HTTPError{
			Status:  http.StatusBadRequest,
			Message: "incorrect code",
			Details: map[string]any{
				"code":                  []string{"Incorrect Code"},
				"remaining_query_times": after.RemainingQueryTimes(),
			},
		}
	}

	ok, err := u.verifications.MarkUsed(ctx, v.ID)
	if err != nil {
		return VerifyCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !ok {
		return VerifyCodeOutput{}, NewValidationError("code", "Verification code is no longer usable")
	}

	token, exp, err := u.tokens.Issue(profile.ID, now)
	if err != nil {
		return VerifyCodeOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return VerifyCodeOutput{
		Profile:   toProfileOutput(profile),
		Token:     token,
		ExpiresAt: exp,
	}, nil
}

func toProfileOutput(p model.UserProfile) ProfileOutput {
	return ProfileOutput{
		ID:          p.ID,
		PhoneNumber: p.PhoneNumber,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Province:    p.Province,
		City:        p.City,
		Address:     p.Address,
		PostalCode:  p.PostalCode,
	}
}
