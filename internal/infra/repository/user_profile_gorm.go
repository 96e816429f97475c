package repository

import (
	"context"
	"errors"
	"time"

	"github.com/spsina/bookStore/internal/domain/model"
	repo "github.com/spsina/bookStore/internal/repository"

	"gorm.io/gorm"
)

type UserProfileGormRepository struct {
	db *gorm.DB
}

func NewUserProfileGormRepository(db *gorm.DB) *UserProfileGormRepository {
	return &UserProfileGormRepository{db: db}
}

func (r *UserProfileGormRepository) Create(ctx context.Context, p *model.UserProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *UserProfileGormRepository) FindByID(ctx context.Context, id int64) (model.UserProfile, error) {
	var p model.UserProfile
	err := r.db.WithContext(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserProfile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.UserProfile{}, err
	}
	return p, nil
}

func (r *UserProfileGormRepository) FindByPhone(ctx context.Context, phone string) (model.UserProfile, error) {
	var p model.UserProfile
	err := r.db.WithContext(ctx).Where("phone_number = ?", phone).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.UserProfile{}, repo.ErrNotFound
	}
	if err != nil {
		return model.UserProfile{}, err
	}
	return p, nil
}

type PhoneVerificationGormRepository struct {
	db *gorm.DB
}

func NewPhoneVerificationGormRepository(db *gorm.DB) *PhoneVerificationGormRepository {
	return &PhoneVerificationGormRepository{db: db}
}

func (r *PhoneVerificationGormRepository) Create(ctx context.Context, v *model.PhoneVerification) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *PhoneVerificationGormRepository) LastNotExpired(ctx context.Context, userProfileID int64, now time.Time) (model.PhoneVerification, error) {
	var v model.PhoneVerification
	err := r.db.WithContext(ctx).
		Where("user_profile_id = ? AND created_at >= ?", userProfileID, now.Add(-model.PhoneVerificationTTL)).
		Order("id desc").
		First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PhoneVerification{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PhoneVerification{}, err
	}
	return v, nil
}

// conditional update so a code is used at most once
func (r *PhoneVerificationGormRepository) MarkUsed(ctx context.Context, id int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.PhoneVerification{}).
		Where("id = ? AND used = ? AND burnt = ?", id, false, false).
		Update("used", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *PhoneVerificationGormRepository) RegisterFailedAttempt(ctx context.Context, id int64, maxQuery int) (model.PhoneVerification, error) {
	res := r.db.WithContext(ctx).Model(&model.PhoneVerification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"query_times": gorm.Expr("query_times + 1"),
			"burnt":       gorm.Expr("CASE WHEN query_times + 1 >= ? THEN ? ELSE burnt END", maxQuery, true),
		})
	if res.Error != nil {
		return model.PhoneVerification{}, res.Error
	}
	if res.RowsAffected == 0 {
		return model.PhoneVerification{}, repo.ErrNotFound
	}

	var v model.PhoneVerification
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return model.PhoneVerification{}, err
	}
	return v, nil
}

func (r *PhoneVerificationGormRepository) Burn(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Model(&model.PhoneVerification{}).
		Where("id = ?", id).
		Update("burnt", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
