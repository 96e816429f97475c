package repository

import (
	"context"
	"errors"

	"github.com/spsina/bookStore/internal/domain/model"
	repo "github.com/spsina/bookStore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SiteConfigGormRepository struct {
	db *gorm.DB
}

func NewSiteConfigGormRepository(db *gorm.DB) *SiteConfigGormRepository {
	return &SiteConfigGormRepository{db: db}
}

// DeliveryFee reads the singleton row. It is written once at boot, so a
// missing row is ErrNotFound.
func (r *SiteConfigGormRepository) DeliveryFee(ctx context.Context) (int64, error) {
	var cfg model.SiteConfig
	err := r.db.WithContext(ctx).Where("id = ?", model.SiteConfigID).First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, repo.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return cfg.DeliveryFee, nil
}

// SetDeliveryFee upserts the singleton row. Existing invoices keep the fee
// they were created with.
func (r *SiteConfigGormRepository) SetDeliveryFee(ctx context.Context, fee int64) error {
	cfg := model.SiteConfig{ID: model.SiteConfigID, DeliveryFee: fee}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"delivery_fee", "updated_at"}),
		}).
		Create(&cfg).Error
}
