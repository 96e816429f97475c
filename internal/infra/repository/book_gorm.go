package repository

import (
	"context"
	"errors"

	"github.com/spsina/bookStore/internal/domain/model"
	repo "github.com/spsina/bookStore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookGormRepository struct {
	db *gorm.DB
}

func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

func (r *BookGormRepository) List(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	err := r.db.WithContext(ctx).
		Where("is_delete = ?", false).
		Order("id asc").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (r *BookGormRepository) FindByID(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_delete = ?", id, false).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Book{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Book{}, err
	}
	return b, nil
}

func (r *BookGormRepository) FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Book, error) {
	out := make(map[int64]model.Book, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var books []model.Book
	err := r.db.WithContext(ctx).
		Where("id IN ? AND is_delete = ?", ids, false).
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	for _, b := range books {
		out[b.ID] = b
	}
	return out, nil
}

// row lock, SELECT ... FOR UPDATE
func (r *BookGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_delete = ?", id, false).
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Book{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Book{}, err
	}
	return b, nil
}

func (r *BookGormRepository) Create(ctx context.Context, b *model.Book) error {
	return r.db.WithContext(ctx).Create(b).Error
}
