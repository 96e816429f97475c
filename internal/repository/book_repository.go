package repository

import (
	"context"

	"github.com/spsina/bookStore/internal/domain/model"
)

type BookRepository interface {
	// soft-deleted books are not listed
	List(ctx context.Context) ([]model.Book, error)
	FindByID(ctx context.Context, id int64) (model.Book, error)
	// FindByIDs returns the live books among ids, keyed by id.
	FindByIDs(ctx context.Context, ids []int64) (map[int64]model.Book, error)
	// FindByIDForUpdate takes a row lock held until the surrounding tx ends.
	FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error)
	Create(ctx context.Context, b *model.Book) error
}
