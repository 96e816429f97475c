package repository

import (
	"context"

	repo "github.com/spsina/bookStore/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	books      repo.BookRepository
	items      repo.ItemRepository
	baskets    repo.BasketRepository
	invoices   repo.InvoiceRepository
	siteConfig repo.SiteConfigRepository
	auditLogs  repo.AuditLogRepository
}

func (r *txReposGorm) Books() repo.BookRepository            { return r.books }
func (r *txReposGorm) Items() repo.ItemRepository            { return r.items }
func (r *txReposGorm) Baskets() repo.BasketRepository        { return r.baskets }
func (r *txReposGorm) Invoices() repo.InvoiceRepository      { return r.invoices }
func (r *txReposGorm) SiteConfig() repo.SiteConfigRepository { return r.siteConfig }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository    { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// every repo shares the tx handle
		r := &txReposGorm{
			books:      NewBookGormRepository(tx),
			items:      NewItemGormRepository(tx),
			baskets:    NewBasketGormRepository(tx),
			invoices:   NewInvoiceGormRepository(tx),
			siteConfig: NewSiteConfigGormRepository(tx),
			auditLogs:  NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
