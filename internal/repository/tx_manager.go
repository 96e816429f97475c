package repository

import "context"

// TxRepos are the repositories bound to one open transaction.
type TxRepos interface {
	Books() BookRepository
	Items() ItemRepository
	Baskets() BasketRepository
	Invoices() InvoiceRepository
	SiteConfig() SiteConfigRepository
	AuditLogs() AuditLogRepository
}

// TransactionManager hides begin / commit / rollback from usecases. fn
// returning an error rolls everything back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
