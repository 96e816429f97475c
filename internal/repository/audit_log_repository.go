package repository

import (
	"context"

	"github.com/spsina/bookStore/internal/domain/model"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
}
