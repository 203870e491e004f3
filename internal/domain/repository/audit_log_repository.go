package repository

import (
	"context"

	"lexvault/internal/domain/entity"
)

type AuditLogRepository interface {
	Append(ctx context.Context, entry *entity.AuditLog) error
	ListByDocument(ctx context.Context, documentID string, limit, offset int) ([]*entity.AuditLog, int64, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.AuditLog, int64, error)
}
