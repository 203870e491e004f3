package usecase

import (
	"context"

	"lexvault/internal/domain/entity"
	"lexvault/internal/domain/repository"
	"lexvault/pkg/errors"
)

type AuditUseCase struct {
	auditRepo repository.AuditLogRepository
}

func NewAuditUseCase(auditRepo repository.AuditLogRepository) *AuditUseCase {
	return &AuditUseCase{
		auditRepo: auditRepo,
	}
}

// ListAuditLogs returns entries for a document or a user; exactly one
// filter must be set. Access control (admin only) is enforced at the
// router layer.
func (u *AuditUseCase) ListAuditLogs(ctx context.Context, documentID, userID string, limit, offset int) ([]*entity.AuditLog, int64, error) {
	switch {
	case documentID != "" && userID != "":
		return nil, 0, errors.BadRequest("Filter by either document_id or user_id, not both", nil)
	case documentID != "":
		return u.auditRepo.ListByDocument(ctx, documentID, limit, offset)
	case userID != "":
		return u.auditRepo.ListByUser(ctx, userID, limit, offset)
	default:
		return nil, 0, errors.BadRequest("A document_id or user_id filter is required", nil)
	}
}
