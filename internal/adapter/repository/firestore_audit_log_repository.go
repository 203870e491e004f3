package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"lexvault/internal/domain/entity"
	"lexvault/internal/domain/repository"
	"lexvault/pkg/errors"
	"lexvault/pkg/logger"
)

const auditLogsCollection = "audit_logs"

type firestoreAuditLogRepository struct {
	client *firestore.Client
}

func NewFirestoreAuditLogRepository(client *firestore.Client) repository.AuditLogRepository {
	return &firestoreAuditLogRepository{
		client: client,
	}
}

func (r *firestoreAuditLogRepository) Append(ctx context.Context, entry *entity.AuditLog) error {
	_, err := r.client.Collection(auditLogsCollection).Doc(entry.ID).Create(ctx, entry)
	if err != nil {
		return errors.Persistence("Failed to append audit log entry", err)
	}
	return nil
}

func (r *firestoreAuditLogRepository) ListByDocument(ctx context.Context, documentID string, limit, offset int) ([]*entity.AuditLog, int64, error) {
	return r.list(ctx, "documentId", documentID, limit, offset)
}

func (r *firestoreAuditLogRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.AuditLog, int64, error) {
	return r.list(ctx, "userId", userID, limit, offset)
}

func (r *firestoreAuditLogRepository) list(ctx context.Context, field, value string, limit, offset int) ([]*entity.AuditLog, int64, error) {
	countDocs, err := r.client.Collection(auditLogsCollection).Where(field, "==", value).Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Persistence("Failed to count audit log entries", err)
	}
	total := int64(len(countDocs))

	query := r.client.Collection(auditLogsCollection).
		Where(field, "==", value).
		OrderBy("createdAt", firestore.Desc)

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var entries []*entity.AuditLog
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Persistence("Failed to iterate audit log entries", err)
		}

		var entry entity.AuditLog
		if err := doc.DataTo(&entry); err != nil {
			logger.Error("Failed to parse audit log entry: %v", err)
			continue
		}
		entries = append(entries, &entry)
	}

	return entries, total, nil
}
