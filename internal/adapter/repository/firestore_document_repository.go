package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lexvault/internal/domain/entity"
	"lexvault/internal/domain/repository"
	"lexvault/pkg/errors"
	"lexvault/pkg/logger"
)

const (
	documentsCollection = "documents"
	hashClaimCollection = "document_hashes"
)

type firestoreDocumentRepository struct {
	client *firestore.Client
}

func NewFirestoreDocumentRepository(client *firestore.Client) repository.DocumentRepository {
	return &firestoreDocumentRepository{
		client: client,
	}
}

// hashClaimID is the deterministic document ID that makes the
// (contentHash, uploadedBy) pair unique at the storage layer. Two
// concurrent uploads of identical content race on Create of the same
// claim doc; the loser fails with AlreadyExists instead of writing a
// duplicate record.
func hashClaimID(uploaderID, contentHash string) string {
	return fmt.Sprintf("%s_%s", uploaderID, contentHash)
}

func (r *firestoreDocumentRepository) Create(ctx context.Context, doc *entity.Document) error {
	doc.UpdatedAt = time.Now()

	docRef := r.client.Collection(documentsCollection).Doc(doc.ID)
	claimRef := r.client.Collection(hashClaimCollection).Doc(hashClaimID(doc.UploadedBy, doc.ContentHash))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// Presign-path records have no hash yet; the claim is skipped and
		// the weaker dedup guarantee of that path applies.
		if doc.ContentHash != "" {
			if err := tx.Create(claimRef, map[string]interface{}{
				"uploadedBy":  doc.UploadedBy,
				"contentHash": doc.ContentHash,
				"documentId":  doc.ID,
				"createdAt":   doc.CreatedAt,
			}); err != nil {
				return err
			}
		}
		return tx.Create(docRef, doc)
	})
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.DuplicateContent("A document with identical content already exists for this uploader", err)
		}
		return errors.Persistence("Failed to create document metadata", err)
	}
	return nil
}

func (r *firestoreDocumentRepository) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	doc, err := r.client.Collection(documentsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Document", err)
		}
		return nil, errors.Persistence("Failed to get document metadata", err)
	}

	var document entity.Document
	if err := doc.DataTo(&document); err != nil {
		return nil, errors.Persistence("Failed to parse document metadata", err)
	}

	return &document, nil
}

func (r *firestoreDocumentRepository) GetByHashAndUploader(ctx context.Context, contentHash, uploaderID string) (*entity.Document, error) {
	iter := r.client.Collection(documentsCollection).
		Where("contentHash", "==", contentHash).
		Where("uploadedBy", "==", uploaderID).
		Limit(1).
		Documents(ctx)
	doc, err := iter.Next()
	if err != nil {
		if err == iterator.Done {
			return nil, errors.NotFound("Document", nil)
		}
		return nil, errors.Persistence("Failed to query document metadata", err)
	}

	var document entity.Document
	if err := doc.DataTo(&document); err != nil {
		return nil, errors.Persistence("Failed to parse document metadata", err)
	}

	return &document, nil
}

func (r *firestoreDocumentRepository) ListByUploader(ctx context.Context, uploaderID string, filter repository.DocumentFilter, limit, offset int) ([]*entity.Document, int64, error) {
	query := r.client.Collection(documentsCollection).
		Where("uploadedBy", "==", uploaderID)

	if filter.CaseID != "" {
		query = query.Where("caseId", "==", filter.CaseID)
	}
	if filter.ClientID != "" {
		query = query.Where("clientId", "==", filter.ClientID)
	}

	iter := query.OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	var all []*entity.Document
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, errors.Persistence("Failed to iterate document metadata", err)
		}

		var document entity.Document
		if err := doc.DataTo(&document); err != nil {
			logger.Error("Failed to parse document metadata: %v", err)
			continue
		}
		if document.IsDeleted() && !filter.IncludeDeleted {
			continue
		}
		all = append(all, &document)
	}

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}

	return all[offset:end], total, nil
}

func (r *firestoreDocumentRepository) Update(ctx context.Context, doc *entity.Document) error {
	doc.UpdatedAt = time.Now()
	_, err := r.client.Collection(documentsCollection).Doc(doc.ID).Set(ctx, doc)
	if err != nil {
		return errors.Persistence("Failed to update document metadata", err)
	}
	return nil
}

func (r *firestoreDocumentRepository) SoftDelete(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.client.Collection(documentsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "deletedAt", Value: now},
		{Path: "updatedAt", Value: now},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Document", err)
		}
		return errors.Persistence("Failed to soft delete document", err)
	}
	return nil
}

func (r *firestoreDocumentRepository) HardDelete(ctx context.Context, doc *entity.Document) error {
	docRef := r.client.Collection(documentsCollection).Doc(doc.ID)
	claimRef := r.client.Collection(hashClaimCollection).Doc(hashClaimID(doc.UploadedBy, doc.ContentHash))

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Delete(docRef); err != nil {
			return err
		}
		// Releasing the claim lets the same content be uploaded again.
		return tx.Delete(claimRef)
	})
	if err != nil {
		return errors.Persistence("Failed to hard delete document", err)
	}
	return nil
}
