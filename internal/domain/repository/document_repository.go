package repository

import (
	"context"

	"lexvault/internal/domain/entity"
)

// DocumentFilter narrows List results. Zero values mean "no filter".
type DocumentFilter struct {
	CaseID         string
	ClientID       string
	IncludeDeleted bool
}

type DocumentRepository interface {
	// Create persists the metadata record and claims the (contentHash,
	// uploadedBy) pair in the same transaction. A second writer with the
	// same pair fails deterministically with a duplicate-content error.
	Create(ctx context.Context, doc *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetByHashAndUploader returns the live document with the given content
	// hash for the uploader, or a NOT_FOUND error.
	GetByHashAndUploader(ctx context.Context, contentHash, uploaderID string) (*entity.Document, error)
	ListByUploader(ctx context.Context, uploaderID string, filter DocumentFilter, limit, offset int) ([]*entity.Document, int64, error)
	Update(ctx context.Context, doc *entity.Document) error
	SoftDelete(ctx context.Context, id string) error
	// HardDelete removes the record and releases the hash claim so the
	// content can be re-uploaded.
	HardDelete(ctx context.Context, doc *entity.Document) error
}
