package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"lexvault/internal/domain/entity"
	"lexvault/internal/domain/repository"
	"lexvault/internal/domain/service"
	"lexvault/pkg/config"
	"lexvault/pkg/crypto"
	"lexvault/pkg/errors"
	"lexvault/pkg/logger"
	"lexvault/pkg/utils"
)

type DocumentUseCase struct {
	documentRepo repository.DocumentRepository
	auditRepo    repository.AuditLogRepository
	userRepo     repository.UserRepository
	storage      service.FileStorage
	scanner      service.VirusScanner
	cfg          *config.Config
}

func NewDocumentUseCase(
	documentRepo repository.DocumentRepository,
	auditRepo repository.AuditLogRepository,
	userRepo repository.UserRepository,
	storage service.FileStorage,
	scanner service.VirusScanner,
	cfg *config.Config,
) *DocumentUseCase {
	return &DocumentUseCase{
		documentRepo: documentRepo,
		auditRepo:    auditRepo,
		userRepo:     userRepo,
		storage:      storage,
		scanner:      scanner,
		cfg:          cfg,
	}
}

// UploadOptions bundles everything the caller controls about an upload.
// Zero MaxSize / nil AllowedTypes fall back to the configured limits.
type UploadOptions struct {
	UploaderID   string
	CaseID       string
	ClientID     string
	Category     string
	Description  string
	Tags         []string
	Confidential bool
	MaxSize      int64
	AllowedTypes []string
	ScanForVirus bool
	Encrypt      bool
}

type UploadResult struct {
	DocumentID  string              `json:"document_id"`
	StorageKey  string              `json:"storage_key"`
	DownloadURL string              `json:"download_url,omitempty"`
	Metadata    *entity.Document    `json:"metadata"`
	ScanResult  *service.ScanResult `json:"virus_scan_result,omitempty"`
}

type PresignResult struct {
	DocumentID string `json:"document_id"`
	StorageKey string `json:"storage_key"`
	UploadURL  string `json:"upload_url"`
	ExpiresAt  string `json:"expires_at"`
}

type DownloadURLResult struct {
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

// storageKey derives the object key. The fresh document ID keeps keys from
// ever colliding; the uploader prefix namespaces per user.
func storageKey(uploaderID, documentID, sanitizedName string) string {
	return fmt.Sprintf("documents/%s/%s_%s", uploaderID, documentID, sanitizedName)
}

func (u *DocumentUseCase) maxSize(opts UploadOptions) int64 {
	if opts.MaxSize > 0 {
		return opts.MaxSize
	}
	return u.cfg.MaxFileSize
}

func (u *DocumentUseCase) allowedTypes(opts UploadOptions) []string {
	if len(opts.AllowedTypes) > 0 {
		return opts.AllowedTypes
	}
	return u.cfg.AllowedTypes
}

func typeAllowed(contentType string, allowed []string) bool {
	// Strip parameters (charset etc.) before comparing.
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	for _, t := range allowed {
		if contentType == t {
			return true
		}
	}
	return false
}

// UploadDocument runs the full pipeline: sanitize, validate, scan, hash,
// duplicate check, optional encryption, store, record, audit.
//
// On a virus-detected failure the returned UploadResult is non-nil and
// carries the scan result that caused the rejection, alongside the error.
func (u *DocumentUseCase) UploadDocument(ctx context.Context, data []byte, filename, contentType string, opts UploadOptions) (*UploadResult, error) {
	if opts.UploaderID == "" {
		return nil, errors.Unauthorized("Uploader identity required", nil)
	}

	sanitized := utils.SanitizeFilename(filename)

	// Pure validation first: no network call may happen before this.
	if int64(len(data)) > u.maxSize(opts) {
		return nil, errors.Validation(
			fmt.Sprintf("File size %d exceeds maximum of %d bytes", len(data), u.maxSize(opts)), nil)
	}
	if !typeAllowed(contentType, u.allowedTypes(opts)) {
		return nil, errors.Validation(
			fmt.Sprintf("Content type %q is not allowed", contentType), nil)
	}

	// Advisory sniff: a mismatch is logged, not rejected, since many legal
	// document formats are containers the declared type describes better.
	if detected := mimetype.Detect(data); !detected.Is(contentType) {
		logger.Warn("Declared content type %q differs from detected %q for %s", contentType, detected.String(), sanitized)
	}

	scanStatus := entity.ScanStatusPending
	var scanResult *service.ScanResult
	if opts.ScanForVirus {
		result, err := u.scanner.Scan(ctx, data, sanitized)
		if err != nil {
			// Only reachable under the fail-closed policy; fail-open is
			// absorbed inside the scanner chain.
			return nil, errors.Internal("Virus scanning unavailable", err)
		}
		scanResult = result

		if !result.Clean {
			logger.Warn("Upload rejected, virus detected in %s: %v", sanitized, result.Threats)
			return &UploadResult{ScanResult: result},
				errors.VirusDetected(fmt.Sprintf("Virus detected: %s", strings.Join(result.Threats, ", ")))
		}

		if result.Backend == service.ScanBackendNone {
			scanStatus = entity.ScanStatusError
		} else {
			scanStatus = entity.ScanStatusClean
		}
	}

	// Hash over the original bytes so duplicate detection is invariant to
	// the encryption toggle.
	digest := sha256.Sum256(data)
	contentHash := hex.EncodeToString(digest[:])

	if existing, err := u.documentRepo.GetByHashAndUploader(ctx, contentHash, opts.UploaderID); err == nil && existing != nil {
		return nil, errors.DuplicateContent("A document with identical content already exists", nil)
	} else if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	stored := data
	if opts.Encrypt {
		secret := config.EncryptionSecret()
		if secret == "" {
			return nil, errors.Internal("Encryption requested but no encryption secret is configured", nil)
		}
		encrypted, err := crypto.Encrypt(data, secret)
		if err != nil {
			return nil, errors.Internal("Failed to encrypt document", err)
		}
		stored = encrypted
	}

	documentID := uuid.New().String()
	key := storageKey(opts.UploaderID, documentID, sanitized)

	err := u.storage.Put(ctx, key, stored, contentType, map[string]string{
		"original-filename": sanitized,
		"content-hash":      contentHash,
		"uploaded-by":       opts.UploaderID,
	})
	if err != nil {
		return nil, errors.Storage("Failed to store document", err)
	}

	now := time.Now().UTC()
	doc := &entity.Document{
		ID:                documentID,
		OriginalFilename:  filename,
		SanitizedFilename: sanitized,
		ContentType:       contentType,
		Size:              int64(len(data)),
		ContentHash:       contentHash,
		StorageKey:        key,
		UploadedBy:        opts.UploaderID,
		CaseID:            opts.CaseID,
		ClientID:          opts.ClientID,
		Category:          opts.Category,
		Description:       opts.Description,
		Tags:              opts.Tags,
		Confidential:      opts.Confidential,
		Encrypted:         opts.Encrypt,
		VirusScanStatus:   scanStatus,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if scanResult != nil {
		doc.VirusScannedAt = &scanResult.ScannedAt
	}

	if err := u.documentRepo.Create(ctx, doc); err != nil {
		// The stored object is deliberately not rolled back; it stays
		// retrievable by key for manual reconciliation.
		logger.Error("Metadata persistence failed after store write, orphaned object at %s: %v", key, err)
		return nil, err
	}

	u.appendAudit(ctx, opts.UploaderID, documentID, entity.AuditActionUpload, auditDetailForScan(scanResult, map[string]string{
		"filename": sanitized,
		"size":     fmt.Sprintf("%d", doc.Size),
	}))

	downloadURL, err := u.storage.SignedDownloadURL(ctx, key, sanitized, false, time.Duration(u.cfg.DownloadURLExpiry)*time.Second)
	if err != nil {
		// The upload itself succeeded; the caller can request a URL later.
		logger.Warn("Failed to sign download URL for %s: %v", key, err)
		downloadURL = ""
	}

	return &UploadResult{
		DocumentID:  documentID,
		StorageKey:  key,
		DownloadURL: downloadURL,
		Metadata:    doc,
		ScanResult:  scanResult,
	}, nil
}

// GetPresignedUploadURL validates filename and type exactly like
// UploadDocument (the size check is deferred since bytes are not yet
// available) and pre-allocates the document ID and key. No scanning or
// encryption happens on this path; the pending record is scanned out of
// band via ConfirmUpload.
func (u *DocumentUseCase) GetPresignedUploadURL(ctx context.Context, filename, contentType string, opts UploadOptions) (*PresignResult, error) {
	if opts.UploaderID == "" {
		return nil, errors.Unauthorized("Uploader identity required", nil)
	}

	sanitized := utils.SanitizeFilename(filename)

	if !typeAllowed(contentType, u.allowedTypes(opts)) {
		return nil, errors.Validation(
			fmt.Sprintf("Content type %q is not allowed", contentType), nil)
	}

	documentID := uuid.New().String()
	key := storageKey(opts.UploaderID, documentID, sanitized)
	expiry := time.Duration(u.cfg.UploadURLExpiry) * time.Second

	uploadURL, err := u.storage.SignedUploadURL(ctx, key, contentType, expiry)
	if err != nil {
		return nil, errors.Storage("Failed to generate upload URL", err)
	}

	now := time.Now().UTC()
	doc := &entity.Document{
		ID:                documentID,
		OriginalFilename:  filename,
		SanitizedFilename: sanitized,
		ContentType:       contentType,
		StorageKey:        key,
		UploadedBy:        opts.UploaderID,
		CaseID:            opts.CaseID,
		ClientID:          opts.ClientID,
		Category:          opts.Category,
		Description:       opts.Description,
		Tags:              opts.Tags,
		Confidential:      opts.Confidential,
		VirusScanStatus:   entity.ScanStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := u.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	u.appendAudit(ctx, opts.UploaderID, documentID, entity.AuditActionPresign, map[string]string{
		"filename": sanitized,
	})

	return &PresignResult{
		DocumentID: documentID,
		StorageKey: key,
		UploadURL:  uploadURL,
		ExpiresAt:  now.Add(expiry).Format(time.RFC3339),
	}, nil
}

// ConfirmUpload completes a presigned upload: it fetches the object the
// client put directly into the store, fills in size and hash, and runs the
// deferred scan, driving virusScanStatus out of pending. An infected
// verdict removes the object and leaves the record terminal for audit.
//
// Only presign-created records are eligible. A direct upload already has
// its hash computed over the original bytes before any encryption, and
// rehashing what sits in the store would replace it with the ciphertext
// digest and desynchronize the record from its hash claim.
func (u *DocumentUseCase) ConfirmUpload(ctx context.Context, actorID, documentID string) (*service.ScanResult, error) {
	doc, err := u.getOwnedDocument(ctx, actorID, documentID, false)
	if err != nil {
		return nil, err
	}
	if doc.VirusScanStatus != entity.ScanStatusPending {
		return nil, errors.BadRequest("Document has already been scanned", nil)
	}
	if doc.ContentHash != "" {
		return nil, errors.BadRequest("Document was not created via a presigned upload", nil)
	}

	data, err := u.storage.Get(ctx, doc.StorageKey)
	if err != nil {
		return nil, errors.Storage("Uploaded object not found; complete the upload first", err)
	}

	if int64(len(data)) > u.cfg.MaxFileSize {
		// The presigned path could not enforce size up front; remove the
		// oversized object now.
		if delErr := u.storage.Delete(ctx, doc.StorageKey); delErr != nil {
			logger.Error("Failed to delete oversized object %s: %v", doc.StorageKey, delErr)
		}
		return nil, errors.Validation(
			fmt.Sprintf("File size %d exceeds maximum of %d bytes", len(data), u.cfg.MaxFileSize), nil)
	}

	digest := sha256.Sum256(data)
	doc.ContentHash = hex.EncodeToString(digest[:])
	doc.Size = int64(len(data))

	result, err := u.scanner.Scan(ctx, data, doc.SanitizedFilename)
	if err != nil {
		return nil, errors.Internal("Virus scanning unavailable", err)
	}

	now := result.ScannedAt
	doc.VirusScannedAt = &now
	switch {
	case !result.Clean:
		doc.VirusScanStatus = entity.ScanStatusInfected
		if delErr := u.storage.Delete(ctx, doc.StorageKey); delErr != nil {
			logger.Error("Failed to delete infected object %s: %v", doc.StorageKey, delErr)
		}
	case result.Backend == service.ScanBackendNone:
		doc.VirusScanStatus = entity.ScanStatusError
	default:
		doc.VirusScanStatus = entity.ScanStatusClean
	}

	if err := u.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	u.appendAudit(ctx, actorID, documentID, entity.AuditActionScan, auditDetailForScan(result, nil))

	if !result.Clean {
		return result, errors.VirusDetected(fmt.Sprintf("Virus detected: %s", strings.Join(result.Threats, ", ")))
	}
	return result, nil
}

// GetDownloadURL signs a time-limited URL for the document's object and
// records the access. Signing failures are surfaced, not retried.
func (u *DocumentUseCase) GetDownloadURL(ctx context.Context, actorID, documentID string, inline bool) (*DownloadURLResult, error) {
	doc, err := u.getAccessibleDocument(ctx, actorID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.VirusScanStatus == entity.ScanStatusInfected {
		return nil, errors.Forbidden("Document failed virus scanning and cannot be downloaded", nil)
	}

	expiry := time.Duration(u.cfg.DownloadURLExpiry) * time.Second
	url, err := u.storage.SignedDownloadURL(ctx, doc.StorageKey, doc.SanitizedFilename, inline, expiry)
	if err != nil {
		return nil, errors.Storage("Failed to sign download URL", err)
	}

	u.appendAudit(ctx, actorID, documentID, entity.AuditActionDownload, map[string]string{
		"inline": fmt.Sprintf("%t", inline),
	})

	return &DownloadURLResult{
		URL:       url,
		ExpiresAt: time.Now().UTC().Add(expiry).Format(time.RFC3339),
	}, nil
}

// DecryptFile inverts the upload encryption given the secret. An empty
// secret falls back to the configured one, read at call time.
func (u *DocumentUseCase) DecryptFile(encrypted []byte, secret string) ([]byte, error) {
	if secret == "" {
		secret = config.EncryptionSecret()
	}
	if secret == "" {
		return nil, errors.BadRequest("No decryption secret available", nil)
	}

	plaintext, err := crypto.Decrypt(encrypted, secret)
	if err != nil {
		return nil, errors.DecryptionFailed("Decryption failed: wrong secret or corrupted data", err)
	}
	return plaintext, nil
}

func (u *DocumentUseCase) GetDocument(ctx context.Context, actorID, documentID string) (*entity.Document, error) {
	return u.getAccessibleDocument(ctx, actorID, documentID)
}

func (u *DocumentUseCase) ListDocuments(ctx context.Context, actorID string, filter repository.DocumentFilter, limit, offset int) ([]*entity.Document, int64, error) {
	return u.documentRepo.ListByUploader(ctx, actorID, filter, limit, offset)
}

// UpdateMetadata mutates the free-form metadata fields only; content,
// hash, key and scan status are immutable through this path.
type MetadataUpdate struct {
	Description  *string
	Category     *string
	Tags         []string
	CaseID       *string
	ClientID     *string
	Confidential *bool
}

func (u *DocumentUseCase) UpdateMetadata(ctx context.Context, actorID, documentID string, update MetadataUpdate) (*entity.Document, error) {
	doc, err := u.getOwnedDocument(ctx, actorID, documentID, false)
	if err != nil {
		return nil, err
	}

	changed := map[string]string{}
	if update.Description != nil {
		doc.Description = *update.Description
		changed["description"] = *update.Description
	}
	if update.Category != nil {
		doc.Category = *update.Category
		changed["category"] = *update.Category
	}
	if update.Tags != nil {
		doc.Tags = update.Tags
		changed["tags"] = strings.Join(update.Tags, ",")
	}
	if update.CaseID != nil {
		doc.CaseID = *update.CaseID
		changed["case_id"] = *update.CaseID
	}
	if update.ClientID != nil {
		doc.ClientID = *update.ClientID
		changed["client_id"] = *update.ClientID
	}
	if update.Confidential != nil {
		doc.Confidential = *update.Confidential
		changed["confidential"] = fmt.Sprintf("%t", *update.Confidential)
	}

	if len(changed) == 0 {
		return doc, nil
	}

	if err := u.documentRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	u.appendAudit(ctx, actorID, documentID, entity.AuditActionUpdate, changed)
	return doc, nil
}

// DeleteDocument soft deletes by default: the timestamp is set, the stored
// object is retained. With hard=true (admin or owner) the object is removed
// from the store first, then the record and its hash claim.
func (u *DocumentUseCase) DeleteDocument(ctx context.Context, actorID, documentID string, hard bool) error {
	doc, err := u.getOwnedDocument(ctx, actorID, documentID, hard)
	if err != nil {
		return err
	}

	if !hard {
		if err := u.documentRepo.SoftDelete(ctx, documentID); err != nil {
			return err
		}
		u.appendAudit(ctx, actorID, documentID, entity.AuditActionDelete, nil)
		return nil
	}

	if err := u.storage.Delete(ctx, doc.StorageKey); err != nil {
		return errors.Storage("Failed to delete stored object", err)
	}
	if err := u.documentRepo.HardDelete(ctx, doc); err != nil {
		return err
	}
	u.appendAudit(ctx, actorID, documentID, entity.AuditActionHardDel, nil)
	return nil
}

// getOwnedDocument loads a document the actor owns, or may administer.
// Soft-deleted documents are hidden from non-admin mutation unless
// includeDeleted is set; hard delete passes it so a soft-deleted record
// can still be purged by its owner.
func (u *DocumentUseCase) getOwnedDocument(ctx context.Context, actorID, documentID string, includeDeleted bool) (*entity.Document, error) {
	doc, err := u.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	admin := u.isAdmin(ctx, actorID)
	if doc.UploadedBy != actorID && !admin {
		return nil, errors.Forbidden("You don't have permission to modify this document", nil)
	}
	if doc.IsDeleted() && !includeDeleted && !admin {
		return nil, errors.NotFound("Document", nil)
	}
	return doc, nil
}

// getAccessibleDocument additionally hides soft-deleted documents from
// non-admin readers.
func (u *DocumentUseCase) getAccessibleDocument(ctx context.Context, actorID, documentID string) (*entity.Document, error) {
	doc, err := u.documentRepo.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	admin := u.isAdmin(ctx, actorID)
	if doc.UploadedBy != actorID && !admin {
		return nil, errors.Forbidden("You don't have permission to access this document", nil)
	}
	if doc.IsDeleted() && !admin {
		return nil, errors.NotFound("Document", nil)
	}
	return doc, nil
}

func (u *DocumentUseCase) isAdmin(ctx context.Context, userID string) bool {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false
	}
	return user.Role == "admin"
}

func (u *DocumentUseCase) appendAudit(ctx context.Context, userID, documentID, action string, detail map[string]string) {
	entry := &entity.AuditLog{
		ID:         uuid.New().String(),
		UserID:     userID,
		DocumentID: documentID,
		Action:     action,
		Detail:     detail,
		CreatedAt:  time.Now().UTC(),
	}
	if err := u.auditRepo.Append(ctx, entry); err != nil {
		logger.Error("Failed to append audit entry for %s on %s: %v", action, documentID, err)
	}
}

func auditDetailForScan(result *service.ScanResult, base map[string]string) map[string]string {
	if base == nil {
		base = map[string]string{}
	}
	if result != nil {
		base["scan_backend"] = result.Backend
		base["scan_clean"] = fmt.Sprintf("%t", result.Clean)
		if len(result.Threats) > 0 {
			base["scan_threats"] = strings.Join(result.Threats, ",")
		}
	}
	return base
}
