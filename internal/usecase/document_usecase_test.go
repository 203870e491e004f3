package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexvault/internal/domain/entity"
	"lexvault/internal/domain/repository"
	"lexvault/internal/domain/service"
	"lexvault/pkg/config"
	"lexvault/pkg/crypto"
	apperrors "lexvault/pkg/errors"
)

type fakeDocumentRepo struct {
	docs   map[string]*entity.Document
	claims map[string]bool
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{
		docs:   map[string]*entity.Document{},
		claims: map[string]bool{},
	}
}

func (r *fakeDocumentRepo) Create(ctx context.Context, doc *entity.Document) error {
	if doc.ContentHash != "" {
		claim := doc.UploadedBy + "_" + doc.ContentHash
		if r.claims[claim] {
			return apperrors.DuplicateContent("A document with identical content already exists for this uploader", nil)
		}
		r.claims[claim] = true
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, apperrors.NotFound("Document", nil)
	}
	copied := *doc
	return &copied, nil
}

func (r *fakeDocumentRepo) GetByHashAndUploader(ctx context.Context, contentHash, uploaderID string) (*entity.Document, error) {
	for _, doc := range r.docs {
		if doc.ContentHash == contentHash && doc.UploadedBy == uploaderID {
			copied := *doc
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("Document", nil)
}

func (r *fakeDocumentRepo) ListByUploader(ctx context.Context, uploaderID string, filter repository.DocumentFilter, limit, offset int) ([]*entity.Document, int64, error) {
	var out []*entity.Document
	for _, doc := range r.docs {
		if doc.UploadedBy != uploaderID {
			continue
		}
		if doc.IsDeleted() && !filter.IncludeDeleted {
			continue
		}
		copied := *doc
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, doc *entity.Document) error {
	if _, ok := r.docs[doc.ID]; !ok {
		return apperrors.NotFound("Document", nil)
	}
	copied := *doc
	r.docs[doc.ID] = &copied
	return nil
}

func (r *fakeDocumentRepo) SoftDelete(ctx context.Context, id string) error {
	doc, ok := r.docs[id]
	if !ok {
		return apperrors.NotFound("Document", nil)
	}
	now := time.Now()
	doc.DeletedAt = &now
	return nil
}

func (r *fakeDocumentRepo) HardDelete(ctx context.Context, doc *entity.Document) error {
	delete(r.docs, doc.ID)
	delete(r.claims, doc.UploadedBy+"_"+doc.ContentHash)
	return nil
}

type fakeAuditRepo struct {
	entries []*entity.AuditLog
}

func (r *fakeAuditRepo) Append(ctx context.Context, entry *entity.AuditLog) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeAuditRepo) ListByDocument(ctx context.Context, documentID string, limit, offset int) ([]*entity.AuditLog, int64, error) {
	var out []*entity.AuditLog
	for _, e := range r.entries {
		if e.DocumentID == documentID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAuditRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.AuditLog, int64, error) {
	var out []*entity.AuditLog
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeAuditRepo) actions() []string {
	var out []string
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, apperrors.NotFound("User", nil)
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

type fakeStorage struct {
	objects         map[string][]byte
	putCalls        int
	uploadSignCalls int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Put(ctx context.Context, key string, data []byte, contentType string, metadata map[string]string) error {
	s.putCalls++
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("object %s not found", key)
	}
	return data, nil
}

func (s *fakeStorage) SignedDownloadURL(ctx context.Context, key, filename string, inline bool, expiry time.Duration) (string, error) {
	return "https://files.test/" + key, nil
}

func (s *fakeStorage) SignedUploadURL(ctx context.Context, key, contentType string, expiry time.Duration) (string, error) {
	s.uploadSignCalls++
	return "https://upload.test/" + key, nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) Close() error { return nil }

type fakeScanner struct {
	result *service.ScanResult
	err    error
	calls  int
}

func (s *fakeScanner) Scan(ctx context.Context, data []byte, filename string) (*service.ScanResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	copied := *s.result
	return &copied, nil
}

func (s *fakeScanner) Name() string { return "fake" }

func cleanScan(backend string) *service.ScanResult {
	return &service.ScanResult{Clean: true, ScannedAt: time.Now().UTC(), Backend: backend}
}

func infectedScan(threats ...string) *service.ScanResult {
	return &service.ScanResult{Clean: false, Threats: threats, ScannedAt: time.Now().UTC(), Backend: service.ScanBackendClamAV}
}

type testEnv struct {
	uc      *DocumentUseCase
	docs    *fakeDocumentRepo
	audit   *fakeAuditRepo
	users   *fakeUserRepo
	storage *fakeStorage
	scanner *fakeScanner
}

func newTestEnv(scanResult *service.ScanResult) *testEnv {
	env := &testEnv{
		docs:    newFakeDocumentRepo(),
		audit:   &fakeAuditRepo{},
		users:   &fakeUserRepo{users: map[string]*entity.User{}},
		storage: newFakeStorage(),
		scanner: &fakeScanner{result: scanResult},
	}
	cfg := &config.Config{
		MaxFileSize:        1024,
		AllowedTypes:       []string{"application/pdf", "text/plain"},
		UploadURLExpiry:    900,
		DownloadURLExpiry:  600,
		ScanTimeoutSeconds: 5,
	}
	env.uc = NewDocumentUseCase(env.docs, env.audit, env.users, env.storage, env.scanner, cfg)
	return env
}

func TestUploadDocumentCleanPDF(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()

	result, err := env.uc.UploadDocument(ctx, []byte("%PDF-1.4 small pdf"), "brief.pdf", "application/pdf", UploadOptions{
		UploaderID:   "lawyer-1",
		ScanForVirus: true,
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.DocumentID)
	assert.Equal(t, entity.ScanStatusClean, result.Metadata.VirusScanStatus)
	assert.Equal(t, "https://files.test/"+result.StorageKey, result.DownloadURL)
	assert.Equal(t, 1, env.storage.putCalls)
	assert.Equal(t, []string{entity.AuditActionUpload}, env.audit.actions())
}

func TestUploadDocumentDuplicatePerUploader(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()
	data := []byte("identical content")

	_, err := env.uc.UploadDocument(ctx, data, "a.txt", "text/plain", UploadOptions{UploaderID: "lawyer-1"})
	require.NoError(t, err)

	_, err = env.uc.UploadDocument(ctx, data, "b.txt", "text/plain", UploadOptions{UploaderID: "lawyer-1"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "DUPLICATE_CONTENT"))
	assert.Equal(t, 1, env.storage.putCalls, "duplicate must not reach the store")

	// A different uploader may store the same content.
	_, err = env.uc.UploadDocument(ctx, data, "c.txt", "text/plain", UploadOptions{UploaderID: "lawyer-2"})
	require.NoError(t, err)
	assert.Equal(t, 2, env.storage.putCalls)
}

func TestUploadDocumentSizeBoundary(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()

	atLimit := make([]byte, 1024)
	_, err := env.uc.UploadDocument(ctx, atLimit, "max.txt", "text/plain", UploadOptions{
		UploaderID:   "lawyer-1",
		ScanForVirus: true,
	})
	require.NoError(t, err, "a file exactly at the limit is accepted")

	env = newTestEnv(cleanScan(service.ScanBackendClamAV))
	overLimit := make([]byte, 1025)
	_, err = env.uc.UploadDocument(ctx, overLimit, "over.txt", "text/plain", UploadOptions{
		UploaderID:   "lawyer-1",
		ScanForVirus: true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "VALIDATION_ERROR"))
	assert.Equal(t, 0, env.scanner.calls, "rejected before any scanner call")
	assert.Equal(t, 0, env.storage.putCalls, "rejected before any store write")
}

func TestUploadDocumentDisallowedType(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))

	_, err := env.uc.UploadDocument(context.Background(), []byte("MZ..."), "tool.exe", "application/x-msdownload", UploadOptions{
		UploaderID:   "lawyer-1",
		ScanForVirus: true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "VALIDATION_ERROR"))
	assert.Equal(t, 0, env.scanner.calls)
	assert.Equal(t, 0, env.storage.putCalls)
}

func TestUploadDocumentInfected(t *testing.T) {
	env := newTestEnv(infectedScan("Eicar-Test-Signature"))
	ctx := context.Background()

	result, err := env.uc.UploadDocument(ctx, []byte("malicious"), "virus.txt", "text/plain", UploadOptions{
		UploaderID:   "lawyer-1",
		ScanForVirus: true,
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "VIRUS_DETECTED"))

	require.NotNil(t, result)
	require.NotNil(t, result.ScanResult)
	assert.Equal(t, []string{"Eicar-Test-Signature"}, result.ScanResult.Threats)

	assert.Equal(t, 0, env.storage.putCalls, "infected uploads never reach the store")
	assert.Empty(t, env.docs.docs, "no metadata record is created")
}

func TestUploadDocumentFailOpen(t *testing.T) {
	// The scanner chain absorbs transport failures under fail-open and
	// reports a clean result with backend "none".
	env := newTestEnv(cleanScan(service.ScanBackendNone))
	ctx := context.Background()

	result, err := env.uc.UploadDocument(ctx, []byte("fine content"), "doc.txt", "text/plain", UploadOptions{
		UploaderID:   "lawyer-1",
		ScanForVirus: true,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.ScanStatusError, result.Metadata.VirusScanStatus,
		"fail-open is recorded distinctly, not as clean")
	assert.Equal(t, 1, env.storage.putCalls, "the object is stored anyway")
}

func TestUploadDocumentScanDisabled(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))

	result, err := env.uc.UploadDocument(context.Background(), []byte("content"), "doc.txt", "text/plain", UploadOptions{
		UploaderID:   "lawyer-1",
		ScanForVirus: false,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, env.scanner.calls)
	assert.Equal(t, entity.ScanStatusPending, result.Metadata.VirusScanStatus)
}

func TestUploadDocumentEncrypted(t *testing.T) {
	t.Setenv("DOCUMENT_ENCRYPTION_SECRET", "unit-test-secret")
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()
	data := []byte("privileged communication")

	result, err := env.uc.UploadDocument(ctx, data, "letter.txt", "text/plain", UploadOptions{
		UploaderID: "lawyer-1",
		Encrypt:    true,
	})
	require.NoError(t, err)
	assert.True(t, result.Metadata.Encrypted)

	stored := env.storage.objects[result.StorageKey]
	require.NotEmpty(t, stored)
	assert.NotEqual(t, data, stored, "stored bytes are ciphertext")

	decrypted, err := crypto.Decrypt(stored, "unit-test-secret")
	require.NoError(t, err)
	assert.Equal(t, data, decrypted)

	// The hash covers the original bytes, so an unencrypted re-upload of
	// the same content is still a duplicate.
	digest := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(digest[:]), result.Metadata.ContentHash)
	_, err = env.uc.UploadDocument(ctx, data, "again.txt", "text/plain", UploadOptions{UploaderID: "lawyer-1"})
	assert.True(t, apperrors.Is(err, "DUPLICATE_CONTENT"))
}

func TestPresignDisallowedType(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))

	result, err := env.uc.GetPresignedUploadURL(context.Background(), "tool.exe", "application/x-msdownload", UploadOptions{
		UploaderID: "lawyer-1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "VALIDATION_ERROR"))
	assert.Nil(t, result)
	assert.Equal(t, 0, env.storage.uploadSignCalls, "no URL generated")
	assert.Empty(t, env.docs.docs, "no document id allocated")
}

func TestPresignAndConfirmClean(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()

	presign, err := env.uc.GetPresignedUploadURL(ctx, "evidence.pdf", "application/pdf", UploadOptions{
		UploaderID: "lawyer-1",
		CaseID:     "case-7",
	})
	require.NoError(t, err)
	assert.Contains(t, presign.UploadURL, presign.StorageKey)

	pending, err := env.docs.GetByID(ctx, presign.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusPending, pending.VirusScanStatus)

	// Simulate the client's direct PUT, then confirm.
	data := []byte("%PDF-1.4 uploaded directly")
	env.storage.objects[presign.StorageKey] = data

	scan, err := env.uc.ConfirmUpload(ctx, "lawyer-1", presign.DocumentID)
	require.NoError(t, err)
	assert.True(t, scan.Clean)

	confirmed, err := env.docs.GetByID(ctx, presign.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusClean, confirmed.VirusScanStatus)
	assert.Equal(t, int64(len(data)), confirmed.Size)
	assert.NotEmpty(t, confirmed.ContentHash)
}

func TestConfirmUploadRejectsDirectUpload(t *testing.T) {
	t.Setenv("DOCUMENT_ENCRYPTION_SECRET", "unit-test-secret")
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()
	data := []byte("privileged communication")

	// A direct upload with scanning deferred stays pending, but it is not
	// a presign record: its hash already covers the original bytes.
	uploaded, err := env.uc.UploadDocument(ctx, data, "letter.txt", "text/plain", UploadOptions{
		UploaderID: "lawyer-1",
		Encrypt:    true,
	})
	require.NoError(t, err)
	require.Equal(t, entity.ScanStatusPending, uploaded.Metadata.VirusScanStatus)

	_, err = env.uc.ConfirmUpload(ctx, "lawyer-1", uploaded.DocumentID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "BAD_REQUEST"))

	// Confirm must not have rehashed the stored ciphertext.
	doc, err := env.docs.GetByID(ctx, uploaded.DocumentID)
	require.NoError(t, err)
	digest := sha256.Sum256(data)
	assert.Equal(t, hex.EncodeToString(digest[:]), doc.ContentHash,
		"content hash stays the pre-encryption digest")
	assert.Equal(t, int64(len(data)), doc.Size)
	assert.Equal(t, entity.ScanStatusPending, doc.VirusScanStatus)
}

func TestConfirmInfectedRemovesObject(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()

	presign, err := env.uc.GetPresignedUploadURL(ctx, "bad.pdf", "application/pdf", UploadOptions{
		UploaderID: "lawyer-1",
	})
	require.NoError(t, err)

	env.storage.objects[presign.StorageKey] = []byte("malicious payload")
	env.scanner.result = infectedScan("Trojan.GenericKD")

	_, err = env.uc.ConfirmUpload(ctx, "lawyer-1", presign.DocumentID)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "VIRUS_DETECTED"))

	doc, err := env.docs.GetByID(ctx, presign.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, entity.ScanStatusInfected, doc.VirusScanStatus)
	_, ok := env.storage.objects[presign.StorageKey]
	assert.False(t, ok, "infected object is removed from the store")
}

func TestGetDownloadURLAuditsAccess(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()

	uploaded, err := env.uc.UploadDocument(ctx, []byte("content"), "doc.txt", "text/plain", UploadOptions{UploaderID: "lawyer-1"})
	require.NoError(t, err)

	result, err := env.uc.GetDownloadURL(ctx, "lawyer-1", uploaded.DocumentID, true)
	require.NoError(t, err)
	assert.Equal(t, "https://files.test/"+uploaded.StorageKey, result.URL)
	assert.Contains(t, env.audit.actions(), entity.AuditActionDownload)
}

func TestGetDownloadURLForbiddenForStranger(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()

	uploaded, err := env.uc.UploadDocument(ctx, []byte("content"), "doc.txt", "text/plain", UploadOptions{UploaderID: "lawyer-1"})
	require.NoError(t, err)

	_, err = env.uc.GetDownloadURL(ctx, "intruder", uploaded.DocumentID, false)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "FORBIDDEN"))

	// Admins may access any document.
	env.users.users["admin-1"] = &entity.User{ID: "admin-1", Role: "admin"}
	_, err = env.uc.GetDownloadURL(ctx, "admin-1", uploaded.DocumentID, false)
	assert.NoError(t, err)
}

func TestUpdateMetadataRecordsChangedFields(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()

	uploaded, err := env.uc.UploadDocument(ctx, []byte("content"), "doc.txt", "text/plain", UploadOptions{UploaderID: "lawyer-1"})
	require.NoError(t, err)

	description := "Signed engagement letter"
	updated, err := env.uc.UpdateMetadata(ctx, "lawyer-1", uploaded.DocumentID, MetadataUpdate{
		Description: &description,
		Tags:        []string{"engagement", "signed"},
	})
	require.NoError(t, err)
	assert.Equal(t, description, updated.Description)

	last := env.audit.entries[len(env.audit.entries)-1]
	assert.Equal(t, entity.AuditActionUpdate, last.Action)
	assert.Equal(t, description, last.Detail["description"])
	assert.Equal(t, "engagement,signed", last.Detail["tags"])
}

func TestUpdateMetadataForbiddenForStranger(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()

	uploaded, err := env.uc.UploadDocument(ctx, []byte("content"), "doc.txt", "text/plain", UploadOptions{UploaderID: "lawyer-1"})
	require.NoError(t, err)

	description := "tampered"
	_, err = env.uc.UpdateMetadata(ctx, "intruder", uploaded.DocumentID, MetadataUpdate{Description: &description})
	assert.True(t, apperrors.Is(err, "FORBIDDEN"))
}

func TestSoftDeletedDocumentHiddenFromMutation(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()

	uploaded, err := env.uc.UploadDocument(ctx, []byte("content"), "doc.txt", "text/plain", UploadOptions{UploaderID: "lawyer-1"})
	require.NoError(t, err)
	require.NoError(t, env.uc.DeleteDocument(ctx, "lawyer-1", uploaded.DocumentID, false))

	description := "late edit"
	_, err = env.uc.UpdateMetadata(ctx, "lawyer-1", uploaded.DocumentID, MetadataUpdate{Description: &description})
	assert.True(t, apperrors.Is(err, "NOT_FOUND"), "soft-deleted documents cannot be updated")

	err = env.uc.DeleteDocument(ctx, "lawyer-1", uploaded.DocumentID, false)
	assert.True(t, apperrors.Is(err, "NOT_FOUND"), "re-soft-deleting is not possible")

	// Admins still see and may mutate the record; hard delete stays open
	// to the owner.
	env.users.users["admin-1"] = &entity.User{ID: "admin-1", Role: "admin"}
	_, err = env.uc.UpdateMetadata(ctx, "admin-1", uploaded.DocumentID, MetadataUpdate{Description: &description})
	assert.NoError(t, err)
	assert.NoError(t, env.uc.DeleteDocument(ctx, "lawyer-1", uploaded.DocumentID, true))
}

func TestDeleteDocumentSoftThenHard(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))
	ctx := context.Background()

	uploaded, err := env.uc.UploadDocument(ctx, []byte("content"), "doc.txt", "text/plain", UploadOptions{UploaderID: "lawyer-1"})
	require.NoError(t, err)

	require.NoError(t, env.uc.DeleteDocument(ctx, "lawyer-1", uploaded.DocumentID, false))

	// Soft delete keeps the stored object.
	_, stillThere := env.storage.objects[uploaded.StorageKey]
	assert.True(t, stillThere)

	// Soft-deleted documents are hidden from non-admin reads.
	_, err = env.uc.GetDocument(ctx, "lawyer-1", uploaded.DocumentID)
	assert.True(t, apperrors.Is(err, "NOT_FOUND"))

	require.NoError(t, env.uc.DeleteDocument(ctx, "lawyer-1", uploaded.DocumentID, true))
	_, gone := env.storage.objects[uploaded.StorageKey]
	assert.False(t, gone, "hard delete removes the object")
	assert.Empty(t, env.docs.docs)

	// The hash claim is released: the same content can be uploaded again.
	_, err = env.uc.UploadDocument(ctx, []byte("content"), "doc.txt", "text/plain", UploadOptions{UploaderID: "lawyer-1"})
	assert.NoError(t, err)
}

func TestDecryptFileWrongSecret(t *testing.T) {
	env := newTestEnv(cleanScan(service.ScanBackendClamAV))

	encrypted, err := crypto.Encrypt([]byte("plaintext"), "right-secret")
	require.NoError(t, err)

	_, err = env.uc.DecryptFile(encrypted, "wrong-secret")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, "DECRYPTION_FAILED"))

	plaintext, err := env.uc.DecryptFile(encrypted, "right-secret")
	require.NoError(t, err)
	assert.Equal(t, []byte("plaintext"), plaintext)
}
