package entity

import (
	"time"
)

// Audit actions recorded by the document pipeline.
const (
	AuditActionUpload   = "document_upload"
	AuditActionDownload = "document_download"
	AuditActionUpdate   = "document_update"
	AuditActionDelete   = "document_delete"
	AuditActionHardDel  = "document_hard_delete"
	AuditActionPresign  = "document_presign"
	AuditActionScan     = "document_scan"
)

// AuditLog is an append-only record of a document action. Entries are never
// mutated or deleted by this service.
type AuditLog struct {
	ID         string            `json:"id" firestore:"id"`
	UserID     string            `json:"user_id" firestore:"userId"`
	DocumentID string            `json:"document_id" firestore:"documentId"`
	Action     string            `json:"action" firestore:"action"`
	Detail     map[string]string `json:"detail,omitempty" firestore:"detail,omitempty"`
	CreatedAt  time.Time         `json:"created_at" firestore:"createdAt"`
}
