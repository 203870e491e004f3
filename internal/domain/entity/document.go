package entity

import (
	"time"
)

// Virus scan status values for a document. An upload with scanning enabled
// starts at pending and moves to exactly one terminal status. "error" means
// no scanner was reachable and the upload proceeded fail-open.
const (
	ScanStatusPending  = "pending"
	ScanStatusClean    = "clean"
	ScanStatusInfected = "infected"
	ScanStatusError    = "error"
)

type Document struct {
	ID                string     `json:"id" firestore:"id"`
	OriginalFilename  string     `json:"original_filename" firestore:"originalFilename"`
	SanitizedFilename string     `json:"sanitized_filename" firestore:"sanitizedFilename"`
	ContentType       string     `json:"content_type" firestore:"contentType"`
	Size              int64      `json:"size" firestore:"size"`
	ContentHash       string     `json:"content_hash" firestore:"contentHash"`
	StorageKey        string     `json:"storage_key" firestore:"storageKey"`
	UploadedBy        string     `json:"uploaded_by" firestore:"uploadedBy"`
	CaseID            string     `json:"case_id,omitempty" firestore:"caseId,omitempty"`
	ClientID          string     `json:"client_id,omitempty" firestore:"clientId,omitempty"`
	Category          string     `json:"category,omitempty" firestore:"category,omitempty"`
	Description       string     `json:"description,omitempty" firestore:"description,omitempty"`
	Tags              []string   `json:"tags,omitempty" firestore:"tags,omitempty"`
	Confidential      bool       `json:"confidential" firestore:"confidential"`
	Encrypted         bool       `json:"encrypted" firestore:"encrypted"`
	VirusScanStatus   string     `json:"virus_scan_status" firestore:"virusScanStatus"`
	VirusScannedAt    *time.Time `json:"virus_scanned_at,omitempty" firestore:"virusScannedAt,omitempty"`
	CreatedAt         time.Time  `json:"created_at" firestore:"createdAt"`
	UpdatedAt         time.Time  `json:"updated_at" firestore:"updatedAt"`
	DeletedAt         *time.Time `json:"deleted_at,omitempty" firestore:"deletedAt,omitempty"`
}

// IsDeleted reports whether the document has been soft deleted. The stored
// object and the record itself are retained until a hard delete.
func (d *Document) IsDeleted() bool {
	return d.DeletedAt != nil
}
