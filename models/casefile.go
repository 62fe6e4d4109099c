package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"casefilehub/acl"
)

// Casefile is the central dossier entity. One document per casefile in the
// "casefiles" collection, ACL stored inline as a map field.
type Casefile struct {
	ID           string              `bson:"_id" json:"id"`
	Name         string              `bson:"name" json:"name"`
	Description  string              `bson:"description,omitempty" json:"description,omitempty"`
	CasefileType string              `bson:"casefile_type" json:"casefile_type"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	ModifiedAt   time.Time           `bson:"modified_at" json:"modified_at"`
	OwnerID      string              `bson:"owner_id" json:"owner_id"`
	ACL          map[string]acl.Role `bson:"acl" json:"acl"`

	Tags           []string `bson:"tags,omitempty" json:"tags,omitempty"`
	SubCasefileIDs []string `bson:"sub_casefile_ids,omitempty" json:"sub_casefile_ids,omitempty"`
	ParentID       string   `bson:"parent_id,omitempty" json:"parent_id,omitempty"`
	SessionIDs     []string `bson:"session_ids,omitempty" json:"session_ids,omitempty"`

	ProcessedFiles []ProcessedFile     `bson:"processed_files,omitempty" json:"processed_files,omitempty"`
	DriveFiles     []WorkspaceArtifact `bson:"drive_files,omitempty" json:"drive_files,omitempty"`
	GmailMessages  []WorkspaceArtifact `bson:"gmail_messages,omitempty" json:"gmail_messages,omitempty"`
	CalendarEvents []WorkspaceArtifact `bson:"calendar_events,omitempty" json:"calendar_events,omitempty"`
	GoogleDocs     []WorkspaceArtifact `bson:"google_docs,omitempty" json:"google_docs,omitempty"`
	GoogleSheets   []WorkspaceArtifact `bson:"google_sheets,omitempty" json:"google_sheets,omitempty"`

	DriveFilesCount     int `bson:"drive_files_count" json:"drive_files_count"`
	GmailMessagesCount  int `bson:"gmail_messages_count" json:"gmail_messages_count"`
	CalendarEventsCount int `bson:"calendar_events_count" json:"calendar_events_count"`
	ArtifactsCount      int `bson:"artifacts_count" json:"artifacts_count"`
}

// ProcessedFile records one artifact ingested into a casefile. The ID is the
// identity key for union-merging the processed_files list.
type ProcessedFile struct {
	ID         string    `bson:"id" json:"id"`
	Name       string    `bson:"name" json:"name"`
	ObjectName string    `bson:"object_name,omitempty" json:"object_name,omitempty"`
	MimeType   string    `bson:"mime_type,omitempty" json:"mime_type,omitempty"`
	Size       int64     `bson:"size,omitempty" json:"size,omitempty"`
	SHA1       string    `bson:"sha1,omitempty" json:"sha1,omitempty"`
	UploadedBy string    `bson:"uploaded_by,omitempty" json:"uploaded_by,omitempty"`
	UploadedAt time.Time `bson:"uploaded_at,omitempty" json:"uploaded_at,omitempty"`
}

// WorkspaceArtifact is a linked Google Workspace object (Drive file, Gmail
// message, calendar event, doc or sheet). Only the fields the engine needs
// are modeled; the rest of the upstream payload rides along in Extra.
type WorkspaceArtifact struct {
	ID       string         `bson:"id" json:"id"`
	Title    string         `bson:"title,omitempty" json:"title,omitempty"`
	Link     string         `bson:"link,omitempty" json:"link,omitempty"`
	MimeType string         `bson:"mime_type,omitempty" json:"mime_type,omitempty"`
	Extra    map[string]any `bson:"extra,omitempty" json:"extra,omitempty"`
}

// NewCasefile constructs a casefile with generated ID and timestamps. The
// owner is granted admin when an owner is set and no ACL was provided.
func NewCasefile(name, description, ownerID string) *Casefile {
	now := time.Now().UTC()
	cf := &Casefile{
		ID:           NewCasefileID(),
		Name:         name,
		Description:  description,
		CasefileType: "research",
		CreatedAt:    now,
		ModifiedAt:   now,
		OwnerID:      ownerID,
		ACL:          map[string]acl.Role{},
	}
	if ownerID != "" {
		cf.ACL[ownerID] = acl.RoleAdmin
	}
	return cf
}

// Touch advances modified_at. Every mutating operation calls it before the
// document is written back.
func (c *Casefile) Touch() {
	c.ModifiedAt = time.Now().UTC()
}

// IsTopLevel reports whether the casefile has no parent.
func (c *Casefile) IsTopLevel() bool {
	return c.ParentID == ""
}

// RoleOf returns the user's role in the ACL, empty when absent.
func (c *Casefile) RoleOf(userID string) acl.Role {
	return c.ACL[userID]
}

// NewCasefileID generates a casefile ID of the form case-<32 hex chars>.
func NewCasefileID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "case-" + hex.EncodeToString(b)
}
