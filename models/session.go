package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Session is one agent conversation bound to a casefile. The casefile side
// of the link lives in Casefile.SessionIDs, appended via atomic array-union.
type Session struct {
	ID         string    `bson:"_id" json:"id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	CasefileID string    `bson:"casefile_id" json:"casefile_id"`
	CreatedAt  time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updated_at"`
}

// NewSessionID generates a session ID of the form session-<32 hex chars>.
func NewSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return "session-" + hex.EncodeToString(b)
}
