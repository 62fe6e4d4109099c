package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"casefilehub/models"
	"casefilehub/store"
	"casefilehub/utils"
)

// SessionService manages agent conversation sessions and their linkage into
// casefiles.
type SessionService struct {
	store     store.Store
	casefiles *CasefileService
}

func NewSessionService(s store.Store, casefiles *CasefileService) *SessionService {
	return &SessionService{store: s, casefiles: casefiles}
}

// Create starts a session bound to an existing casefile and links it via the
// casefile's atomic session_ids union.
func (s *SessionService) Create(ctx context.Context, casefileID, userID string) (*models.Session, error) {
	if _, err := s.casefiles.Load(ctx, casefileID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	session := &models.Session{
		ID:         models.NewSessionID(),
		UserID:     userID,
		CasefileID: casefileID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Save(ctx, store.CollectionSessions, session.ID, session); err != nil {
		return nil, storeError("create session", err)
	}

	if err := s.casefiles.LinkSession(ctx, casefileID, session.ID); err != nil {
		return nil, err
	}

	utils.LogInfo(fmt.Sprintf("session %s linked to casefile %s for %s", session.ID, casefileID, userID))
	return session, nil
}

// Get returns one session by ID.
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := s.store.Get(ctx, store.CollectionSessions, id, &session)
	if errors.Is(err, store.ErrNoDoc) {
		return nil, notFound("session %q not found", id)
	}
	if err != nil {
		return nil, storeError("load session", err)
	}
	return &session, nil
}

// ListByCasefile returns the sessions bound to a casefile.
func (s *SessionService) ListByCasefile(ctx context.Context, casefileID string) ([]models.Session, error) {
	docs, err := s.store.GetAll(ctx, store.CollectionSessions)
	if err != nil {
		return nil, storeError("list sessions", err)
	}

	sessions := make([]models.Session, 0)
	for _, doc := range docs {
		var session models.Session
		if err := bson.Unmarshal(doc, &session); err != nil {
			return nil, storeError("decode session", err)
		}
		if session.CasefileID == casefileID {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}
