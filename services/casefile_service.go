package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"casefilehub/acl"
	"casefilehub/cache"
	"casefilehub/models"
	"casefilehub/store"
	"casefilehub/utils"
)

// CasefileService owns the casefile lifecycle: hierarchical creation,
// cache-then-store reads, and transactional update/grant/revoke/delete.
// Every mutation re-reads and re-validates the ACL inside the store
// transaction, so two concurrent writers can neither pass a check against
// stale state nor clobber each other's committed update.
type CasefileService struct {
	store    store.Store
	cache    cache.Cache
	users    *UserService
	cacheTTL time.Duration
}

func NewCasefileService(s store.Store, c cache.Cache, users *UserService, cacheTTL time.Duration) *CasefileService {
	return &CasefileService{store: s, cache: c, users: users, cacheTTL: cacheTTL}
}

func cacheKey(id string) string {
	return "casefile:" + id
}

// Create makes a new casefile owned by userID. With a parentID the child is
// created inside a transaction: the actor needs writer-or-admin on the
// parent, the child inherits the parent's ACL plus creator-as-admin, and the
// parent's child list is extended in the same commit. Without a parent it is
// a single write under a brand-new ID, where no contention is possible.
func (s *CasefileService) Create(ctx context.Context, name, description, userID, parentID, casefileID string) (*models.Casefile, error) {
	user, err := s.users.GetUserByUsername(ctx, userID)
	if err != nil {
		return nil, err
	}

	if parentID == "" {
		cf := models.NewCasefile(name, description, userID)
		if casefileID != "" {
			cf.ID = casefileID
		}
		if err := s.store.Save(ctx, store.CollectionCasefiles, cf.ID, cf); err != nil {
			return nil, storeError("create casefile", err)
		}
		utils.LogInfo(fmt.Sprintf("casefile %s created by %s", cf.ID, userID))
		return cf, nil
	}

	var child *models.Casefile
	var parentAfter *models.Casefile
	err = s.store.RunTransaction(ctx, func(txn store.Txn) error {
		var parent models.Casefile
		if err := txn.Get(store.CollectionCasefiles, parentID, &parent); err != nil {
			if errors.Is(err, store.ErrNoDoc) {
				return notFound("parent casefile %q not found", parentID)
			}
			return err
		}

		if !acl.Authorize(user.Role, parent.RoleOf(userID), acl.RoleWriter) {
			return permissionDenied("user %q may not create a sub-casefile under %q", userID, parentID)
		}

		child = models.NewCasefile(name, description, userID)
		if casefileID != "" {
			child.ID = casefileID
		}
		childACL := make(map[string]acl.Role, len(parent.ACL)+1)
		for u, r := range parent.ACL {
			childACL[u] = r
		}
		childACL[userID] = acl.RoleAdmin
		child.ACL = childACL
		child.ParentID = parentID

		parent.SubCasefileIDs = append(parent.SubCasefileIDs, child.ID)
		parent.Touch()

		if err := txn.Set(store.CollectionCasefiles, child.ID, child); err != nil {
			return err
		}
		if err := txn.Set(store.CollectionCasefiles, parentID, &parent); err != nil {
			return err
		}
		parentAfter = &parent
		return nil
	})
	if err != nil {
		return nil, s.asServiceError("create sub-casefile", err)
	}

	s.writeThrough(ctx, parentAfter)

	utils.LogInfo(fmt.Sprintf("sub-casefile %s created under %s by %s", child.ID, parentID, userID))
	return child, nil
}

// Load reads a casefile, cache first. A store hit populates the cache before
// returning.
func (s *CasefileService) Load(ctx context.Context, id string) (*models.Casefile, error) {
	if raw, ok := s.cache.Get(ctx, cacheKey(id)); ok {
		var cf models.Casefile
		if err := json.Unmarshal(raw, &cf); err == nil {
			return &cf, nil
		}
		// A snapshot that no longer decodes is dropped, not trusted.
		s.cache.Delete(ctx, cacheKey(id))
	}

	var cf models.Casefile
	err := s.store.Get(ctx, store.CollectionCasefiles, id, &cf)
	if errors.Is(err, store.ErrNoDoc) {
		return nil, notFound("casefile %q not found", id)
	}
	if err != nil {
		return nil, storeError("load casefile", err)
	}

	s.writeThrough(ctx, &cf)
	return &cf, nil
}

// ListAll returns every casefile in the store.
func (s *CasefileService) ListAll(ctx context.Context) ([]models.Casefile, error) {
	docs, err := s.store.GetAll(ctx, store.CollectionCasefiles)
	if err != nil {
		return nil, storeError("list casefiles", err)
	}

	casefiles := make([]models.Casefile, 0, len(docs))
	for _, doc := range docs {
		var cf models.Casefile
		if err := bson.Unmarshal(doc, &cf); err != nil {
			return nil, storeError("decode casefile", err)
		}
		casefiles = append(casefiles, cf)
	}
	return casefiles, nil
}

// ListTopLevel returns only casefiles without a parent.
func (s *CasefileService) ListTopLevel(ctx context.Context) ([]models.Casefile, error) {
	all, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	top := make([]models.Casefile, 0, len(all))
	for _, cf := range all {
		if cf.IsTopLevel() {
			top = append(top, cf)
		}
	}
	return top, nil
}

// Update applies the update map through the field table inside a
// transaction. The initial Load warms the cache and fails fast when the
// casefile is gone; the transaction re-reads and re-validates regardless.
func (s *CasefileService) Update(ctx context.Context, id string, updates map[string]any, userID string) (*models.Casefile, error) {
	user, err := s.users.GetUserByUsername(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Load(ctx, id); err != nil {
		return nil, err
	}

	var updated *models.Casefile
	err = s.store.RunTransaction(ctx, func(txn store.Txn) error {
		var cf models.Casefile
		if err := txn.Get(store.CollectionCasefiles, id, &cf); err != nil {
			if errors.Is(err, store.ErrNoDoc) {
				return notFound("casefile %q not found", id)
			}
			return err
		}

		if !acl.Authorize(user.Role, cf.RoleOf(userID), acl.RoleWriter) {
			return permissionDenied("user %q does not have write access to casefile %q", userID, id)
		}

		if err := applyCasefileUpdates(&cf, updates); err != nil {
			return err
		}
		cf.Touch()

		if err := txn.Set(store.CollectionCasefiles, id, &cf); err != nil {
			return err
		}
		updated = &cf
		return nil
	})
	if err != nil {
		return nil, s.asServiceError("update casefile", err)
	}

	s.writeThrough(ctx, updated)
	utils.LogInfo(fmt.Sprintf("casefile %s updated by %s", id, userID))
	return updated, nil
}

// GrantAccess sets a user's role in the ACL. Requires casefile admin (or
// global admin); both users must exist; the role string must parse.
func (s *CasefileService) GrantAccess(ctx context.Context, id, userToGrant, roleStr, currentUserID string) (*models.Casefile, error) {
	role, err := acl.Parse(roleStr)
	if err != nil {
		return nil, invalidArgument("%v", err)
	}

	current, err := s.users.GetUserByUsername(ctx, currentUserID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetUserByUsername(ctx, userToGrant); err != nil {
		return nil, err
	}

	var updated *models.Casefile
	err = s.store.RunTransaction(ctx, func(txn store.Txn) error {
		var cf models.Casefile
		if err := txn.Get(store.CollectionCasefiles, id, &cf); err != nil {
			if errors.Is(err, store.ErrNoDoc) {
				return notFound("casefile %q not found", id)
			}
			return err
		}

		if !acl.Authorize(current.Role, cf.RoleOf(currentUserID), acl.RoleAdmin) {
			return permissionDenied("user %q does not have admin rights on casefile %q", currentUserID, id)
		}

		if cf.ACL == nil {
			cf.ACL = map[string]acl.Role{}
		}
		cf.ACL[userToGrant] = role
		cf.Touch()

		if err := txn.Set(store.CollectionCasefiles, id, &cf); err != nil {
			return err
		}
		updated = &cf
		return nil
	})
	if err != nil {
		return nil, s.asServiceError("grant access", err)
	}

	s.writeThrough(ctx, updated)
	utils.LogInfo(fmt.Sprintf("access to casefile %s granted to %s as %s by %s", id, userToGrant, role, currentUserID))
	return updated, nil
}

// RevokeAccess removes a user's ACL entry. Requires admin; the target must
// currently hold access; the owner's entry can only be removed by the owner.
func (s *CasefileService) RevokeAccess(ctx context.Context, id, userToRevoke, currentUserID string) (*models.Casefile, error) {
	current, err := s.users.GetUserByUsername(ctx, currentUserID)
	if err != nil {
		return nil, err
	}

	var updated *models.Casefile
	err = s.store.RunTransaction(ctx, func(txn store.Txn) error {
		var cf models.Casefile
		if err := txn.Get(store.CollectionCasefiles, id, &cf); err != nil {
			if errors.Is(err, store.ErrNoDoc) {
				return notFound("casefile %q not found", id)
			}
			return err
		}

		if !acl.Authorize(current.Role, cf.RoleOf(currentUserID), acl.RoleAdmin) {
			return permissionDenied("user %q does not have admin rights on casefile %q", currentUserID, id)
		}
		if _, ok := cf.ACL[userToRevoke]; !ok {
			return notFound("user %q has no access to casefile %q", userToRevoke, id)
		}
		if !acl.CanRevoke(cf.OwnerID, userToRevoke, currentUserID) {
			return permissionDenied("the casefile owner's access can only be revoked by the owner")
		}

		delete(cf.ACL, userToRevoke)
		cf.Touch()

		if err := txn.Set(store.CollectionCasefiles, id, &cf); err != nil {
			return err
		}
		updated = &cf
		return nil
	})
	if err != nil {
		return nil, s.asServiceError("revoke access", err)
	}

	s.writeThrough(ctx, updated)
	utils.LogInfo(fmt.Sprintf("access to casefile %s revoked for %s by %s", id, userToRevoke, currentUserID))
	return updated, nil
}

// LinkSession unions a session ID into session_ids with an atomic
// array-union, touching modified_at in the same write. System-internal: no
// ACL check. The cache entry is invalidated rather than rewritten since no
// full document is in hand.
func (s *CasefileService) LinkSession(ctx context.Context, id, sessionID string) error {
	err := s.store.AddToSet(ctx, store.CollectionCasefiles, id, "session_ids",
		[]any{sessionID}, map[string]any{"modified_at": time.Now().UTC()})
	if errors.Is(err, store.ErrNoDoc) {
		return notFound("casefile %q not found", id)
	}
	if err != nil {
		return storeError("link session", err)
	}

	s.cache.Delete(ctx, cacheKey(id))
	return nil
}

// Delete removes the casefile. The admin check runs inside the same
// transaction as the delete, so a concurrent revoke cannot slip between
// check and use. Children are not cascaded; their parent reference dangles.
func (s *CasefileService) Delete(ctx context.Context, id, userID string) (bool, error) {
	user, err := s.users.GetUserByUsername(ctx, userID)
	if err != nil {
		return false, err
	}

	err = s.store.RunTransaction(ctx, func(txn store.Txn) error {
		var cf models.Casefile
		if err := txn.Get(store.CollectionCasefiles, id, &cf); err != nil {
			if errors.Is(err, store.ErrNoDoc) {
				return notFound("casefile %q not found", id)
			}
			return err
		}

		if !acl.Authorize(user.Role, cf.RoleOf(userID), acl.RoleAdmin) {
			return permissionDenied("user %q does not have admin rights to delete casefile %q", userID, id)
		}

		return txn.Delete(store.CollectionCasefiles, id)
	})
	if err != nil {
		return false, s.asServiceError("delete casefile", err)
	}

	s.cache.Delete(ctx, cacheKey(id))
	utils.LogInfo(fmt.Sprintf("casefile %s deleted by %s", id, userID))
	return true, nil
}

// writeThrough refreshes the cached snapshot after a committed write. Cache
// failures degrade silently inside the cache layer.
func (s *CasefileService) writeThrough(ctx context.Context, cf *models.Casefile) {
	raw, err := json.Marshal(cf)
	if err != nil {
		return
	}
	s.cache.Set(ctx, cacheKey(cf.ID), raw, s.cacheTTL)
}

// asServiceError passes business errors through untouched and maps raw
// store failures (conflict, unavailable) onto the taxonomy.
func (s *CasefileService) asServiceError(message string, err error) error {
	var se *ServiceError
	if errors.As(err, &se) {
		return err
	}
	return storeError(message, err)
}
