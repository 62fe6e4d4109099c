package services

import (
	"encoding/json"
	"reflect"

	"casefilehub/models"
	"casefilehub/utils"
)

// The update table enumerates every casefile field a caller may touch
// through Update, each with a typed applier. Scalars replace; list fields
// union-merge on their identity key so repeated updates are idempotent.
// Fields owned by dedicated operations (id, owner_id, acl, timestamps,
// sub_casefile_ids, session_ids) are deliberately absent and fall through to
// the unknown-key path: logged and ignored.
type fieldApplier func(cf *models.Casefile, value any) error

var casefileFields = map[string]fieldApplier{
	"name":        applyString(func(cf *models.Casefile, v string) { cf.Name = v }),
	"description": applyString(func(cf *models.Casefile, v string) { cf.Description = v }),
	"casefile_type": applyString(func(cf *models.Casefile, v string) {
		cf.CasefileType = v
	}),

	"drive_files_count":     applyInt(func(cf *models.Casefile, v int) { cf.DriveFilesCount = v }),
	"gmail_messages_count":  applyInt(func(cf *models.Casefile, v int) { cf.GmailMessagesCount = v }),
	"calendar_events_count": applyInt(func(cf *models.Casefile, v int) { cf.CalendarEventsCount = v }),

	"tags": func(cf *models.Casefile, value any) error {
		incoming, err := decodeList[string]("tags", value)
		if err != nil {
			return err
		}
		cf.Tags = unionByKey(cf.Tags, incoming, func(s string) string { return s })
		return nil
	},

	"processed_files": func(cf *models.Casefile, value any) error {
		incoming, err := decodeList[models.ProcessedFile]("processed_files", value)
		if err != nil {
			return err
		}
		cf.ProcessedFiles = unionByKey(cf.ProcessedFiles, incoming, func(f models.ProcessedFile) string { return f.ID })
		cf.ArtifactsCount = len(cf.ProcessedFiles)
		return nil
	},

	"drive_files": applyArtifacts(
		func(cf *models.Casefile) *[]models.WorkspaceArtifact { return &cf.DriveFiles },
		func(cf *models.Casefile, n int) { cf.DriveFilesCount = n },
	),
	"gmail_messages": applyArtifacts(
		func(cf *models.Casefile) *[]models.WorkspaceArtifact { return &cf.GmailMessages },
		func(cf *models.Casefile, n int) { cf.GmailMessagesCount = n },
	),
	"calendar_events": applyArtifacts(
		func(cf *models.Casefile) *[]models.WorkspaceArtifact { return &cf.CalendarEvents },
		func(cf *models.Casefile, n int) { cf.CalendarEventsCount = n },
	),
	"google_docs": applyArtifacts(
		func(cf *models.Casefile) *[]models.WorkspaceArtifact { return &cf.GoogleDocs },
		nil,
	),
	"google_sheets": applyArtifacts(
		func(cf *models.Casefile) *[]models.WorkspaceArtifact { return &cf.GoogleSheets },
		nil,
	),
}

// applyCasefileUpdates walks the update map through the field table. Unknown
// keys are logged and skipped; a value the applier cannot decode aborts the
// whole update with an InvalidArgument error.
func applyCasefileUpdates(cf *models.Casefile, updates map[string]any) error {
	for key, value := range updates {
		apply, ok := casefileFields[key]
		if !ok {
			utils.LogWarning("ignoring update to unknown casefile field " + key)
			continue
		}
		if err := apply(cf, value); err != nil {
			return err
		}
	}
	return nil
}

func applyString(assign func(*models.Casefile, string)) fieldApplier {
	return func(cf *models.Casefile, value any) error {
		s, ok := value.(string)
		if !ok {
			return invalidArgument("expected string, got %T", value)
		}
		assign(cf, s)
		return nil
	}
}

// applyInt accepts the numeric shapes a JSON decode or a typed caller can
// produce for a counter.
func applyInt(assign func(*models.Casefile, int)) fieldApplier {
	return func(cf *models.Casefile, value any) error {
		switch v := value.(type) {
		case int:
			assign(cf, v)
		case int32:
			assign(cf, int(v))
		case int64:
			assign(cf, int(v))
		case float64:
			assign(cf, int(v))
		default:
			return invalidArgument("expected integer, got %T", value)
		}
		return nil
	}
}

func applyArtifacts(list func(*models.Casefile) *[]models.WorkspaceArtifact, count func(*models.Casefile, int)) fieldApplier {
	return func(cf *models.Casefile, value any) error {
		incoming, err := decodeList[models.WorkspaceArtifact]("artifact list", value)
		if err != nil {
			return err
		}
		target := list(cf)
		*target = unionByKey(*target, incoming, func(a models.WorkspaceArtifact) string { return a.ID })
		if count != nil {
			count(cf, len(*target))
		}
		return nil
	}
}

// decodeList converts an update value into a typed slice. Typed callers pass
// the slice through untouched; JSON callers arrive as []any and take a
// round-trip through encoding/json.
func decodeList[T any](field string, value any) ([]T, error) {
	if typed, ok := value.([]T); ok {
		return typed, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, invalidArgument("cannot merge into %s: %v", field, err)
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, invalidArgument("cannot merge into %s: %v", field, err)
	}
	return out, nil
}

// unionByKey appends incoming items not already present, de-duplicating on
// the identity key, or on whole-item equality for items without one.
func unionByKey[T any](current, incoming []T, key func(T) string) []T {
	seen := make(map[string]bool, len(current))
	for _, item := range current {
		if k := key(item); k != "" {
			seen[k] = true
		}
	}

	out := current
	for _, item := range incoming {
		k := key(item)
		if k != "" {
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, item)
			continue
		}
		duplicate := false
		for _, existing := range out {
			if reflect.DeepEqual(existing, item) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, item)
		}
	}
	return out
}
