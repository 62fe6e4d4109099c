package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"casefilehub/models"
)

func TestApplyUpdatesScalars(t *testing.T) {
	cf := models.NewCasefile("Audit Q1", "", "alice")

	err := applyCasefileUpdates(cf, map[string]any{
		"name":          "Audit Q1 (revised)",
		"description":   "quarterly audit",
		"casefile_type": "investigation",
	})
	require.NoError(t, err)
	require.Equal(t, "Audit Q1 (revised)", cf.Name)
	require.Equal(t, "quarterly audit", cf.Description)
	require.Equal(t, "investigation", cf.CasefileType)
}

// Counters arrive as float64 from JSON bodies and as int from typed callers.
func TestApplyUpdatesCounterShapes(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
		fails bool
	}{
		{name: "int", value: 7, want: 7},
		{name: "int32", value: int32(7), want: 7},
		{name: "int64", value: int64(7), want: 7},
		{name: "float64", value: float64(7), want: 7},
		{name: "string", value: "7", fails: true},
		{name: "bool", value: true, fails: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cf := models.NewCasefile("Audit Q1", "", "alice")
			err := applyCasefileUpdates(cf, map[string]any{"drive_files_count": tt.value})
			if tt.fails {
				require.Equal(t, KindInvalidArgument, KindOf(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, cf.DriveFilesCount)
		})
	}
}

func TestApplyUpdatesTagsUnion(t *testing.T) {
	cf := models.NewCasefile("Audit Q1", "", "alice")
	cf.Tags = []string{"finance"}

	err := applyCasefileUpdates(cf, map[string]any{
		"tags": []string{"finance", "2026", "2026"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"finance", "2026"}, cf.Tags)
}

// A JSON body decodes list values as []any; the appliers take them through
// an encoding round-trip.
func TestApplyUpdatesJSONShapedLists(t *testing.T) {
	cf := models.NewCasefile("Audit Q1", "", "alice")

	err := applyCasefileUpdates(cf, map[string]any{
		"tags": []any{"finance", "2026"},
		"processed_files": []any{
			map[string]any{"id": "att-1", "name": "ledger.pdf"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"finance", "2026"}, cf.Tags)
	require.Len(t, cf.ProcessedFiles, 1)
	require.Equal(t, "att-1", cf.ProcessedFiles[0].ID)
	require.Equal(t, 1, cf.ArtifactsCount)
}

func TestApplyUpdatesArtifactListsUnionByID(t *testing.T) {
	cf := models.NewCasefile("Audit Q1", "", "alice")
	cf.DriveFiles = []models.WorkspaceArtifact{{ID: "drv-1", Title: "Minutes"}}
	cf.DriveFilesCount = 1

	err := applyCasefileUpdates(cf, map[string]any{
		"drive_files": []models.WorkspaceArtifact{
			{ID: "drv-1", Title: "Minutes (stale duplicate)"},
			{ID: "drv-2", Title: "Budget"},
		},
	})
	require.NoError(t, err)

	require.Len(t, cf.DriveFiles, 2)
	// The existing entry wins over an incoming duplicate of the same ID.
	require.Equal(t, "Minutes", cf.DriveFiles[0].Title)
	require.Equal(t, "drv-2", cf.DriveFiles[1].ID)
	require.Equal(t, 2, cf.DriveFilesCount)
}

func TestApplyUpdatesProcessedFilesDerivesArtifactsCount(t *testing.T) {
	cf := models.NewCasefile("Audit Q1", "", "alice")

	for i := 0; i < 2; i++ {
		err := applyCasefileUpdates(cf, map[string]any{
			"processed_files": []models.ProcessedFile{
				{ID: "att-1", Name: "ledger.pdf"},
				{ID: "att-2", Name: "memo.docx"},
			},
		})
		require.NoError(t, err)
	}

	require.Len(t, cf.ProcessedFiles, 2)
	require.Equal(t, 2, cf.ArtifactsCount)
}

func TestApplyUpdatesUnknownKeysSkipped(t *testing.T) {
	cf := models.NewCasefile("Audit Q1", "", "alice")
	before := *cf

	err := applyCasefileUpdates(cf, map[string]any{
		"id":               "case-hijack",
		"owner_id":         "mallory",
		"acl":              map[string]string{"mallory": "admin"},
		"sub_casefile_ids": []string{"case-x"},
		"session_ids":      []string{"session-x"},
		"created_at":       "2020-01-01T00:00:00Z",
		"completely_bogus": 1,
	})
	require.NoError(t, err)

	require.Equal(t, before.ID, cf.ID)
	require.Equal(t, before.OwnerID, cf.OwnerID)
	require.Equal(t, before.ACL, cf.ACL)
	require.Empty(t, cf.SubCasefileIDs)
	require.Empty(t, cf.SessionIDs)
	require.Equal(t, before.CreatedAt, cf.CreatedAt)
}

func TestUnionByKeyKeylessFallsBackToEquality(t *testing.T) {
	current := []string{"a"}
	incoming := []string{"", "", "b"}

	got := unionByKey(current, incoming, func(s string) string { return s })
	require.Equal(t, []string{"a", "", "b"}, got)
}
