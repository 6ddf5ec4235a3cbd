package repo

import (
	"context"
	"path/filepath"
	"testing"

	"grabarr/internal/database"
	"grabarr/internal/domain/consts"
	"grabarr/internal/models"
)

func testStore(t *testing.T) *DownloadStore {
	t.Helper()

	db, err := database.InitDB(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return GetDownloadStore(db.DB)
}

func TestDownloadLifecycle(t *testing.T) {
	ctx := context.Background()
	ds := testStore(t)

	rec := &models.DownloadRecord{
		URL:     "https://example.com/watch?v=abc",
		Tool:    consts.ToolYtDlp,
		Phase:   "multi-client",
		Client:  "web,web_safari,ios",
		Quality: consts.Quality720p,
	}

	id, err := ds.RecordStart(ctx, rec)
	if err != nil {
		t.Fatalf("RecordStart: %v", err)
	}
	if id == 0 || rec.ID != id {
		t.Fatalf("expected row ID assignment, got id=%d rec.ID=%d", id, rec.ID)
	}

	if err := ds.UpdateProgress(ctx, id, 42.5); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	if err := ds.RecordFinish(ctx, id, consts.DLStatusCompleted, "", ""); err != nil {
		t.Fatalf("RecordFinish: %v", err)
	}

	recent, err := ds.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 row, got %d", len(recent))
	}

	got := recent[0]
	if got.Status != consts.DLStatusCompleted {
		t.Fatalf("status %q, want completed", got.Status)
	}
	if got.Percent != 100.0 {
		t.Fatalf("completed rows pin percent to 100, got %v", got.Percent)
	}
	if got.FinishedAt.IsZero() {
		t.Fatal("finished_at should be set")
	}
}

func TestRecordFinishFailure(t *testing.T) {
	ctx := context.Background()
	ds := testStore(t)

	id, err := ds.RecordStart(ctx, &models.DownloadRecord{
		URL:  "https://example.com/v",
		Tool: consts.ToolLux,
	})
	if err != nil {
		t.Fatalf("RecordStart: %v", err)
	}

	if err := ds.RecordFinish(ctx, id, consts.DLStatusFailed, "http_403_forbidden", "ERROR: HTTP Error 403"); err != nil {
		t.Fatalf("RecordFinish: %v", err)
	}

	recent, err := ds.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	got := recent[0]
	if got.Reason != "http_403_forbidden" || got.Error == "" {
		t.Fatalf("failure details not persisted: %+v", got)
	}
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	ds := testStore(t)

	for _, url := range []string{"https://a.example/1", "https://a.example/2", "https://a.example/3"} {
		if _, err := ds.RecordStart(ctx, &models.DownloadRecord{URL: url, Tool: consts.ToolYtDlp}); err != nil {
			t.Fatalf("RecordStart: %v", err)
		}
	}

	recent, err := ds.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("limit not honored, got %d rows", len(recent))
	}
	// Same-second timestamps still order by rowid via started_at tie; the
	// highest ID must be present.
	if recent[0].ID < recent[1].ID {
		t.Fatalf("expected newest first, got IDs %d then %d", recent[0].ID, recent[1].ID)
	}
}
