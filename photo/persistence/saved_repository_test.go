package persistence

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/akarlsen/filterlab/photo/domain"
	sharedDB "github.com/akarlsen/filterlab/shared/db"
	_ "modernc.org/sqlite"
)

func setupTestSavedDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
		CREATE TABLE saved_images (
			filename TEXT PRIMARY KEY,
			source TEXT,
			filter TEXT,
			hash TEXT NOT NULL,
			width INTEGER NOT NULL DEFAULT 0,
			height INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create saved_images table: %v", err)
	}

	return db
}

func TestSavedImageRepository_RecordSave(t *testing.T) {
	db := setupTestSavedDB(t)
	repo := NewSavedImageRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	save := &domain.SavedImage{
		Filename:  "1700000000000.jpg",
		Source:    "/photos/cat.jpg",
		Filter:    "grayscale",
		Hash:      "abc123",
		Width:     640,
		Height:    480,
		CreatedAt: now,
	}

	if err := repo.RecordSave(ctx, save); err != nil {
		t.Fatalf("Failed to record save: %v", err)
	}

	// Recording the same filename again overwrites the record.
	save.Filter = "sepia"
	save.Hash = "def456"
	if err := repo.RecordSave(ctx, save); err != nil {
		t.Fatalf("Failed to update save record: %v", err)
	}

	retrieved, err := repo.GetSave(ctx, save.Filename)
	if err != nil {
		t.Fatalf("Failed to get save record: %v", err)
	}

	if retrieved.Filter != "sepia" {
		t.Errorf("Filter = %q, want %q", retrieved.Filter, "sepia")
	}
	if retrieved.Hash != "def456" {
		t.Errorf("Hash = %q, want %q", retrieved.Hash, "def456")
	}
	if retrieved.Width != 640 || retrieved.Height != 480 {
		t.Errorf("dimensions = %dx%d, want 640x480", retrieved.Width, retrieved.Height)
	}
}

func TestSavedImageRepository_RecordSaveValidation(t *testing.T) {
	db := setupTestSavedDB(t)
	repo := NewSavedImageRepository(db)
	ctx := context.Background()

	if err := repo.RecordSave(ctx, nil); err == nil {
		t.Error("RecordSave(nil) should fail")
	}

	if err := repo.RecordSave(ctx, &domain.SavedImage{Hash: "x"}); err == nil {
		t.Error("RecordSave() with empty filename should fail")
	}
}

func TestSavedImageRepository_RecordSaveDefaultsCreatedAt(t *testing.T) {
	db := setupTestSavedDB(t)
	repo := NewSavedImageRepository(db)
	ctx := context.Background()

	save := &domain.SavedImage{
		Filename: "1.jpg",
		Hash:     "h",
	}
	if err := repo.RecordSave(ctx, save); err != nil {
		t.Fatalf("Failed to record save: %v", err)
	}

	retrieved, err := repo.GetSave(ctx, "1.jpg")
	if err != nil {
		t.Fatalf("Failed to get save record: %v", err)
	}
	if retrieved.CreatedAt.IsZero() {
		t.Error("CreatedAt should default to the current time")
	}
}

func TestSavedImageRepository_RecordSaveJoinsTransaction(t *testing.T) {
	db := setupTestSavedDB(t)
	repo := NewSavedImageRepository(db)
	ctx := context.Background()

	sentinel := errors.New("abort")
	err := sharedDB.Transact(ctx, db, func(ctx context.Context) error {
		if err := repo.RecordSave(ctx, &domain.SavedImage{Filename: "tx.jpg", Hash: "h"}); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("Transact() error = %v, want sentinel", err)
	}

	// The rollback discarded the record written inside the transaction.
	if _, err := repo.GetSave(ctx, "tx.jpg"); err == nil {
		t.Error("Record should not exist after the enclosing transaction rolled back")
	}
}

func TestSavedImageRepository_GetSave(t *testing.T) {
	db := setupTestSavedDB(t)
	repo := NewSavedImageRepository(db)
	ctx := context.Background()

	if _, err := repo.GetSave(ctx, "nonexistent.jpg"); err == nil {
		t.Error("Expected error for non-existent record, got nil")
	}

	if _, err := repo.GetSave(ctx, ""); err == nil {
		t.Error("Expected error for empty filename, got nil")
	}
}

func TestSavedImageRepository_ListSaves(t *testing.T) {
	db := setupTestSavedDB(t)
	repo := NewSavedImageRepository(db)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		save := &domain.SavedImage{
			Filename:  []string{"a.jpg", "b.jpg", "c.jpg"}[i],
			Hash:      "h",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.RecordSave(ctx, save); err != nil {
			t.Fatalf("Failed to record save %d: %v", i, err)
		}
	}

	saves, err := repo.ListSaves(ctx, 10, 0)
	if err != nil {
		t.Fatalf("Failed to list saves: %v", err)
	}
	if len(saves) != 3 {
		t.Fatalf("ListSaves() returned %d records, want 3", len(saves))
	}

	// Newest first.
	if saves[0].Filename != "c.jpg" || saves[2].Filename != "a.jpg" {
		t.Errorf("ListSaves() order = [%s %s %s], want newest first",
			saves[0].Filename, saves[1].Filename, saves[2].Filename)
	}

	// Limit and offset.
	page, err := repo.ListSaves(ctx, 1, 1)
	if err != nil {
		t.Fatalf("Failed to list saves with offset: %v", err)
	}
	if len(page) != 1 || page[0].Filename != "b.jpg" {
		t.Errorf("ListSaves(1, 1) = %v, want [b.jpg]", page)
	}

	// Empty result is not an error.
	empty, err := repo.ListSaves(ctx, 10, 10)
	if err != nil {
		t.Fatalf("Failed to list saves past the end: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("ListSaves() past the end returned %d records, want 0", len(empty))
	}
}
