package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/akarlsen/filterlab/photo/domain"
	"github.com/akarlsen/filterlab/shared/db"
)

var _ domain.SavedImageRepository = (*SQLiteSavedImageRepository)(nil)

// SQLiteSavedImageRepository implements domain.SavedImageRepository on top of
// a standard sql.DB (SQLite).
type SQLiteSavedImageRepository struct {
	db *sql.DB
}

func NewSavedImageRepository(sqlDB *sql.DB) *SQLiteSavedImageRepository {
	return &SQLiteSavedImageRepository{
		db: sqlDB,
	}
}

const insertSaveQuery = `
	INSERT INTO saved_images (filename, source, filter, hash, width, height, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(filename) DO UPDATE SET
		source = excluded.source,
		filter = excluded.filter,
		hash = excluded.hash,
		width = excluded.width,
		height = excluded.height
`

// RecordSave persists the metadata of a saved image file. Saving the same
// filename again overwrites the previous record, matching the on-disk
// overwrite of a same-millisecond save.
func (r *SQLiteSavedImageRepository) RecordSave(ctx context.Context, s *domain.SavedImage) error {
	if s == nil {
		return fmt.Errorf("saved image cannot be nil")
	}
	if s.Filename == "" {
		return fmt.Errorf("saved image filename cannot be empty")
	}

	createdAt := s.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	return db.Transact(ctx, r.db, func(ctx context.Context) error {
		executor := db.GetExecutor(ctx, r.db)
		_, err := executor.ExecContext(ctx, insertSaveQuery,
			s.Filename,
			s.Source,
			s.Filter,
			s.Hash,
			s.Width,
			s.Height,
			createdAt,
		)
		if err != nil {
			return fmt.Errorf("failed to record saved image: %w", err)
		}
		return nil
	})
}

const getSaveQuery = `
	SELECT filename, source, filter, hash, width, height, created_at
	FROM saved_images
	WHERE filename = ?
`

// GetSave retrieves a single save record by filename.
func (r *SQLiteSavedImageRepository) GetSave(ctx context.Context, filename string) (*domain.SavedImage, error) {
	if filename == "" {
		return nil, fmt.Errorf("filename cannot be empty")
	}

	var row savedImageRow
	err := r.db.QueryRowContext(ctx, getSaveQuery, filename).Scan(
		&row.Filename,
		&row.Source,
		&row.Filter,
		&row.Hash,
		&row.Width,
		&row.Height,
		&row.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("saved image not found: %s", filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get saved image: %w", err)
	}

	return row.toDomain(), nil
}

const listSavesQuery = `
	SELECT filename, source, filter, hash, width, height, created_at
	FROM saved_images
	ORDER BY created_at DESC
	LIMIT ? OFFSET ?
`

// ListSaves returns save records ordered newest first.
func (r *SQLiteSavedImageRepository) ListSaves(ctx context.Context, limit int, offset int) ([]*domain.SavedImage, error) {
	rows, err := r.db.QueryContext(ctx, listSavesQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved images: %w", err)
	}
	defer rows.Close()

	var saves []*domain.SavedImage
	for rows.Next() {
		var row savedImageRow
		err := rows.Scan(
			&row.Filename,
			&row.Source,
			&row.Filter,
			&row.Hash,
			&row.Width,
			&row.Height,
			&row.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan saved image: %w", err)
		}
		saves = append(saves, row.toDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate saved images: %w", err)
	}

	return saves, nil
}

// savedImageRow is a private struct used to scan database rows.
type savedImageRow struct {
	Filename  string
	Source    sql.NullString
	Filter    sql.NullString
	Hash      string
	Width     int
	Height    int
	CreatedAt time.Time
}

func (sr *savedImageRow) toDomain() *domain.SavedImage {
	return &domain.SavedImage{
		Filename:  sr.Filename,
		Source:    sr.Source.String,
		Filter:    sr.Filter.String,
		Hash:      sr.Hash,
		Width:     sr.Width,
		Height:    sr.Height,
		CreatedAt: sr.CreatedAt,
	}
}
