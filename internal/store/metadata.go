package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
)

// Unknown values are stored as NULL and read back as zero values.
const metadataColumns = `file_path,
	COALESCE(title, '') AS title,
	COALESCE(year, 0) AS year,
	COALESCE(genre, '') AS genre,
	COALESCE(rating, 0) AS rating,
	COALESCE(plot, '') AS plot,
	COALESCE(poster_path, '') AS poster_path,
	COALESCE(duration, 0) AS duration,
	COALESCE(resolution, '') AS resolution,
	COALESCE(codec, '') AS codec,
	COALESCE(metadata_source, 'manual') AS metadata_source,
	last_updated`

// SetMetadata inserts or replaces the metadata row for m.Path.
func (db *DB) SetMetadata(m domain.FileMetadata) error {
	m.Normalize()
	m.LastUpdated = domain.FromUnix(db.stamp())

	db.mu.Lock()
	defer db.mu.Unlock()

	_, err := db.NamedExec(`
		INSERT INTO file_metadata (file_path, title, year, genre, rating, plot, poster_path,
			duration, resolution, codec, metadata_source, last_updated)
		VALUES (:file_path, NULLIF(:title, ''), NULLIF(:year, 0), NULLIF(:genre, ''), NULLIF(:rating, 0),
			NULLIF(:plot, ''), NULLIF(:poster_path, ''), NULLIF(:duration, 0), NULLIF(:resolution, ''),
			NULLIF(:codec, ''), :metadata_source, :last_updated)
		ON CONFLICT(file_path) DO UPDATE SET
			title = excluded.title,
			year = excluded.year,
			genre = excluded.genre,
			rating = excluded.rating,
			plot = excluded.plot,
			poster_path = excluded.poster_path,
			duration = excluded.duration,
			resolution = excluded.resolution,
			codec = excluded.codec,
			metadata_source = excluded.metadata_source,
			last_updated = excluded.last_updated
	`, m)
	if err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}

func (db *DB) GetMetadata(path string) (*domain.FileMetadata, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var m domain.FileMetadata
	err := db.Get(&m, "SELECT "+metadataColumns+" FROM file_metadata WHERE file_path = ?", path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get metadata: %w", err)
	}
	return &m, nil
}

func (db *DB) DeleteMetadata(path string) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, err := db.Exec("DELETE FROM file_metadata WHERE file_path = ?", path); err != nil {
		return fmt.Errorf("delete metadata: %w", err)
	}
	return nil
}

func (db *DB) selectMetadata(query string, args ...interface{}) ([]domain.FileMetadata, error) {
	var out []domain.FileMetadata
	if err := db.Select(&out, "SELECT "+metadataColumns+" FROM file_metadata "+query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// SearchMetadata matches query as a substring of title, genre or plot.
func (db *DB) SearchMetadata(query string, limit int) ([]domain.FileMetadata, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	term := "%" + query + "%"
	out, err := db.selectMetadata("WHERE title LIKE ? OR genre LIKE ? OR plot LIKE ? ORDER BY title LIMIT ?",
		term, term, term, limitOr(limit, constants.DefaultMetadataLimit))
	if err != nil {
		return nil, fmt.Errorf("search metadata: %w", err)
	}
	return out, nil
}

func (db *DB) MetadataByGenre(genre string, limit int) ([]domain.FileMetadata, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out, err := db.selectMetadata("WHERE genre LIKE ? ORDER BY rating DESC, title LIMIT ?",
		"%"+genre+"%", limitOr(limit, constants.DefaultMetadataLimit))
	if err != nil {
		return nil, fmt.Errorf("metadata by genre: %w", err)
	}
	return out, nil
}

func (db *DB) MetadataByYear(year, limit int) ([]domain.FileMetadata, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out, err := db.selectMetadata("WHERE year = ? ORDER BY rating DESC, title LIMIT ?",
		year, limitOr(limit, constants.DefaultMetadataLimit))
	if err != nil {
		return nil, fmt.Errorf("metadata by year: %w", err)
	}
	return out, nil
}

// Genres lists distinct known genres in order.
func (db *DB) Genres() ([]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var genres []string
	if err := db.Select(&genres, "SELECT DISTINCT genre FROM file_metadata WHERE genre IS NOT NULL ORDER BY genre"); err != nil {
		return nil, fmt.Errorf("genres: %w", err)
	}
	return genres, nil
}

// MetadataTitles maps every known title to its file path.
func (db *DB) MetadataTitles() (map[string]string, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	type row struct {
		Path  string `db:"file_path"`
		Title string `db:"title"`
	}
	var rows []row
	if err := db.Select(&rows, "SELECT file_path, title FROM file_metadata WHERE title IS NOT NULL"); err != nil {
		return nil, fmt.Errorf("metadata titles: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Title] = r.Path
	}
	return out, nil
}
