package app

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
)

const (
	metaKeyPrefix = "meta:"
	genresKey     = "genres"
)

// Metadata returns stored metadata for path, nil when there is none.
// Lookups go through the meta cache.
func (l *Library) Metadata(path string) *domain.FileMetadata {
	if v, ok := l.cache.GetMeta(metaKeyPrefix + path); ok {
		m := v.(domain.FileMetadata)
		return &m
	}
	if l.db == nil {
		return nil
	}
	m, err := l.db.GetMetadata(path)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		l.fault("metadata", "get", err)
		return nil
	}
	l.cache.SetMeta(metaKeyPrefix+path, *m)
	return m
}

func (l *Library) SaveMetadata(m domain.FileMetadata) bool {
	if l.db == nil || m.Path == "" {
		return false
	}
	if err := l.db.SetMetadata(m); err != nil {
		l.fault("metadata", "set", err)
		return false
	}
	l.cache.InvalidateMeta(metaKeyPrefix + m.Path)
	l.cache.InvalidateMeta(genresKey)
	return true
}

func (l *Library) DeleteMetadata(path string) bool {
	if l.db == nil {
		return false
	}
	if err := l.db.DeleteMetadata(path); err != nil {
		l.fault("metadata", "delete", err)
		return false
	}
	l.cache.InvalidateMeta(metaKeyPrefix + path)
	l.cache.InvalidateMeta(genresKey)
	return true
}

// ProbeMetadata reads local metadata for path and stores it. Fields
// already stored, such as manual edits, are kept.
func (l *Library) ProbeMetadata(ctx context.Context, path string) *domain.FileMetadata {
	if l.probe == nil {
		return nil
	}
	found, err := l.probe.Probe(ctx, path)
	if err != nil {
		l.log.Debug("probe found nothing", "path", path, "error", err)
		return nil
	}

	m := found
	if existing := l.Metadata(path); existing != nil {
		m = *existing
		m.Merge(found)
	}
	if !l.SaveMetadata(m) {
		return &m
	}
	if stored := l.Metadata(path); stored != nil {
		return stored
	}
	return &m
}

func (l *Library) SearchMetadata(query string, limit int) []domain.FileMetadata {
	return l.metaList("search", func() ([]domain.FileMetadata, error) {
		return l.db.SearchMetadata(query, limit)
	})
}

func (l *Library) MetadataByGenre(genre string, limit int) []domain.FileMetadata {
	return l.metaList("by genre", func() ([]domain.FileMetadata, error) {
		return l.db.MetadataByGenre(genre, limit)
	})
}

func (l *Library) MetadataByYear(year, limit int) []domain.FileMetadata {
	return l.metaList("by year", func() ([]domain.FileMetadata, error) {
		return l.db.MetadataByYear(year, limit)
	})
}

func (l *Library) metaList(op string, fn func() ([]domain.FileMetadata, error)) []domain.FileMetadata {
	if l.db == nil {
		return []domain.FileMetadata{}
	}
	out, err := fn()
	if err != nil {
		l.fault("metadata", op, err)
		return []domain.FileMetadata{}
	}
	if out == nil {
		out = []domain.FileMetadata{}
	}
	return out
}

// Genres is cached until metadata changes or the entry expires.
func (l *Library) Genres() []string {
	if v, ok := l.cache.GetMeta(genresKey); ok {
		return append([]string(nil), v.([]string)...)
	}
	if l.db == nil {
		return []string{}
	}
	genres, err := l.db.Genres()
	if err != nil {
		l.fault("metadata", "genres", err)
		return []string{}
	}
	if genres == nil {
		genres = []string{}
	}
	l.cache.SetMeta(genresKey, append([]string(nil), genres...))
	return genres
}

type Suggestion struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Suggest fuzzy-matches query against stored titles, closest first.
func (l *Library) Suggest(query string, limit int) []Suggestion {
	query = strings.TrimSpace(query)
	if query == "" || l.db == nil {
		return []Suggestion{}
	}
	if limit <= 0 {
		limit = constants.DefaultMetadataLimit
	}

	titles, err := l.db.MetadataTitles()
	if err != nil {
		l.fault("metadata", "titles", err)
		return []Suggestion{}
	}
	targets := make([]string, 0, len(titles))
	for t := range titles {
		targets = append(targets, t)
	}

	matches := fuzzy.RankFindFold(query, targets)
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Target < matches[j].Target
	})

	out := make([]Suggestion, 0, min(limit, len(matches)))
	for _, m := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, Suggestion{Title: m.Target, Path: titles[m.Target]})
	}
	return out
}
