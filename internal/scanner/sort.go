package scanner

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/cesargomez89/reelbox/internal/constants"
	"github.com/cesargomez89/reelbox/internal/domain"
)

// Sort orders rows in place: directories first by name, then files by key.
// Unknown keys sort files by name ascending. A parent row stays on top.
func Sort(rows []domain.Row, key string) {
	less := fileOrder(key)
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra < rb
		}
		if a.Kind != domain.KindFile {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
		return less(a, b)
	})
}

func rank(r domain.Row) int {
	switch r.Kind {
	case domain.KindParent:
		return 0
	case domain.KindDir:
		return 1
	default:
		return 2
	}
}

func fileOrder(key string) func(a, b domain.Row) bool {
	byName := func(a, b domain.Row) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
	switch key {
	case constants.SortNameDesc:
		return func(a, b domain.Row) bool { return byName(b, a) }
	case constants.SortDateAsc:
		return func(a, b domain.Row) bool { return a.ModTime.Before(b.ModTime) }
	case constants.SortDateDesc:
		return func(a, b domain.Row) bool { return b.ModTime.Before(a.ModTime) }
	case constants.SortSizeAsc:
		return func(a, b domain.Row) bool { return a.Size < b.Size }
	case constants.SortSizeDesc:
		return func(a, b domain.Row) bool { return a.Size > b.Size }
	default:
		return byName
	}
}

// WithParent returns rows with a ".." entry pointing at dir's parent
// prepended, unless dir is the filesystem root.
func WithParent(rows []domain.Row, dir string) []domain.Row {
	clean := filepath.Clean(dir)
	if clean == "/" || clean == "." {
		return rows
	}
	parent := domain.Row{
		Label: constants.ParentLabel,
		Name:  constants.ParentLabel,
		Path:  filepath.Dir(clean),
		Kind:  domain.KindParent,
	}
	return append([]domain.Row{parent}, rows...)
}
