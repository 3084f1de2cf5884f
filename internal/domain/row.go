package domain

import "time"

// Kind classifies a browser row.
type Kind string

const (
	KindParent Kind = "parent"
	KindDir    Kind = "dir"
	KindFile   Kind = "file"
)

// Row is one entry of a directory listing as shown by the host UI.
type Row struct {
	Label         string    `json:"label"`
	Name          string    `json:"name"`
	Path          string    `json:"path"`
	Kind          Kind      `json:"kind"`
	Size          int64     `json:"size"`
	ModTime       time.Time `json:"mtime"`
	ResumeSeconds int64     `json:"resume_seconds,omitempty"`
	Favorite      bool      `json:"favorite,omitempty"`
}

func (r Row) IsDir() bool {
	return r.Kind == KindDir || r.Kind == KindParent
}

// CloneRows returns a copy of rows so callers cannot alias cached slices.
func CloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	out := make([]Row, len(rows))
	copy(out, rows)
	return out
}
