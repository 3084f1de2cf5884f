package dto

import (
	"github.com/cesargomez89/reelbox/internal/domain"
)

// MetadataUpdateRequest edits one file's metadata. Nil fields keep what
// is stored.
type MetadataUpdateRequest struct {
	Path       string   `json:"file_path"`
	Title      *string  `json:"title"`
	Year       *int     `json:"year"`
	Genre      *string  `json:"genre"`
	Rating     *float64 `json:"rating"`
	Plot       *string  `json:"plot"`
	PosterPath *string  `json:"poster_path"`
	Duration   *int     `json:"duration"`
	Resolution *string  `json:"resolution"`
	Codec      *string  `json:"codec"`
}

func (r *MetadataUpdateRequest) Validate() []ValidationError {
	var errs []ValidationError

	errs = append(errs, validatePath("file_path", r.Path)...)
	errs = append(errs, validateYear(r.Year)...)
	errs = append(errs, validateRating(r.Rating)...)
	errs = append(errs, validateDuration(r.Duration)...)

	return errs
}

// ApplyTo copies the set fields onto m. Edits through the bridge count as
// manual metadata.
func (r *MetadataUpdateRequest) ApplyTo(m *domain.FileMetadata) {
	m.Path = r.Path
	if r.Title != nil {
		m.Title = *r.Title
	}
	if r.Year != nil {
		m.Year = *r.Year
	}
	if r.Genre != nil {
		m.Genre = *r.Genre
	}
	if r.Rating != nil {
		m.Rating = *r.Rating
	}
	if r.Plot != nil {
		m.Plot = *r.Plot
	}
	if r.PosterPath != nil {
		m.PosterPath = *r.PosterPath
	}
	if r.Duration != nil {
		m.Duration = *r.Duration
	}
	if r.Resolution != nil {
		m.Resolution = *r.Resolution
	}
	if r.Codec != nil {
		m.Codec = *r.Codec
	}
	m.Source = domain.MetadataSourceManual
}
