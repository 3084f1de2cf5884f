package domain

import (
	"strings"
)

// ResumePoint is the last saved playback position for a file, validated
// against the file's size and modification time before reuse.
type ResumePoint struct {
	Path        string    `json:"file_path" db:"file_path"`
	Position    int64     `json:"position_seconds" db:"position_seconds"`
	Size        int64     `json:"file_size" db:"file_size"`
	ModTime     float64   `json:"mtime" db:"mtime"`
	LastUpdated Timestamp `json:"last_updated" db:"last_updated"`
}

type Favorite struct {
	Path    string    `json:"file_path" db:"file_path"`
	Profile string    `json:"profile" db:"profile_name"`
	AddedAt Timestamp `json:"added_date" db:"added_date"`
}

// Bookmark is a directory-level favorite.
type Bookmark struct {
	Dir     string    `json:"dir_path" db:"dir_path"`
	Name    string    `json:"name" db:"name"`
	Profile string    `json:"profile" db:"profile_name"`
	AddedAt Timestamp `json:"added_date" db:"added_date"`
}

type Playlist struct {
	ID        int64     `json:"playlist_id" db:"playlist_id"`
	Name      string    `json:"name" db:"name"`
	Profile   string    `json:"profile" db:"profile_name"`
	Created   Timestamp `json:"created" db:"created"`
	ItemCount int       `json:"item_count" db:"item_count"`
}

type PlaylistItem struct {
	PlaylistID int64  `json:"playlist_id" db:"playlist_id"`
	Path       string `json:"file_path" db:"file_path"`
	Position   int    `json:"position" db:"position"`
}

type RecentFile struct {
	Path     string    `json:"file_path" db:"file_path"`
	Profile  string    `json:"profile" db:"profile_name"`
	PlayedAt Timestamp `json:"played_date" db:"played_date"`
}

// WatchEntry is one row of the append-only watch history.
type WatchEntry struct {
	ID        int64     `json:"id" db:"id"`
	Path      string    `json:"file_path" db:"file_path"`
	WatchedAt Timestamp `json:"watched_date" db:"watched_date"`
	Duration  int64     `json:"duration_watched" db:"duration_watched"`
	Profile   string    `json:"profile" db:"profile_name"`
}

// StatDay aggregates views for one local calendar day and profile.
type StatDay struct {
	Date         string `json:"stat_date" db:"stat_date"`
	Profile      string `json:"profile" db:"profile_name"`
	FilesWatched int    `json:"files_watched" db:"files_watched"`
	TotalMinutes int    `json:"total_minutes" db:"total_minutes"`
}

type StatsSummary struct {
	TotalFiles   int     `json:"total_files" db:"total_files"`
	TotalMinutes int     `json:"total_minutes" db:"total_minutes"`
	TotalHours   float64 `json:"total_hours" db:"-"`
}

type MostWatched struct {
	Path       string `json:"file_path" db:"file_path"`
	WatchCount int    `json:"watch_count" db:"watch_count"`
	TotalTime  int64  `json:"total_time" db:"total_time"`
}

// FileMetadata is optional local enrichment for a media file. Zero values
// mean "unknown".
type FileMetadata struct {
	Path        string    `json:"file_path" db:"file_path"`
	Title       string    `json:"title,omitempty" db:"title"`
	Year        int       `json:"year,omitempty" db:"year"`
	Genre       string    `json:"genre,omitempty" db:"genre"`
	Rating      float64   `json:"rating,omitempty" db:"rating"`
	Plot        string    `json:"plot,omitempty" db:"plot"`
	PosterPath  string    `json:"poster_path,omitempty" db:"poster_path"`
	Duration    int       `json:"duration,omitempty" db:"duration"`
	Resolution  string    `json:"resolution,omitempty" db:"resolution"`
	Codec       string    `json:"codec,omitempty" db:"codec"`
	Source      string    `json:"source,omitempty" db:"metadata_source"`
	LastUpdated Timestamp `json:"last_updated" db:"last_updated"`
}

const (
	MetadataSourceManual = "manual"
	MetadataSourceProbe  = "probe"
)

// Normalize trims free-text fields and fills in the default source.
func (m *FileMetadata) Normalize() {
	m.Title = strings.TrimSpace(m.Title)
	m.Genre = strings.TrimSpace(m.Genre)
	m.Plot = strings.TrimSpace(m.Plot)
	if m.Source == "" {
		m.Source = MetadataSourceManual
	}
}

// Merge fills zero fields of m from other. Fields already set on m win.
func (m *FileMetadata) Merge(other FileMetadata) {
	if m.Title == "" {
		m.Title = other.Title
	}
	if m.Year == 0 {
		m.Year = other.Year
	}
	if m.Genre == "" {
		m.Genre = other.Genre
	}
	if m.Rating == 0 {
		m.Rating = other.Rating
	}
	if m.Plot == "" {
		m.Plot = other.Plot
	}
	if m.PosterPath == "" {
		m.PosterPath = other.PosterPath
	}
	if m.Duration == 0 {
		m.Duration = other.Duration
	}
	if m.Resolution == "" {
		m.Resolution = other.Resolution
	}
	if m.Codec == "" {
		m.Codec = other.Codec
	}
}

type Profile struct {
	Name        string    `json:"profile_name" db:"profile_name"`
	DisplayName string    `json:"display_name" db:"display_name"`
	Pin         string    `json:"-" db:"pin"`
	Created     Timestamp `json:"created" db:"created"`
	LastActive  Timestamp `json:"last_active" db:"last_active"`
}

// HasPin reports whether the profile is PIN protected.
func (p Profile) HasPin() bool {
	return p.Pin != ""
}
