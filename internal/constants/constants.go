// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	AppName             = "reelbox"
	Version             = "5.2.0"
	DefaultPort         = "8765"
	DefaultProfile      = "default"
	DefaultProfileName  = "Default User"
	DefaultStartDir     = "/media/"
	DefaultDBFallback   = "/tmp/reelbox.db"
	DefaultLogFile      = "/tmp/reelbox/reelbox.log"
	DefaultThumbDir     = "/hdd/.reelbox_thumbs"
	FallbackThumbDir    = "/tmp/.reelbox_thumbs"
	DefaultFFmpegPath   = "ffmpeg"
	DefaultFFprobePath  = "ffprobe"
	DefaultCacheTTL     = 3600 * time.Second
	DefaultCacheSweep   = 10 * time.Minute
	DefaultResumeAction = ResumeActionAsk
	DefaultSortKey      = SortNameAsc
)

// DefaultDBPaths lists candidate store locations in priority order.
var DefaultDBPaths = []string{
	"/hdd/reelbox.db",
	"/media/hdd/reelbox.db",
	"/media/usb/reelbox.db",
}

// Playback
const (
	MinResumeTime      = 10 * time.Second
	EndThreshold       = 30 * time.Second
	ResumeSaveInterval = 30 * time.Second
	ThumbTimestamp     = 60 * time.Second
	ThumbTimeout       = 30 * time.Second
)

// Store limits
const (
	MaxRecentFiles        = 50
	DefaultRecentLimit    = 20
	DefaultHistoryLimit   = 50
	DefaultFavoritesLimit = 50
	DefaultMetadataLimit  = 50
	DefaultMostWatched    = 10
	DefaultStatsDays      = 30
	AutoCleanupDays       = 30
	MtimeTolerance        = 2.0 // seconds
	BusyTimeoutMillis     = 30000
)

// Thumbnail geometry
const (
	ThumbWidth  = 320
	ThumbHeight = 180
	ThumbExt    = ".jpg"
)

// Resume actions
const (
	ResumeActionAsk    = "ask"
	ResumeActionStart  = "start"
	ResumeActionResume = "resume"
)

// Sort keys
const (
	SortNameAsc  = "name_asc"
	SortNameDesc = "name_desc"
	SortDateAsc  = "date_asc"
	SortDateDesc = "date_desc"
	SortSizeAsc  = "size_asc"
	SortSizeDesc = "size_desc"
)

// MediaExtensions are the recognized video container extensions.
var MediaExtensions = []string{
	".mkv", ".avi", ".mp4", ".ts", ".mov", ".m4v", ".flv", ".mpg", ".mpeg",
	".vob", ".divx", ".xvid", ".wmv", ".iso", ".dat", ".mk3d", ".m2ts",
	".mts", ".trp", ".tp", ".webm", ".ogv", ".3gp", ".f4v", ".asf",
}

// SubtitleExtensions are probed next to a video, in order.
var SubtitleExtensions = []string{
	".srt", ".sub", ".ass", ".ssa", ".vtt", ".idx", ".sup", ".txt",
}

// Display
const (
	FavoriteMarker = "★ "
	ParentLabel    = ".."
)

// File Permissions
const (
	DirPermissions  = 0755
	FilePermissions = 0644
)
