package store

// Schema is idempotent and applied on every open. Timestamps are REAL unix
// seconds; stat_date is a local YYYY-MM-DD string.
const Schema = `
CREATE TABLE IF NOT EXISTS resume_points (
	file_path TEXT PRIMARY KEY,
	position_seconds INTEGER NOT NULL,
	file_size INTEGER NOT NULL,
	mtime REAL NOT NULL,
	last_updated REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS favorites (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_path TEXT NOT NULL,
	profile_name TEXT NOT NULL DEFAULT 'default',
	added_date REAL NOT NULL,
	UNIQUE(file_path, profile_name)
);

CREATE TABLE IF NOT EXISTS bookmarks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	dir_path TEXT NOT NULL,
	name TEXT NOT NULL,
	profile_name TEXT NOT NULL DEFAULT 'default',
	added_date REAL NOT NULL,
	UNIQUE(dir_path, profile_name)
);

CREATE TABLE IF NOT EXISTS playlists (
	playlist_id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	profile_name TEXT NOT NULL DEFAULT 'default',
	created REAL NOT NULL
);

-- position is dense and 0-based per playlist; not UNIQUE so that
-- re-densifying updates never collide mid-statement.
CREATE TABLE IF NOT EXISTS playlist_items (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	playlist_id INTEGER NOT NULL,
	file_path TEXT NOT NULL,
	position INTEGER NOT NULL,
	FOREIGN KEY (playlist_id) REFERENCES playlists(playlist_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS recent_files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_path TEXT NOT NULL,
	profile_name TEXT NOT NULL DEFAULT 'default',
	played_date REAL NOT NULL,
	UNIQUE(file_path, profile_name)
);

CREATE TABLE IF NOT EXISTS watch_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	file_path TEXT NOT NULL,
	watched_date REAL NOT NULL,
	duration_watched INTEGER NOT NULL DEFAULT 0,
	profile_name TEXT NOT NULL DEFAULT 'default'
);

CREATE TABLE IF NOT EXISTS statistics (
	stat_date TEXT NOT NULL,
	profile_name TEXT NOT NULL DEFAULT 'default',
	files_watched INTEGER NOT NULL DEFAULT 0,
	total_minutes INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (stat_date, profile_name)
);

CREATE TABLE IF NOT EXISTS file_metadata (
	file_path TEXT PRIMARY KEY,
	title TEXT,
	year INTEGER,
	genre TEXT,
	rating REAL,
	plot TEXT,
	poster_path TEXT,
	duration INTEGER,
	resolution TEXT,
	codec TEXT,
	metadata_source TEXT DEFAULT 'manual',
	last_updated REAL
);

CREATE TABLE IF NOT EXISTS profiles (
	profile_name TEXT PRIMARY KEY,
	display_name TEXT NOT NULL,
	pin TEXT,
	created REAL NOT NULL,
	last_active REAL
);

CREATE TABLE IF NOT EXISTS settings (
	key TEXT NOT NULL,
	profile_name TEXT NOT NULL DEFAULT 'default',
	value TEXT NOT NULL,
	updated_at REAL NOT NULL,
	PRIMARY KEY (key, profile_name)
);

CREATE INDEX IF NOT EXISTS idx_resume_updated ON resume_points(last_updated);
CREATE INDEX IF NOT EXISTS idx_favorites_profile ON favorites(profile_name, added_date);
CREATE INDEX IF NOT EXISTS idx_playlist_items_playlist ON playlist_items(playlist_id, position);
CREATE INDEX IF NOT EXISTS idx_recent_profile ON recent_files(profile_name, played_date);
CREATE INDEX IF NOT EXISTS idx_history_profile ON watch_history(profile_name, watched_date);
CREATE INDEX IF NOT EXISTS idx_history_file ON watch_history(file_path);
CREATE INDEX IF NOT EXISTS idx_metadata_genre ON file_metadata(genre);
CREATE INDEX IF NOT EXISTS idx_metadata_year ON file_metadata(year);
`
