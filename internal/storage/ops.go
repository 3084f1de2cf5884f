// Package storage holds small filesystem helpers shared by the thumbnail
// cache and the store.
package storage

import (
	"crypto/md5"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cesargomez89/reelbox/internal/constants"
)

func EnsureDir(path string) error {
	return os.MkdirAll(path, constants.DirPermissions)
}

// RemoveFile removes path; a missing file is not an error.
func RemoveFile(path string) error {
	err := os.Remove(path)
	if err != nil && !IsNotExist(err) {
		return err
	}
	return nil
}

func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Exists reports whether path names an existing non-directory.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func IsHiddenFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// PathHash is the hex md5 of the absolute form of path. It identifies a
// file by location only, never by content.
func PathHash(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	sum := md5.Sum([]byte(path))
	return hex.EncodeToString(sum[:])
}

// DirUsage sums size and count of the regular files in dir (not recursive)
// whose extension is ext. An empty ext matches every file.
func DirUsage(dir, ext string) (size int64, count int, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if IsNotExist(err) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if ext != "" && !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		size += info.Size()
		count++
	}
	return size, count, nil
}

// RemoveMatching deletes the regular files in dir with extension ext and
// returns how many were removed.
func RemoveMatching(dir, ext string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	removed := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		if err := RemoveFile(filepath.Join(dir, e.Name())); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
