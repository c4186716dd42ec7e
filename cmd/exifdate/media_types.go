package main

import (
	"path/filepath"
	"strings"
)

// MediaCategory is the container class of a media file, derived from its
// extension.
type MediaCategory string

const (
	CategoryImage MediaCategory = "image"
	CategoryVideo MediaCategory = "video"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".tiff": true, ".tif": true,
	".png": true, ".bmp": true, ".gif": true, ".webp": true,
	".heic": true, ".heif": true,
}

var videoExtensions = map[string]bool{
	".mp4": true, ".mov": true, ".avi": true, ".mkv": true,
	".wmv": true, ".flv": true, ".webm": true, ".m4v": true,
	".3gp": true, ".mts": true, ".m2ts": true,
}

// writableExtensions is the subset of image formats the updater can write
// metadata into. Only the generic raster-with-EXIF containers are covered.
var writableExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".tiff": true, ".tif": true,
}

// mediaCategory classifies a path by extension. The second return is false
// for non-media files.
func mediaCategory(path string) (MediaCategory, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	if imageExtensions[ext] {
		return CategoryImage, true
	}
	if videoExtensions[ext] {
		return CategoryVideo, true
	}
	return "", false
}

// isWritable reports whether metadata writes are supported for the
// extension (lower-cased, with leading dot).
func isWritable(ext string) bool {
	return writableExtensions[ext]
}
