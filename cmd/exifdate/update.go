package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/barasher/go-exiftool"
	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog/log"
)

const backupSuffix = ".backup"

// Updater applies suggested dates to files' writable metadata fields,
// honoring dry-run mode and the backup policy. The tag writer is a function
// value so tests never shell out to exiftool.
type Updater struct {
	CreateBackup   bool
	UpdateOriginal bool
	UpdateCreated  bool
	DryRun         bool

	writeTags func(path string, tags map[string]string) error

	Updated []string
	Failed  []string
}

func newUpdater(createBackup, updateOriginal, updateCreated, dryRun bool) *Updater {
	return &Updater{
		CreateBackup:   createBackup,
		UpdateOriginal: updateOriginal,
		UpdateCreated:  updateCreated,
		DryRun:         dryRun,
		writeTags:      writeTagsExiftool,
	}
}

// UpdateFile writes the record's suggestion into its missing tracked
// fields. Precondition misses (no suggestion, nothing to update) are plain
// negative results with no side effects, not errors.
func (u *Updater) UpdateFile(mf *MediaFile) bool {
	if mf.Suggestion == nil {
		log.Debug().Str("file", mf.Name).Msg("no suggested date")
		return false
	}

	tags := u.targetTags(mf)
	if len(tags) == 0 {
		log.Debug().Str("file", mf.Name).Msg("no missing dates to update")
		return false
	}

	if u.DryRun {
		log.Info().Str("file", mf.Name).Time("date", mf.Suggestion.When).Msg("dry run, would update")
		return true
	}

	// Unsupported formats fail before a backup name is consumed.
	if !isWritable(mf.Ext) {
		log.Warn().Str("file", mf.Name).Str("ext", mf.Ext).Msg("metadata update not supported for format")
		u.Failed = append(u.Failed, mf.Path)
		return false
	}

	if u.CreateBackup {
		backupPath, err := createBackup(mf.Path)
		if err != nil {
			log.Error().Err(err).Str("file", mf.Name).Msg("backup failed")
			u.Failed = append(u.Failed, mf.Path)
			return false
		}
		log.Info().Str("backup", filepath.Base(backupPath)).Msg("created backup")
	}

	if err := u.writeTags(mf.Path, tags); err != nil {
		log.Error().Err(err).Str("file", mf.Name).Msg("metadata write failed")
		u.Failed = append(u.Failed, mf.Path)
		return false
	}

	u.Updated = append(u.Updated, mf.Path)
	log.Info().Str("file", mf.Name).Time("date", mf.Suggestion.When).Msg("updated")
	return true
}

// targetTags maps the record's missing fields, filtered by the enabled
// field flags, to the exiftool tag names to set. A generic-date write pairs
// the digitized tag with it.
func (u *Updater) targetTags(mf *MediaFile) map[string]string {
	value := mf.Suggestion.When.Format(exifDateLayout)
	tags := make(map[string]string)
	for _, field := range mf.MissingFields {
		switch field {
		case FieldDateTimeOriginal:
			if u.UpdateOriginal {
				tags["DateTimeOriginal"] = value
			}
		case FieldDateCreated:
			if u.UpdateCreated {
				tags["ModifyDate"] = value
				tags["CreateDate"] = value
			}
		}
	}
	return tags
}

// UpdateBatch processes records independently; one failure never aborts the
// batch. Returns the success and failure counts.
func (u *Updater) UpdateBatch(files []*MediaFile) (succeeded, failed int) {
	for _, mf := range files {
		if u.UpdateFile(mf) {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

// writeTagsExiftool persists tag values through exiftool, which rewrites
// only the given tags and preserves the rest of the metadata block. Files
// with no existing block start from an empty structure.
func writeTagsExiftool(path string, tags map[string]string) error {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return fmt.Errorf("starting exiftool: %w", err)
	}
	defer et.Close()

	meta := exiftool.FileMetadata{File: path, Fields: map[string]interface{}{}}
	for k, v := range tags {
		meta.SetString(k, v)
	}

	metas := []exiftool.FileMetadata{meta}
	et.WriteMetadata(metas)
	if metas[0].Err != nil {
		return fmt.Errorf("writing metadata to %s: %w", path, metas[0].Err)
	}
	return nil
}

// createBackup copies the file to a sibling .backup path, probing
// .backup.1, .backup.2, ... until a free name is found. Existing backups
// are never overwritten. The copy is verified by checksum.
func createBackup(path string) (string, error) {
	backupPath := path + backupSuffix
	for counter := 1; exists(backupPath); counter++ {
		backupPath = fmt.Sprintf("%s%s.%d", path, backupSuffix, counter)
	}

	if err := copyFile(path, backupPath); err != nil {
		return "", fmt.Errorf("copying to %s: %w", backupPath, err)
	}

	srcSum, err := fileChecksum(path)
	if err != nil {
		return "", err
	}
	dstSum, err := fileChecksum(backupPath)
	if err != nil {
		return "", err
	}
	if srcSum != dstSum {
		return "", fmt.Errorf("backup %s does not match original", backupPath)
	}

	return backupPath, nil
}

// RestoreBackup copies a file's .backup sibling over the original,
// verbatim.
func RestoreBackup(path string) error {
	backupPath := path + backupSuffix
	if !exists(backupPath) {
		return fmt.Errorf("no backup found for %s", filepath.Base(path))
	}
	if err := copyFile(backupPath, path); err != nil {
		return fmt.Errorf("restoring %s: %w", filepath.Base(path), err)
	}
	return nil
}

// RestoreAllBackups restores every file in a folder that has a .backup
// sibling. Returns the number restored.
func RestoreAllBackups(folder string) int {
	backups, err := filepath.Glob(filepath.Join(folder, "*"+backupSuffix))
	if err != nil {
		return 0
	}

	restored := 0
	for _, backupPath := range backups {
		original := backupPath[:len(backupPath)-len(backupSuffix)]
		if err := RestoreBackup(original); err != nil {
			log.Warn().Err(err).Str("file", filepath.Base(original)).Msg("restore failed")
			continue
		}
		log.Info().Str("file", filepath.Base(original)).Msg("restored from backup")
		restored++
	}
	return restored
}

// CleanupBackups deletes every file in a folder matching the backup naming
// convention. Returns the number removed.
func CleanupBackups(folder string) int {
	backups, err := filepath.Glob(filepath.Join(folder, "*"+backupSuffix+"*"))
	if err != nil {
		return 0
	}

	removed := 0
	for _, backupPath := range backups {
		if err := os.Remove(backupPath); err != nil {
			log.Warn().Err(err).Str("file", filepath.Base(backupPath)).Msg("cannot remove backup")
			continue
		}
		removed++
	}
	return removed
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}

func fileChecksum(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}
