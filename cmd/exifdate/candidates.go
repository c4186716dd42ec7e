package main

import (
	"time"
)

// SourceKind identifies where a candidate date came from.
type SourceKind int

const (
	SourceDateTimeOriginal SourceKind = iota
	SourceDateTime
	SourceDigitized
	SourceVideoCreation
	SourceFilename
	SourceFileCreation
	SourceFileModification
	SourceManual
)

func (s SourceKind) String() string {
	switch s {
	case SourceDateTimeOriginal:
		return "EXIF DateTimeOriginal"
	case SourceDateTime:
		return "EXIF DateTime"
	case SourceDigitized:
		return "EXIF DateTimeDigitized"
	case SourceVideoCreation:
		return "Video Creation Date"
	case SourceFilename:
		return "Filename Date"
	case SourceFileCreation:
		return "File Creation Date"
	case SourceFileModification:
		return "File Modification Date"
	case SourceManual:
		return "Manual"
	default:
		return "Unknown"
	}
}

// reliable reports whether the source is derived from embedded metadata or
// the filename, as opposed to filesystem timestamps.
func (s SourceKind) reliable() bool {
	switch s {
	case SourceDateTimeOriginal, SourceDateTime, SourceDigitized, SourceVideoCreation, SourceFilename:
		return true
	}
	return false
}

// DateField is one of the tracked embedded-metadata date attributes.
type DateField int

const (
	FieldDateTimeOriginal DateField = iota
	FieldDateCreated
)

func (f DateField) String() string {
	switch f {
	case FieldDateTimeOriginal:
		return "DateTimeOriginal"
	case FieldDateCreated:
		return "DateCreated"
	default:
		return "Unknown"
	}
}

// DateCandidate pairs a timestamp with the source it was derived from.
type DateCandidate struct {
	When   time.Time
	Source SourceKind
}

const minPlausibleYear = 1990

// plausible rejects candidates before 1990 and candidates strictly in the
// future relative to the analysis time.
func plausible(t time.Time, now time.Time) bool {
	if t.Year() < minPlausibleYear {
		return false
	}
	return !t.After(now)
}

// buildCandidates assembles the candidate pool for a file in
// source-reliability order and applies the plausibility filter. The order
// decides ties later, so it must stay stable: embedded original, embedded
// generic date, digitized, video creation, filename, filesystem creation,
// filesystem modification.
func buildCandidates(mf *MediaFile, now time.Time) []DateCandidate {
	var pool []DateCandidate

	add := func(t *time.Time, src SourceKind) {
		if t == nil {
			return
		}
		if !plausible(*t, now) {
			return
		}
		pool = append(pool, DateCandidate{When: *t, Source: src})
	}

	add(mf.DateTimeOriginal, SourceDateTimeOriginal)
	add(mf.DateCreated, SourceDateTime)
	add(mf.DateTimeDigitized, SourceDigitized)
	add(mf.VideoCreation, SourceVideoCreation)
	add(mf.FilenameDate, SourceFilename)
	addNonZero(&pool, mf.CreationTime, SourceFileCreation, now)
	addNonZero(&pool, mf.ModTime, SourceFileModification, now)

	return pool
}

func addNonZero(pool *[]DateCandidate, t time.Time, src SourceKind, now time.Time) {
	if t.IsZero() || !plausible(t, now) {
		return
	}
	*pool = append(*pool, DateCandidate{When: t, Source: src})
}
