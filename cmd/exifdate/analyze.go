package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// MediaFile represents a discovered media file with its date signals and
// analysis results. Everything except Suggestion is immutable after the
// analysis pass.
type MediaFile struct {
	Path string
	Name string
	Ext  string
	Size int64

	CreationTime time.Time
	ModTime      time.Time

	DateTimeOriginal  *time.Time
	DateCreated       *time.Time
	DateTimeDigitized *time.Time
	FilenameDate      *time.Time
	VideoCreation     *time.Time

	Category      MediaCategory
	MissingFields []DateField
	Candidates    []DateCandidate
	Suggestion    *DateCandidate
}

// Stats tallies one analysis pass.
type Stats struct {
	TotalFiles           int
	ImageFiles           int
	VideoFiles           int
	MissingOriginal      int
	MissingCreated       int
	FilesWithSuggestions int
}

// Analyzer walks a folder and produces analyzed MediaFile records. The
// metadata reader and video prober are injectable so tests run without
// external tooling.
type Analyzer struct {
	Recursive    bool
	IgnoreVideos bool

	readImage func(path string) exifDates
	prober    videoProber
	clock     func() time.Time

	reader *exifReader

	Files []*MediaFile
	Stats Stats
}

func newAnalyzer(recursive, ignoreVideos, probeVideo bool) *Analyzer {
	reader := newExifReader()
	a := &Analyzer{
		Recursive:    recursive,
		IgnoreVideos: ignoreVideos,
		readImage:    reader.readDates,
		prober:       noopProber{},
		clock:        time.Now,
		reader:       reader,
	}
	if probeVideo {
		a.prober = mp4Prober{}
	}
	return a
}

func (a *Analyzer) close() {
	if a.reader != nil {
		a.reader.close()
	}
}

// AnalyzeFolder enumerates media files under folder and runs the analysis
// pass on each. A missing or non-directory path is fatal; per-file read
// failures are logged and analysis continues.
func (a *Analyzer) AnalyzeFolder(folder string) ([]*MediaFile, error) {
	info, err := os.Stat(folder)
	if err != nil {
		return nil, fmt.Errorf("invalid folder path %s: %w", folder, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", folder)
	}

	a.Files = nil
	a.Stats = Stats{}
	now := a.clock()

	walk := func(path string, info os.FileInfo) {
		mf, err := a.analyzeFile(path, info, now)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("skipping file")
			return
		}
		if mf == nil {
			return
		}
		a.Files = append(a.Files, mf)
		a.tally(mf)
	}

	if a.Recursive {
		err = filepath.Walk(folder, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("cannot access path")
				return nil
			}
			if info.IsDir() {
				return nil
			}
			walk(path, info)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", folder, err)
		}
	} else {
		entries, err := os.ReadDir(folder)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", folder, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				log.Warn().Err(err).Str("file", entry.Name()).Msg("cannot stat file")
				continue
			}
			walk(filepath.Join(folder, entry.Name()), info)
		}
	}

	return a.Files, nil
}

// analyzeFile runs the single-pass enrichment: metadata extraction,
// filename extraction, missing-field computation, suggestion resolution.
// Non-media files return (nil, nil).
func (a *Analyzer) analyzeFile(path string, info os.FileInfo, now time.Time) (*MediaFile, error) {
	category, ok := mediaCategory(path)
	if !ok {
		return nil, nil
	}
	if category == CategoryVideo && a.IgnoreVideos {
		return nil, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	mf := &MediaFile{
		Path:         abs,
		Name:         info.Name(),
		Ext:          strings.ToLower(filepath.Ext(path)),
		Size:         info.Size(),
		CreationTime: fileCreationTime(info),
		ModTime:      info.ModTime(),
		Category:     category,
	}

	switch category {
	case CategoryImage:
		dates := a.readImage(path)
		mf.DateTimeOriginal = dates.Original
		mf.DateCreated = dates.Created
		mf.DateTimeDigitized = dates.Digitized
	case CategoryVideo:
		if t := a.prober.probeCreationTime(path); t != nil {
			mf.VideoCreation = t
			if mf.DateTimeOriginal == nil {
				mf.DateTimeOriginal = t
			}
		}
	}

	mf.FilenameDate = extractFilenameDate(mf.Name)
	mf.MissingFields = missingFields(mf)
	mf.Candidates = buildCandidates(mf, now)
	mf.Suggestion = resolveSuggestion(mf.MissingFields, mf.Candidates, mf.DateTimeOriginal, mf.DateCreated)

	return mf, nil
}

func (a *Analyzer) tally(mf *MediaFile) {
	a.Stats.TotalFiles++
	if mf.Category == CategoryImage {
		a.Stats.ImageFiles++
	} else {
		a.Stats.VideoFiles++
	}
	if mf.DateTimeOriginal == nil {
		a.Stats.MissingOriginal++
	}
	if mf.DateCreated == nil {
		a.Stats.MissingCreated++
	}
	if mf.Suggestion != nil {
		a.Stats.FilesWithSuggestions++
	}
}

// FilesWithMissingDates returns the records eligible for suggestion-seeking.
func (a *Analyzer) FilesWithMissingDates() []*MediaFile {
	var out []*MediaFile
	for _, mf := range a.Files {
		if len(mf.MissingFields) > 0 {
			out = append(out, mf)
		}
	}
	return out
}

// FilesWithSuggestions returns the records holding a current suggestion.
func (a *Analyzer) FilesWithSuggestions() []*MediaFile {
	var out []*MediaFile
	for _, mf := range a.Files {
		if mf.Suggestion != nil {
			out = append(out, mf)
		}
	}
	return out
}
