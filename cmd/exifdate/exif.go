package main

import (
	"os"
	"time"

	"github.com/barasher/go-exiftool"
	"github.com/rs/zerolog/log"
	"github.com/rwcarlsen/goexif/exif"
)

// exifDateLayout is the EXIF datetime string format.
const exifDateLayout = "2006:01:02 15:04:05"

// exifDates holds the embedded date tags relevant to analysis. Fields are
// nil when the tag is absent.
type exifDates struct {
	Original  *time.Time
	Created   *time.Time
	Digitized *time.Time
}

// exifReader reads embedded dates in two passes: a pure-Go goexif decode
// first, then an exiftool fallback for containers goexif cannot parse. A
// field set by the first pass is never overwritten by the second.
type exifReader struct {
	et *exiftool.Exiftool
}

func newExifReader() *exifReader {
	return &exifReader{}
}

func (r *exifReader) close() {
	if r.et != nil {
		r.et.Close()
		r.et = nil
	}
}

// readDates extracts the embedded date tags from an image file. Read
// failures are logged and treated as "no tags available": a corrupt file
// yields empty dates, not an error.
func (r *exifReader) readDates(path string) exifDates {
	dates := r.decodeNative(path)

	if dates.Original == nil || dates.Created == nil || dates.Digitized == nil {
		r.fallback(path, &dates)
	}

	return dates
}

// decodeNative is the first reader pass, built on goexif.
func (r *exifReader) decodeNative(path string) exifDates {
	var dates exifDates

	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("file", path).Msg("cannot open file for metadata read")
		return dates
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		// No EXIF block or an unsupported container. The fallback pass
		// gets its own chance.
		log.Debug().Err(err).Str("file", path).Msg("goexif decode failed")
		return dates
	}

	dates.Original = exifTagTime(x, exif.DateTimeOriginal)
	dates.Created = exifTagTime(x, exif.DateTime)
	dates.Digitized = exifTagTime(x, exif.DateTimeDigitized)
	return dates
}

func exifTagTime(x *exif.Exif, name exif.FieldName) *time.Time {
	tag, err := x.Get(name)
	if err != nil {
		return nil
	}
	s, err := tag.StringVal()
	if err != nil {
		return nil
	}
	return parseExifTime(s)
}

// fallback is the second reader pass. It shells out to exiftool through a
// lazily-started stay-open process and fills only fields the first pass
// left empty.
func (r *exifReader) fallback(path string, dates *exifDates) {
	if r.et == nil {
		et, err := exiftool.NewExiftool()
		if err != nil {
			log.Debug().Err(err).Msg("exiftool unavailable, skipping fallback metadata pass")
			return
		}
		r.et = et
	}

	metas := r.et.ExtractMetadata(path)
	if len(metas) == 0 {
		return
	}
	meta := metas[0]
	if meta.Err != nil {
		log.Warn().Err(meta.Err).Str("file", path).Msg("exiftool metadata read failed")
		return
	}

	if dates.Original == nil {
		dates.Original = metaTime(meta, "DateTimeOriginal")
	}
	if dates.Created == nil {
		// Tag 306 (EXIF DateTime) is named ModifyDate by exiftool.
		dates.Created = metaTime(meta, "ModifyDate")
	}
	if dates.Digitized == nil {
		// Tag 0x9004 (DateTimeDigitized) is named CreateDate by exiftool.
		dates.Digitized = metaTime(meta, "CreateDate")
	}
}

func metaTime(meta exiftool.FileMetadata, key string) *time.Time {
	s, err := meta.GetString(key)
	if err != nil {
		return nil
	}
	return parseExifTime(s)
}

// parseExifTime parses a "YYYY:MM:DD HH:MM:SS" string, tolerating a
// trailing timezone offset or sub-second suffix.
func parseExifTime(s string) *time.Time {
	if len(s) > len(exifDateLayout) {
		s = s[:len(exifDateLayout)]
	}
	t, err := time.ParseInLocation(exifDateLayout, s, time.Local)
	if err != nil {
		return nil
	}
	return &t
}
