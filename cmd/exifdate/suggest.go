package main

import (
	"fmt"
	"time"
)

// missingFields reports which tracked date fields have no embedded value.
// Only absence counts; a present-but-implausible value is not missing.
func missingFields(mf *MediaFile) []DateField {
	var missing []DateField
	if mf.DateTimeOriginal == nil {
		missing = append(missing, FieldDateTimeOriginal)
	}
	if mf.DateCreated == nil {
		missing = append(missing, FieldDateCreated)
	}
	return missing
}

// resolveSuggestion picks one best date for a record's missing fields. The
// rules form an ordered chain; earlier rules preempt later ones:
//
//  1. nothing missing: no suggestion, even with a rich pool
//  2. empty pool: no suggestion
//  3. backfill: exactly one tracked field missing while the other holds a
//     value proposes that value, labelled by the field that supplied it
//  4. earliest timestamp among reliable candidates, or among all
//     candidates when no reliable one exists; ties keep pool order
func resolveSuggestion(missing []DateField, pool []DateCandidate, original, created *time.Time) *DateCandidate {
	if len(missing) == 0 {
		return nil
	}
	if len(pool) == 0 {
		return nil
	}

	if len(missing) == 1 {
		switch missing[0] {
		case FieldDateTimeOriginal:
			if created != nil {
				return &DateCandidate{When: *created, Source: SourceDateTime}
			}
		case FieldDateCreated:
			if original != nil {
				return &DateCandidate{When: *original, Source: SourceDateTimeOriginal}
			}
		}
	}

	if best := earliest(pool, true); best != nil {
		return best
	}
	return earliest(pool, false)
}

// earliest returns the minimum-timestamp candidate, optionally restricted
// to reliable sources. The scan keeps the first-inserted candidate on equal
// timestamps, so tie-breaking follows pool construction order.
func earliest(pool []DateCandidate, reliableOnly bool) *DateCandidate {
	var best *DateCandidate
	for i := range pool {
		c := pool[i]
		if reliableOnly && !c.Source.reliable() {
			continue
		}
		if best == nil || c.When.Before(best.When) {
			best = &DateCandidate{When: c.When, Source: c.Source}
		}
	}
	return best
}

// SetManualDate overrides the record's suggestion with a user-entered date.
func (mf *MediaFile) SetManualDate(t time.Time) {
	mf.Suggestion = &DateCandidate{When: t, Source: SourceManual}
}

// ChooseCandidate repoints the record's suggestion at pool element i. It is
// the headless equivalent of picking a row in a source-selection widget.
func (mf *MediaFile) ChooseCandidate(i int) error {
	if i < 0 || i >= len(mf.Candidates) {
		return fmt.Errorf("candidate index %d out of range (pool has %d)", i, len(mf.Candidates))
	}
	c := mf.Candidates[i]
	mf.Suggestion = &DateCandidate{When: c.When, Source: c.Source}
	return nil
}
