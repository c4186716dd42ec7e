package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func suggestedFile(path, name, ext string) *MediaFile {
	return &MediaFile{
		Path:          path,
		Name:          name,
		Ext:           ext,
		MissingFields: []DateField{FieldDateTimeOriginal, FieldDateCreated},
		Suggestion:    &DateCandidate{When: *tp("2023-12-15 14:20:30"), Source: SourceFilename},
	}
}

// TestUpdateFilePreconditions tests that missing preconditions yield a
// plain negative result with no side effects
func TestUpdateFilePreconditions(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.jpg", "jpeg bytes")

	called := false
	u := newUpdater(true, true, true, false)
	u.writeTags = func(string, map[string]string) error {
		called = true
		return nil
	}

	// No suggestion.
	mf := &MediaFile{Path: path, Name: "a.jpg", Ext: ".jpg",
		MissingFields: []DateField{FieldDateTimeOriginal}}
	if u.UpdateFile(mf) {
		t.Error("update without a suggestion should return false")
	}

	// No missing fields.
	mf = &MediaFile{Path: path, Name: "a.jpg", Ext: ".jpg",
		Suggestion: &DateCandidate{When: *tp("2023-12-15 14:20:30"), Source: SourceFilename}}
	if u.UpdateFile(mf) {
		t.Error("update without missing fields should return false")
	}

	// Both field flags disabled leaves nothing to update.
	u2 := newUpdater(true, false, false, false)
	u2.writeTags = u.writeTags
	if u2.UpdateFile(suggestedFile(path, "a.jpg", ".jpg")) {
		t.Error("update with all field flags disabled should return false")
	}

	if called {
		t.Error("precondition misses must not reach the writer")
	}
	if exists(path + backupSuffix) {
		t.Error("precondition misses must not create backups")
	}
}

// TestUpdateFileDryRun tests that dry-run touches nothing
func TestUpdateFileDryRun(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.jpg", "original bytes")
	before, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	u := newUpdater(true, true, true, true)
	u.writeTags = func(string, map[string]string) error {
		t.Error("dry run must not reach the writer")
		return nil
	}

	if !u.UpdateFile(suggestedFile(path, "a.jpg", ".jpg")) {
		t.Error("dry run should report simulated success")
	}

	after, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if after.ModTime() != before.ModTime() || after.Size() != before.Size() {
		t.Error("dry run modified the file")
	}
	if exists(path + backupSuffix) {
		t.Error("dry run created a backup")
	}

	data, _ := os.ReadFile(path)
	if string(data) != "original bytes" {
		t.Error("dry run changed file contents")
	}
}

// TestUpdateFileUnsupportedFormat tests that unsupported extensions fail
// before any backup is attempted
func TestUpdateFileUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.png", "png bytes")

	u := newUpdater(true, true, true, false)
	u.writeTags = func(string, map[string]string) error {
		t.Error("unsupported formats must not reach the writer")
		return nil
	}

	if u.UpdateFile(suggestedFile(path, "a.png", ".png")) {
		t.Error("update of an unsupported format should return false")
	}
	if exists(path + backupSuffix) {
		t.Error("unsupported format consumed a backup")
	}
	if len(u.Failed) != 1 {
		t.Errorf("failed list has %d entries, want 1", len(u.Failed))
	}
}

// TestUpdateFileWritesRequestedTags tests the tag selection for missing
// fields and the paired digitized write
func TestUpdateFileWritesRequestedTags(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.jpg", "jpeg bytes")

	var gotTags map[string]string
	u := newUpdater(false, true, true, false)
	u.writeTags = func(p string, tags map[string]string) error {
		gotTags = tags
		return nil
	}

	if !u.UpdateFile(suggestedFile(path, "a.jpg", ".jpg")) {
		t.Fatal("update should succeed")
	}

	want := "2023:12:15 14:20:30"
	if gotTags["DateTimeOriginal"] != want {
		t.Errorf("DateTimeOriginal = %q, want %q", gotTags["DateTimeOriginal"], want)
	}
	if gotTags["ModifyDate"] != want {
		t.Errorf("ModifyDate = %q, want %q", gotTags["ModifyDate"], want)
	}
	if gotTags["CreateDate"] != want {
		t.Errorf("CreateDate = %q, want %q", gotTags["CreateDate"], want)
	}

	// Only the still-missing field is written when one flag is off.
	u2 := newUpdater(false, true, false, false)
	u2.writeTags = u.writeTags
	if !u2.UpdateFile(suggestedFile(path, "a.jpg", ".jpg")) {
		t.Fatal("update should succeed")
	}
	if _, ok := gotTags["ModifyDate"]; ok {
		t.Error("disabled DateCreated flag still wrote ModifyDate")
	}
	if gotTags["DateTimeOriginal"] != want {
		t.Errorf("DateTimeOriginal = %q, want %q", gotTags["DateTimeOriginal"], want)
	}
}

// TestCreateBackupProbing tests the .backup, .backup.1, .backup.2 naming
func TestCreateBackupProbing(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.jpg", "v1")

	first, err := createBackup(path)
	if err != nil {
		t.Fatalf("first backup: %v", err)
	}
	if first != path+".backup" {
		t.Errorf("first backup = %s, want %s", first, path+".backup")
	}

	if err := os.WriteFile(path, []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}
	second, err := createBackup(path)
	if err != nil {
		t.Fatalf("second backup: %v", err)
	}
	if second != path+".backup.1" {
		t.Errorf("second backup = %s, want %s", second, path+".backup.1")
	}

	third, err := createBackup(path)
	if err != nil {
		t.Fatalf("third backup: %v", err)
	}
	if third != path+".backup.2" {
		t.Errorf("third backup = %s, want %s", third, path+".backup.2")
	}

	// Earlier backups are never overwritten.
	data, _ := os.ReadFile(first)
	if string(data) != "v1" {
		t.Errorf("first backup content = %q, want %q", data, "v1")
	}
	data, _ = os.ReadFile(second)
	if string(data) != "v2" {
		t.Errorf("second backup content = %q, want %q", data, "v2")
	}
}

// TestRestoreBackup tests restoring a file from its .backup sibling
func TestRestoreBackup(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.jpg", "v1")

	if _, err := createBackup(path); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("mangled"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := RestoreBackup(path); err != nil {
		t.Fatalf("restore: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "v1" {
		t.Errorf("restored content = %q, want %q", data, "v1")
	}

	if err := RestoreBackup(filepath.Join(dir, "missing.jpg")); err == nil {
		t.Error("restore without a backup should fail")
	}
}

// TestRestoreAllBackups tests folder-wide restore
func TestRestoreAllBackups(t *testing.T) {
	dir := t.TempDir()
	a := writeTestFile(t, dir, "a.jpg", "a1")
	b := writeTestFile(t, dir, "b.jpg", "b1")
	writeTestFile(t, dir, "c.jpg", "no backup")

	for _, p := range []string{a, b} {
		if _, err := createBackup(p); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(a, []byte("a2"), 0644)
	os.WriteFile(b, []byte("b2"), 0644)

	if restored := RestoreAllBackups(dir); restored != 2 {
		t.Errorf("restored %d files, want 2", restored)
	}
	data, _ := os.ReadFile(a)
	if string(data) != "a1" {
		t.Errorf("a.jpg = %q after restore", data)
	}
}

// TestCleanupBackups tests deletion of every backup-named file
func TestCleanupBackups(t *testing.T) {
	dir := t.TempDir()
	path := writeTestFile(t, dir, "a.jpg", "v1")
	writeTestFile(t, dir, "b.png", "keep me")

	for i := 0; i < 3; i++ {
		if _, err := createBackup(path); err != nil {
			t.Fatal(err)
		}
	}

	if removed := CleanupBackups(dir); removed != 3 {
		t.Errorf("removed %d backups, want 3", removed)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("%d files left, want 2 (original and unrelated)", len(entries))
	}
}

// TestUpdateBatchCounts tests that unsupported files fail individually
// while the rest of the batch proceeds
func TestUpdateBatchCounts(t *testing.T) {
	dir := t.TempDir()

	var files []*MediaFile
	for _, name := range []string{"a.jpg", "b.jpg"} {
		path := writeTestFile(t, dir, name, "jpeg bytes")
		files = append(files, suggestedFile(path, name, ".jpg"))
	}
	for _, name := range []string{"c.png", "d.gif"} {
		path := writeTestFile(t, dir, name, "other bytes")
		files = append(files, suggestedFile(path, name, filepath.Ext(name)))
	}

	var written []string
	u := newUpdater(false, true, true, false)
	u.writeTags = func(p string, tags map[string]string) error {
		written = append(written, filepath.Base(p))
		return nil
	}

	succeeded, failed := u.UpdateBatch(files)
	if succeeded != 2 || failed != 2 {
		t.Errorf("batch = (%d, %d), want (2, 2)", succeeded, failed)
	}
	if len(written) != 2 {
		t.Errorf("writer reached %d times, want 2 (supported files only)", len(written))
	}
}
