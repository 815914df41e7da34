package importer

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func newTestState(t *testing.T) *StateDB {
	t.Helper()
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenStateDB: %v", err)
	}
	t.Cleanup(func() { state.Close() })
	return state
}

// TestStateSkipLogic verifies a recorded file is skipped only when path, size
// and hash all match.
func TestStateSkipLogic(t *testing.T) {
	state := newTestState(t)

	imported, err := state.IsImported("export.json", 100, "abc")
	if err != nil {
		t.Fatalf("IsImported: %v", err)
	}
	if imported {
		t.Error("fresh state should not report a file as imported")
	}

	if err := state.MarkImported("export.json", 100, "abc"); err != nil {
		t.Fatalf("MarkImported: %v", err)
	}

	imported, _ = state.IsImported("export.json", 100, "abc")
	if !imported {
		t.Error("file should be skipped after marking")
	}

	// Same path, changed content: re-import
	imported, _ = state.IsImported("export.json", 120, "def")
	if imported {
		t.Error("modified file should not be skipped")
	}
}

// TestHashFile verifies hashing is content-based and stable.
func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	os.WriteFile(a, []byte(`{"workouts":[]}`), 0o644)
	os.WriteFile(b, []byte(`{"workouts":[]}`), 0o644)

	ha, err := HashFile(a)
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	hb, _ := HashFile(b)
	if ha != hb {
		t.Error("identical content should hash identically")
	}

	os.WriteFile(b, []byte(`{"workouts":[{}]}`), 0o644)
	hb, _ = HashFile(b)
	if ha == hb {
		t.Error("different content should hash differently")
	}
}

// TestDryRunCountsWithoutSending verifies a dry run tallies the payload and
// records nothing in the state database.
func TestDryRunCountsWithoutSending(t *testing.T) {
	dir := t.TempDir()
	payload := `{
		"exportDate": 1700000000000,
		"appVersion": "test",
		"workouts": [
			{"id":1,"date":1700000000000,"name":"Push","notes":"","durationMinutes":45,"isCompleted":true,
			 "exercises":[
				{"id":1,"name":"Bench","orderIndex":0,"sets":[]},
				{"id":2,"name":"Dips","orderIndex":1,"sets":[]}
			 ]}
		]
	}`
	path := filepath.Join(dir, "export.json")
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	state := newTestState(t)
	imp := New(nil, state, true, slog.New(slog.DiscardHandler))

	stats, err := imp.Run(dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.FilesImported != 1 || stats.WorkoutsSent != 1 || stats.ExercisesSent != 2 {
		t.Errorf("stats = %+v, want 1 file, 1 workout, 2 exercises", stats)
	}

	// Dry run must not mark the file, so a real run can still send it
	hash, _ := HashFile(path)
	info, _ := os.Stat(path)
	imported, _ := state.IsImported("export.json", info.Size(), hash)
	if imported {
		t.Error("dry run should not record files in the state db")
	}
}

// TestEmptyFileMarkedAndSkipped verifies files with no workouts are recorded
// so later runs skip the stat-hash-parse work.
func TestEmptyFileMarkedAndSkipped(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.json")
	os.WriteFile(path, []byte(`{"exportDate":0,"appVersion":"test","workouts":[]}`), 0o644)

	state := newTestState(t)
	imp := New(nil, state, false, slog.New(slog.DiscardHandler))

	stats, err := imp.Run(dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.FilesSkipped != 1 || stats.FilesErrored != 0 {
		t.Errorf("stats = %+v, want 1 skipped", stats)
	}

	// Second run skips via the state db before parsing
	stats, _ = imp.Run(dir)
	if stats.FilesSkipped != 1 {
		t.Errorf("second run stats = %+v, want 1 skipped", stats)
	}
}

// TestMalformedFileCounted verifies unparseable files are counted as errors
// without aborting the directory walk.
func TestMalformedFileCounted(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{not json`), 0o644)
	os.WriteFile(filepath.Join(dir, "good.json"), []byte(`{"exportDate":0,"appVersion":"t","workouts":[]}`), 0o644)

	state := newTestState(t)
	imp := New(nil, state, false, slog.New(slog.DiscardHandler))

	stats, err := imp.Run(dir)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.FilesTotal != 2 || stats.FilesErrored != 1 || stats.FilesSkipped != 1 {
		t.Errorf("stats = %+v, want 2 total, 1 errored, 1 skipped", stats)
	}
}
