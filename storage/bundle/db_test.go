package bundledb

import (
	"encoding/json"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/kncumilla-crypto/attendance-system/core"
	"github.com/kncumilla-crypto/attendance-system/core/course"
	"github.com/kncumilla-crypto/attendance-system/services/logger"
)

func testLogger() core.Logger {
	return logsvc.NewConsoleLogger(log.New(ioutil.Discard, "", 0))
}

func testPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "attendance.json")
}

func TestOpen_missingFile(t *testing.T) {
	db, err := Open(testPath(t), testLogger())
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	courses, err := db.QueryAllCourses()
	if err != nil {
		t.Fatalf("QueryAllCourses() failed, %v", err)
	}
	if len(courses) != 0 {
		t.Errorf("fresh store has %d courses", len(courses))
	}
	if _, err := os.Stat(db.Path()); !os.IsNotExist(err) {
		t.Error("Open() should not create the bundle before the first write")
	}
}

func TestOpen_corruptFile(t *testing.T) {
	path := testPath(t)
	if err := ioutil.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	db, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open() on corrupt bundle failed, %v", err)
	}
	courses, _ := db.QueryAllCourses()
	if len(courses) != 0 {
		t.Errorf("corrupt bundle produced %d courses, want empty store", len(courses))
	}
}

func TestOpen_roundtrip(t *testing.T) {
	path := testPath(t)

	db, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	crs := course.Course{ID: "PHIL101", Name: "Introduction to Philosophy", Cohort: course.CohortFirstYear}
	crs.Repair()
	if _, err := NewCourseRepository(db).CreateCourse(crs); err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}

	// the write is durable: a second Open sees it
	db2, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("reopening failed, %v", err)
	}
	got, err := NewCourseRepository(db2).GetCourseByID("PHIL101")
	if err != nil {
		t.Fatalf("GetCourseByID() after reopen failed, %v", err)
	}
	if got.Name != "Introduction to Philosophy" {
		t.Errorf("reopened course = %+v", got)
	}

	// the bundle on disk carries the current version tag and a stable backup id
	var b Bundle
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, &b); err != nil {
		t.Fatalf("decoding bundle: %v", err)
	}
	if b.Version != core.DataVersion {
		t.Errorf("bundle version = %s, want %s", b.Version, core.DataVersion)
	}
	if b.BackupID == "" || b.LastUpdated.IsZero() {
		t.Error("bundle missing backup id or lastUpdated")
	}
}

func TestOpen_migratesLegacyArray(t *testing.T) {
	path := testPath(t)
	legacy := `[
		{"id": " phil101 ", "name": "Introduction to Philosophy", "dates": ["2026-01-12", "2026-01-05", "2026-01-12"]},
		{"id": "", "name": "dropped"}
	]`
	if err := ioutil.WriteFile(path, []byte(legacy), 0600); err != nil {
		t.Fatal(err)
	}

	db, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	courses, err := db.QueryAllCourses()
	if err != nil {
		t.Fatalf("QueryAllCourses() failed, %v", err)
	}
	if len(courses) != 1 {
		t.Fatalf("migrated %d courses, want 1", len(courses))
	}
	crs := courses[0]
	if crs.ID != "PHIL101" {
		t.Errorf("migrated id = %q, want PHIL101", crs.ID)
	}
	if len(crs.Dates) != 2 || crs.Dates[0] != "2026-01-05" || crs.Dates[1] != "2026-01-12" {
		t.Errorf("migrated dates = %v", crs.Dates)
	}
	if crs.Students == nil || crs.Attendance == nil {
		t.Error("migration left nil collections")
	}

	// the migrated bundle was re-persisted under the current version tag
	var b Bundle
	raw, _ := ioutil.ReadFile(path)
	if err := json.Unmarshal(raw, &b); err != nil {
		t.Fatalf("decoding re-persisted bundle: %v", err)
	}
	if b.Version != core.DataVersion {
		t.Errorf("re-persisted version = %s, want %s", b.Version, core.DataVersion)
	}
}

func TestOpen_migratesOldVersion(t *testing.T) {
	path := testPath(t)
	old := `{
		"version": "1.0",
		"courses": [{"id": "phil101", "name": "Introduction to Philosophy"}]
	}`
	if err := ioutil.WriteFile(path, []byte(old), 0600); err != nil {
		t.Fatal(err)
	}

	db, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	if _, err := NewCourseRepository(db).GetCourseByID("PHIL101"); err != nil {
		t.Fatalf("GetCourseByID() after migration failed, %v", err)
	}

	var b Bundle
	raw, _ := ioutil.ReadFile(path)
	if err := json.Unmarshal(raw, &b); err != nil {
		t.Fatalf("decoding re-persisted bundle: %v", err)
	}
	if b.Version != core.DataVersion {
		t.Errorf("re-persisted version = %s, want %s", b.Version, core.DataVersion)
	}
}

func TestDB_Reset(t *testing.T) {
	path := testPath(t)
	db, err := Open(path, testLogger())
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	crs := course.Course{ID: "PHIL101", Name: "Introduction to Philosophy"}
	crs.Repair()
	if _, err := NewCourseRepository(db).CreateCourse(crs); err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}

	if err := db.Reset(); err != nil {
		t.Fatalf("Reset() failed, %v", err)
	}
	courses, _ := db.QueryAllCourses()
	if len(courses) != 0 {
		t.Errorf("Reset() left %d courses", len(courses))
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Reset() left the bundle on disk")
	}

	// resetting an already-empty store is fine
	if err := db.Reset(); err != nil {
		t.Errorf("Reset() again failed, %v", err)
	}
}

func TestCourseRepository_isolation(t *testing.T) {
	db, err := Open(testPath(t), testLogger())
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	repo := NewCourseRepository(db)

	crs := course.Course{ID: "PHIL101", Name: "Introduction to Philosophy"}
	crs.Repair()
	if _, err := repo.CreateCourse(crs); err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}

	got, err := repo.GetCourseByID("PHIL101")
	if err != nil {
		t.Fatalf("GetCourseByID() failed, %v", err)
	}
	got.Name = "Mutated"
	got.Attendance["2026-01-05"] = map[string]string{"S1": course.StatusPresent}

	again, _ := repo.GetCourseByID("PHIL101")
	if again.Name != "Introduction to Philosophy" || len(again.Attendance) != 0 {
		t.Error("GetCourseByID() handed out shared state")
	}
}

func TestCourseRepository_SetAttendance(t *testing.T) {
	db, err := Open(testPath(t), testLogger())
	if err != nil {
		t.Fatalf("Open() failed, %v", err)
	}
	repo := NewCourseRepository(db)

	if err := repo.SetAttendance("PHIL101", "2026-01-05", "S1", course.StatusPresent); err != course.ErrNotFound {
		t.Errorf("SetAttendance() unknown course error = %v, want ErrNotFound", err)
	}

	crs := course.Course{ID: "PHIL101"}
	crs.Repair()
	if _, err := repo.CreateCourse(crs); err != nil {
		t.Fatalf("CreateCourse() failed, %v", err)
	}
	if err := repo.SetAttendance("PHIL101", "2026-01-05", "S1", course.StatusPresent); err != nil {
		t.Fatalf("SetAttendance() failed, %v", err)
	}

	got, _ := repo.GetCourseByID("PHIL101")
	if got.Status("2026-01-05", "S1") != course.StatusPresent {
		t.Error("SetAttendance() did not persist")
	}
}
