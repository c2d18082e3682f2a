// Package bundledb persists the whole application state as one versioned JSON
// blob on disk. It is the single source of truth for courses and accounts:
// single-writer, synchronous, every mutation durable before the next read.
package bundledb

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kncumilla-crypto/attendance-system/core"
	"github.com/kncumilla-crypto/attendance-system/core/course"
	"github.com/kncumilla-crypto/attendance-system/core/user"
)

// Bundle is the persisted unit.
type Bundle struct {
	Version     string          `json:"version"`
	Courses     []course.Course `json:"courses"`
	Users       []user.User     `json:"users,omitempty"`
	LastUpdated time.Time       `json:"lastUpdated"`
	BackupID    string          `json:"backupId,omitempty"`
}

type DB struct {
	path   string
	logger core.Logger

	mu       sync.RWMutex
	courses  []course.Course
	users    []user.User
	backupID string
}

// Open loads the bundle at path. A missing file yields an empty store; an
// unparsable one is logged and treated as empty rather than blocking startup.
// A bundle tagged with an older version is migrated and re-persisted under the
// current tag.
func Open(path string, logger core.Logger) (*DB, error) {
	db := &DB{
		path:    path,
		logger:  logger,
		courses: []course.Course{},
		users:   []user.User{},
	}

	raw, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return db, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading bundle %s", path)
	}

	courses, users, backupID, migrated, perr := parseBundle(raw)
	if perr != nil {
		logger.Error("corrupt attendance bundle, starting fresh", perr)
		return db, nil
	}
	db.courses = courses
	db.users = users
	db.backupID = backupID

	if migrated {
		if err := db.save(); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// save writes the bundle under the current version tag. Callers hold db.mu.
func (db *DB) save() error {
	if db.backupID == "" {
		db.backupID = uuid.New().String()
	}
	b := Bundle{
		Version:     core.DataVersion,
		Courses:     db.courses,
		Users:       db.users,
		LastUpdated: time.Now().UTC(),
		BackupID:    db.backupID,
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding bundle")
	}
	if dir := filepath.Dir(db.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrapf(err, "creating data dir %s", dir)
		}
	}
	if err := ioutil.WriteFile(db.path, data, 0600); err != nil {
		return errors.Wrapf(err, "writing bundle %s", db.path)
	}
	return nil
}

// QueryAllCourses returns a deep copy of every stored course.
func (db *DB) QueryAllCourses() ([]course.Course, error) {
	return NewCourseRepository(db).QueryAllCourses()
}

// QueryAllAccounts returns every stored account.
func (db *DB) QueryAllAccounts() ([]user.User, error) {
	return NewUserRepository(db).QueryAllAccounts()
}

// ReplaceAllCourses swaps the entire course list and persists it under the
// current version tag. Used by restore; accounts are left untouched.
func (db *DB) ReplaceAllCourses(courses []course.Course) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	replacement := make([]course.Course, 0, len(courses))
	for _, crs := range courses {
		replacement = append(replacement, crs.Clone())
	}
	db.courses = replacement
	return db.save()
}

// Reset irreversibly wipes all courses and accounts, leaving the store in the
// state Open produces for a missing bundle.
func (db *DB) Reset() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.courses = []course.Course{}
	db.users = []user.User{}
	if err := os.Remove(db.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing bundle %s", db.path)
	}
	return nil
}

// Path returns the bundle location on disk.
func (db *DB) Path() string {
	return db.path
}
