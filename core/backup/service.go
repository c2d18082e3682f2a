// Package backup implements full-state export and restore with integrity and
// version checks, plus the irreversible wipe behind a typed confirmation phrase.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/kncumilla-crypto/attendance-system/core"
	"github.com/kncumilla-crypto/attendance-system/core/course"
	"github.com/kncumilla-crypto/attendance-system/core/user"
)

// ClearPhrase must be typed verbatim to confirm a full wipe.
const ClearPhrase = "DELETE"

var (
	// errors
	ErrInvalidFormat   = errors.New("invalid backup file format")
	ErrVersionMismatch = errors.New("backup version differs from current; confirmation required")
	ErrDigestMismatch  = errors.New("backup integrity digest does not match its courses")
	ErrBadConfirmation = errors.New(`confirmation phrase must be "` + ClearPhrase + `"`)

	NowFunc = time.Now // mockable
)

type (
	// Store is the slice of the persisted store the backup layer operates on.
	Store interface {
		QueryAllCourses() ([]course.Course, error)
		QueryAllAccounts() ([]user.User, error)
		ReplaceAllCourses([]course.Course) error
		Reset() error
	}

	Service struct {
		store  Store
		logger core.Logger
	}

	// Backup is the user-exported superset of the persisted bundle.
	Backup struct {
		Version         string          `json:"version"`
		Courses         []course.Course `json:"courses"`
		Users           []user.User     `json:"users,omitempty"`
		Timestamp       time.Time       `json:"timestamp"`
		IntegrityDigest string          `json:"integrityDigest"`
		BackupID        string          `json:"backupId"`
		TotalCourses    int             `json:"totalCourses"`
		TotalStudents   int             `json:"totalStudents"`
	}
)

func NewService(store Store, logger core.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Export produces a backup of the whole store, digest included.
func (svc *Service) Export() (Backup, error) {
	courses, err := svc.store.QueryAllCourses()
	if err != nil {
		return Backup{}, err
	}
	users, err := svc.store.QueryAllAccounts()
	if err != nil {
		return Backup{}, err
	}

	digest, err := coursesDigest(courses)
	if err != nil {
		return Backup{}, err
	}
	var students int
	for _, crs := range courses {
		students += len(crs.Students)
	}
	return Backup{
		Version:         core.DataVersion,
		Courses:         courses,
		Users:           users,
		Timestamp:       NowFunc().UTC(),
		IntegrityDigest: digest,
		BackupID:        uuid.New().String(),
		TotalCourses:    len(courses),
		TotalStudents:   students,
	}, nil
}

// Parse decodes an uploaded backup file and checks its required fields.
func Parse(data []byte) (Backup, error) {
	var b Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return Backup{}, ErrInvalidFormat
	}
	if b.Version == "" || b.Courses == nil || b.Timestamp.IsZero() {
		return Backup{}, ErrInvalidFormat
	}
	return b, nil
}

// Restore replaces the entire course list with the backup's. A backup from a
// different data version is never silently migrated: it is rejected with
// ErrVersionMismatch until the caller confirms. A digest that no longer matches
// the courses is rejected outright.
func (svc *Service) Restore(b Backup, confirmVersion bool) (int, error) {
	if b.Version == "" || b.Courses == nil || b.Timestamp.IsZero() {
		return 0, ErrInvalidFormat
	}
	if b.Version != core.DataVersion && !confirmVersion {
		return 0, ErrVersionMismatch
	}
	if b.IntegrityDigest != "" {
		digest, err := coursesDigest(b.Courses)
		if err != nil {
			return 0, err
		}
		if digest != b.IntegrityDigest {
			return 0, ErrDigestMismatch
		}
	}

	courses := make([]course.Course, 0, len(b.Courses))
	for _, crs := range b.Courses {
		crs.ID = course.NormalizeID(crs.ID)
		if crs.ID == "" {
			continue
		}
		crs.Repair()
		courses = append(courses, crs)
	}
	if err := svc.store.ReplaceAllCourses(courses); err != nil {
		return 0, err
	}
	svc.logger.Info("store restored from backup")
	return len(courses), nil
}

// Clear wipes all courses and accounts. The typed phrase must match ClearPhrase.
func (svc *Service) Clear(phrase string) error {
	if phrase != ClearPhrase {
		return ErrBadConfirmation
	}
	if err := svc.store.Reset(); err != nil {
		return pkgerrors.Wrap(err, "wiping store")
	}
	svc.logger.Warn("all courses and accounts wiped")
	return nil
}

// coursesDigest hashes the canonical JSON encoding of the course list.
func coursesDigest(courses []course.Course) (string, error) {
	data, err := json.Marshal(courses)
	if err != nil {
		return "", pkgerrors.Wrap(err, "encoding courses for digest")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
