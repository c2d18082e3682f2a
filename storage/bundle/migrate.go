package bundledb

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/kncumilla-crypto/attendance-system/core"
	"github.com/kncumilla-crypto/attendance-system/core/course"
	"github.com/kncumilla-crypto/attendance-system/core/user"
)

// parseBundle decodes a raw payload in any schema version this store has ever
// written. The earliest shape was a bare course array; later shapes carry a
// `courses` property and a version tag. Adopted courses are validated and
// repaired (ids normalized, missing collections back-filled, empty-id records
// dropped) rather than trusted verbatim.
func parseBundle(raw []byte) (courses []course.Course, users []user.User, backupID string, migrated bool, err error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return []course.Course{}, []user.User{}, "", false, nil
	}

	// earliest shape: a bare sequence of courses
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &courses); err != nil {
			return nil, nil, "", false, errors.Wrap(err, "decoding legacy course array")
		}
		return repairCourses(courses), []user.User{}, "", true, nil
	}

	var b Bundle
	if err := json.Unmarshal(trimmed, &b); err != nil {
		return nil, nil, "", false, errors.Wrap(err, "decoding bundle")
	}
	if b.Courses == nil {
		b.Courses = []course.Course{}
	}
	if b.Users == nil {
		b.Users = []user.User{}
	}
	migrated = b.Version != core.DataVersion
	return repairCourses(b.Courses), b.Users, b.BackupID, migrated, nil
}

func repairCourses(courses []course.Course) []course.Course {
	repaired := make([]course.Course, 0, len(courses))
	for _, crs := range courses {
		crs.ID = course.NormalizeID(crs.ID)
		if crs.ID == "" {
			continue
		}
		crs.Repair()
		repaired = append(repaired, crs)
	}
	return repaired
}
