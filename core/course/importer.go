package course

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/kncumilla-crypto/attendance-system/core"
)

// ImportResult reports the outcome of a bulk roster import. A partially-applied
// import (e.g. a storage failure mid-way) is still visible through these counts.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Errored  int `json:"errored"`
}

// ImportStudents merges delimited rows `id, name[, registrationNo]` into a course
// roster. An optional header line is ignored; a duplicate id (against the existing
// roster or an earlier row) is skipped and counted, not an error.
func (svc *Service) ImportStudents(courseID string, r io.Reader) (ImportResult, error) {
	var res ImportResult

	crs, err := svc.repo.GetCourseByID(NormalizeID(courseID))
	if err != nil {
		return res, err
	}

	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = -1
	rdr.TrimLeadingSpace = true

	seen := make(map[string]bool, len(crs.Students))
	for _, std := range crs.Students {
		seen[std.ID] = true
	}

	added := 0
	for lineNo := 0; ; lineNo++ {
		row, err := rdr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			res.Errored++
			continue
		}
		if lineNo == 0 && isImportHeader(row) {
			continue
		}
		if len(row) < 2 {
			res.Errored++
			continue
		}
		id := core.CleanString(row[0])
		name := core.CleanString(row[1])
		if id == "" || name == "" {
			res.Errored++
			continue
		}
		if seen[id] {
			res.Skipped++
			continue
		}
		std := Student{ID: id, Name: name, Added: NowFunc().UTC()}
		if len(row) > 2 {
			std.Registration = core.CleanString(row[2])
		}
		crs.Students = append(crs.Students, std)
		seen[id] = true
		res.Imported++
		added++
	}

	if added > 0 {
		if _, err := svc.repo.UpdateCourse(crs); err != nil {
			return res, errors.Wrap(err, "persisting imported students")
		}
	}
	return res, nil
}

func isImportHeader(row []string) bool {
	return len(row) > 0 && strings.Contains(strings.ToLower(row[0]), "id")
}
