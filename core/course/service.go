package course

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/kncumilla-crypto/attendance-system/core"
)

var (
	// errors
	ErrNotFound        = errors.New("course not found")
	ErrCourseExists    = errors.New("a course with this id already exists")
	ErrStudentNotFound = errors.New("student not found in this course")
	ErrStudentExists   = errors.New("a student with this id already exists in this course")
	ErrEmptyRoster     = errors.New("course has no students")
	ErrNoRecordForDate = errors.New("no attendance record for this date")
	ErrWrongCourse     = errors.New("last mark belongs to a different course")
	ErrInvalidStatus   = errors.New("status must be present or absent")

	NowFunc = time.Now // mockable
)

type (
	Repository interface {
		QueryAllCourses() ([]Course, error)
		// GetCourseByID expects a normalized (uppercase) id.
		GetCourseByID(id string) (Course, error)
		CreateCourse(c Course) (Course, error)
		// UpdateCourse replaces the stored course record wholesale.
		UpdateCourse(c Course) (Course, error)
		DeleteCourseByID(id string) error
		// SetAttendance durably writes a single (date, student) status.
		SetAttendance(courseID, date, studentID, status string) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
		logger  core.Logger

		mu      sync.Mutex
		active  *Session
		lastTag *lastMark
	}

	// lastMark records the most recent session write for undo.
	lastMark struct {
		courseID  string
		studentID string
		date      string
		previous  string
	}

	// Record is a student's status on one date, for correction/search results.
	Record struct {
		Student Student `json:"student"`
		Status  string  `json:"status"`
	}

	// Correction reports a point edit's prior and new value for UI feedback.
	Correction struct {
		CourseID  string `json:"course_id"`
		StudentID string `json:"student_id"`
		Date      string `json:"date"`
		Previous  string `json:"previous"`
		New       string `json:"new"`
	}

	// Undo reports a reverted session write.
	Undo struct {
		CourseID  string `json:"course_id"`
		StudentID string `json:"student_id"`
		Date      string `json:"date"`
		Restored  string `json:"restored"`
	}
)

func NewService(repo Repository, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{repo: repo, mailSvc: mailSvc, logger: logger}
}

// NormalizeID case-normalizes a course id.
func NormalizeID(id string) string {
	return strings.ToUpper(core.CleanString(id))
}

func (svc *Service) QueryAll() ([]Course, error) {
	return svc.repo.QueryAllCourses()
}

func (svc *Service) GetByID(id string) (Course, error) {
	return svc.repo.GetCourseByID(NormalizeID(id))
}

func (svc *Service) Create(nc NewCourse) (Course, error) {
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}
	crs := Course{
		ID:         NormalizeID(nc.ID),
		Name:       core.CleanString(nc.Name),
		Teacher:    core.CleanString(nc.Teacher),
		Cohort:     nc.Cohort,
		Group:      core.CleanString(nc.Group),
		Students:   []Student{},
		Dates:      []string{},
		Attendance: make(map[string]map[string]string),
		Created:    NowFunc().UTC(),
	}
	crs, err := svc.repo.CreateCourse(crs)
	if err != nil {
		if err == ErrCourseExists {
			return Course{}, core.NewValidationError(err, core.FieldError{Field: "id", Error: err.Error()})
		}
		return Course{}, err
	}
	return crs, nil
}

func (svc *Service) Delete(id string) error {
	return svc.repo.DeleteCourseByID(NormalizeID(id))
}

func (svc *Service) AddStudent(courseID string, ns NewStudent) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}
	crs, err := svc.repo.GetCourseByID(NormalizeID(courseID))
	if err != nil {
		return Student{}, err
	}
	std := Student{
		ID:           core.CleanString(ns.ID),
		Name:         core.CleanString(ns.Name),
		Registration: core.CleanString(ns.Registration),
		Added:        NowFunc().UTC(),
	}
	if crs.HasStudent(std.ID) {
		return Student{}, core.NewValidationError(ErrStudentExists, core.FieldError{Field: "id", Error: ErrStudentExists.Error()})
	}
	crs.Students = append(crs.Students, std)
	if _, err = svc.repo.UpdateCourse(crs); err != nil {
		return Student{}, err
	}
	return std, nil
}

// Query returns the status of every student matching filter on the given date.
// filter does a case-insensitive substring match on student id or name; empty matches all.
func (svc *Service) Query(courseID, date, filter string) ([]Record, error) {
	crs, err := svc.repo.GetCourseByID(NormalizeID(courseID))
	if err != nil {
		return nil, err
	}
	if !crs.HasDate(date) {
		return nil, ErrNoRecordForDate
	}
	filter = core.CleanString(filter, true /* lower */)
	records := make([]Record, 0, len(crs.Students))
	for _, std := range crs.Students {
		if filter != "" &&
			!strings.Contains(strings.ToLower(std.ID), filter) &&
			!strings.Contains(strings.ToLower(std.Name), filter) {
			continue
		}
		records = append(records, Record{Student: std, Status: crs.Status(date, std.ID)})
	}
	return records, nil
}

// Correct point-edits a historical attendance entry outside any session.
// The date must already be tracked; a correction never registers a new date.
func (svc *Service) Correct(courseID, studentID, date, newStatus string) (Correction, error) {
	if newStatus != StatusPresent && newStatus != StatusAbsent {
		return Correction{}, ErrInvalidStatus
	}
	crs, err := svc.repo.GetCourseByID(NormalizeID(courseID))
	if err != nil {
		return Correction{}, err
	}
	if !crs.HasDate(date) {
		return Correction{}, ErrNoRecordForDate
	}
	if !crs.HasStudent(studentID) {
		return Correction{}, ErrStudentNotFound
	}
	prev := crs.Status(date, studentID)
	if err := svc.repo.SetAttendance(crs.ID, date, studentID, newStatus); err != nil {
		return Correction{}, err
	}
	return Correction{
		CourseID:  crs.ID,
		StudentID: studentID,
		Date:      date,
		Previous:  prev,
		New:       newStatus,
	}, nil
}

// UndoLast reverts the most recent session write. It is a no-op (nil, nil) when no
// record exists; a record belonging to another course is rejected with ErrWrongCourse.
func (svc *Service) UndoLast(courseID string) (*Undo, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.lastTag == nil {
		return nil, nil
	}
	if svc.lastTag.courseID != NormalizeID(courseID) {
		return nil, ErrWrongCourse
	}
	lm := svc.lastTag
	if err := svc.repo.SetAttendance(lm.courseID, lm.date, lm.studentID, lm.previous); err != nil {
		return nil, err
	}
	svc.lastTag = nil
	return &Undo{
		CourseID:  lm.courseID,
		StudentID: lm.studentID,
		Date:      lm.date,
		Restored:  lm.previous,
	}, nil
}

func (svc *Service) setLastMark(courseID, studentID, date, previous string) {
	svc.mu.Lock()
	svc.lastTag = &lastMark{courseID: courseID, studentID: studentID, date: date, previous: previous}
	svc.mu.Unlock()
}

func today() string {
	return NowFunc().UTC().Format(DateFormat)
}
