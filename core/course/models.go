package course

import (
	"sort"
	"time"
)

// Attendance statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Cohorts: a year label ("1".."4") or the advanced label.
// An advanced course must carry a non-empty Group; any other cohort must not.
const (
	CohortFirstYear  = "1"
	CohortSecondYear = "2"
	CohortThirdYear  = "3"
	CohortFourthYear = "4"
	CohortAdvanced   = "advanced"
)

// DateFormat is the calendar-day key format used in Course.Dates and Course.Attendance.
const DateFormat = "2006-01-02"

type (
	Student struct {
		ID           string    `json:"id"`
		Name         string    `json:"name"`
		Registration string    `json:"registration,omitempty"`
		Added        time.Time `json:"added"` // UTC
	}

	Course struct {
		ID      string `json:"id"` // unique, uppercase, immutable
		Name    string `json:"name"`
		Teacher string `json:"teacher"`
		Cohort  string `json:"cohort"`
		Group   string `json:"group,omitempty"` // set iff Cohort == CohortAdvanced

		Students []Student `json:"students"`
		// Dates holds every day a session was started, strictly ascending.
		Dates []string `json:"dates"`
		// Attendance maps date -> student id -> status.
		// A student missing under a date was not enrolled yet on that day;
		// lookups default to absent without synthesizing an entry.
		Attendance map[string]map[string]string `json:"attendance"`

		Created time.Time `json:"created"` // UTC, set once
	}

	// Tally is a per-student attendance count over a course's tracked dates.
	Tally struct {
		Present int
		Absent  int
	}
)

// Status returns the recorded status of a student on a date, defaulting to absent.
func (c Course) Status(date, studentID string) string {
	if day, ok := c.Attendance[date]; ok {
		if status, ok := day[studentID]; ok {
			return status
		}
	}
	return StatusAbsent
}

func (c Course) HasDate(date string) bool {
	i := sort.SearchStrings(c.Dates, date)
	return i < len(c.Dates) && c.Dates[i] == date
}

// AddDate inserts a date keeping Dates strictly ascending with no duplicates.
func (c *Course) AddDate(date string) {
	i := sort.SearchStrings(c.Dates, date)
	if i < len(c.Dates) && c.Dates[i] == date {
		return
	}
	c.Dates = append(c.Dates, "")
	copy(c.Dates[i+1:], c.Dates[i:])
	c.Dates[i] = date
}

func (c Course) StudentByID(id string) (Student, bool) {
	for _, s := range c.Students {
		if s.ID == id {
			return s, true
		}
	}
	return Student{}, false
}

func (c Course) HasStudent(id string) bool {
	_, ok := c.StudentByID(id)
	return ok
}

// StudentTally counts a student's present/absent days over all tracked dates.
func (c Course) StudentTally(studentID string) Tally {
	var t Tally
	for _, d := range c.Dates {
		if c.Status(d, studentID) == StatusPresent {
			t.Present++
		} else {
			t.Absent++
		}
	}
	return t
}

// PresentOn counts students marked present on a date.
func (c Course) PresentOn(date string) int {
	var n int
	for _, s := range c.Students {
		if c.Status(date, s.ID) == StatusPresent {
			n++
		}
	}
	return n
}

// OverallPercentage is the present ratio over all students and tracked dates, in percent.
func (c Course) OverallPercentage() float64 {
	classes := len(c.Dates)
	students := len(c.Students)
	if classes == 0 || students == 0 {
		return 0
	}
	var presents int
	for _, d := range c.Dates {
		presents += c.PresentOn(d)
	}
	return float64(presents) / float64(students*classes) * 100
}

// Clone returns a deep copy so callers cannot mutate stored state through shared maps.
func (c Course) Clone() Course {
	dup := c
	dup.Students = append([]Student(nil), c.Students...)
	dup.Dates = append([]string(nil), c.Dates...)
	dup.Attendance = make(map[string]map[string]string, len(c.Attendance))
	for date, day := range c.Attendance {
		entries := make(map[string]string, len(day))
		for id, status := range day {
			entries[id] = status
		}
		dup.Attendance[date] = entries
	}
	return dup
}

// Repair back-fills the zero values an old or foreign payload may be missing.
func (c *Course) Repair() {
	if c.Students == nil {
		c.Students = []Student{}
	}
	if c.Dates == nil {
		c.Dates = []string{}
	}
	sort.Strings(c.Dates)
	dates := c.Dates[:0]
	for _, d := range c.Dates {
		if len(dates) == 0 || dates[len(dates)-1] != d {
			dates = append(dates, d)
		}
	}
	c.Dates = dates
	if c.Attendance == nil {
		c.Attendance = make(map[string]map[string]string)
	}
	for _, d := range c.Dates {
		if c.Attendance[d] == nil {
			c.Attendance[d] = make(map[string]string)
		}
	}
}
