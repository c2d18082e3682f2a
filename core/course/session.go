package course

import "errors"

var (
	ErrSessionActive     = errors.New("an attendance session is already running")
	ErrSessionExists     = errors.New("attendance was already taken today; resume to edit in place")
	ErrSessionNotRunning = errors.New("no attendance session is running")
)

type SessionState int

const (
	SessionIdle SessionState = iota
	SessionRunning
	SessionCompleted
	SessionCancelled
)

func (s SessionState) String() string {
	switch s {
	case SessionRunning:
		return "running"
	case SessionCompleted:
		return "completed"
	case SessionCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// Session is one traversal of a course roster for a single date. It holds only a
// cursor over a roster snapshot taken at start; every decision writes through the
// store immediately, so a cancelled session keeps the marks already committed.
type Session struct {
	svc      *Service
	courseID string
	date     string
	students []Student
	cursor   int
	state    SessionState
}

func (s *Session) CourseID() string    { return s.courseID }
func (s *Session) Date() string        { return s.date }
func (s *Session) State() SessionState { return s.state }
func (s *Session) Cursor() int         { return s.cursor }
func (s *Session) Total() int          { return len(s.students) }

// Current returns the student at the cursor, or false once the traversal is done.
func (s *Session) Current() (Student, bool) {
	if s.state != SessionRunning || s.cursor >= len(s.students) {
		return Student{}, false
	}
	return s.students[s.cursor], true
}

// StartSession begins (or, with resume, re-opens) today's attendance for a course.
// Starting a course whose dates already include today without resume fails with
// ErrSessionExists so the caller can confirm editing in place.
func (svc *Service) StartSession(courseID string, resume bool) (*Session, error) {
	crs, err := svc.repo.GetCourseByID(NormalizeID(courseID))
	if err != nil {
		return nil, err
	}
	if len(crs.Students) == 0 {
		return nil, ErrEmptyRoster
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.active != nil && svc.active.state == SessionRunning {
		return nil, ErrSessionActive
	}

	date := today()
	if crs.HasDate(date) && !resume {
		return nil, ErrSessionExists
	}
	crs.AddDate(date)
	if crs.Attendance == nil {
		crs.Attendance = make(map[string]map[string]string)
	}
	if crs.Attendance[date] == nil {
		entries := make(map[string]string, len(crs.Students))
		for _, std := range crs.Students {
			entries[std.ID] = StatusAbsent
		}
		crs.Attendance[date] = entries
	}
	if _, err = svc.repo.UpdateCourse(crs); err != nil {
		return nil, err
	}

	sess := &Session{
		svc:      svc,
		courseID: crs.ID,
		date:     date,
		students: append([]Student(nil), crs.Students...),
		state:    SessionRunning,
	}
	svc.active = sess
	return sess, nil
}

// ActiveSession returns the running session, if any.
func (svc *Service) ActiveSession() *Session {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.active != nil && svc.active.state == SessionRunning {
		return svc.active
	}
	return nil
}

// Mark writes the status for the student at the cursor and advances. The write is
// durable before Mark returns; reaching the end of the roster completes the session.
func (s *Session) Mark(status string) error {
	if s.state != SessionRunning {
		return ErrSessionNotRunning
	}
	if status != StatusPresent && status != StatusAbsent {
		return ErrInvalidStatus
	}
	std := s.students[s.cursor]

	crs, err := s.svc.repo.GetCourseByID(s.courseID)
	if err != nil {
		return err
	}
	prev := crs.Status(s.date, std.ID)
	if err := s.svc.repo.SetAttendance(s.courseID, s.date, std.ID, status); err != nil {
		return err
	}
	s.svc.setLastMark(s.courseID, std.ID, s.date, prev)

	s.advance()
	return nil
}

// Skip advances without writing, leaving the pre-seeded default in place.
func (s *Session) Skip() error {
	if s.state != SessionRunning {
		return ErrSessionNotRunning
	}
	s.advance()
	return nil
}

// MarkAll writes status for every remaining student and completes the session.
func (s *Session) MarkAll(status string) error {
	if s.state != SessionRunning {
		return ErrSessionNotRunning
	}
	if status != StatusPresent && status != StatusAbsent {
		return ErrInvalidStatus
	}
	crs, err := s.svc.repo.GetCourseByID(s.courseID)
	if err != nil {
		return err
	}
	for ; s.cursor < len(s.students); s.cursor++ {
		std := s.students[s.cursor]
		prev := crs.Status(s.date, std.ID)
		if err := s.svc.repo.SetAttendance(s.courseID, s.date, std.ID, status); err != nil {
			return err
		}
		s.svc.setLastMark(s.courseID, std.ID, s.date, prev)
	}
	s.complete(SessionCompleted)
	return nil
}

// Cancel stops further traversal. Marks already written stay committed.
func (s *Session) Cancel() {
	if s.state != SessionRunning {
		return
	}
	s.complete(SessionCancelled)
}

func (s *Session) advance() {
	s.cursor++
	if s.cursor >= len(s.students) {
		s.complete(SessionCompleted)
	}
}

func (s *Session) complete(state SessionState) {
	s.state = state
	s.svc.mu.Lock()
	if s.svc.active == s {
		s.svc.active = nil
	}
	s.svc.mu.Unlock()
}
