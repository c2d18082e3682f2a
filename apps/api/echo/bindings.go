package echoapi

import (
	"github.com/kncumilla-crypto/attendance-system/core"
	"github.com/kncumilla-crypto/attendance-system/core/course"
)

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Name  string `json:"name"`
	}

	AccountResponse struct {
		Username   string `json:"username"`
		Name       string `json:"name"`
		LoginCount int    `json:"login_count"`
		LastLogin  string `json:"last_login,omitempty"`
		CreatedAt  string `json:"created_at"`
	}

	SessionStartRequest struct {
		// Resume confirms editing an already-recorded day in place.
		Resume bool `json:"resume"`
	}

	SessionActionRequest struct {
		Action string `json:"action" validate:"required,oneof=mark skip markall"`
		Status string `json:"status"`
	}

	SessionResponse struct {
		CourseID string          `json:"course_id"`
		Date     string          `json:"date"`
		State    string          `json:"state"`
		Cursor   int             `json:"cursor"`
		Total    int             `json:"total"`
		Current  *course.Student `json:"current,omitempty"`
	}

	CorrectRequest struct {
		StudentID string `json:"student_id" validate:"required"`
		Date      string `json:"date" validate:"required"`
		Status    string `json:"status" validate:"required,oneof=present absent"`
	}

	ReportRequest struct {
		To []string `json:"to" validate:"required,min=1,dive,email"`
	}

	ClearRequest struct {
		Confirm string `json:"confirm" validate:"required"`
	}
)

func (r LoginRequest) Validate() error         { return core.Validate.Struct(r) }
func (r SessionActionRequest) Validate() error { return core.Validate.Struct(r) }
func (r CorrectRequest) Validate() error       { return core.Validate.Struct(r) }
func (r ReportRequest) Validate() error        { return core.Validate.Struct(r) }
func (r ClearRequest) Validate() error         { return core.Validate.Struct(r) }

func newSessionResponse(s *course.Session) SessionResponse {
	resp := SessionResponse{
		CourseID: s.CourseID(),
		Date:     s.Date(),
		State:    s.State().String(),
		Cursor:   s.Cursor(),
		Total:    s.Total(),
	}
	if std, ok := s.Current(); ok {
		resp.Current = &std
	}
	return resp
}
