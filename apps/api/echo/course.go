package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"

	"github.com/kncumilla-crypto/attendance-system/core/course"
)

type courseApi struct {
	service *course.Service
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *course.Service) {
	api := courseApi{service: svc}

	cg := g.Group("/courses", jwt)
	cg.GET("", api.courseQuery)
	cg.POST("", api.courseCreate)
	cg.GET("/:id", api.courseRetrieve)
	cg.DELETE("/:id", api.courseDestroy)

	cg.POST("/:id/students", api.studentCreate)
	cg.POST("/:id/students/import", api.studentImport)

	cg.POST("/:id/session", api.sessionStart)
	cg.GET("/:id/session", api.sessionRetrieve)
	cg.POST("/:id/session/mark", api.sessionAction)
	cg.POST("/:id/session/undo", api.sessionUndo)
	cg.DELETE("/:id/session", api.sessionCancel)

	cg.GET("/:id/attendance", api.attendanceQuery)
	cg.PUT("/:id/attendance", api.attendanceCorrect)

	cg.GET("/:id/export.csv", api.exportCSV)
	cg.GET("/:id/export.xlsx", api.exportXLSX)
	cg.POST("/:id/report", api.reportEmail)
}

// Handlers

func (api *courseApi) courseQuery(ctx echo.Context) error {
	courses, err := api.service.QueryAll()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) courseCreate(ctx echo.Context) error {
	data := new(course.NewCourse)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	crs, err := api.service.Create(*data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, crs)
}

func (api *courseApi) courseRetrieve(ctx echo.Context) error {
	crs, err := api.service.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) courseDestroy(ctx echo.Context) error {
	if err := api.service.Delete(ctx.Param("id")); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) studentCreate(ctx echo.Context) error {
	data := new(course.NewStudent)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	std, err := api.service.AddStudent(ctx.Param("id"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, std)
}

// studentImport merges a delimited roster (request body) into the course.
func (api *courseApi) studentImport(ctx echo.Context) error {
	res, err := api.service.ImportStudents(ctx.Param("id"), ctx.Request().Body)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

// Session lifecycle

func (api *courseApi) sessionStart(ctx echo.Context) error {
	data := new(SessionStartRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	sess, err := api.service.StartSession(ctx.Param("id"), data.Resume)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, newSessionResponse(sess))
}

func (api *courseApi) sessionRetrieve(ctx echo.Context) error {
	sess, err := api.activeSession(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *courseApi) sessionAction(ctx echo.Context) error {
	data := new(SessionActionRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	sess, err := api.activeSession(ctx)
	if err != nil {
		return err
	}
	switch data.Action {
	case "mark":
		err = sess.Mark(data.Status)
	case "skip":
		err = sess.Skip()
	case "markall":
		err = sess.MarkAll(data.Status)
	}
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newSessionResponse(sess))
}

func (api *courseApi) sessionUndo(ctx echo.Context) error {
	undo, err := api.service.UndoLast(ctx.Param("id"))
	if err != nil {
		return err
	}
	if undo == nil {
		return ctx.NoContent(http.StatusNoContent) // nothing to undo
	}
	return ctx.JSON(http.StatusOK, undo)
}

func (api *courseApi) sessionCancel(ctx echo.Context) error {
	sess, err := api.activeSession(ctx)
	if err != nil {
		return err
	}
	sess.Cancel()
	return ctx.NoContent(http.StatusNoContent)
}

func (api *courseApi) activeSession(ctx echo.Context) (*course.Session, error) {
	sess := api.service.ActiveSession()
	if sess == nil || sess.CourseID() != course.NormalizeID(ctx.Param("id")) {
		return nil, course.ErrSessionNotRunning
	}
	return sess, nil
}

// Corrections

func (api *courseApi) attendanceQuery(ctx echo.Context) error {
	records, err := api.service.Query(ctx.Param("id"), ctx.QueryParam("date"), ctx.QueryParam("filter"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *courseApi) attendanceCorrect(ctx echo.Context) error {
	data := new(CorrectRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	corr, err := api.service.Correct(ctx.Param("id"), data.StudentID, data.Date, data.Status)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, corr)
}

// Projections

func (api *courseApi) exportCSV(ctx echo.Context) error {
	crs, err := api.service.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+course.ExportFilename(crs, "csv"))
	ctx.Response().Header().Set(echo.HeaderContentType, "text/csv")
	ctx.Response().WriteHeader(http.StatusOK)
	return course.WriteCSV(crs, ctx.Response())
}

func (api *courseApi) exportXLSX(ctx echo.Context) error {
	crs, err := api.service.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+course.ExportFilename(crs, "xlsx"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().WriteHeader(http.StatusOK)
	return course.WriteXLSX(crs, ctx.Response())
}

func (api *courseApi) reportEmail(ctx echo.Context) error {
	data := new(ReportRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	to := make([]mail.Address, 0, len(data.To))
	for _, addr := range data.To {
		to = append(to, mail.Address{Address: addr})
	}
	if err := api.service.EmailReport(ctx.Param("id"), to); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusAccepted)
}
