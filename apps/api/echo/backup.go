package echoapi

import (
	"io/ioutil"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kncumilla-crypto/attendance-system/core/backup"
)

type backupApi struct {
	service *backup.Service
}

func registerBackupAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *backup.Service) {
	api := backupApi{service: svc}

	bg := g.Group("", jwt)
	bg.GET("/backup", api.backupExport)
	bg.POST("/restore", api.backupRestore)
	bg.POST("/clear", api.storeClear)
}

// Handlers

func (api *backupApi) backupExport(ctx echo.Context) error {
	b, err := api.service.Export()
	if err != nil {
		return err
	}
	filename := "attendance-backup-" + b.Timestamp.Format("2006-01-02") + ".json"
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+filename)
	return ctx.JSON(http.StatusOK, b)
}

// backupRestore replaces the whole course list with an uploaded backup file.
// A version mismatch requires `?confirm=true`; it is never silently migrated.
func (api *backupApi) backupRestore(ctx echo.Context) error {
	data, err := ioutil.ReadAll(ctx.Request().Body)
	if err != nil {
		return err
	}
	b, err := backup.Parse(data)
	if err != nil {
		return err
	}
	confirm, _ := strconv.ParseBool(ctx.QueryParam("confirm"))
	count, err := api.service.Restore(b, confirm)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, echo.Map{"restored_courses": count})
}

func (api *backupApi) storeClear(ctx echo.Context) error {
	data := new(ClearRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}
	if err := api.service.Clear(data.Confirm); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
