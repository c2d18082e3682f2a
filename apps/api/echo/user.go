package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kncumilla-crypto/attendance-system/core/user"
)

type userApi struct {
	service *user.Service
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *user.Service) {
	api := userApi{service: svc}

	ug := g.Group("/accounts")

	// un-authed endpoints
	ug.POST("/login", api.accountLogin)

	// authed endpoints
	ag := ug.Group("", jwt)
	ag.GET("/me", api.accountRetrieve)
}

// Handlers

func (api *userApi) accountLogin(ctx echo.Context) error {
	data := new(LoginRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(data.Username, data.Password, api.service)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Name: claims.Name})
}

func (api *userApi) accountRetrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}
	usr, err := api.service.GetByUsername(claims.Username)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, newAccountResponse(usr))
}

func newAccountResponse(usr user.User) AccountResponse {
	resp := AccountResponse{
		Username:   usr.Username,
		Name:       usr.Name,
		LoginCount: usr.LoginCount,
		CreatedAt:  usr.CreatedAt.Format(time.RFC3339),
	}
	if !usr.LastLogin.IsZero() {
		resp.LastLogin = usr.LastLogin.Format(time.RFC3339)
	}
	return resp
}
