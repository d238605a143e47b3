package handler

import (
	"net/http"
	"time"

	"github.com/bookhall/lending-service/internal/errs"
	"github.com/bookhall/lending-service/internal/model"
	"github.com/bookhall/lending-service/pkg/auth"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.userSvc.Register(c.Request().Context(), req); err != nil {
		if errors.Is(err, errs.ErrDuplicateUser) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "created"})
}

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userSvc.Authenticate(c.Request().Context(), req.Name, req.Password)
	if err != nil {
		if errors.Is(err, errs.ErrBadCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	token, err := auth.IssueToken(h.authCfg, auth.Identity{
		UserID:  user.ID,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
	}, time.Now())
	if err != nil {
		h.log.Error("issue token", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "token issue failed")
	}
	return c.JSON(http.StatusOK, model.LoginResponse{
		Result:  "OK",
		Token:   token,
		IsAdmin: user.IsAdmin,
	})
}

func (h *Handler) Check(c echo.Context) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "OK",
		"isAdmin": id.IsAdmin,
	})
}
