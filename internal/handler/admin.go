package handler

import (
	"net/http"
	"strconv"

	"github.com/bookhall/lending-service/internal/errs"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

func (h *Handler) AdminCurrentRentals(c echo.Context) error {
	resp, err := h.lendingSvc.AllCurrentRentals(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) AdminUserCurrentRentals(c echo.Context) error {
	userID, err := strconv.Atoi(c.Param("uid"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.New("user id is invalid"))
	}
	resp, err := h.lendingSvc.UserCurrentRentals(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
