package handler

import (
	"net/http"

	md "github.com/bookhall/lending-service/pkg/middleware"

	"github.com/bookhall/lending-service/internal/errs"
	"github.com/bookhall/lending-service/internal/model"
	"github.com/bookhall/lending-service/pkg/auth"
	"github.com/bookhall/lending-service/pkg/validate"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

type Handler struct {
	lendingSvc LendingService
	catalogSvc CatalogService
	userSvc    UserService
	authCfg    auth.Config
	log        *zap.Logger
}

func New(lendingSvc LendingService, catalogSvc CatalogService, userSvc UserService, authCfg auth.Config, log *zap.Logger) *Handler {
	h := &Handler{
		lendingSvc: lendingSvc,
		catalogSvc: catalogSvc,
		userSvc:    userSvc,
		authCfg:    authCfg,
		log:        log,
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.POST("/users/register", h.Register)
	api.POST("/users/login", h.Login)

	user := api.Group("", auth.User(h.authCfg))
	user.GET("/users/check", h.Check)

	user.GET("/books", h.ListBooks)
	user.GET("/books/:id", h.GetBook)

	user.POST("/rental/start", h.StartRental)
	user.PUT("/rental/return", h.ReturnRental)
	user.GET("/rental/current", h.CurrentRentals)
	user.GET("/rental/history", h.RentalHistory)

	admin := user.Group("/admin", auth.Admin)
	admin.POST("/books", h.CreateBook)
	admin.PUT("/books/:id", h.UpdateBook)
	admin.GET("/rental/current", h.AdminCurrentRentals)
	admin.GET("/rental/current/:uid", h.AdminUserCurrentRentals)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) StartRental(c echo.Context) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	var req model.StartRentalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	resp, err := h.lendingSvc.StartRental(ctx, req.BookID, id.UserID)
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) ReturnRental(c echo.Context) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	var req model.ReturnRentalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if _, err := h.lendingSvc.ReturnRental(ctx, req.RentalID, id.UserID); err != nil {
		// Not-found covers both a missing rental and another user's rental.
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		if errors.Is(err, errs.ErrAlreadyReturned) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"result": "OK (Returned)"})
}

func (h *Handler) CurrentRentals(c echo.Context) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	resp, err := h.lendingSvc.CurrentRentals(c.Request().Context(), id.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) RentalHistory(c echo.Context) error {
	id, err := auth.MustIdentity(c)
	if err != nil {
		return err
	}
	resp, err := h.lendingSvc.RentalHistory(c.Request().Context(), id.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resp)
}
