package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bookhall/lending-service/internal/errs"
	"github.com/bookhall/lending-service/internal/handler"
	"github.com/bookhall/lending-service/internal/model"
	"github.com/bookhall/lending-service/pkg/auth"
	"github.com/bookhall/lending-service/pkg/validate"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/bookhall/lending-service/internal/handler/mocks"
)

func withIdentity(id auth.Identity) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(auth.SetIdentity(req.Context(), id)))
			return next(c)
		}
	}
}

func TestHandler_StartRental(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLendingService)

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"bookId":42}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					StartRental(gomock.Any(), 42, 7).
					Return(model.StartRentalResponse{
						ID:             "a2d12f54-8fb6-4d0a-b79f-9a1a5b30f837",
						BookID:         42,
						RentalDate:     t0,
						ReturnDeadline: t0.AddDate(0, 0, 7),
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":"a2d12f54-8fb6-4d0a-b79f-9a1a5b30f837","bookId":42,"rentalDate":"2024-01-01T00:00:00Z","returnDeadline":"2024-01-08T00:00:00Z"}`,
			},
		},
		{
			name: "err. currently on loan",
			body: `{"bookId":42}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					StartRental(gomock.Any(), 42, 7).
					Return(model.StartRentalResponse{}, errs.ErrConflict)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"currently on loan"}`,
			},
		},
		{
			name: "err. unknown book",
			body: `{"bookId":404}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					StartRental(gomock.Any(), 404, 7).
					Return(model.StartRentalResponse{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:         "err. bookId required",
			body:         `{}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "err. internal",
			body: `{"bookId":42}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					StartRental(gomock.Any(), 42, 7).
					Return(model.StartRentalResponse{}, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLendingService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, nil, nil, auth.Config{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/rental/start", h.StartRental, withIdentity(auth.Identity{UserID: 7, Name: "alice"}))

			r := httptest.NewRequest(http.MethodPost, "/rental/start", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_ReturnRental(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLendingService)

	const rentalUID = "a2d12f54-8fb6-4d0a-b79f-9a1a5b30f837"

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"rentalId":"` + rentalUID + `"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					ReturnRental(gomock.Any(), rentalUID, 7).
					Return(model.ReturnRentalResponse{
						ID:         rentalUID,
						ReturnDate: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"result":"OK (Returned)"}`,
			},
		},
		{
			name: "err. not found or not owned",
			body: `{"rentalId":"` + rentalUID + `"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					ReturnRental(gomock.Any(), rentalUID, 7).
					Return(model.ReturnRentalResponse{}, errs.ErrNotFound)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name: "err. already returned",
			body: `{"rentalId":"` + rentalUID + `"}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					ReturnRental(gomock.Any(), rentalUID, 7).
					Return(model.ReturnRentalResponse{}, errs.ErrAlreadyReturned)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"already returned"}`,
			},
		},
		{
			name:         "err. rentalId required",
			body:         `{}`,
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLendingService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, nil, nil, auth.Config{}, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.PUT("/rental/return", h.ReturnRental, withIdentity(auth.Identity{UserID: 7, Name: "alice"}))

			r := httptest.NewRequest(http.MethodPut, "/rental/return", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_CurrentRentals(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLendingService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(svc, nil, nil, auth.Config{}, log)

	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.EXPECT().
		CurrentRentals(gomock.Any(), 7).
		Return(model.CurrentRentalsResponse{
			RentalBooks: []model.CurrentRental{
				{
					RentalID:       "a2d12f54-8fb6-4d0a-b79f-9a1a5b30f837",
					BookID:         42,
					BookName:       "The Go Programming Language",
					RentalDate:     t0,
					ReturnDeadline: t0.AddDate(0, 0, 7),
				},
			},
		}, nil)

	e := echo.New()
	e.GET("/rental/current", h.CurrentRentals, withIdentity(auth.Identity{UserID: 7, Name: "alice"}))

	r := httptest.NewRequest(http.MethodGet, "/rental/current", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t,
		`{"rentalBooks":[{"rentalId":"a2d12f54-8fb6-4d0a-b79f-9a1a5b30f837","bookId":42,"bookName":"The Go Programming Language","rentalDate":"2024-01-01T00:00:00Z","returnDeadline":"2024-01-08T00:00:00Z"}]}`,
		strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_AdminUserCurrentRentals(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLendingService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(svc, nil, nil, auth.Config{}, log)

	svc.EXPECT().
		UserCurrentRentals(gomock.Any(), 9).
		Return(model.UserCurrentRentalsResponse{}, errs.ErrNotFound)

	e := echo.New()
	adminID := auth.Identity{UserID: 1, Name: "root", IsAdmin: true}
	e.GET("/admin/rental/current/:uid", h.AdminUserCurrentRentals, withIdentity(adminID), auth.Admin)

	r := httptest.NewRequest(http.MethodGet, "/admin/rental/current/9", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_AdminForbidden(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	svc := service_mocks.NewMockLendingService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(svc, nil, nil, auth.Config{}, log)

	e := echo.New()
	userID := auth.Identity{UserID: 7, Name: "alice", IsAdmin: false}
	e.GET("/admin/rental/current", h.AdminCurrentRentals, withIdentity(userID), auth.Admin)

	r := httptest.NewRequest(http.MethodGet, "/admin/rental/current", http.NoBody)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
}
