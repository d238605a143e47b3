package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/bookhall/lending-service/internal/errs"
	"github.com/bookhall/lending-service/internal/model"
	"github.com/bookhall/lending-service/internal/service"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newFakeStore()
	svc := service.NewService(store, zap.NewExample())

	req := model.RegisterRequest{Name: "alice", Password: "s3cret", Email: "alice@example.com"}
	require.NoError(t, svc.Register(ctx, req))

	// duplicate name is rejected
	err := svc.Register(ctx, req)
	require.ErrorIs(t, err, errs.ErrDuplicateUser)

	user, err := svc.Authenticate(ctx, "alice", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "alice", user.Name)
	require.NotEqual(t, "s3cret", user.PasswordHash)

	_, err = svc.Authenticate(ctx, "alice", "wrong")
	require.ErrorIs(t, err, errs.ErrBadCredentials)

	// unknown user reports the same way as a bad password
	_, err = svc.Authenticate(ctx, "bob", "s3cret")
	require.ErrorIs(t, err, errs.ErrBadCredentials)
}

func TestUserCurrentRentals(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newFakeStore()
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := service.NewService(store, zap.NewExample(), service.WithClock(fixedClock{t: t0}))

	require.NoError(t, svc.Register(ctx, model.RegisterRequest{Name: "alice", Password: "pw", Email: "a@example.com"}))

	// no active rentals: reported as not found
	_, err := svc.UserCurrentRentals(ctx, 1)
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = svc.StartRental(ctx, 42, 1)
	require.NoError(t, err)

	resp, err := svc.UserCurrentRentals(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, resp.UserID)
	require.Equal(t, "alice", resp.UserName)
	require.Len(t, resp.RentalBooks, 1)
	require.Equal(t, 42, resp.RentalBooks[0].BookID)
}
