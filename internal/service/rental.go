package service

import (
	"context"
	"time"

	"github.com/bookhall/lending-service/internal/errs"
	"github.com/bookhall/lending-service/internal/model"

	"golang.org/x/sync/errgroup"
)

// rentalPeriodDays is fixed at rental creation and never recomputed.
const rentalPeriodDays = 7

// ReturnDeadline computes the return deadline in calendar days, so the
// deadline is stable across DST transitions.
func ReturnDeadline(rentalDate time.Time) time.Time {
	return rentalDate.AddDate(0, 0, rentalPeriodDays)
}

// StartRental reserves the book if it is free. The availability check and
// the insert are one atomic store operation; a Conflict is a definite
// business outcome and is never retried here.
func (s *Service) StartRental(ctx context.Context, bookID, userID int) (model.StartRentalResponse, error) {
	now := s.clock.Now()
	rental, err := s.repo.CreateRental(ctx, bookID, userID, now, ReturnDeadline(now))
	if err != nil {
		return model.StartRentalResponse{}, err
	}
	s.publishEvent(model.EventRentalStarted, rental, now)
	return model.StartRentalResponse{
		ID:             rental.RentalUID,
		BookID:         rental.BookID,
		RentalDate:     rental.RentalDate,
		ReturnDeadline: rental.ReturnDeadline,
	}, nil
}

// ReturnRental marks the rental returned. Ownership is baked into the store
// lookup, so a foreign rental reports as not found rather than forbidden.
func (s *Service) ReturnRental(ctx context.Context, rentalUID string, userID int) (model.ReturnRentalResponse, error) {
	now := s.clock.Now()
	rental, err := s.repo.MarkReturned(ctx, rentalUID, userID, now)
	if err != nil {
		return model.ReturnRentalResponse{}, err
	}
	s.publishEvent(model.EventRentalReturned, rental, now)
	return model.ReturnRentalResponse{
		ID:         rental.RentalUID,
		ReturnDate: rental.ReturnDate.Time,
	}, nil
}

func (s *Service) CurrentRentals(ctx context.Context, userID int) (model.CurrentRentalsResponse, error) {
	items, err := s.repo.CurrentRentals(ctx, userID)
	if err != nil {
		return model.CurrentRentalsResponse{}, err
	}
	return model.CurrentRentalsResponse{RentalBooks: items}, nil
}

func (s *Service) RentalHistory(ctx context.Context, userID int) (model.RentalHistoryResponse, error) {
	items, err := s.repo.RentalHistory(ctx, userID)
	if err != nil {
		return model.RentalHistoryResponse{}, err
	}
	return model.RentalHistoryResponse{RentalHistory: items}, nil
}

func (s *Service) AllCurrentRentals(ctx context.Context) (model.AdminCurrentRentalsResponse, error) {
	items, err := s.repo.AllCurrentRentals(ctx)
	if err != nil {
		return model.AdminCurrentRentalsResponse{}, err
	}
	return model.AdminCurrentRentalsResponse{RentalBooks: items}, nil
}

// UserCurrentRentals is the admin view for one user. Reports not found when
// the user has no active rentals.
func (s *Service) UserCurrentRentals(ctx context.Context, userID int) (model.UserCurrentRentalsResponse, error) {
	var (
		user    model.User
		rentals []model.CurrentRental
	)
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		var err error
		user, err = s.repo.GetUserByID(ctx, userID)
		return err
	})
	gg.Go(func() error {
		var err error
		rentals, err = s.repo.CurrentRentals(ctx, userID)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.UserCurrentRentalsResponse{}, err
	}
	if len(rentals) == 0 {
		return model.UserCurrentRentalsResponse{}, errs.ErrNotFound
	}
	return model.UserCurrentRentalsResponse{
		UserID:      user.ID,
		UserName:    user.Name,
		RentalBooks: rentals,
	}, nil
}
