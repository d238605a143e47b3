package service

import (
	"context"
	"errors"

	"github.com/bookhall/lending-service/internal/errs"
	"github.com/bookhall/lending-service/internal/model"

	"golang.org/x/sync/errgroup"
)

const booksPerPage = 10

func (s *Service) ListBooks(ctx context.Context, page int) (model.ListBooksResponse, error) {
	if page < 1 {
		page = 1
	}
	books, total, err := s.repo.ListBooks(ctx, page, booksPerPage)
	if err != nil {
		return model.ListBooksResponse{}, err
	}
	maxPage := (total + booksPerPage - 1) / booksPerPage
	return model.ListBooksResponse{
		Books:   books,
		MaxPage: maxPage,
	}, nil
}

// GetBookDetail returns the book plus, when it is out on loan, the borrower
// and deadline. The two lookups are independent reads.
func (s *Service) GetBookDetail(ctx context.Context, bookID int) (model.BookDetailResponse, error) {
	var (
		book   model.Book
		active model.ActiveRental
		onLoan = true
	)
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		var err error
		book, err = s.repo.GetBook(ctx, bookID)
		return err
	})
	gg.Go(func() error {
		var err error
		active, err = s.repo.ActiveRentalByBook(ctx, bookID)
		if errors.Is(err, errs.ErrNotFound) {
			onLoan = false
			return nil
		}
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.BookDetailResponse{}, err
	}

	resp := model.BookDetailResponse{Book: book}
	if onLoan {
		resp.RentalInfo = &model.RentalInfo{
			UserName:       active.UserName,
			RentalDate:     active.RentalDate,
			ReturnDeadline: active.ReturnDeadline,
		}
	}
	return resp, nil
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) UpdateBook(ctx context.Context, bookID int, req model.UpdateBookRequest) error {
	return s.repo.UpdateBook(ctx, bookID, req)
}
