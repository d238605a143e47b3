package handler

import (
	"context"

	"github.com/bookhall/lending-service/internal/model"
	"github.com/bookhall/lending-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LendingService interface {
	StartRental(ctx context.Context, bookID, userID int) (model.StartRentalResponse, error)
	ReturnRental(ctx context.Context, rentalUID string, userID int) (model.ReturnRentalResponse, error)
	CurrentRentals(ctx context.Context, userID int) (model.CurrentRentalsResponse, error)
	RentalHistory(ctx context.Context, userID int) (model.RentalHistoryResponse, error)
	AllCurrentRentals(ctx context.Context) (model.AdminCurrentRentalsResponse, error)
	UserCurrentRentals(ctx context.Context, userID int) (model.UserCurrentRentalsResponse, error)
}

type CatalogService interface {
	ListBooks(ctx context.Context, page int) (model.ListBooksResponse, error)
	GetBookDetail(ctx context.Context, bookID int) (model.BookDetailResponse, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, bookID int, req model.UpdateBookRequest) error
}

type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) error
	Authenticate(ctx context.Context, name, password string) (model.User, error)
}

var (
	_ LendingService = (*service.Service)(nil)
	_ CatalogService = (*service.Service)(nil)
	_ UserService    = (*service.Service)(nil)
)
