package model

import (
	"database/sql"
	"strings"
	"time"
)

type User struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt    time.Time `json:"-" db:"created_at"`
}

type Book struct {
	ID          int       `json:"id" db:"id"`
	ISBN13      string    `json:"isbn13" db:"isbn13"`
	Title       string    `json:"title" db:"title"`
	Author      string    `json:"author" db:"author"`
	PublishDate time.Time `json:"publishDate" db:"publish_date"`
}

type RentalStatus string

const (
	StatusActive   RentalStatus = "ACTIVE"
	StatusReturned RentalStatus = "RETURNED"
)

// Rental is append-mostly: created once, mutated exactly once when the
// return date is set. An unset return date means the book is out on loan.
type Rental struct {
	ID             int          `json:"-" db:"id"`
	RentalUID      string       `json:"id" db:"rental_uid"`
	BookID         int          `json:"bookId" db:"book_id"`
	UserID         int          `json:"userId" db:"user_id"`
	RentalDate     time.Time    `json:"rentalDate" db:"rental_date"`
	ReturnDeadline time.Time    `json:"returnDeadline" db:"return_deadline"`
	ReturnDate     sql.NullTime `json:"-" db:"return_date"`
}

func (r Rental) Status() RentalStatus {
	if r.ReturnDate.Valid {
		return StatusReturned
	}
	return StatusActive
}

// ActiveRental is a rental joined with its borrower, used for book detail.
type ActiveRental struct {
	Rental
	UserName string `db:"user_name"`
}

type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	var err error
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return err
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

type StartRentalRequest struct {
	BookID int `json:"bookId" validate:"required"`
}

type StartRentalResponse struct {
	ID             string    `json:"id"`
	BookID         int       `json:"bookId"`
	RentalDate     time.Time `json:"rentalDate"`
	ReturnDeadline time.Time `json:"returnDeadline"`
}

type ReturnRentalRequest struct {
	RentalID string `json:"rentalId" validate:"required"`
}

type ReturnRentalResponse struct {
	ID         string    `json:"id"`
	ReturnDate time.Time `json:"returnDate"`
}

type CurrentRental struct {
	RentalID       string    `json:"rentalId" db:"rental_uid"`
	BookID         int       `json:"bookId" db:"book_id"`
	BookName       string    `json:"bookName" db:"book_name"`
	RentalDate     time.Time `json:"rentalDate" db:"rental_date"`
	ReturnDeadline time.Time `json:"returnDeadline" db:"return_deadline"`
}

type CurrentRentalsResponse struct {
	RentalBooks []CurrentRental `json:"rentalBooks"`
}

type HistoryRental struct {
	RentalID   string    `json:"rentalId" db:"rental_uid"`
	BookID     int       `json:"bookId" db:"book_id"`
	BookName   string    `json:"bookName" db:"book_name"`
	RentalDate time.Time `json:"rentalDate" db:"rental_date"`
	ReturnDate time.Time `json:"returnDate" db:"return_date"`
}

type RentalHistoryResponse struct {
	RentalHistory []HistoryRental `json:"rentalHistory"`
}

type AdminCurrentRental struct {
	RentalID       string    `json:"rentalId" db:"rental_uid"`
	UserID         int       `json:"userId" db:"user_id"`
	UserName       string    `json:"userName" db:"user_name"`
	BookID         int       `json:"bookId" db:"book_id"`
	BookName       string    `json:"bookName" db:"book_name"`
	RentalDate     time.Time `json:"rentalDate" db:"rental_date"`
	ReturnDeadline time.Time `json:"returnDeadline" db:"return_deadline"`
}

type AdminCurrentRentalsResponse struct {
	RentalBooks []AdminCurrentRental `json:"rentalBooks"`
}

type UserCurrentRentalsResponse struct {
	UserID      int             `json:"userId"`
	UserName    string          `json:"userName"`
	RentalBooks []CurrentRental `json:"rentalBooks"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
}

type LoginRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Result  string `json:"result"`
	Token   string `json:"token"`
	IsAdmin bool   `json:"isAdmin"`
}

type BookListItem struct {
	ID       int    `json:"id" db:"id"`
	Title    string `json:"title" db:"title"`
	Author   string `json:"author" db:"author"`
	IsRental bool   `json:"isRental" db:"is_rental"`
}

type ListBooksResponse struct {
	Books   []BookListItem `json:"books"`
	MaxPage int            `json:"maxPage"`
}

type RentalInfo struct {
	UserName       string    `json:"userName"`
	RentalDate     time.Time `json:"rentalDate"`
	ReturnDeadline time.Time `json:"returnDeadline"`
}

type BookDetailResponse struct {
	Book
	RentalInfo *RentalInfo `json:"rentalInfo,omitempty"`
}

type CreateBookRequest struct {
	ISBN13      string `json:"isbn13" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	PublishDate Date   `json:"publishDate" validate:"required"`
}

type UpdateBookRequest struct {
	ISBN13      string `json:"isbn13" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	PublishDate Date   `json:"publishDate" validate:"required"`
}

const (
	EventRentalStarted  = "rental.started"
	EventRentalReturned = "rental.returned"
)

type RentalEvent struct {
	Type       string    `json:"type"`
	RentalUID  string    `json:"rentalUid"`
	BookID     int       `json:"bookId"`
	UserID     int       `json:"userId"`
	OccurredAt time.Time `json:"occurredAt"`
}
