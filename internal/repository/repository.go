package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bookhall/lending-service/internal/errs"
	"github.com/bookhall/lending-service/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type Repository interface {
	CreateRental(ctx context.Context, bookID, userID int, rentalDate, returnDeadline time.Time) (model.Rental, error)
	MarkReturned(ctx context.Context, rentalUID string, userID int, returnDate time.Time) (model.Rental, error)
	ActiveRentalByBook(ctx context.Context, bookID int) (model.ActiveRental, error)
	CurrentRentals(ctx context.Context, userID int) ([]model.CurrentRental, error)
	RentalHistory(ctx context.Context, userID int) ([]model.HistoryRental, error)
	AllCurrentRentals(ctx context.Context) ([]model.AdminCurrentRental, error)

	ListBooks(ctx context.Context, page, size int) ([]model.BookListItem, int, error)
	GetBook(ctx context.Context, bookID int) (model.Book, error)
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, bookID int, req model.UpdateBookRequest) error

	CreateUser(ctx context.Context, name, email, passwordHash string) (model.User, error)
	GetUserByName(ctx context.Context, name string) (model.User, error)
	GetUserByID(ctx context.Context, userID int) (model.User, error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	rentalTableName = `rental`
	booksTableName  = `books`
	usersTableName  = `users`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// CreateRental inserts the rental in a single statement. The partial unique
// index on (book_id) where return_date is null arbitrates concurrent starts:
// the loser of the race gets a unique violation, reported as ErrConflict.
func (r *repository) CreateRental(ctx context.Context, bookID, userID int, rentalDate, returnDeadline time.Time) (model.Rental, error) {
	q, args, err := qb.Insert(rentalTableName).
		Columns("rental_uid", "book_id", "user_id", "rental_date", "return_deadline").
		Values(uuid.New(), bookID, userID, rentalDate, returnDeadline).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Rental{}, err
	}
	var rental model.Rental
	if err := r.db.GetContext(ctx, &rental, q, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return model.Rental{}, errs.ErrConflict
			case pgerrcode.ForeignKeyViolation:
				return model.Rental{}, errs.ErrNotFound
			}
		}
		r.log.Error("CreateRental", zap.String("q", q), zap.Any("args", args), zap.Error(err))
		return model.Rental{}, err
	}
	return rental, nil
}

// MarkReturned sets the return date once. The update is conditional on
// return_date being unset, so concurrent returns race on the database row,
// not on a read-then-write in Go.
func (r *repository) MarkReturned(ctx context.Context, rentalUID string, userID int, returnDate time.Time) (model.Rental, error) {
	q := fmt.Sprintf(`update %s
	set return_date = $3
	where rental_uid = $1 and user_id = $2 and return_date is null
	returning *`, rentalTableName)

	var rental model.Rental
	err := r.db.GetContext(ctx, &rental, q, rentalUID, userID, returnDate)
	if err == nil {
		return rental, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Rental{}, err
	}

	// No row updated: either the rental is already returned, or it does not
	// exist for this user. The lookup stays scoped to user_id so a foreign
	// rental is indistinguishable from a missing one.
	q, args, err := qb.Select("id", "rental_uid", "book_id", "user_id", "rental_date", "return_deadline", "return_date").
		From(rentalTableName).
		Where(sq.Eq{"rental_uid": rentalUID, "user_id": userID}).
		ToSql()
	if err != nil {
		return model.Rental{}, err
	}
	if err := r.db.GetContext(ctx, &rental, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Rental{}, errs.ErrNotFound
		}
		return model.Rental{}, err
	}
	return model.Rental{}, errs.ErrAlreadyReturned
}

func (r *repository) ActiveRentalByBook(ctx context.Context, bookID int) (model.ActiveRental, error) {
	q := fmt.Sprintf(`select r.id, r.rental_uid, r.book_id, r.user_id, r.rental_date, r.return_deadline, r.return_date,
	u.name as user_name
	from %s r
	join %s u on u.id = r.user_id
	where r.book_id = $1 and r.return_date is null`, rentalTableName, usersTableName)

	var rental model.ActiveRental
	if err := r.db.GetContext(ctx, &rental, q, bookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ActiveRental{}, errs.ErrNotFound
		}
		return model.ActiveRental{}, err
	}
	return rental, nil
}

func (r *repository) CurrentRentals(ctx context.Context, userID int) ([]model.CurrentRental, error) {
	q, args, err := qb.Select("r.rental_uid", "r.book_id", "b.title as book_name", "r.rental_date", "r.return_deadline").
		From(rentalTableName + " r").
		Join(fmt.Sprintf("%s b on b.id = r.book_id", booksTableName)).
		Where(sq.Eq{"r.user_id": userID}).
		Where("r.return_date is null").
		OrderBy("r.rental_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.CurrentRental, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) RentalHistory(ctx context.Context, userID int) ([]model.HistoryRental, error) {
	q, args, err := qb.Select("r.rental_uid", "r.book_id", "b.title as book_name", "r.rental_date", "r.return_date").
		From(rentalTableName + " r").
		Join(fmt.Sprintf("%s b on b.id = r.book_id", booksTableName)).
		Where(sq.Eq{"r.user_id": userID}).
		Where("r.return_date is not null").
		OrderBy("r.rental_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.HistoryRental, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) AllCurrentRentals(ctx context.Context) ([]model.AdminCurrentRental, error) {
	q, args, err := qb.Select("r.rental_uid", "r.user_id", "u.name as user_name",
		"r.book_id", "b.title as book_name", "r.rental_date", "r.return_deadline").
		From(rentalTableName + " r").
		Join(fmt.Sprintf("%s b on b.id = r.book_id", booksTableName)).
		Join(fmt.Sprintf("%s u on u.id = r.user_id", usersTableName)).
		Where("r.return_date is null").
		OrderBy("r.rental_date").
		ToSql()
	if err != nil {
		return nil, err
	}
	items := make([]model.AdminCurrentRental, 0)
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}
