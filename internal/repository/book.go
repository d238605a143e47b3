package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bookhall/lending-service/internal/errs"
	"github.com/bookhall/lending-service/internal/model"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"
)

func (r *repository) ListBooks(ctx context.Context, page, size int) ([]model.BookListItem, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, fmt.Sprintf(`select count(*) from %s`, booksTableName)).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := qb.Select("b.id", "b.title", "b.author",
		fmt.Sprintf("exists(select 1 from %s r where r.book_id = b.id and r.return_date is null) as is_rental", rentalTableName)).
		From(booksTableName + " b").
		OrderBy("b.id")

	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, 0, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.BookListItem, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

func (r *repository) GetBook(ctx context.Context, bookID int) (model.Book, error) {
	query, args, err := qb.Select("id", "isbn13", "title", "author", "publish_date").
		From(booksTableName).
		Where(sq.Eq{"id": bookID}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	q, args, err := qb.Insert(booksTableName).
		Columns("isbn13", "title", "author", "publish_date").
		Values(req.ISBN13, req.Title, req.Author, req.PublishDate.Time).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var book model.Book
	if err := r.db.GetContext(ctx, &book, q, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Any("args", args), zap.Error(err))
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) UpdateBook(ctx context.Context, bookID int, req model.UpdateBookRequest) error {
	q, args, err := qb.Update(booksTableName).
		Set("isbn13", req.ISBN13).
		Set("title", req.Title).
		Set("author", req.Author).
		Set("publish_date", req.PublishDate.Time).
		Where(sq.Eq{"id": bookID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errs.ErrNotFound
	}
	return nil
}
