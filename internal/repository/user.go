package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bookhall/lending-service/internal/errs"
	"github.com/bookhall/lending-service/internal/model"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

func (r *repository) CreateUser(ctx context.Context, name, email, passwordHash string) (model.User, error) {
	q, args, err := qb.Insert(usersTableName).
		Columns("name", "email", "password_hash").
		Values(name, email, passwordHash).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.User{}, errs.ErrDuplicateUser
		}
		r.log.Error("CreateUser", zap.String("q", q), zap.Error(err))
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) GetUserByName(ctx context.Context, name string) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"name": name})
}

func (r *repository) GetUserByID(ctx context.Context, userID int) (model.User, error) {
	return r.getUser(ctx, sq.Eq{"id": userID})
}

func (r *repository) getUser(ctx context.Context, where sq.Eq) (model.User, error) {
	q, args, err := qb.Select("id", "name", "email", "password_hash", "is_admin", "created_at").
		From(usersTableName).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}
	var user model.User
	if err := r.db.GetContext(ctx, &user, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}
