package service

import (
	"context"
	"errors"

	"github.com/bookhall/lending-service/internal/errs"
	"github.com/bookhall/lending-service/internal/model"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := s.repo.CreateUser(ctx, req.Name, req.Email, string(hash)); err != nil {
		return err
	}
	s.log.Info("user registered", zap.String("name", req.Name))
	return nil
}

// Authenticate verifies credentials and returns the stored user. The caller
// (the transport boundary) turns it into an AccessPolicy identity.
func (s *Service) Authenticate(ctx context.Context, name, password string) (model.User, error) {
	user, err := s.repo.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, errs.ErrBadCredentials
		}
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, errs.ErrBadCredentials
	}
	return user, nil
}
