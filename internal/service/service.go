package service

import (
	"time"

	"github.com/bookhall/lending-service/internal/repository"
	"go.uber.org/zap"
)

// Clock supplies the current time for rental dates and deadlines.
// Injectable so the lifecycle is deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type Service struct {
	log   *zap.Logger
	repo  repository.Repository
	enq   Enqueuer
	clock Clock
}

type Option func(*Service)

func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

func WithEnqueuer(enq Enqueuer) Option {
	return func(s *Service) { s.enq = enq }
}

func NewService(repo repository.Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:   log,
		repo:  repo,
		clock: realClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
