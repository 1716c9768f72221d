package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/Astemirdum/library-lending/lending/internal/model"
	"github.com/Astemirdum/library-lending/lending/internal/repository"
)

type EventPublisher interface {
	Publish(ctx context.Context, event model.LoanEvent) error
}

type CoverStorage interface {
	Upload(ctx context.Context, prefix, filename string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	ObjectURL(key string) string
	KeyFromURL(url string) (string, bool)
	PresignedGetURL(ctx context.Context, key string) (string, error)
}

type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

type Service struct {
	log       *zap.Logger
	repo      repository.Repository
	publisher EventPublisher
	covers    CoverStorage
	tokens    TokenIssuer
	now       func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithPublisher(p EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithCoverStorage(c CoverStorage) Option {
	return func(s *Service) {
		s.covers = c
	}
}

func WithTokenIssuer(t TokenIssuer) Option {
	return func(s *Service) {
		s.tokens = t
	}
}

func NewService(repo repository.Repository, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:       log.Named("service"),
		repo:      repo,
		publisher: nopPublisher{},
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
