package query

import (
	"context"
	"errors"
	"time"

	"github.com/eaglebank/user-accounts/internal/repository"
	"github.com/eaglebank/user-accounts/shared/apperrors"
	"github.com/eaglebank/user-accounts/shared/cqrs"
	"github.com/eaglebank/user-accounts/shared/models"
)

// UserQueryService reads users through the read repository (Redis first
// when configured, record store otherwise) and derives their age.
type UserQueryService struct {
	readRepo *repository.UserReadRepository
	now      func() time.Time
}

type Option func(*UserQueryService)

// WithClock overrides the day ages are computed against.
func WithClock(now func() time.Time) Option {
	return func(s *UserQueryService) { s.now = now }
}

func NewUserQueryService(readRepo *repository.UserReadRepository, opts ...Option) *UserQueryService {
	s := &UserQueryService{readRepo: readRepo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserQueryService) GetUser(ctx context.Context, q cqrs.GetUserQuery) (*models.UserView, error) {
	user, err := s.readRepo.GetByID(ctx, q.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.UserNotFound(q.UserID)
	}
	if err != nil {
		return nil, err
	}
	return models.NewUserView(user, models.DateOf(s.now())), nil
}
