package command

import (
	"context"
	"errors"
	"time"

	"github.com/eaglebank/user-accounts/internal/repository"
	"github.com/eaglebank/user-accounts/shared/apperrors"
	"github.com/eaglebank/user-accounts/shared/cqrs"
	"github.com/eaglebank/user-accounts/shared/events"
	"github.com/eaglebank/user-accounts/shared/models"
	"github.com/sirupsen/logrus"
)

const (
	msgUnknownGender = "Such gender doesn't exist"
	msgUsernameTaken = "Username exists"
)

// EventPublisher emits user lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// UserCommandService writes users to the record store and keeps the read
// cache and the event stream up to date.
type UserCommandService struct {
	store     repository.UserRepository
	readRepo  *repository.UserReadRepository
	publisher EventPublisher
	logger    logrus.FieldLogger
	now       func() time.Time
}

type Option func(*UserCommandService)

// WithClock overrides time.Now, used for accountCreation and birth date checks.
func WithClock(now func() time.Time) Option {
	return func(s *UserCommandService) { s.now = now }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *UserCommandService) { s.logger = logger }
}

func NewUserCommandService(
	store repository.UserRepository,
	readRepo *repository.UserReadRepository,
	publisher EventPublisher,
	opts ...Option,
) *UserCommandService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if readRepo == nil {
		readRepo = repository.NewUserReadRepository(store, nil)
	}
	s := &UserCommandService{
		store:     store,
		readRepo:  readRepo,
		publisher: publisher,
		logger:    logrus.StandardLogger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateUser registers a new user. The gender is parsed before the
// username is checked, and nothing is written when either check fails.
//
// The username check and the insert are not atomic; a concurrent create
// that wins the race surfaces as the same DuplicateError through the
// store's unique constraint.
func (s *UserCommandService) CreateUser(ctx context.Context, cmd cqrs.CreateUserCommand) (*models.UserView, error) {
	gender, err := parseGender(cmd.Gender)
	if err != nil {
		return nil, err
	}

	taken, err := s.store.ExistsByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.Duplicate(msgUsernameTaken)
	}

	now := s.now()
	user, err := s.store.Save(ctx, &models.User{
		Username:        cmd.Username,
		Gender:          gender,
		BirthDate:       cmd.BirthDate,
		AccountCreation: now.UTC(),
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.Duplicate(msgUsernameTaken)
	}
	if err != nil {
		return nil, err
	}

	s.readRepo.CacheUser(ctx, user)
	s.publish(ctx, events.UserCreated, events.UserCreatedEvent{
		UserID:   user.ID,
		Username: user.Username,
		Gender:   user.Gender.String(),
	})
	return models.NewUserView(user, models.DateOf(now)), nil
}

// UpdateUser applies the supplied birth date and gender onto the stored
// user. Username and accountCreation are never changed.
func (s *UserCommandService) UpdateUser(ctx context.Context, cmd cqrs.UpdateUserCommand) (*models.UserView, error) {
	var gender models.Gender
	if cmd.Gender != nil {
		parsed, err := parseGender(*cmd.Gender)
		if err != nil {
			return nil, err
		}
		gender = parsed
	}

	user, err := s.store.Get(ctx, cmd.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.UserNotFound(cmd.UserID)
	}
	if err != nil {
		return nil, err
	}

	var changed []string
	if cmd.BirthDate != nil {
		user.BirthDate = *cmd.BirthDate
		changed = append(changed, "birthDate")
	}
	if cmd.Gender != nil {
		user.Gender = gender
		changed = append(changed, "gender")
	}

	saved, err := s.store.Save(ctx, user)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.UserNotFound(cmd.UserID)
	}
	if err != nil {
		return nil, err
	}

	s.readRepo.CacheUser(ctx, saved)
	s.publish(ctx, events.UserUpdated, events.UserUpdatedEvent{
		UserID:        saved.ID,
		ChangedFields: changed,
	})
	return models.NewUserView(saved, models.DateOf(s.now())), nil
}

func (s *UserCommandService) DeleteUser(ctx context.Context, cmd cqrs.DeleteUserCommand) error {
	exists, err := s.store.Exists(ctx, cmd.UserID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.UserNotFound(cmd.UserID)
	}

	err = s.store.Delete(ctx, cmd.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.UserNotFound(cmd.UserID)
	}
	if err != nil {
		return err
	}

	s.readRepo.InvalidateUser(ctx, cmd.UserID)
	s.publish(ctx, events.UserDeleted, events.UserDeletedEvent{UserID: cmd.UserID})
	return nil
}

// publish is best effort: a lost event never fails the request.
func (s *UserCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.UserEventsStream, eventType, data); err != nil {
		s.logger.WithError(err).WithField("event", eventType).Warn("failed to publish user event")
	}
}

func parseGender(name string) (models.Gender, error) {
	gender, err := models.ParseGender(name)
	if err != nil {
		return 0, apperrors.Validation(msgUnknownGender)
	}
	return gender, nil
}
