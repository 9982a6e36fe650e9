package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/eaglebank/user-accounts/internal/repository"
	"github.com/eaglebank/user-accounts/internal/repository/mocks"
	"github.com/eaglebank/user-accounts/shared/apperrors"
	"github.com/eaglebank/user-accounts/shared/cqrs"
	"github.com/eaglebank/user-accounts/shared/models"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestGetUser(t *testing.T) {
	stored := &models.User{
		ID:              1,
		Username:        "BohnJo",
		Gender:          models.GenderMale,
		BirthDate:       models.NewDate(2006, time.October, 19),
		AccountCreation: time.Date(2026, time.January, 1, 9, 0, 0, 0, time.UTC),
	}
	storeErr := errors.New("connection refused")

	tests := []struct {
		name      string
		today     time.Time
		setupMock func(store *mocks.MockUserRepository)
		wantAge   int
		wantErr   error
		notFound  bool
	}{
		{
			name:  "day before birthday",
			today: time.Date(2026, time.October, 18, 23, 59, 0, 0, time.UTC),
			setupMock: func(store *mocks.MockUserRepository) {
				store.EXPECT().Get(gomock.Any(), int64(1)).Return(stored, nil)
			},
			wantAge: 19,
		},
		{
			name:  "on birthday",
			today: time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
			setupMock: func(store *mocks.MockUserRepository) {
				store.EXPECT().Get(gomock.Any(), int64(1)).Return(stored, nil)
			},
			wantAge: 20,
		},
		{
			name:  "missing user",
			today: time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC),
			setupMock: func(store *mocks.MockUserRepository) {
				store.EXPECT().Get(gomock.Any(), int64(1)).Return(nil, repository.ErrNotFound)
			},
			notFound: true,
		},
		{
			name:  "store failure",
			today: time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC),
			setupMock: func(store *mocks.MockUserRepository) {
				store.EXPECT().Get(gomock.Any(), int64(1)).Return(nil, storeErr)
			},
			wantErr: storeErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mocks.NewMockUserRepository(ctrl)
			tt.setupMock(store)

			today := tt.today
			svc := NewUserQueryService(
				repository.NewUserReadRepository(store, nil),
				WithClock(func() time.Time { return today }),
			)

			view, err := svc.GetUser(context.Background(), cqrs.GetUserQuery{UserID: 1})

			switch {
			case tt.notFound:
				appErr, ok := apperrors.As(err)
				require.True(t, ok)
				require.Equal(t, apperrors.KindNotFound, appErr.Kind())
				require.Equal(t, "User by id:1 was not found", appErr.Error())
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				require.Equal(t, int64(1), view.ID)
				require.Equal(t, "BohnJo", view.Username)
				require.Equal(t, tt.wantAge, view.Age)
			}
		})
	}
}
