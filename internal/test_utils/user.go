package test_utils

import (
	"context"
	"time"

	"github.com/bookli/bookli/pkg/user"
)

type TestUserProvider struct{}

func (p TestUserProvider) GetCurrentUser(ctx context.Context) (user.User, error) {
	return user.User{
		Id:       123,
		Uid:      "test-user-uid",
		Username: "test_user",
		Name:     "Test User",
		Email:    "test_user@example.com",
		Settings: user.Settings{
			Timezone:  "Europe/Warsaw",
			WeekStart: time.Monday,
			DayStart:  9 * 60,
			DayEnd:    17 * 60,
		},
	}, nil
}
