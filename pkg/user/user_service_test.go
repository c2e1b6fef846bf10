package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*UserServiceImpl, *StubUserRepo) {
	repo := NewStubUserRepo()
	return NewUserService(repo), repo
}

func validUser() User {
	return User{
		Uid:      "uid-1",
		Username: "ada",
		Name:     "Ada Lovelace",
		Email:    "ada@acme.com",
		Settings: Settings{
			Timezone:      "Europe/Warsaw",
			WeekStart:     time.Monday,
			DayStart:      9 * 60,
			DayEnd:        17 * 60,
			BufferMinutes: 10,
		},
	}
}

func TestUserService_CreateAndGet(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateUser(context.Background(), validUser())
	require.NoError(t, err)
	require.NotZero(t, created.Id)

	ctx := WithUser(context.Background(), created)
	got, err := service.GetCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)
	assert.Equal(t, 9*60, got.Settings.DayStart)
}

func TestUserService_CreateRejectsInvalidProfile(t *testing.T) {
	service, _ := newTestService()

	u := validUser()
	u.Username = ""
	_, err := service.CreateUser(context.Background(), u)
	assert.ErrorIs(t, err, ErrUserDataInvalid)

	u = validUser()
	u.Settings.DayStart = 18 * 60
	u.Settings.DayEnd = 9 * 60
	_, err = service.CreateUser(context.Background(), u)
	assert.ErrorIs(t, err, ErrUserDataInvalid)

	u = validUser()
	u.Settings.BufferMinutes = -5
	_, err = service.CreateUser(context.Background(), u)
	assert.ErrorIs(t, err, ErrUserDataInvalid)
}

func TestUserService_UpdateProfileRequiresContextUser(t *testing.T) {
	service, _ := newTestService()

	_, err := service.UpdateProfile(context.Background(), validUser())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserService_UpdateProfile(t *testing.T) {
	service, _ := newTestService()

	created, err := service.CreateUser(context.Background(), validUser())
	require.NoError(t, err)

	ctx := WithUser(context.Background(), created)
	updated := created
	updated.Name = "Ada L."
	updated.Bio = "Booking things"

	got, err := service.UpdateProfile(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", got.Name)
	assert.Equal(t, "Booking things", got.Bio)
}

func TestUserService_IsUsernameAvailable(t *testing.T) {
	service, _ := newTestService()

	_, err := service.CreateUser(context.Background(), validUser())
	require.NoError(t, err)

	available, err := service.IsUsernameAvailable(context.Background(), "ada")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = service.IsUsernameAvailable(context.Background(), "grace")
	require.NoError(t, err)
	assert.True(t, available)
}
