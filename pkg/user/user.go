package user

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserDataInvalid = errors.New("user data is invalid")
)

// User is the account a request acts on behalf of. OrganizationId is set
// once the user has been accepted into a verified organization.
type User struct {
	Id             int
	Uid            string
	Username       string
	Name           string
	Email          string
	Bio            string
	AvatarUrl      string
	OrganizationId *int
	Settings       Settings
}

// Settings holds per-user scheduling defaults. Day start/end and buffer
// are minutes from midnight / between bookings.
type Settings struct {
	Timezone      string
	WeekStart     time.Weekday
	DayStart      int
	DayEnd        int
	BufferMinutes int
}
