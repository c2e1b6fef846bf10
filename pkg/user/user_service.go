package user

import (
	"context"
	"fmt"
	"os"
	"strconv"
)

const avatarStoragePath = "storage/avatars/"

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateProfile(ctx context.Context, user User) (User, error)
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
	StoreAvatar(ctx context.Context, avatar []byte) error
	GetAvatar(ctx context.Context, id int) ([]byte, error)
	DeleteAvatar(ctx context.Context) error
}

// Provider is the narrow read-only view other packages depend on.
type Provider interface {
	GetCurrentUser(ctx context.Context) (User, error)
}

type UserServiceImpl struct {
	repo Repo
}

func NewUserService(repo Repo) *UserServiceImpl {
	return &UserServiceImpl{repo: repo}
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.repo.GetUser(ctx, userId)
}

func (u *UserServiceImpl) CreateUser(ctx context.Context, user User) (User, error) {
	if err := validateProfile(user); err != nil {
		return User{}, err
	}
	userId, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	user.Id = userId
	return user, nil
}

func (u *UserServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return u.repo.GetUserByUid(ctx, uid)
}

func (u *UserServiceImpl) UpdateProfile(ctx context.Context, user User) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validateProfile(user); err != nil {
		return User{}, err
	}
	return u.repo.UpdateUser(ctx, userId, user)
}

func (u *UserServiceImpl) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	return u.repo.IsUsernameAvailable(ctx, username)
}

// validateProfile mirrors the client-side rules so a bypassed client
// cannot store broken scheduling defaults.
func validateProfile(user User) error {
	if user.Username == "" || user.Name == "" {
		return ErrUserDataInvalid
	}
	s := user.Settings
	if s.DayStart < 0 || s.DayEnd > 24*60 || s.DayStart >= s.DayEnd && s.DayEnd != 0 {
		return ErrUserDataInvalid
	}
	if s.BufferMinutes < 0 {
		return ErrUserDataInvalid
	}
	return nil
}

func (u *UserServiceImpl) StoreAvatar(ctx context.Context, avatar []byte) error {
	userId, err := CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	if err := os.MkdirAll(avatarStoragePath, 0755); err != nil {
		return err
	}
	return os.WriteFile(avatarStoragePath+"/"+strconv.Itoa(userId)+".jpg", avatar, 0644)
}

func (u *UserServiceImpl) GetAvatar(_ context.Context, id int) ([]byte, error) {
	expectedFile := avatarStoragePath + "/" + strconv.Itoa(id) + ".jpg"
	if _, err := os.Stat(expectedFile); os.IsNotExist(err) {
		return nil, nil
	}
	return os.ReadFile(expectedFile)
}

func (u *UserServiceImpl) DeleteAvatar(ctx context.Context) error {
	userId, err := CurrentId(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	expectedFile := avatarStoragePath + "/" + strconv.Itoa(userId) + ".jpg"
	if _, err := os.Stat(expectedFile); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(expectedFile)
}
