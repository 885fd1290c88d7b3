package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"tokonada/internal/domain/model"
	"tokonada/internal/repository"
)

type userRepoMock struct {
	mock.Mock
}

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *userRepoMock) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *userRepoMock) List(ctx context.Context, f repository.UserListFilter) ([]model.User, int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *userRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	return m.Called(ctx, userID).Error(0)
}

type hasherMock struct {
	mock.Mock
}

func (m *hasherMock) Hash(plain string) (string, error) {
	args := m.Called(plain)
	return args.String(0), args.Error(1)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func TestRegisterUser_Success(t *testing.T) {
	repo := new(userRepoMock)
	hasher := new(hasherMock)
	uc := NewRegisterUserUsecase(repo, hasher, fixedClock{now: testNow})

	repo.On("FindByEmail", mock.Anything, "budi@example.com").Return(nil, repository.ErrUserNotFound)
	hasher.On("Hash", "gitar-akustik-mantap").Return("$2a$12$hashed", nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "budi@example.com" &&
			u.PasswordHash == "$2a$12$hashed" &&
			u.Name == "Budi Santoso" &&
			u.Role == model.RoleCustomer &&
			u.State == model.StateAktif &&
			u.CreatedAt.Equal(testNow)
	})).Return(nil)

	out, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:    "  Budi@Example.com ",
		Name:     " Budi Santoso ",
		Password: "gitar-akustik-mantap",
	})

	assert.NoError(t, err)
	assert.Equal(t, "budi@example.com", out.User.Email)
	assert.Equal(t, model.RoleCustomer, out.User.Role)
	repo.AssertExpectations(t)
	hasher.AssertExpectations(t)
}

func TestRegisterUser_InvalidEmail(t *testing.T) {
	uc := NewRegisterUserUsecase(new(userRepoMock), new(hasherMock), fixedClock{now: testNow})

	for _, email := range []string{"", "not-an-email", "budi@", "@example.com", "budi budi@example.com"} {
		_, err := uc.Execute(context.Background(), RegisterUserInput{
			Email:    email,
			Name:     "Budi",
			Password: "gitar-akustik-mantap",
		})
		assert.ErrorIs(t, err, ErrInvalidEmailFormat, "email %q", email)
	}
}

func TestRegisterUser_NameRequired(t *testing.T) {
	uc := NewRegisterUserUsecase(new(userRepoMock), new(hasherMock), fixedClock{now: testNow})

	_, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:    "budi@example.com",
		Name:     "   ",
		Password: "gitar-akustik-mantap",
	})

	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestRegisterUser_ShortPassword(t *testing.T) {
	uc := NewRegisterUserUsecase(new(userRepoMock), new(hasherMock), fixedClock{now: testNow})

	_, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:    "budi@example.com",
		Name:     "Budi",
		Password: "elevenchars",
	})

	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestRegisterUser_WeakPassword(t *testing.T) {
	uc := NewRegisterUserUsecase(new(userRepoMock), new(hasherMock), fixedClock{now: testNow})

	_, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:    "budi@example.com",
		Name:     "Budi",
		Password: "Password1234",
	})

	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	repo := new(userRepoMock)
	hasher := new(hasherMock)
	uc := NewRegisterUserUsecase(repo, hasher, fixedClock{now: testNow})

	repo.On("FindByEmail", mock.Anything, "budi@example.com").Return(&model.User{
		ID:    1,
		Email: "budi@example.com",
	}, nil)

	_, err := uc.Execute(context.Background(), RegisterUserInput{
		Email:    "BUDI@example.com",
		Name:     "Budi",
		Password: "gitar-akustik-mantap",
	})

	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	hasher.AssertNotCalled(t, "Hash", mock.Anything)
}
