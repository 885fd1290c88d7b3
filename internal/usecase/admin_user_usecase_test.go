package usecase

import (
	"context"
	"net/http"
	"testing"

	"tokonada/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUpdateRole_BumpsTokenVersion(t *testing.T) {
	users := &userRepoMock{}
	audit := &auditRepoMock{}

	users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, Role: model.RoleCustomer, State: model.StateAktif}, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == 7 && u.Role == model.RoleGudang
	})).Return(nil)
	// Outstanding tokens carry the old role and must die.
	users.On("IncrementTokenVersion", mock.Anything, int64(7)).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionUpdateUser &&
			l.BeforeJSON == `{"role":"CUSTOMER"}` &&
			l.AfterJSON == `{"role":"GUDANG"}`
	})).Return(nil)

	uc := NewAdminUserUsecase(users, audit)
	err := uc.UpdateRole(context.Background(), model.Actor{UserID: 1, Role: model.RoleAdmin}, 7, model.RoleGudang)

	assert.NoError(t, err)
	users.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestUpdateRole_CannotChangeOwnRole(t *testing.T) {
	uc := NewAdminUserUsecase(&userRepoMock{}, &auditRepoMock{})
	err := uc.UpdateRole(context.Background(), model.Actor{UserID: 1, Role: model.RoleAdmin}, 1, model.RoleCustomer)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestUpdateRole_RejectsUnknownRole(t *testing.T) {
	uc := NewAdminUserUsecase(&userRepoMock{}, &auditRepoMock{})
	err := uc.UpdateRole(context.Background(), model.Actor{UserID: 1, Role: model.RoleAdmin}, 7, model.Role("SUPERUSER"))

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestUpdateRole_GudangForbidden(t *testing.T) {
	uc := NewAdminUserUsecase(&userRepoMock{}, &auditRepoMock{})
	err := uc.UpdateRole(context.Background(), model.Actor{UserID: 2, Role: model.RoleGudang}, 7, model.RoleAdmin)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Status)
}

func TestDeactivate_MarksDihapusAndInvalidatesTokens(t *testing.T) {
	users := &userRepoMock{}
	audit := &auditRepoMock{}

	users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, State: model.StateAktif}, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == 7 && u.State == model.StateDihapus
	})).Return(nil)
	users.On("IncrementTokenVersion", mock.Anything, int64(7)).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := NewAdminUserUsecase(users, audit)
	err := uc.Deactivate(context.Background(), model.Actor{UserID: 1, Role: model.RoleAdmin}, 7)

	assert.NoError(t, err)
	users.AssertExpectations(t)
}

func TestDeactivate_AlreadyDeactivatedIsNoOp(t *testing.T) {
	users := &userRepoMock{}

	users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, State: model.StateDihapus}, nil)

	uc := NewAdminUserUsecase(users, &auditRepoMock{})
	err := uc.Deactivate(context.Background(), model.Actor{UserID: 1, Role: model.RoleAdmin}, 7)

	assert.NoError(t, err)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	users.AssertNotCalled(t, "IncrementTokenVersion", mock.Anything, mock.Anything)
}
