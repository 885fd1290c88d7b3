package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"tokonada/internal/domain/model"
	repo "tokonada/internal/repository"
)

// AdminUserUsecase covers the ADMIN user-management screens: listing,
// role changes and deactivation.
type AdminUserUsecase struct {
	userRepo  repo.UserRepository
	auditRepo repo.AuditLogRepository
}

func NewAdminUserUsecase(userRepo repo.UserRepository, auditRepo repo.AuditLogRepository) *AdminUserUsecase {
	return &AdminUserUsecase{userRepo: userRepo, auditRepo: auditRepo}
}

func (u *AdminUserUsecase) List(ctx context.Context, actor model.Actor, f repo.UserListFilter) ([]model.User, int64, error) {
	if actor.Role != model.RoleAdmin {
		return nil, 0, NewHTTPError(http.StatusForbidden, "admin only")
	}

	users, total, err := u.userRepo.List(ctx, f)
	if err != nil {
		return nil, 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return users, total, nil
}

func (u *AdminUserUsecase) UpdateRole(ctx context.Context, actor model.Actor, userID int64, newRole model.Role) error {
	if actor.Role != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	switch newRole {
	case model.RoleCustomer, model.RoleAdmin, model.RoleGudang:
	default:
		return NewHTTPError(http.StatusBadRequest, "invalid role")
	}
	if userID == actor.UserID {
		return NewHTTPError(http.StatusBadRequest, "cannot change own role")
	}

	target, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrUserNotFound || target == nil {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	before := target.Role
	target.Role = newRole
	target.UpdatedAt = time.Now()
	if err := u.userRepo.Update(ctx, target); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Old tokens still carry the old role; force re-login.
	if err := u.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       model.AuditActionUpdateUser,
		ResourceType: model.AuditResourceUser,
		ResourceID:   userID,
		BeforeJSON:   fmt.Sprintf(`{"role":%q}`, before),
		AfterJSON:    fmt.Sprintf(`{"role":%q}`, newRole),
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}

// Deactivate flips the user to DIHAPUS and invalidates outstanding tokens.
func (u *AdminUserUsecase) Deactivate(ctx context.Context, actor model.Actor, userID int64) error {
	if actor.Role != model.RoleAdmin {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	if userID == actor.UserID {
		return NewHTTPError(http.StatusBadRequest, "cannot deactivate self")
	}

	target, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrUserNotFound || target == nil {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if target.State == model.StateDihapus {
		return nil
	}

	target.State = model.StateDihapus
	target.UpdatedAt = time.Now()
	if err := u.userRepo.Update(ctx, target); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.userRepo.IncrementTokenVersion(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       model.AuditActionUpdateUser,
		ResourceType: model.AuditResourceUser,
		ResourceID:   userID,
		BeforeJSON:   fmt.Sprintf(`{"state":%q}`, model.StateAktif),
		AfterJSON:    fmt.Sprintf(`{"state":%q}`, model.StateDihapus),
		CreatedAt:    time.Now(),
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return nil
}
