package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"tokonada/internal/domain/model"
	repo "tokonada/internal/repository"
)

// AdminOrderUsecase is the staff side of the order lifecycle: listing,
// guarded status moves and the label print queue.
type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
}

func NewAdminOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, auditRepo: auditRepo}
}

type UpdateOrderStatusInput struct {
	Status string
}

func (u *AdminOrderUsecase) List(ctx context.Context, actor model.Actor, f repo.OrderListFilter) ([]OrderOutput, error) {
	if !actor.Role.IsStaff() {
		return []OrderOutput{}, NewHTTPError(http.StatusForbidden, "staff only")
	}
	if f.Page < 1 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return []OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListStaff(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items, nil))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// PrintQueue lists packed orders with their shipments for the warehouse
// label-printing dashboard.
func (u *AdminOrderUsecase) PrintQueue(ctx context.Context, actor model.Actor, page int, limit int) ([]OrderOutput, error) {
	if !actor.Role.IsStaff() {
		return []OrderOutput{}, NewHTTPError(http.StatusForbidden, "staff only")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByStatus(ctx, model.OrderStatusDikemas, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			var shipment *model.Shipment
			if s, err := r.Shipments().FindByOrderID(ctx, o.ID); err == nil {
				shipment = &s
			} else if err != repo.ErrNotFound {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			outs = append(outs, toOrderOutput(o, items, shipment))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

// UpdateStatus moves an order through the transition table on behalf of a
// staff actor. Anything the table rejects fails with 409 and leaves the row
// untouched. Same-status requests are accepted as no-ops.
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor model.Actor, orderID int64, in UpdateOrderStatusInput) error {
	if actor.UserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !actor.Role.IsStaff() {
		return NewHTTPError(http.StatusForbidden, "staff only")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !model.IsValidStatus(newStatus) {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if o.Status == newStatus {
			return nil
		}

		if !model.CanTransition(o.Status, actor.Role, newStatus) {
			return NewHTTPError(http.StatusConflict, "transition not allowed")
		}

		flipped, err := r.Orders().UpdateStatusFrom(ctx, orderID, o.Status, newStatus)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !flipped {
			// Someone changed the row between read and write.
			return NewHTTPError(http.StatusConflict, "transition not allowed")
		}

		beforeJSON := `{"status":"` + string(o.Status) + `"}`
		afterJSON := `{"status":"` + string(newStatus) + `"}`
		if err := u.auditRepo.Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}
