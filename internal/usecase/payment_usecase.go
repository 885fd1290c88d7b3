package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"tokonada/internal/domain/model"
	"tokonada/internal/gateway"
	repo "tokonada/internal/repository"
)

// PaymentUsecase is the adapter between orders and the Snap gateway: token
// requests on the way out, status notifications on the way in.
type PaymentUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	shipments repo.ShipmentRepository
	users     repo.UserRepository
	gw        gateway.PaymentGateway
}

func NewPaymentUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	shipments repo.ShipmentRepository,
	users repo.UserRepository,
	gw gateway.PaymentGateway,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:        tx,
		orders:    orders,
		shipments: shipments,
		users:     users,
		gw:        gw,
	}
}

type PaymentTokenOutput struct {
	OrderID   int64  `json:"order_id"`
	SnapToken string `json:"snap_token"`
}

// OrderRef is the order identifier sent to the payment gateway.
func OrderRef(orderID int64) string {
	return fmt.Sprintf("TKND-%d", orderID)
}

// ParseOrderRef inverts OrderRef; false for anything that is not ours.
func ParseOrderRef(ref string) (int64, bool) {
	rest, ok := strings.CutPrefix(ref, "TKND-")
	if !ok {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// RequestToken returns the order's checkout token. A cached token is
// returned unchanged without touching the gateway; otherwise exactly one
// create-transaction call is made and its token persisted. On gateway
// failure nothing is written, so the caller can simply retry.
func (u *PaymentUsecase) RequestToken(ctx context.Context, actor model.Actor, orderID int64) (PaymentTokenOutput, error) {
	if actor.UserID <= 0 {
		return PaymentTokenOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return PaymentTokenOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return PaymentTokenOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return PaymentTokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != actor.UserID {
		return PaymentTokenOutput{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	// Idempotent: the first token wins for the order's lifetime.
	if o.SnapToken != "" {
		return PaymentTokenOutput{OrderID: o.ID, SnapToken: o.SnapToken}, nil
	}

	if o.Status != model.OrderStatusPending {
		return PaymentTokenOutput{}, NewHTTPError(http.StatusConflict, "order not payable")
	}

	gross := o.TotalPrice
	if s, err := u.shipments.FindByOrderID(ctx, o.ID); err == nil {
		gross += s.ShippingCost
	} else if err != repo.ErrNotFound {
		return PaymentTokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	customer := gateway.CustomerDetails{}
	if user, err := u.users.FindByID(ctx, o.UserID); err == nil && user != nil {
		customer.Name = user.Name
		customer.Email = user.Email
	}

	token, err := u.gw.CreateTransaction(ctx, OrderRef(o.ID), gross, customer)
	if err != nil {
		return PaymentTokenOutput{}, NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}

	stored, err := u.orders.SetSnapToken(ctx, o.ID, token)
	if err != nil {
		return PaymentTokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !stored {
		// Lost a race against a concurrent request: serve the cached one.
		o2, err := u.orders.FindByID(ctx, o.ID)
		if err != nil || o2.SnapToken == "" {
			return PaymentTokenOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		token = o2.SnapToken
	}

	return PaymentTokenOutput{OrderID: o.ID, SnapToken: token}, nil
}

// HandleNotification consumes a gateway callback. Settlement flips
// PENDING→DIBAYAR and captures stock in the same transaction; expiry and
// cancellation flip PENDING→BATAL. Redelivered and out-of-order callbacks
// are no-ops: the conditional status write only ever lands once.
func (u *PaymentUsecase) HandleNotification(ctx context.Context, n gateway.PaymentNotification) error {
	if !u.gw.VerifyNotification(n) {
		return NewHTTPError(http.StatusForbidden, "invalid signature")
	}

	orderID, ok := ParseOrderRef(n.OrderID)
	if !ok {
		return NewHTTPError(http.StatusBadRequest, "invalid order_id")
	}

	switch n.TransactionStatus {
	case "settlement", "capture":
		return u.markPaid(ctx, orderID)
	case "expire", "cancel", "deny":
		return u.markCancelled(ctx, orderID)
	case "pending":
		return nil
	default:
		return NewHTTPError(http.StatusBadRequest, "unknown transaction status")
	}
}

func (u *PaymentUsecase) markPaid(ctx context.Context, orderID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if o.Status == model.OrderStatusBatal {
			return NewHTTPError(http.StatusConflict, "order cancelled")
		}
		if o.Status != model.OrderStatusPending {
			// Already DIBAYAR or further along: redelivery, no-op.
			return nil
		}
		if !model.CanTransition(o.Status, model.RoleSystem, model.OrderStatusDibayar) {
			return NewHTTPError(http.StatusConflict, "transition not allowed")
		}

		flipped, err := r.Orders().UpdateStatusFrom(ctx, orderID, model.OrderStatusPending, model.OrderStatusDibayar)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !flipped {
			// A concurrent delivery of the same callback won; nothing
			// left to do.
			return nil
		}

		// Stock capture happens exactly once, tied to the single
		// successful flip above.
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, it := range items {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !ok {
				// Oversold between checkout and payment. Roll the
				// whole capture back and let operations resolve it.
				return NewHTTPError(http.StatusConflict, "insufficient stock at capture")
			}
		}

		return nil
	})
}

func (u *PaymentUsecase) markCancelled(ctx context.Context, orderID int64) error {
	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// Only an unpaid order can expire; anything else is a stale
		// callback and is ignored.
		if o.Status != model.OrderStatusPending {
			return nil
		}

		if _, err := r.Orders().UpdateStatusFrom(ctx, orderID, model.OrderStatusPending, model.OrderStatusBatal); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}
