package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"tokonada/internal/domain/model"
	repo "tokonada/internal/repository"
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

// DestinationInput is the recipient side of the checkout request. The cost
// and service come from a quote the client already fetched.
type DestinationInput struct {
	RecipientName  string
	RecipientPhone string
	Address        string
	AreaID         string
	City           string
	Province       string
	PostalCode     string
	Courier        string
	Service        string
	ShippingCost   int64
}

type PlaceOrderInput struct {
	IdempotencyKey string
	Destination    DestinationInput
}

type OrderItemOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
}

type ShipmentOutput struct {
	RecipientName  string `json:"recipient_name"`
	Address        string `json:"address"`
	City           string `json:"city"`
	Province       string `json:"province"`
	Courier        string `json:"courier"`
	Service        string `json:"service"`
	ShippingCost   int64  `json:"shipping_cost"`
	WeightGrams    int64  `json:"weight_grams"`
	TrackingNumber string `json:"tracking_number,omitempty"`
}

type OrderOutput struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Status     string            `json:"status"`
	TotalPrice int64             `json:"total_price"`
	CreatedAt  time.Time         `json:"created_at"`
	Items      []OrderItemOutput `json:"items"`
	Shipment   *ShipmentOutput   `json:"shipment,omitempty"`
}

// PlaceOrder turns the actor's ACTIVE cart into a PENDING order with its
// items and shipment in one transaction. Prices come from the cart
// snapshots; stock is validated here but only decremented at payment
// confirmation, so abandoned orders never hold reservations.
func (u *OrderUsecase) PlaceOrder(ctx context.Context, actor model.Actor, in PlaceOrderInput) (OrderOutput, error) {
	if actor.UserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	d := in.Destination
	if strings.TrimSpace(d.RecipientName) == "" ||
		strings.TrimSpace(d.Address) == "" ||
		strings.TrimSpace(d.AreaID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid destination")
	}
	if strings.TrimSpace(d.Courier) == "" || strings.TrimSpace(d.Service) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid courier")
	}
	if d.ShippingCost < 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid shipping cost")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// Same key, same result.
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, actor.UserID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			out = toOrderOutput(existing, items, nil)
			return nil
		}

		cart, err := r.Carts().FindActiveByUserID(ctx, actor.UserID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		orderItems := make([]model.OrderItem, 0, len(cartItems))
		var total int64 = 0
		var weight int64 = 0

		for _, ci := range cartItems {
			p, err := r.Products().FindByID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "invalid product")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if p.State != model.StateAktif {
				return NewHTTPError(http.StatusBadRequest, "invalid product")
			}

			// Stock check only. Capture happens on DIBAYAR.
			if p.Stock < ci.Quantity {
				return NewHTTPError(http.StatusConflict, "insufficient stock")
			}

			orderItems = append(orderItems, model.OrderItem{
				ProductID:           ci.ProductID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   ci.UnitPriceSnapshot,
				Quantity:            ci.Quantity,
				CreatedAt:           time.Now(),
			})

			total += ci.UnitPriceSnapshot * ci.Quantity
			weight += p.WeightGrams * ci.Quantity
		}

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:         actor.UserID,
			Status:         model.OrderStatusPending,
			TotalPrice:     total,
			IdempotencyKey: key,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			// Concurrent request with the same key: return its result.
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, actor.UserID, key)
			if err2 == nil && found2 {
				items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
				if err3 != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				out = toOrderOutput(ex2, items2, nil)
				return nil
			}
			return NewHTTPError(http.StatusConflict, "idempotency conflict")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		shipment := model.Shipment{
			OrderID:        orderID,
			RecipientName:  strings.TrimSpace(d.RecipientName),
			RecipientPhone: strings.TrimSpace(d.RecipientPhone),
			Address:        strings.TrimSpace(d.Address),
			AreaID:         strings.TrimSpace(d.AreaID),
			City:           strings.TrimSpace(d.City),
			Province:       strings.TrimSpace(d.Province),
			PostalCode:     strings.TrimSpace(d.PostalCode),
			Courier:        strings.TrimSpace(d.Courier),
			Service:        strings.TrimSpace(d.Service),
			ShippingCost:   d.ShippingCost,
			WeightGrams:    weight,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if _, err := r.Shipments().Create(ctx, shipment); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		// The cart is done: mark and clear so a refresh cannot reorder.
		if err := r.Carts().UpdateStatus(ctx, cart.ID, model.CartStatusCheckedOut); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created := model.Order{
			ID:         orderID,
			UserID:     actor.UserID,
			Status:     model.OrderStatusPending,
			TotalPrice: total,
			CreatedAt:  now,
		}
		out = toOrderOutput(created, orderItems, &shipment)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, actor model.Actor) ([]OrderOutput, error) {
	if actor.UserID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, actor.UserID, 1, 50)
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

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, actor model.Actor, orderID int64) (OrderOutput, error) {
	if actor.UserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		// A stranger's order does not exist as far as this caller knows.
		if o.UserID != actor.UserID && !actor.Role.IsStaff() {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		var shipment *model.Shipment
		if s, err := r.Shipments().FindByOrderID(ctx, orderID); err == nil {
			shipment = &s
		} else if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = toOrderOutput(o, items, shipment)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem, s *model.Shipment) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			Price:     it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	out := OrderOutput{
		ID:         o.ID,
		UserID:     o.UserID,
		Status:     string(o.Status),
		TotalPrice: o.TotalPrice,
		CreatedAt:  o.CreatedAt,
		Items:      outItems,
	}

	if s != nil {
		out.Shipment = &ShipmentOutput{
			RecipientName:  s.RecipientName,
			Address:        s.Address,
			City:           s.City,
			Province:       s.Province,
			Courier:        s.Courier,
			Service:        s.Service,
			ShippingCost:   s.ShippingCost,
			WeightGrams:    s.WeightGrams,
			TrackingNumber: s.TrackingNumber,
		}
	}

	return out
}
