package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"tokonada/internal/domain/model"
	"tokonada/internal/gateway"
	repo "tokonada/internal/repository"
)

// ShipmentUsecase proxies the logistics lookups and owns label generation.
type ShipmentUsecase struct {
	tx        repo.TransactionManager
	orders    repo.OrderRepository
	shipments repo.ShipmentRepository
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	products  repo.ProductRepository
	auditRepo repo.AuditLogRepository
	gw        gateway.ShippingGateway

	// Warehouse origin for every quote and label.
	originCityID string
}

func NewShipmentUsecase(
	tx repo.TransactionManager,
	orders repo.OrderRepository,
	shipments repo.ShipmentRepository,
	carts repo.CartRepository,
	cartItems repo.CartItemRepository,
	products repo.ProductRepository,
	auditRepo repo.AuditLogRepository,
	gw gateway.ShippingGateway,
	originCityID string,
) *ShipmentUsecase {
	return &ShipmentUsecase{
		tx:           tx,
		orders:       orders,
		shipments:    shipments,
		carts:        carts,
		cartItems:    cartItems,
		products:     products,
		auditRepo:    auditRepo,
		gw:           gw,
		originCityID: originCityID,
	}
}

func (u *ShipmentUsecase) GetProvinces(ctx context.Context) ([]gateway.Province, error) {
	out, err := u.gw.GetProvinces(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusBadGateway, "shipping gateway error")
	}
	return out, nil
}

func (u *ShipmentUsecase) GetCities(ctx context.Context, provinceID string) ([]gateway.City, error) {
	out, err := u.gw.GetCities(ctx, provinceID)
	if err != nil {
		return nil, NewHTTPError(http.StatusBadGateway, "shipping gateway error")
	}
	return out, nil
}

func (u *ShipmentUsecase) SearchArea(ctx context.Context, query string) ([]gateway.Area, error) {
	if strings.TrimSpace(query) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "query required")
	}
	out, err := u.gw.SearchArea(ctx, query)
	if err != nil {
		return nil, NewHTTPError(http.StatusBadGateway, "shipping gateway error")
	}
	return out, nil
}

// QuoteForCart prices shipping for the actor's current cart: weight is the
// sum of product weight times quantity.
func (u *ShipmentUsecase) QuoteForCart(ctx context.Context, actor model.Actor, destinationID string, courier string) ([]gateway.CostQuote, error) {
	if actor.UserID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(destinationID) == "" || strings.TrimSpace(courier) == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "destination and courier required")
	}

	cart, err := u.carts.FindActiveByUserID(ctx, actor.UserID)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusBadRequest, "cart empty")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItems.ListByCartID(ctx, cart.ID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(items) == 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	var weight int64 = 0
	for _, it := range items {
		p, err := u.products.FindByID(ctx, it.ProductID)
		if err == repo.ErrNotFound {
			return nil, NewHTTPError(http.StatusBadRequest, "invalid product")
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		weight += p.WeightGrams * it.Quantity
	}

	quotes, err := u.gw.GetCost(ctx, u.originCityID, destinationID, weight, courier)
	if err != nil {
		return nil, NewHTTPError(http.StatusBadGateway, "shipping gateway error")
	}
	return quotes, nil
}

type GenerateLabelOutput struct {
	OrderID        int64  `json:"order_id"`
	TrackingNumber string `json:"tracking_number"`
	Status         string `json:"status"`
}

// GenerateLabel mints the waybill for a packed order and moves it to
// DIKIRIM. Only DIKEMAS orders qualify; an existing resi short-circuits so
// a retry (or a concurrent duplicate request) never buys a second label.
func (u *ShipmentUsecase) GenerateLabel(ctx context.Context, actor model.Actor, orderID int64) (GenerateLabelOutput, error) {
	if !actor.Role.IsStaff() {
		return GenerateLabelOutput{}, NewHTTPError(http.StatusForbidden, "staff only")
	}
	if orderID <= 0 {
		return GenerateLabelOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return GenerateLabelOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return GenerateLabelOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	s, err := u.shipments.FindByOrderID(ctx, orderID)
	if err == repo.ErrNotFound {
		return GenerateLabelOutput{}, NewHTTPError(http.StatusNotFound, "shipment not found")
	}
	if err != nil {
		return GenerateLabelOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// Retry after a half-finished earlier attempt, or a concurrent
	// duplicate: the persisted resi is the answer.
	if s.TrackingNumber != "" {
		return GenerateLabelOutput{
			OrderID:        orderID,
			TrackingNumber: s.TrackingNumber,
			Status:         string(model.OrderStatusDikirim),
		}, nil
	}

	if o.Status != model.OrderStatusDikemas {
		return GenerateLabelOutput{}, NewHTTPError(http.StatusConflict, "order not packed")
	}
	if !model.CanTransition(o.Status, model.RoleSystem, model.OrderStatusDikirim) {
		return GenerateLabelOutput{}, NewHTTPError(http.StatusConflict, "transition not allowed")
	}

	label, err := u.gw.GenerateLabel(ctx, gateway.LabelRequest{
		OrderRef:       OrderRef(orderID),
		OriginCityID:   u.originCityID,
		DestinationID:  s.AreaID,
		RecipientName:  s.RecipientName,
		RecipientPhone: s.RecipientPhone,
		Address:        s.Address,
		Courier:        s.Courier,
		Service:        s.Service,
		WeightGrams:    s.WeightGrams,
	})
	if err != nil {
		// Nothing persisted: the order stays DIKEMAS and the caller
		// retries.
		return GenerateLabelOutput{}, NewHTTPError(http.StatusBadGateway, "shipping gateway error")
	}

	resi := label.TrackingNumber

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		stored, err := r.Shipments().SetTrackingNumber(ctx, s.ID, resi)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !stored {
			// A concurrent request won the race; take its resi and
			// leave the status alone.
			winner, err := r.Shipments().FindByOrderID(ctx, orderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			resi = winner.TrackingNumber
			return nil
		}

		if _, err := r.Orders().UpdateStatusFrom(ctx, orderID, model.OrderStatusDikemas, model.OrderStatusDikirim); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return GenerateLabelOutput{}, err
	}

	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       model.AuditActionGenerateLabel,
		ResourceType: model.AuditResourceShipment,
		ResourceID:   s.ID,
		BeforeJSON:   `{"tracking_number":""}`,
		AfterJSON:    fmt.Sprintf(`{"tracking_number":%q}`, resi),
		CreatedAt:    time.Now(),
	}); err != nil {
		return GenerateLabelOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return GenerateLabelOutput{
		OrderID:        orderID,
		TrackingNumber: resi,
		Status:         string(model.OrderStatusDikirim),
	}, nil
}
