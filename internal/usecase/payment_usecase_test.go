package usecase

import (
	"context"
	"net/http"
	"testing"

	"tokonada/internal/domain/model"
	"tokonada/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderRefRoundTrip(t *testing.T) {
	ref := OrderRef(42)
	assert.Equal(t, "TKND-42", ref)

	id, ok := ParseOrderRef(ref)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	_, ok = ParseOrderRef("OTHER-42")
	assert.False(t, ok)
	_, ok = ParseOrderRef("TKND-abc")
	assert.False(t, ok)
	_, ok = ParseOrderRef("TKND--3")
	assert.False(t, ok)
}

func TestRequestToken_CreatesAndPersistsOnce(t *testing.T) {
	orders := &orderRepoMock{}
	shipments := &shipmentRepoMock{}
	users := &userRepoMock{}
	gw := &paymentGatewayMock{}
	tx := &txManagerMock{Repos: &txReposMock{}}

	actor := model.Actor{UserID: 7, Role: model.RoleCustomer}

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, UserID: 7, Status: model.OrderStatusPending, TotalPrice: 500000,
	}, nil)
	shipments.On("FindByOrderID", mock.Anything, int64(42)).Return(model.Shipment{ShippingCost: 20000}, nil)
	users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7, Name: "Budi", Email: "budi@example.com"}, nil)

	// Gross charged is items plus shipping.
	gw.On("CreateTransaction", mock.Anything, "TKND-42", int64(520000), mock.Anything).Return("snap-token-abc", nil)
	orders.On("SetSnapToken", mock.Anything, int64(42), "snap-token-abc").Return(true, nil)

	uc := NewPaymentUsecase(tx, orders, shipments, users, gw)
	out, err := uc.RequestToken(context.Background(), actor, 42)

	assert.NoError(t, err)
	assert.Equal(t, "snap-token-abc", out.SnapToken)
	gw.AssertNumberOfCalls(t, "CreateTransaction", 1)
}

func TestRequestToken_CachedTokenSkipsGateway(t *testing.T) {
	orders := &orderRepoMock{}
	shipments := &shipmentRepoMock{}
	users := &userRepoMock{}
	gw := &paymentGatewayMock{}
	tx := &txManagerMock{Repos: &txReposMock{}}

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, UserID: 7, Status: model.OrderStatusPending, SnapToken: "cached-token",
	}, nil)

	uc := NewPaymentUsecase(tx, orders, shipments, users, gw)
	out, err := uc.RequestToken(context.Background(), model.Actor{UserID: 7, Role: model.RoleCustomer}, 42)

	assert.NoError(t, err)
	assert.Equal(t, "cached-token", out.SnapToken)
	gw.AssertNotCalled(t, "CreateTransaction", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestToken_NonOwnerForbidden(t *testing.T) {
	orders := &orderRepoMock{}
	gw := &paymentGatewayMock{}
	tx := &txManagerMock{Repos: &txReposMock{}}

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 99, Status: model.OrderStatusPending}, nil)

	uc := NewPaymentUsecase(tx, orders, &shipmentRepoMock{}, &userRepoMock{}, gw)
	_, err := uc.RequestToken(context.Background(), model.Actor{UserID: 7, Role: model.RoleCustomer}, 42)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Status)
}

func TestRequestToken_NonPendingConflict(t *testing.T) {
	orders := &orderRepoMock{}
	tx := &txManagerMock{Repos: &txReposMock{}}

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, UserID: 7, Status: model.OrderStatusBatal}, nil)

	uc := NewPaymentUsecase(tx, orders, &shipmentRepoMock{}, &userRepoMock{}, &paymentGatewayMock{})
	_, err := uc.RequestToken(context.Background(), model.Actor{UserID: 7, Role: model.RoleCustomer}, 42)

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

func TestRequestToken_LostRaceServesWinnersToken(t *testing.T) {
	orders := &orderRepoMock{}
	shipments := &shipmentRepoMock{}
	users := &userRepoMock{}
	gw := &paymentGatewayMock{}
	tx := &txManagerMock{Repos: &txReposMock{}}

	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, UserID: 7, Status: model.OrderStatusPending, TotalPrice: 100000,
	}, nil).Once()
	shipments.On("FindByOrderID", mock.Anything, int64(42)).Return(model.Shipment{ShippingCost: 0}, nil)
	users.On("FindByID", mock.Anything, int64(7)).Return(&model.User{ID: 7}, nil)
	gw.On("CreateTransaction", mock.Anything, "TKND-42", int64(100000), mock.Anything).Return("loser-token", nil)

	// The conditional write refuses: someone else already stored a token.
	orders.On("SetSnapToken", mock.Anything, int64(42), "loser-token").Return(false, nil)
	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{
		ID: 42, UserID: 7, Status: model.OrderStatusPending, SnapToken: "winner-token",
	}, nil).Once()

	uc := NewPaymentUsecase(tx, orders, shipments, users, gw)
	out, err := uc.RequestToken(context.Background(), model.Actor{UserID: 7, Role: model.RoleCustomer}, 42)

	assert.NoError(t, err)
	assert.Equal(t, "winner-token", out.SnapToken)
}

func notification(ref string, status string) gateway.PaymentNotification {
	return gateway.PaymentNotification{
		OrderID:           ref,
		TransactionStatus: status,
		StatusCode:        "200",
		GrossAmount:       "520000.00",
		SignatureKey:      "sig",
	}
}

func TestHandleNotification_InvalidSignatureRejected(t *testing.T) {
	gw := &paymentGatewayMock{}
	gw.On("VerifyNotification", mock.Anything).Return(false)

	uc := NewPaymentUsecase(&txManagerMock{Repos: &txReposMock{}}, &orderRepoMock{}, &shipmentRepoMock{}, &userRepoMock{}, gw)
	err := uc.HandleNotification(context.Background(), notification("TKND-42", "settlement"))

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, he.Status)
}

func TestHandleNotification_SettlementCapturesStockOnce(t *testing.T) {
	orders := &orderRepoMock{}
	orderItems := &orderItemRepoMock{}
	inventory := &inventoryRepoMock{}
	gw := &paymentGatewayMock{}

	tx := &txManagerMock{Repos: &txReposMock{
		orders:     orders,
		orderItems: orderItems,
		inventory:  inventory,
	}}
	tx.On("WithinTx", mock.Anything).Return(nil)

	gw.On("VerifyNotification", mock.Anything).Return(true)
	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, Status: model.OrderStatusPending}, nil)
	orders.On("UpdateStatusFrom", mock.Anything, int64(42), model.OrderStatusPending, model.OrderStatusDibayar).Return(true, nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{
		{ProductID: 10, Quantity: 2},
		{ProductID: 11, Quantity: 1},
	}, nil)
	inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(2)).Return(true, nil)
	inventory.On("DecreaseStockIfEnough", mock.Anything, int64(11), int64(1)).Return(true, nil)

	uc := NewPaymentUsecase(tx, orders, &shipmentRepoMock{}, &userRepoMock{}, gw)
	err := uc.HandleNotification(context.Background(), notification("TKND-42", "settlement"))

	assert.NoError(t, err)
	inventory.AssertExpectations(t)
}

func TestHandleNotification_RedeliveredSettlementIsNoOp(t *testing.T) {
	orders := &orderRepoMock{}
	inventory := &inventoryRepoMock{}
	gw := &paymentGatewayMock{}

	tx := &txManagerMock{Repos: &txReposMock{orders: orders, inventory: inventory}}
	tx.On("WithinTx", mock.Anything).Return(nil)

	gw.On("VerifyNotification", mock.Anything).Return(true)
	// Already paid: the repeated callback must not touch stock again.
	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, Status: model.OrderStatusDibayar}, nil)

	uc := NewPaymentUsecase(tx, orders, &shipmentRepoMock{}, &userRepoMock{}, gw)
	err := uc.HandleNotification(context.Background(), notification("TKND-42", "settlement"))

	assert.NoError(t, err)
	orders.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	inventory.AssertNotCalled(t, "DecreaseStockIfEnough", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleNotification_SettlementOnCancelledOrderConflicts(t *testing.T) {
	orders := &orderRepoMock{}
	gw := &paymentGatewayMock{}

	tx := &txManagerMock{Repos: &txReposMock{orders: orders}}
	tx.On("WithinTx", mock.Anything).Return(nil)

	gw.On("VerifyNotification", mock.Anything).Return(true)
	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, Status: model.OrderStatusBatal}, nil)

	uc := NewPaymentUsecase(tx, orders, &shipmentRepoMock{}, &userRepoMock{}, gw)
	err := uc.HandleNotification(context.Background(), notification("TKND-42", "settlement"))

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

func TestHandleNotification_InsufficientStockAtCaptureRollsBack(t *testing.T) {
	orders := &orderRepoMock{}
	orderItems := &orderItemRepoMock{}
	inventory := &inventoryRepoMock{}
	gw := &paymentGatewayMock{}

	tx := &txManagerMock{Repos: &txReposMock{
		orders:     orders,
		orderItems: orderItems,
		inventory:  inventory,
	}}
	tx.On("WithinTx", mock.Anything).Return(nil)

	gw.On("VerifyNotification", mock.Anything).Return(true)
	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, Status: model.OrderStatusPending}, nil)
	orders.On("UpdateStatusFrom", mock.Anything, int64(42), model.OrderStatusPending, model.OrderStatusDibayar).Return(true, nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(42)).Return([]model.OrderItem{
		{ProductID: 10, Quantity: 5},
	}, nil)
	inventory.On("DecreaseStockIfEnough", mock.Anything, int64(10), int64(5)).Return(false, nil)

	uc := NewPaymentUsecase(tx, orders, &shipmentRepoMock{}, &userRepoMock{}, gw)
	err := uc.HandleNotification(context.Background(), notification("TKND-42", "settlement"))

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)
}

func TestHandleNotification_ExpireCancelsPendingOnly(t *testing.T) {
	orders := &orderRepoMock{}
	gw := &paymentGatewayMock{}

	tx := &txManagerMock{Repos: &txReposMock{orders: orders}}
	tx.On("WithinTx", mock.Anything).Return(nil)

	gw.On("VerifyNotification", mock.Anything).Return(true)
	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, Status: model.OrderStatusPending}, nil)
	orders.On("UpdateStatusFrom", mock.Anything, int64(42), model.OrderStatusPending, model.OrderStatusBatal).Return(true, nil)

	uc := NewPaymentUsecase(tx, orders, &shipmentRepoMock{}, &userRepoMock{}, gw)
	err := uc.HandleNotification(context.Background(), notification("TKND-42", "expire"))

	assert.NoError(t, err)
	orders.AssertExpectations(t)
}

func TestHandleNotification_ExpireOnPaidOrderIgnored(t *testing.T) {
	orders := &orderRepoMock{}
	gw := &paymentGatewayMock{}

	tx := &txManagerMock{Repos: &txReposMock{orders: orders}}
	tx.On("WithinTx", mock.Anything).Return(nil)

	gw.On("VerifyNotification", mock.Anything).Return(true)
	orders.On("FindByID", mock.Anything, int64(42)).Return(model.Order{ID: 42, Status: model.OrderStatusDibayar}, nil)

	uc := NewPaymentUsecase(tx, orders, &shipmentRepoMock{}, &userRepoMock{}, gw)
	err := uc.HandleNotification(context.Background(), notification("TKND-42", "expire"))

	assert.NoError(t, err)
	orders.AssertNotCalled(t, "UpdateStatusFrom", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleNotification_ForeignOrderRefRejected(t *testing.T) {
	gw := &paymentGatewayMock{}
	gw.On("VerifyNotification", mock.Anything).Return(true)

	uc := NewPaymentUsecase(&txManagerMock{Repos: &txReposMock{}}, &orderRepoMock{}, &shipmentRepoMock{}, &userRepoMock{}, gw)
	err := uc.HandleNotification(context.Background(), notification("SHOP-42", "settlement"))

	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}
