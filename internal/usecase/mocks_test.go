package usecase

import (
	"context"
	"time"

	"tokonada/internal/domain/model"
	"tokonada/internal/gateway"
	repo "tokonada/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos
// =====================

// txManagerMock runs fn against a fixed repo set, no real transaction.
type txManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *txManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type txReposMock struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	shipments  repo.ShipmentRepository
	carts      repo.CartRepository
	cartItems  repo.CartItemRepository
	inventory  repo.InventoryRepository
	products   repo.ProductRepository
}

func (r *txReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposMock) Shipments() repo.ShipmentRepository   { return r.shipments }
func (r *txReposMock) Carts() repo.CartRepository           { return r.carts }
func (r *txReposMock) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *txReposMock) Inventory() repo.InventoryRepository  { return r.inventory }
func (r *txReposMock) Products() repo.ProductRepository     { return r.products }

// =====================
// Repository mocks
// =====================

type orderRepoMock struct{ mock.Mock }

func (m *orderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *orderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *orderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *orderRepoMock) UpdateStatusFrom(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) (bool, error) {
	args := m.Called(ctx, orderID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *orderRepoMock) SetSnapToken(ctx context.Context, orderID int64, token string) (bool, error) {
	args := m.Called(ctx, orderID, token)
	return args.Bool(0), args.Error(1)
}

func (m *orderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *orderRepoMock) ListStaff(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *orderRepoMock) ListByStatus(ctx context.Context, status model.OrderStatus, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, status, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *orderRepoMock) SalesReport(ctx context.Context, from time.Time, to time.Time) ([]repo.SalesBucket, error) {
	args := m.Called(ctx, from, to)
	buckets, _ := args.Get(0).([]repo.SalesBucket)
	return buckets, args.Error(1)
}

type orderItemRepoMock struct{ mock.Mock }

func (m *orderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *orderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type shipmentRepoMock struct{ mock.Mock }

func (m *shipmentRepoMock) Create(ctx context.Context, s model.Shipment) (int64, error) {
	args := m.Called(ctx, s)
	return args.Get(0).(int64), args.Error(1)
}

func (m *shipmentRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Shipment, error) {
	args := m.Called(ctx, orderID)
	s, _ := args.Get(0).(model.Shipment)
	return s, args.Error(1)
}

func (m *shipmentRepoMock) SetTrackingNumber(ctx context.Context, shipmentID int64, trackingNumber string) (bool, error) {
	args := m.Called(ctx, shipmentID, trackingNumber)
	return args.Bool(0), args.Error(1)
}

type cartRepoMock struct{ mock.Mock }

func (m *cartRepoMock) GetOrCreateActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *cartRepoMock) FindActiveByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *cartRepoMock) UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error {
	args := m.Called(ctx, cartID, status)
	return args.Error(0)
}

func (m *cartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type cartItemRepoMock struct{ mock.Mock }

func (m *cartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *cartItemRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64, unitPriceSnapshot int64) error {
	args := m.Called(ctx, cartID, productID, addQty, unitPriceSnapshot)
	return args.Error(0)
}

func (m *cartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *cartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *cartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

type inventoryRepoMock struct{ mock.Mock }

func (m *inventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *inventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *inventoryRepoMock) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

func (m *inventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type productRepoMock struct{ mock.Mock }

func (m *productRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Get(1).(int64), args.Error(2)
}

func (m *productRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) FindBySlug(ctx context.Context, slug string) (model.Product, error) {
	args := m.Called(ctx, slug)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *productRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *productRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *productRepoMock) MarkDeleted(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type userRepoMock struct{ mock.Mock }

func (m *userRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *userRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *userRepoMock) List(ctx context.Context, f repo.UserListFilter) ([]model.User, int64, error) {
	args := m.Called(ctx, f)
	users, _ := args.Get(0).([]model.User)
	return users, args.Get(1).(int64), args.Error(2)
}

func (m *userRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type auditRepoMock struct{ mock.Mock }

func (m *auditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *auditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// Gateway mocks
// =====================

type paymentGatewayMock struct{ mock.Mock }

func (m *paymentGatewayMock) CreateTransaction(ctx context.Context, orderID string, grossAmount int64, customer gateway.CustomerDetails) (string, error) {
	args := m.Called(ctx, orderID, grossAmount, customer)
	return args.String(0), args.Error(1)
}

func (m *paymentGatewayMock) VerifyNotification(n gateway.PaymentNotification) bool {
	args := m.Called(n)
	return args.Bool(0)
}

type shippingGatewayMock struct{ mock.Mock }

func (m *shippingGatewayMock) GetProvinces(ctx context.Context) ([]gateway.Province, error) {
	args := m.Called(ctx)
	ps, _ := args.Get(0).([]gateway.Province)
	return ps, args.Error(1)
}

func (m *shippingGatewayMock) GetCities(ctx context.Context, provinceID string) ([]gateway.City, error) {
	args := m.Called(ctx, provinceID)
	cs, _ := args.Get(0).([]gateway.City)
	return cs, args.Error(1)
}

func (m *shippingGatewayMock) SearchArea(ctx context.Context, query string) ([]gateway.Area, error) {
	args := m.Called(ctx, query)
	as, _ := args.Get(0).([]gateway.Area)
	return as, args.Error(1)
}

func (m *shippingGatewayMock) GetCost(ctx context.Context, originCityID string, destinationID string, weightGrams int64, courier string) ([]gateway.CostQuote, error) {
	args := m.Called(ctx, originCityID, destinationID, weightGrams, courier)
	qs, _ := args.Get(0).([]gateway.CostQuote)
	return qs, args.Error(1)
}

func (m *shippingGatewayMock) GenerateLabel(ctx context.Context, req gateway.LabelRequest) (gateway.LabelResult, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(gateway.LabelResult)
	return r, args.Error(1)
}
