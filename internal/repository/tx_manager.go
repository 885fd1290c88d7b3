package repository

import "context"

// TxRepos is the repository set bound to one transaction.
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Shipments() ShipmentRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Inventory() InventoryRepository
	Products() ProductRepository
}

// TransactionManager hides begin/commit/rollback from usecases. fn returning
// an error rolls everything back.
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
