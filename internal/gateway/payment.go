package gateway

import (
	"context"
	"errors"
)

// ErrGateway wraps any payment/shipping provider failure so callers can
// distinguish "retry later" from their own bugs.
var ErrGateway = errors.New("gateway error")

type CustomerDetails struct {
	Name  string
	Email string
	Phone string
}

// PaymentNotification is the inbound callback payload after the client has
// verified its signature.
type PaymentNotification struct {
	OrderID           string
	TransactionStatus string
	StatusCode        string
	GrossAmount       string
	SignatureKey      string
}

// PaymentGateway is the outbound Snap boundary. CreateTransaction returns
// the checkout session token for the hosted payment page.
type PaymentGateway interface {
	CreateTransaction(ctx context.Context, orderID string, grossAmount int64, customer CustomerDetails) (string, error)

	// VerifyNotification checks the callback signature against the server
	// key. It does not touch any order state.
	VerifyNotification(n PaymentNotification) bool
}
