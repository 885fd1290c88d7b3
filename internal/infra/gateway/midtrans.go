package gateway

import (
	"bytes"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tokonada/internal/gateway"
)

// MidtransClient talks to the Snap API over HTTP. The server key doubles as
// basic-auth username and as the notification signature ingredient.
type MidtransClient struct {
	baseURL   string
	serverKey string
	http      *http.Client
}

func NewMidtransClient(baseURL string, serverKey string) *MidtransClient {
	return &MidtransClient{
		baseURL:   baseURL,
		serverKey: serverKey,
		http:      &http.Client{Timeout: 15 * time.Second},
	}
}

type snapTransactionRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	CustomerDetails struct {
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	} `json:"customer_details"`
}

type snapTransactionResponse struct {
	Token        string   `json:"token"`
	RedirectURL  string   `json:"redirect_url"`
	ErrorMessage []string `json:"error_messages"`
}

func (c *MidtransClient) CreateTransaction(ctx context.Context, orderID string, grossAmount int64, customer gateway.CustomerDetails) (string, error) {
	var reqBody snapTransactionRequest
	reqBody.TransactionDetails.OrderID = orderID
	reqBody.TransactionDetails.GrossAmount = grossAmount
	reqBody.CustomerDetails.FirstName = customer.Name
	reqBody.CustomerDetails.Email = customer.Email
	reqBody.CustomerDetails.Phone = customer.Phone

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/snap/v1/transactions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.serverKey, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", gateway.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: snap returned %d", gateway.ErrGateway, resp.StatusCode)
	}

	var out snapTransactionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %v", gateway.ErrGateway, err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("%w: empty token", gateway.ErrGateway)
	}

	return out.Token, nil
}

// VerifyNotification recomputes sha512(order_id + status_code + gross_amount
// + server_key) and compares it to the signature in the callback.
func (c *MidtransClient) VerifyNotification(n gateway.PaymentNotification) bool {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + c.serverKey))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) == 1
}
