package utils

import (
	"fmt"
	"net/http"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// GatewayOrderResponse represents the create-order response from the payment gateway
type GatewayOrderResponse struct {
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
	Amount   uint   `json:"amount"`
	Currency string `json:"currency"`
	Message  string `json:"message"`
}

// GatewayCaptureResponse represents the capture response from the payment gateway
type GatewayCaptureResponse struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"status"` // COMPLETED, PENDING, FAILED
	TransactionID string `json:"transaction_id"`
	Amount        uint   `json:"amount"`
	Currency      string `json:"currency"`
	Message       string `json:"message"`
}

// CreateGatewayOrder opens an order at the payment gateway for the given
// amount and payee account. Nothing is persisted locally; the returned order
// id is handed to the client for approval.
func CreateGatewayOrder(amount uint, currency, payeeAccount, receipt string) (string, error) {
	cfg := config.AppConfig

	client := resty.New()
	resp, err := client.R().
		SetBasicAuth(cfg.PaymentApiKey, cfg.PaymentApiSecret).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"amount":     amount,
			"currency":   currency,
			"payee":      payeeAccount,
			"receipt":    receipt,
			"return_url": cfg.FrontendURL + "/payment/success",
			"cancel_url": cfg.FrontendURL + "/payment/cancel",
		}).
		SetResult(&GatewayOrderResponse{}).
		Post(cfg.PaymentApiURL + "/orders")
	if err != nil {
		return "", fmt.Errorf("failed to reach payment gateway: %v", err)
	}

	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
		return "", fmt.Errorf("gateway order creation failed: %s", resp.String())
	}

	order := resp.Result().(*GatewayOrderResponse)
	if order.OrderID == "" {
		return "", fmt.Errorf("gateway returned no order id")
	}

	return order.OrderID, nil
}

// CaptureGatewayOrder finalizes an approved order. The caller must check
// Status on the result; only a COMPLETED capture transfers funds.
func CaptureGatewayOrder(orderID string) (*GatewayCaptureResponse, error) {
	cfg := config.AppConfig

	client := resty.New()
	resp, err := client.R().
		SetBasicAuth(cfg.PaymentApiKey, cfg.PaymentApiSecret).
		SetHeader("Content-Type", "application/json").
		SetResult(&GatewayCaptureResponse{}).
		Post(cfg.PaymentApiURL + "/orders/" + orderID + "/capture")
	if err != nil {
		return nil, fmt.Errorf("failed to reach payment gateway: %v", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("gateway capture failed: %s", resp.String())
	}

	return resp.Result().(*GatewayCaptureResponse), nil
}
