package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// OAuthCredentials are the tokens returned by the authorization code exchange
type OAuthCredentials struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Scope        string
	ExpiresAt    time.Time
}

// SaleRequest is the outgoing gateway sale
type SaleRequest struct {
	Amount              decimal.Decimal
	PaymentMethodNonce  string
	SubmitForSettlement bool
	Require3DS          bool
}

// SaleInput is the transaction form posted by the payment widget page
type SaleInput struct {
	Amount             string `form:"transaction[amount]" json:"amount"`
	PaymentMethodNonce string `form:"transaction[paymentMethodNonce]" json:"paymentMethodNonce"`
	Require3DS         string `form:"require3DS" json:"require3DS"`
}

// Wants3DS reports whether the require3DS field was sent at all
func (in SaleInput) Wants3DS() bool {
	return in.Require3DS != ""
}

// ValidationError is a single gateway-reported validation failure
type ValidationError struct {
	Attribute string `json:"attribute"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// SaleResult is the gateway's answer to a sale
type SaleResult struct {
	Success     bool              `json:"success"`
	Transaction *Transaction      `json:"transaction,omitempty"`
	Message     string            `json:"message,omitempty"`
	Errors      []ValidationError `json:"errors,omitempty"`
}

// Transaction is a gateway transaction as listed on the merchant page
type Transaction struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currencyIsoCode"`
	CreatedAt time.Time       `json:"createdAt"`
}

// SaleResponse is the JSON body returned to the browser
type SaleResponse struct {
	Success bool              `json:"success"`
	Errors  []ValidationError `json:"errors"`
}
