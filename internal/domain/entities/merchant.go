package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Merchant represents a business onboarding onto the gateway through this app
type Merchant struct {
	ID                    uuid.UUID   `json:"-"`
	Email                 string      `json:"email"`
	PublicID              string      `json:"publicId"`
	CountryCode           string      `json:"countryCode"`
	State                 null.String `json:"-"`
	EncryptedAccessToken  null.String `json:"-"`
	EncryptedRefreshToken null.String `json:"-"`
	BraintreeID           null.String `json:"braintreeId,omitempty"`
	CreatedAt             time.Time   `json:"createdAt"`
	UpdatedAt             time.Time   `json:"updatedAt"`
}

// IsConnected reports whether a gateway id was assigned by a completed callback
func (m *Merchant) IsConnected() bool {
	return m.BraintreeID.Valid && m.BraintreeID.String != ""
}

// HasAccessToken reports whether an access token is on file
func (m *Merchant) HasAccessToken() bool {
	return m.EncryptedAccessToken.Valid && m.EncryptedAccessToken.String != ""
}

// SignupInput represents the signup form
type SignupInput struct {
	Email       string `form:"email" json:"email" binding:"required"`
	CountryCode string `form:"country_code" json:"country_code"`
}

// MerchantDetail is what the merchant page renders. ConnectURL is set while
// unconnected; ClientToken and Transactions once an access token exists.
type MerchantDetail struct {
	Merchant     *Merchant
	ConnectURL   string
	ClientToken  string
	Transactions []Transaction
}

// CallbackInput carries the OAuth redirect query parameters
type CallbackInput struct {
	State           string `form:"state"`
	Code            string `form:"code"`
	Error           string `form:"error"`
	MerchantID      string `form:"merchantId"`
	MerchantIDSnake string `form:"merchant_id"`
}

// GatewayMerchantID returns the gateway-assigned merchant id in either spelling
func (in CallbackInput) GatewayMerchantID() string {
	if in.MerchantID != "" {
		return in.MerchantID
	}
	return in.MerchantIDSnake
}
