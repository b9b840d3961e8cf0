package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"merchant-connect.backend/internal/domain/entities"
	domainerrors "merchant-connect.backend/internal/domain/errors"
	domaingateway "merchant-connect.backend/internal/domain/gateway"
	"merchant-connect.backend/pkg/logger"
	"merchant-connect.backend/pkg/metrics"
)

const (
	clientTokenPath  = "/client_token"
	transactionsPath = "/transactions"

	// DefaultSearchLimit bounds the transaction list on the merchant page
	DefaultSearchLimit = 20
)

// MerchantClient calls the transaction API on behalf of one merchant
type MerchantClient struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func newMerchantClient(baseURL, accessToken string, httpClient *http.Client) *MerchantClient {
	return &MerchantClient{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  httpClient,
	}
}

var _ domaingateway.MerchantClient = (*MerchantClient)(nil)

type clientTokenResponse struct {
	ClientToken string `json:"clientToken"`
}

type saleOptions struct {
	SubmitForSettlement bool              `json:"submitForSettlement"`
	ThreeDSecure        *threeDSecureOpts `json:"threeDSecure,omitempty"`
}

type threeDSecureOpts struct {
	Required bool `json:"required"`
}

type saleRequest struct {
	Type               string      `json:"type"`
	Amount             string      `json:"amount"`
	PaymentMethodNonce string      `json:"paymentMethodNonce"`
	Options            saleOptions `json:"options"`
}

type transactionResponse struct {
	Transaction *entities.Transaction `json:"transaction"`
}

type failureResponse struct {
	Message     string                     `json:"message"`
	Errors      []entities.ValidationError `json:"errors"`
	Transaction *entities.Transaction      `json:"transaction"`
}

type searchResponse struct {
	Transactions []entities.Transaction `json:"transactions"`
}

// GenerateClientToken returns a token for the browser payment widget
func (c *MerchantClient) GenerateClientToken(ctx context.Context) (string, error) {
	var resp clientTokenResponse
	status, body, err := c.do(ctx, "client_token", http.MethodPost, clientTokenPath, struct{}{})
	if err != nil {
		return "", err
	}
	if status/100 != 2 {
		return "", unexpectedStatus("client_token", status)
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal client token: %w", err)
	}
	return resp.ClientToken, nil
}

// Sale submits a sale. Validation failures come back as an unsuccessful result.
func (c *MerchantClient) Sale(ctx context.Context, req entities.SaleRequest) (*entities.SaleResult, error) {
	payload := saleRequest{
		Type:               "sale",
		Amount:             req.Amount.StringFixed(2),
		PaymentMethodNonce: req.PaymentMethodNonce,
		Options:            saleOptions{SubmitForSettlement: req.SubmitForSettlement},
	}
	if req.Require3DS {
		payload.Options.ThreeDSecure = &threeDSecureOpts{Required: true}
	}

	status, body, err := c.do(ctx, "sale", http.MethodPost, transactionsPath, payload)
	if err != nil {
		return nil, err
	}

	switch {
	case status/100 == 2:
		var resp transactionResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sale: %w", err)
		}
		return &entities.SaleResult{Success: true, Transaction: resp.Transaction}, nil
	case status == http.StatusUnprocessableEntity:
		var resp failureResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal sale failure: %w", err)
		}
		logger.Info(ctx, "Gateway declined sale",
			zap.String("message", resp.Message),
			zap.Int("errors", len(resp.Errors)),
		)
		return &entities.SaleResult{
			Success:     false,
			Transaction: resp.Transaction,
			Message:     resp.Message,
			Errors:      resp.Errors,
		}, nil
	default:
		return nil, unexpectedStatus("sale", status)
	}
}

// SearchTransactions lists the merchant's most recent transactions
func (c *MerchantClient) SearchTransactions(ctx context.Context, limit int) ([]entities.Transaction, error) {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	path := transactionsPath + "?limit=" + strconv.Itoa(limit)

	status, body, err := c.do(ctx, "search_transactions", http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status/100 != 2 {
		return nil, unexpectedStatus("search_transactions", status)
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
	}
	if resp.Transactions == nil {
		resp.Transactions = []entities.Transaction{}
	}
	return resp.Transactions, nil
}

// do sends one authenticated JSON request and returns the raw status and body
func (c *MerchantClient) do(ctx context.Context, operation, method, path string, request interface{}) (int, []byte, error) {
	start := time.Now()

	var reader io.Reader
	if request != nil {
		payload, err := json.Marshal(request)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	logger.Debug(ctx, "Calling payment gateway",
		zap.String("operation", operation),
		zap.String("method", method),
	)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.ObserveGatewayCall(operation, metrics.OutcomeError, time.Since(start))
		return 0, nil, fmt.Errorf("%w: %v", domainerrors.ErrGatewayUnavailable, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		metrics.ObserveGatewayCall(operation, metrics.OutcomeError, time.Since(start))
		return 0, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	metrics.ObserveGatewayCall(operation, outcomeFor(httpResp.StatusCode), time.Since(start))
	return httpResp.StatusCode, body, nil
}

func outcomeFor(status int) string {
	switch {
	case status/100 == 2:
		return metrics.OutcomeOK
	case status == http.StatusUnprocessableEntity:
		return metrics.OutcomeDeclined
	default:
		return metrics.OutcomeError
	}
}

func unexpectedStatus(operation string, status int) error {
	return fmt.Errorf("%w: %s returned status %d", domainerrors.ErrGatewayUnavailable, operation, status)
}
