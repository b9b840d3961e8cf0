package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"merchant-connect.backend/internal/domain/entities"
	domainerrors "merchant-connect.backend/internal/domain/errors"
	"merchant-connect.backend/internal/domain/gateway"
	"merchant-connect.backend/internal/domain/repositories"
	"merchant-connect.backend/pkg/logger"
)

// TransactionUsecase submits sales on behalf of connected merchants
type TransactionUsecase struct {
	merchantRepo repositories.MerchantRepository
	gateways     gateway.ClientFactory
	vault        *TokenVault
}

// NewTransactionUsecase creates a new transaction usecase
func NewTransactionUsecase(
	merchantRepo repositories.MerchantRepository,
	gateways gateway.ClientFactory,
	vault *TokenVault,
) *TransactionUsecase {
	return &TransactionUsecase{
		merchantRepo: merchantRepo,
		gateways:     gateways,
		vault:        vault,
	}
}

// ParseAmount accepts a positive amount with at most two decimal places
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", domainerrors.ErrInvalidInput)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount is not a number", domainerrors.ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", domainerrors.ErrInvalidInput)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return decimal.Zero, fmt.Errorf("%w: amount has more than two decimal places", domainerrors.ErrInvalidInput)
	}
	return amount, nil
}

// CreateSale submits a sale with settlement. 3-D Secure is required only when
// the request asked for it.
func (u *TransactionUsecase) CreateSale(ctx context.Context, publicID string, input *entities.SaleInput) (*entities.SaleResult, error) {
	amount, err := ParseAmount(input.Amount)
	if err != nil {
		return nil, err
	}
	nonce := strings.TrimSpace(input.PaymentMethodNonce)
	if nonce == "" {
		return nil, fmt.Errorf("%w: payment method nonce is required", domainerrors.ErrInvalidInput)
	}

	merchant, err := u.merchantRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithMerchant(ctx, merchant.PublicID)

	if !merchant.HasAccessToken() {
		return nil, domainerrors.ErrMerchantNotConnected
	}
	accessToken, err := u.vault.AccessToken(merchant)
	if err != nil {
		return nil, err
	}

	result, err := u.gateways.ForMerchant(accessToken).Sale(ctx, entities.SaleRequest{
		Amount:              amount,
		PaymentMethodNonce:  nonce,
		SubmitForSettlement: true,
		Require3DS:          input.Wants3DS(),
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "Sale submitted",
		zap.Bool("success", result.Success),
		zap.String("amount", amount.StringFixed(2)),
		zap.Bool("require_3ds", input.Wants3DS()),
	)
	return result, nil
}
