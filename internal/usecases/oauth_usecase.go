package usecases

import (
	"context"
	"errors"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"

	"merchant-connect.backend/internal/domain/entities"
	domainerrors "merchant-connect.backend/internal/domain/errors"
	"merchant-connect.backend/internal/domain/gateway"
	"merchant-connect.backend/internal/domain/repositories"
	"merchant-connect.backend/pkg/logger"
)

// OAuthUsecase completes the gateway connect flow
type OAuthUsecase struct {
	merchantRepo repositories.MerchantRepository
	gateways     gateway.ClientFactory
	vault        *TokenVault
}

// NewOAuthUsecase creates a new OAuth usecase
func NewOAuthUsecase(
	merchantRepo repositories.MerchantRepository,
	gateways gateway.ClientFactory,
	vault *TokenVault,
) *OAuthUsecase {
	return &OAuthUsecase{
		merchantRepo: merchantRepo,
		gateways:     gateways,
		vault:        vault,
	}
}

// HandleCallback matches the returned state to a merchant and, unless the
// gateway reported an error, exchanges the code and stores the credentials.
// The merchant is returned in both cases so the caller can redirect.
func (u *OAuthUsecase) HandleCallback(ctx context.Context, input *entities.CallbackInput) (*entities.Merchant, error) {
	merchant, err := u.merchantRepo.GetByState(ctx, input.State)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrStateMismatch
		}
		return nil, err
	}
	ctx = logger.WithMerchant(ctx, merchant.PublicID)

	if input.Error != "" {
		logger.Info(ctx, "Merchant declined gateway connect", zap.String("error", input.Error))
		return merchant, nil
	}

	creds, err := u.gateways.OAuth().CreateTokenFromCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	if err := u.vault.SetAccessToken(merchant, creds.AccessToken); err != nil {
		return nil, err
	}
	if err := u.vault.SetRefreshToken(merchant, creds.RefreshToken); err != nil {
		return nil, err
	}
	merchant.BraintreeID = null.NewString(input.GatewayMerchantID(), input.GatewayMerchantID() != "")

	if err := u.merchantRepo.UpdateCredentials(ctx, merchant.ID, repositories.StoredCredentials{
		EncryptedAccessToken:  merchant.EncryptedAccessToken,
		EncryptedRefreshToken: merchant.EncryptedRefreshToken,
		BraintreeID:           merchant.BraintreeID,
	}); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Merchant connected", zap.String("braintree_id", merchant.BraintreeID.String))
	return merchant, nil
}
