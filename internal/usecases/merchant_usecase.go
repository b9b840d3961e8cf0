package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"merchant-connect.backend/internal/domain/entities"
	domainerrors "merchant-connect.backend/internal/domain/errors"
	"merchant-connect.backend/internal/domain/gateway"
	"merchant-connect.backend/internal/domain/prefill"
	"merchant-connect.backend/internal/domain/repositories"
	"merchant-connect.backend/pkg/crypto"
	"merchant-connect.backend/pkg/logger"
)

const (
	// ConnectScope is the OAuth scope requested from merchants
	ConnectScope = "read_write"
	// RecentTransactionsLimit bounds the list on the merchant page
	RecentTransactionsLimit = 20
)

// MerchantUsecase handles merchant signup and the merchant page
type MerchantUsecase struct {
	merchantRepo repositories.MerchantRepository
	gateways     gateway.ClientFactory
	vault        *TokenVault
	redirectURI  string
	newState     func() (string, error)
}

// NewMerchantUsecase creates a new merchant usecase
func NewMerchantUsecase(
	merchantRepo repositories.MerchantRepository,
	gateways gateway.ClientFactory,
	vault *TokenVault,
	redirectURI string,
) *MerchantUsecase {
	return &MerchantUsecase{
		merchantRepo: merchantRepo,
		gateways:     gateways,
		vault:        vault,
		redirectURI:  redirectURI,
		newState:     crypto.GenerateState,
	}
}

// Signup finds the merchant registered under the email or creates one
func (u *MerchantUsecase) Signup(ctx context.Context, input *entities.SignupInput) (*entities.Merchant, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", domainerrors.ErrInvalidInput)
	}

	existing, err := u.merchantRepo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, err
	}

	countryCode := strings.TrimSpace(input.CountryCode)
	if countryCode == "" {
		countryCode = prefill.DefaultCountryCode
	}

	merchant := &entities.Merchant{
		Email:       email,
		CountryCode: countryCode,
	}
	if err := u.merchantRepo.Create(ctx, merchant); err != nil {
		return nil, err
	}

	logger.Info(logger.WithMerchant(ctx, merchant.PublicID), "Merchant created",
		zap.String("country_code", countryCode),
	)
	return merchant, nil
}

// GetDetail assembles the merchant page. An unconnected merchant gets a fresh
// OAuth state and connect URL; a merchant with an access token gets a client
// token and recent transactions.
func (u *MerchantUsecase) GetDetail(ctx context.Context, publicID string) (*entities.MerchantDetail, error) {
	merchant, err := u.merchantRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithMerchant(ctx, merchant.PublicID)

	detail := &entities.MerchantDetail{Merchant: merchant}

	if !merchant.IsConnected() {
		connectURL, err := u.connectURL(ctx, merchant)
		if err != nil {
			return nil, err
		}
		detail.ConnectURL = connectURL
	}

	if merchant.HasAccessToken() {
		accessToken, err := u.vault.AccessToken(merchant)
		if err != nil {
			return nil, err
		}
		client := u.gateways.ForMerchant(accessToken)

		clientToken, err := client.GenerateClientToken(ctx)
		if err != nil {
			return nil, err
		}
		detail.ClientToken = clientToken

		txns, err := client.SearchTransactions(ctx, RecentTransactionsLimit)
		if err != nil {
			return nil, err
		}
		detail.Transactions = txns
	}

	return detail, nil
}

func (u *MerchantUsecase) connectURL(ctx context.Context, merchant *entities.Merchant) (string, error) {
	state, err := u.newState()
	if err != nil {
		return "", err
	}
	if err := u.merchantRepo.UpdateState(ctx, merchant.ID, state); err != nil {
		return "", err
	}
	merchant.State.SetValid(state)

	logger.Debug(ctx, "OAuth state issued")

	return u.gateways.OAuth().ConnectURL(gateway.ConnectParams{
		RedirectURI: u.redirectURI,
		Scope:       ConnectScope,
		State:       state,
		Prefill:     prefill.UserAndBusiness(merchant.CountryCode).Params(),
	}), nil
}
