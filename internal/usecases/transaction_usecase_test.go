package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"merchant-connect.backend/internal/domain/entities"
	domainerrors "merchant-connect.backend/internal/domain/errors"
	"merchant-connect.backend/internal/usecases"
)

func newTransactionUsecase(t *testing.T) (*usecases.TransactionUsecase, *MockMerchantRepository, *MockClientFactory, *usecases.TokenVault) {
	t.Helper()
	repo := new(MockMerchantRepository)
	factory := new(MockClientFactory)
	vault := newTestVault(t)
	return usecases.NewTransactionUsecase(repo, factory, vault), repo, factory, vault
}

func connectedMerchant(t *testing.T, vault *usecases.TokenVault) *entities.Merchant {
	t.Helper()
	m := &entities.Merchant{ID: uuid.New(), PublicID: "pub-1", BraintreeID: null.StringFrom("bt-1")}
	require.NoError(t, vault.SetAccessToken(m, "access-token"))
	return m
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "10", want: "10"},
		{raw: " 10.5 ", want: "10.5"},
		{raw: "0.01", want: "0.01"},
		{raw: "", wantErr: true},
		{raw: "abc", wantErr: true},
		{raw: "0", wantErr: true},
		{raw: "-1.00", wantErr: true},
		{raw: "1.001", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := usecases.ParseAmount(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got))
		})
	}
}

func TestTransactionUsecase_CreateSale_Without3DS(t *testing.T) {
	uc, repo, factory, vault := newTransactionUsecase(t)
	m := connectedMerchant(t, vault)
	client := new(MockMerchantClient)

	repo.On("GetByPublicID", mock.Anything, "pub-1").Return(m, nil).Once()
	factory.On("ForMerchant", "access-token").Return(client).Once()
	client.On("Sale", mock.Anything, mock.MatchedBy(func(req entities.SaleRequest) bool {
		return req.Amount.Equal(decimal.RequireFromString("10.00")) &&
			req.PaymentMethodNonce == "fake-valid-nonce" &&
			req.SubmitForSettlement &&
			!req.Require3DS
	})).Return(&entities.SaleResult{Success: true}, nil).Once()

	res, err := uc.CreateSale(context.Background(), "pub-1", &entities.SaleInput{Amount: "10.00", PaymentMethodNonce: "fake-valid-nonce"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	client.AssertExpectations(t)
}

func TestTransactionUsecase_CreateSale_With3DS(t *testing.T) {
	uc, repo, factory, vault := newTransactionUsecase(t)
	m := connectedMerchant(t, vault)
	client := new(MockMerchantClient)

	repo.On("GetByPublicID", mock.Anything, "pub-1").Return(m, nil).Once()
	factory.On("ForMerchant", "access-token").Return(client).Once()
	client.On("Sale", mock.Anything, mock.MatchedBy(func(req entities.SaleRequest) bool {
		return req.Require3DS
	})).Return(&entities.SaleResult{Success: true}, nil).Once()

	_, err := uc.CreateSale(context.Background(), "pub-1", &entities.SaleInput{Amount: "5", PaymentMethodNonce: "n", Require3DS: "on"})
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestTransactionUsecase_CreateSale_GatewayFailureIsAResult(t *testing.T) {
	uc, repo, factory, vault := newTransactionUsecase(t)
	m := connectedMerchant(t, vault)
	client := new(MockMerchantClient)

	failure := &entities.SaleResult{Success: false, Errors: []entities.ValidationError{{Code: "91564"}}}
	repo.On("GetByPublicID", mock.Anything, "pub-1").Return(m, nil).Once()
	factory.On("ForMerchant", "access-token").Return(client).Once()
	client.On("Sale", mock.Anything, mock.Anything).Return(failure, nil).Once()

	res, err := uc.CreateSale(context.Background(), "pub-1", &entities.SaleInput{Amount: "1", PaymentMethodNonce: "n"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "91564", res.Errors[0].Code)
}

func TestTransactionUsecase_CreateSale_InvalidInput(t *testing.T) {
	uc, repo, _, _ := newTransactionUsecase(t)

	_, err := uc.CreateSale(context.Background(), "pub-1", &entities.SaleInput{Amount: "-3", PaymentMethodNonce: "n"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = uc.CreateSale(context.Background(), "pub-1", &entities.SaleInput{Amount: "3"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	repo.AssertNotCalled(t, "GetByPublicID", mock.Anything, mock.Anything)
}

func TestTransactionUsecase_CreateSale_MerchantStates(t *testing.T) {
	uc, repo, factory, _ := newTransactionUsecase(t)

	repo.On("GetByPublicID", mock.Anything, "missing").Return(nil, domainerrors.ErrNotFound).Once()
	_, err := uc.CreateSale(context.Background(), "missing", &entities.SaleInput{Amount: "1", PaymentMethodNonce: "n"})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	repo.On("GetByPublicID", mock.Anything, "pending").Return(&entities.Merchant{ID: uuid.New(), PublicID: "pending"}, nil).Once()
	_, err = uc.CreateSale(context.Background(), "pending", &entities.SaleInput{Amount: "1", PaymentMethodNonce: "n"})
	assert.ErrorIs(t, err, domainerrors.ErrMerchantNotConnected)

	factory.AssertNotCalled(t, "ForMerchant", mock.Anything)
}

func TestTransactionUsecase_CreateSale_TransportError(t *testing.T) {
	uc, repo, factory, vault := newTransactionUsecase(t)
	m := connectedMerchant(t, vault)
	client := new(MockMerchantClient)

	repo.On("GetByPublicID", mock.Anything, "pub-1").Return(m, nil).Once()
	factory.On("ForMerchant", "access-token").Return(client).Once()
	client.On("Sale", mock.Anything, mock.Anything).Return(nil, domainerrors.ErrGatewayUnavailable).Once()

	_, err := uc.CreateSale(context.Background(), "pub-1", &entities.SaleInput{Amount: "1", PaymentMethodNonce: "n"})
	assert.ErrorIs(t, err, domainerrors.ErrGatewayUnavailable)
}
