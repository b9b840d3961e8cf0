package usecases_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"merchant-connect.backend/internal/domain/entities"
	"merchant-connect.backend/internal/domain/gateway"
	"merchant-connect.backend/internal/domain/repositories"
	"merchant-connect.backend/internal/usecases"
	"merchant-connect.backend/pkg/crypto"
)

const testKeyRing = "k1:Jt4BWW375DkoBaiX22bQRt6xzwnFdUIbTCENxK4lOqw="

func newTestVault(t *testing.T) *usecases.TokenVault {
	t.Helper()
	ring, err := crypto.ParseKeyRing(testKeyRing)
	require.NoError(t, err)
	cipher, err := crypto.NewTokenCipher(ring, "")
	require.NoError(t, err)
	return usecases.NewTokenVault(cipher)
}

// Mock MerchantRepository
type MockMerchantRepository struct {
	mock.Mock
}

func (m *MockMerchantRepository) Create(ctx context.Context, merchant *entities.Merchant) error {
	args := m.Called(ctx, merchant)
	if args.Error(0) == nil {
		if merchant.ID == uuid.Nil {
			merchant.ID = uuid.New()
		}
		if merchant.PublicID == "" {
			merchant.PublicID = uuid.NewString()
		}
	}
	return args.Error(0)
}

func (m *MockMerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Merchant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Merchant), args.Error(1)
}

func (m *MockMerchantRepository) GetByPublicID(ctx context.Context, publicID string) (*entities.Merchant, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Merchant), args.Error(1)
}

func (m *MockMerchantRepository) GetByEmail(ctx context.Context, email string) (*entities.Merchant, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Merchant), args.Error(1)
}

func (m *MockMerchantRepository) GetByState(ctx context.Context, state string) (*entities.Merchant, error) {
	args := m.Called(ctx, state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Merchant), args.Error(1)
}

func (m *MockMerchantRepository) UpdateState(ctx context.Context, id uuid.UUID, state string) error {
	args := m.Called(ctx, id, state)
	return args.Error(0)
}

func (m *MockMerchantRepository) UpdateCredentials(ctx context.Context, id uuid.UUID, creds repositories.StoredCredentials) error {
	args := m.Called(ctx, id, creds)
	return args.Error(0)
}

func (m *MockMerchantRepository) List(ctx context.Context) ([]*entities.Merchant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Merchant), args.Error(1)
}

// Mock gateway.ClientFactory
type MockClientFactory struct {
	mock.Mock
}

func (m *MockClientFactory) OAuth() gateway.OAuthClient {
	args := m.Called()
	return args.Get(0).(gateway.OAuthClient)
}

func (m *MockClientFactory) ForMerchant(accessToken string) gateway.MerchantClient {
	args := m.Called(accessToken)
	return args.Get(0).(gateway.MerchantClient)
}

// Mock gateway.OAuthClient
type MockOAuthClient struct {
	mock.Mock
}

func (m *MockOAuthClient) ConnectURL(params gateway.ConnectParams) string {
	args := m.Called(params)
	return args.String(0)
}

func (m *MockOAuthClient) CreateTokenFromCode(ctx context.Context, code string) (*entities.OAuthCredentials, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OAuthCredentials), args.Error(1)
}

// Mock gateway.MerchantClient
type MockMerchantClient struct {
	mock.Mock
}

func (m *MockMerchantClient) GenerateClientToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockMerchantClient) Sale(ctx context.Context, req entities.SaleRequest) (*entities.SaleResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SaleResult), args.Error(1)
}

func (m *MockMerchantClient) SearchTransactions(ctx context.Context, limit int) ([]entities.Transaction, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.Transaction), args.Error(1)
}
