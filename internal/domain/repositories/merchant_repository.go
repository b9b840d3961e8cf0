package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"merchant-connect.backend/internal/domain/entities"
)

// MerchantRepository defines merchant data operations
type MerchantRepository interface {
	Create(ctx context.Context, merchant *entities.Merchant) error
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Merchant, error)
	GetByPublicID(ctx context.Context, publicID string) (*entities.Merchant, error)
	GetByEmail(ctx context.Context, email string) (*entities.Merchant, error)
	GetByState(ctx context.Context, state string) (*entities.Merchant, error)
	UpdateState(ctx context.Context, id uuid.UUID, state string) error
	UpdateCredentials(ctx context.Context, id uuid.UUID, creds StoredCredentials) error
	List(ctx context.Context) ([]*entities.Merchant, error)
}

// StoredCredentials are the already-encrypted tokens and gateway id written after a callback
type StoredCredentials struct {
	EncryptedAccessToken  null.String
	EncryptedRefreshToken null.String
	BraintreeID           null.String
}
