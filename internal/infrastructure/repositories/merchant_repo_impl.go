package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"merchant-connect.backend/internal/domain/entities"
	domainerrors "merchant-connect.backend/internal/domain/errors"
	domainrepos "merchant-connect.backend/internal/domain/repositories"
	"merchant-connect.backend/internal/infrastructure/models"
	"merchant-connect.backend/pkg/utils"
)

// MerchantRepository implements merchant data operations
type MerchantRepository struct {
	db *gorm.DB
}

// NewMerchantRepository creates a new merchant repository
func NewMerchantRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

// Create creates a new merchant, filling ID, PublicID and timestamps when unset
func (r *MerchantRepository) Create(ctx context.Context, merchant *entities.Merchant) error {
	now := time.Now()
	if merchant.ID == uuid.Nil {
		merchant.ID = utils.GenerateUUIDv7()
	}
	if merchant.PublicID == "" {
		merchant.PublicID = utils.NewPublicID()
	}
	if merchant.CreatedAt.IsZero() {
		merchant.CreatedAt = now
	}
	merchant.UpdatedAt = now

	m := toModel(merchant)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	return nil
}

// GetByID gets a merchant by primary key
func (r *MerchantRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Merchant, error) {
	return r.first(ctx, "id = ?", id)
}

// GetByPublicID gets a merchant by its URL-facing id
func (r *MerchantRepository) GetByPublicID(ctx context.Context, publicID string) (*entities.Merchant, error) {
	return r.first(ctx, "public_id = ?", publicID)
}

// GetByEmail returns the oldest merchant with the given email
func (r *MerchantRepository) GetByEmail(ctx context.Context, email string) (*entities.Merchant, error) {
	return r.first(ctx, "email = ?", email)
}

// GetByState returns the merchant whose pending OAuth state matches
func (r *MerchantRepository) GetByState(ctx context.Context, state string) (*entities.Merchant, error) {
	if state == "" {
		return nil, domainerrors.ErrNotFound
	}
	return r.first(ctx, "state = ?", state)
}

// UpdateState stores a fresh OAuth state nonce
func (r *MerchantRepository) UpdateState(ctx context.Context, id uuid.UUID, state string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Merchant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"state":      state,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// UpdateCredentials stores encrypted OAuth tokens and the gateway merchant id
func (r *MerchantRepository) UpdateCredentials(ctx context.Context, id uuid.UUID, creds domainrepos.StoredCredentials) error {
	result := r.db.WithContext(ctx).
		Model(&models.Merchant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"encrypted_braintree_access_token":  creds.EncryptedAccessToken.Ptr(),
			"encrypted_braintree_refresh_token": creds.EncryptedRefreshToken.Ptr(),
			"braintree_id":                      creds.BraintreeID.Ptr(),
			"updated_at":                        time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

// List lists merchants, newest first
func (r *MerchantRepository) List(ctx context.Context) ([]*entities.Merchant, error) {
	var merchantModels []models.Merchant
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&merchantModels).Error; err != nil {
		return nil, err
	}

	merchants := make([]*entities.Merchant, 0, len(merchantModels))
	for i := range merchantModels {
		merchants = append(merchants, toEntity(&merchantModels[i]))
	}
	return merchants, nil
}

func (r *MerchantRepository) first(ctx context.Context, query string, args ...interface{}) (*entities.Merchant, error) {
	var m models.Merchant
	err := r.db.WithContext(ctx).Where(query, args...).Order("created_at ASC").First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return toEntity(&m), nil
}

func toModel(e *entities.Merchant) *models.Merchant {
	return &models.Merchant{
		ID:                             e.ID,
		Email:                          e.Email,
		PublicID:                       e.PublicID,
		CountryCode:                    e.CountryCode,
		State:                          e.State.Ptr(),
		EncryptedBraintreeAccessToken:  e.EncryptedAccessToken.Ptr(),
		EncryptedBraintreeRefreshToken: e.EncryptedRefreshToken.Ptr(),
		BraintreeID:                    e.BraintreeID.Ptr(),
		CreatedAt:                      e.CreatedAt,
		UpdatedAt:                      e.UpdatedAt,
	}
}

func toEntity(m *models.Merchant) *entities.Merchant {
	return &entities.Merchant{
		ID:                    m.ID,
		Email:                 m.Email,
		PublicID:              m.PublicID,
		CountryCode:           m.CountryCode,
		State:                 null.StringFromPtr(m.State),
		EncryptedAccessToken:  null.StringFromPtr(m.EncryptedBraintreeAccessToken),
		EncryptedRefreshToken: null.StringFromPtr(m.EncryptedBraintreeRefreshToken),
		BraintreeID:           null.StringFromPtr(m.BraintreeID),
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
