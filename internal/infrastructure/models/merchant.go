package models

import (
	"time"

	"github.com/google/uuid"
)

type Merchant struct {
	ID                             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email                          string    `gorm:"type:varchar(255);not null;index"`
	PublicID                       string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	CountryCode                    string    `gorm:"type:varchar(3);not null;default:'USA'"`
	State                          *string   `gorm:"type:varchar(64);index"`
	EncryptedBraintreeAccessToken  *string   `gorm:"column:encrypted_braintree_access_token;type:text"`
	EncryptedBraintreeRefreshToken *string   `gorm:"column:encrypted_braintree_refresh_token;type:text"`
	BraintreeID                    *string   `gorm:"type:varchar(255)"`
	CreatedAt                      time.Time
	UpdatedAt                      time.Time
}

func (Merchant) TableName() string {
	return "merchants"
}

// AutoMigrateModels lists every model the schema is built from
func AutoMigrateModels() []interface{} {
	return []interface{}{&Merchant{}}
}
