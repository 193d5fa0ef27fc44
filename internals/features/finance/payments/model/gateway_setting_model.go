package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GatewaySetting holds per-gateway secret material that is managed from the
// admin side rather than the environment — notably the Stripe webhook signing
// secret, which rotates when the endpoint is re-registered.
type GatewaySetting struct {
	GatewaySettingID uuid.UUID `gorm:"column:gateway_setting_id;type:uuid;primaryKey" json:"gateway_setting_id"`

	GatewaySettingGateway string `gorm:"column:gateway_setting_gateway;type:varchar(16);not null;uniqueIndex" json:"gateway_setting_gateway"`

	GatewaySettingWebhookSecret string `gorm:"column:gateway_setting_webhook_secret;type:varchar(256)" json:"-"`
	GatewaySettingSecretKey     string `gorm:"column:gateway_setting_secret_key;type:varchar(256)" json:"-"`

	GatewaySettingEnabled bool `gorm:"column:gateway_setting_enabled;not null;default:true" json:"gateway_setting_enabled"`

	CreatedAt time.Time `gorm:"column:gateway_setting_created_at;autoCreateTime" json:"gateway_setting_created_at"`
	UpdatedAt time.Time `gorm:"column:gateway_setting_updated_at;autoUpdateTime" json:"gateway_setting_updated_at"`
}

func (GatewaySetting) TableName() string { return "gateway_settings" }

func (s *GatewaySetting) BeforeCreate(tx *gorm.DB) error {
	if s.GatewaySettingID == uuid.Nil {
		s.GatewaySettingID = uuid.New()
	}
	return nil
}
