package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

const (
	GatewayNameMidtrans           = "Midtrans"
	GatewayableTypePaymentGateway = "payment_gateway"
)

type PaymentGateway struct {
	BaseModel
	Name     string         `gorm:"size:100;not null;index" json:"name"`
	Config   datatypes.JSON `json:"-"`
	IsActive bool           `gorm:"not null;default:true" json:"is_active"`
}

// MidtransSettings - содержимое Config для шлюза Midtrans
type MidtransSettings struct {
	ServerKey    string `json:"server_key"`
	ClientKey    string `json:"client_key"`
	IsProduction bool   `json:"is_production"`
	Is3DS        bool   `json:"is_3ds"`
	VerifyStatus bool   `json:"verify_status"`
}

func (g *PaymentGateway) MidtransSettings() (MidtransSettings, error) {
	var s MidtransSettings
	if len(g.Config) == 0 {
		return s, fmt.Errorf("gateway %q has empty config", g.Name)
	}
	if err := json.Unmarshal(g.Config, &s); err != nil {
		return s, fmt.Errorf("gateway %q config: %w", g.Name, err)
	}
	if s.ServerKey == "" {
		return s, fmt.Errorf("gateway %q config: server_key is empty", g.Name)
	}
	return s, nil
}

// SetMidtransSettings сериализует настройки в Config.
func (g *PaymentGateway) SetMidtransSettings(s MidtransSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	g.Config = datatypes.JSON(raw)
	return nil
}
