package models

import "github.com/shopspring/decimal"

const PaymentMethodSnap = "snap"

type Transaction struct {
	BaseModelWithDeleted
	Amount          decimal.Decimal   `gorm:"type:decimal(15,2);not null;default:0" json:"amount"`
	Status          TransactionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	PaymentMethod   string            `gorm:"size:50" json:"payment_method"`
	ReferenceNumber *string           `gorm:"size:100;uniqueIndex" json:"reference_number,omitempty"`
	GatewayableID   *uint             `gorm:"index:idx_transactions_gatewayable" json:"-"`
	GatewayableType *string           `gorm:"size:100;index:idx_transactions_gatewayable" json:"-"`
	BookingID       uint              `gorm:"not null;index" json:"booking_id"`

	Booking *Booking `gorm:"foreignKey:BookingID" json:"-"`
}

// LinkGateway проставляет полиморфную ссылку на шлюз.
func (t *Transaction) LinkGateway(g *PaymentGateway) {
	if g == nil {
		return
	}
	id := g.ID
	kind := GatewayableTypePaymentGateway
	t.GatewayableID = &id
	t.GatewayableType = &kind
}
