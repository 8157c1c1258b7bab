// Package payment содержит интеграцию с платежными шлюзами.
// Клиент шлюза создается на каждый вызов из строки payment_gateways,
// глобальное состояние SDK не используется.
package payment

import (
	"context"
	"errors"
	"time"

	"hajj_backend/internal/models"
)

var (
	ErrInvalidSignature       = errors.New("notification signature mismatch")
	ErrMalformedNotification  = errors.New("malformed notification payload")
	ErrInvalidOrderID         = errors.New("order id has no numeric transaction prefix")
	ErrUnsupportedGateway     = errors.New("unsupported payment gateway")
	ErrGatewayResponseTimeout = errors.New("payment gateway did not respond in time")
)

// Item - позиция заказа для Snap
type Item struct {
	ID       string
	Name     string
	Price    int64
	Quantity int32
}

// SnapRequest - данные для создания платежной сессии
type SnapRequest struct {
	OrderID       string
	GrossAmount   int64
	CustomerName  string
	CustomerEmail string
	Items         []Item
	FinishURL     string
}

// Notification - проверенное уведомление шлюза о статусе платежа
type Notification struct {
	OrderID           string
	TransactionID     string
	TransactionStatus string
	FraudStatus       string
	StatusCode        string
	GrossAmount       string
	PaymentType       string
}

// Gateway - клиент платежного шлюза
type Gateway interface {
	Name() string
	CreateSnapToken(ctx context.Context, req *SnapRequest) (string, error)
	// ParseNotification разбирает и проверяет тело webhook-уведомления.
	ParseNotification(ctx context.Context, payload []byte) (*Notification, error)
}

// Factory строит клиент по строке payment_gateways
type Factory func(gw *models.PaymentGateway, timeout time.Duration) (Gateway, error)

// NewGateway - фабрика по умолчанию
func NewGateway(gw *models.PaymentGateway, timeout time.Duration) (Gateway, error) {
	switch gw.Name {
	case models.GatewayNameMidtrans:
		settings, err := gw.MidtransSettings()
		if err != nil {
			return nil, err
		}
		return NewMidtransClient(settings, timeout), nil
	default:
		return nil, ErrUnsupportedGateway
	}
}
