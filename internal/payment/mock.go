package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"hajj_backend/internal/models"
)

// MockGateway - тестовый шлюз без сетевых вызовов.
// Подпись не проверяется, тело уведомления разбирается как есть.
type MockGateway struct {
	mu       sync.Mutex
	Token    string
	Err      error
	Requests []SnapRequest
}

func (m *MockGateway) Name() string {
	return models.GatewayNameMidtrans
}

func (m *MockGateway) CreateSnapToken(ctx context.Context, req *SnapRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, *req)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Token, nil
}

func (m *MockGateway) ParseNotification(ctx context.Context, payload []byte) (*Notification, error) {
	var p notificationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
	}
	return &Notification{
		OrderID:           p.OrderID,
		TransactionID:     p.TransactionID,
		TransactionStatus: p.TransactionStatus,
		FraudStatus:       p.FraudStatus,
		StatusCode:        p.StatusCode,
		GrossAmount:       p.GrossAmount,
		PaymentType:       p.PaymentType,
	}, nil
}

// Calls возвращает количество вызовов CreateSnapToken
func (m *MockGateway) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

// StaticFactory всегда возвращает переданный шлюз
func StaticFactory(g Gateway) Factory {
	return func(*models.PaymentGateway, time.Duration) (Gateway, error) {
		return g, nil
	}
}
