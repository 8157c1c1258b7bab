package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hajj_backend/internal/logger"
	"hajj_backend/internal/models"

	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// MidtransClient оборачивает snap и coreapi клиенты с собственным http.Client.
type MidtransClient struct {
	settings models.MidtransSettings
	timeout  time.Duration
	snap     snap.Client
	core     coreapi.Client
}

func NewMidtransClient(settings models.MidtransSettings, timeout time.Duration) *MidtransClient {
	env := midtrans.Sandbox
	if settings.IsProduction {
		env = midtrans.Production
	}

	// SDK по умолчанию использует общий http.Client пакета, поэтому подменяем его своим.
	httpClient := &midtrans.HttpClientImplementation{
		HttpClient: &http.Client{Timeout: timeout},
		Logger:     midtrans.GetDefaultLogger(env),
	}

	c := &MidtransClient{settings: settings, timeout: timeout}
	c.snap.New(settings.ServerKey, env)
	c.snap.HttpClient = httpClient
	c.core.New(settings.ServerKey, env)
	c.core.HttpClient = httpClient
	return c
}

func (c *MidtransClient) Name() string {
	return models.GatewayNameMidtrans
}

func (c *MidtransClient) CreateSnapToken(ctx context.Context, req *SnapRequest) (string, error) {
	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  req.OrderID,
			GrossAmt: req.GrossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: req.CustomerName,
			Email: req.CustomerEmail,
		},
		CreditCard: &snap.CreditCardDetails{Secure: c.settings.Is3DS},
	}
	if len(req.Items) > 0 {
		items := make([]midtrans.ItemDetails, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, midtrans.ItemDetails{
				ID:    it.ID,
				Name:  it.Name,
				Price: it.Price,
				Qty:   it.Quantity,
			})
		}
		snapReq.Items = &items
	}
	if req.FinishURL != "" {
		snapReq.Callbacks = &snap.Callbacks{Finish: req.FinishURL}
	}

	type result struct {
		token string
		err   error
	}

	start := time.Now()
	done := make(chan result, 1)
	go func() {
		token, mErr := c.snap.CreateTransactionToken(snapReq)
		if mErr != nil {
			done <- result{err: fmt.Errorf("midtrans snap: %s (status %d)", mErr.GetMessage(), mErr.GetStatusCode())}
			return
		}
		done <- result{token: token}
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	select {
	case res := <-done:
		if res.err == nil && res.token == "" {
			res.err = fmt.Errorf("midtrans snap: empty token")
		}
		logger.PaymentLog(c.Name(), "create_snap_token", req.OrderID, time.Since(start), res.err)
		return res.token, res.err
	case <-ctx.Done():
		logger.PaymentLog(c.Name(), "create_snap_token", req.OrderID, time.Since(start), ctx.Err())
		return "", fmt.Errorf("%w: %v", ErrGatewayResponseTimeout, ctx.Err())
	}
}

// notificationPayload - тело HTTP-уведомления Midtrans
type notificationPayload struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	PaymentType       string `json:"payment_type"`
}

func (c *MidtransClient) ParseNotification(ctx context.Context, payload []byte) (*Notification, error) {
	var p notificationPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedNotification, err)
	}
	if p.OrderID == "" || p.TransactionStatus == "" {
		return nil, fmt.Errorf("%w: order_id and transaction_status are required", ErrMalformedNotification)
	}
	if !VerifySignature(p.OrderID, p.StatusCode, p.GrossAmount, c.settings.ServerKey, p.SignatureKey) {
		return nil, ErrInvalidSignature
	}

	n := &Notification{
		OrderID:           p.OrderID,
		TransactionID:     p.TransactionID,
		TransactionStatus: p.TransactionStatus,
		FraudStatus:       p.FraudStatus,
		StatusCode:        p.StatusCode,
		GrossAmount:       p.GrossAmount,
		PaymentType:       p.PaymentType,
	}

	if c.settings.VerifyStatus {
		if err := c.refreshStatus(ctx, n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// refreshStatus перечитывает статус через Core API, ответ API считается истинным.
func (c *MidtransClient) refreshStatus(ctx context.Context, n *Notification) error {
	start := time.Now()
	resp, mErr := c.core.CheckTransaction(n.OrderID)
	if mErr != nil {
		err := fmt.Errorf("midtrans status check: %s (status %d)", mErr.GetMessage(), mErr.GetStatusCode())
		logger.PaymentLog(c.Name(), "check_transaction", n.OrderID, time.Since(start), err)
		return err
	}
	logger.PaymentLog(c.Name(), "check_transaction", n.OrderID, time.Since(start), nil)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	n.TransactionStatus = resp.TransactionStatus
	n.FraudStatus = resp.FraudStatus
	if resp.TransactionID != "" {
		n.TransactionID = resp.TransactionID
	}
	if resp.PaymentType != "" {
		n.PaymentType = resp.PaymentType
	}
	n.StatusCode = resp.StatusCode
	n.GrossAmount = resp.GrossAmount
	return nil
}
