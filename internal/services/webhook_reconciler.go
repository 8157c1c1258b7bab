package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hajj_backend/internal/logger"
	"hajj_backend/internal/models"
	"hajj_backend/internal/payment"
	"hajj_backend/internal/repositories"
	"hajj_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// BookingNotifier отправляет письмо покупателю после подтверждения оплаты
type BookingNotifier interface {
	BookingConfirmed(user *models.User, booking *models.Booking, txn *models.Transaction) error
}

type WebhookReconciler interface {
	// Reconcile обрабатывает одно уведомление шлюза.
	// nil возвращается и для условий, которые повторять бесполезно.
	Reconcile(ctx context.Context, db *gorm.DB, payload []byte) error
}

// ReconcileResult - итог применения уведомления (для логов и тестов)
type ReconcileResult struct {
	TransactionID     uint
	BookingID         uint
	TransactionStatus models.TransactionStatus
	BookingStatus     models.BookingStatus
	Applied           bool
	BookingConfirmed  bool
}

type webhookReconciler struct {
	provider    string
	timeout     time.Duration
	newGateway  payment.Factory
	gatewayRepo repositories.PaymentGatewayRepository
	txnRepo     repositories.TransactionRepository
	bookingRepo repositories.BookingRepository
	userRepo    repositories.UserRepository
	notifier    BookingNotifier
}

func NewWebhookReconciler(
	settings PaymentSettings,
	newGateway payment.Factory,
	gatewayRepo repositories.PaymentGatewayRepository,
	txnRepo repositories.TransactionRepository,
	bookingRepo repositories.BookingRepository,
	userRepo repositories.UserRepository,
	notifier BookingNotifier,
) WebhookReconciler {
	return &webhookReconciler{
		provider:    settings.Provider,
		timeout:     settings.Timeout,
		newGateway:  newGateway,
		gatewayRepo: gatewayRepo,
		txnRepo:     txnRepo,
		bookingRepo: bookingRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

func (r *webhookReconciler) Reconcile(ctx context.Context, db *gorm.DB, payload []byte) error {
	gw, err := r.gatewayRepo.FindActiveByName(db, r.provider)
	if err != nil {
		if errors.Is(err, repositories.ErrGatewayNotFound) {
			logger.CtxWarn(ctx, "notification dropped: payment gateway is not configured", "provider", r.provider)
			return nil
		}
		return fmt.Errorf("load payment gateway: %w", err)
	}

	client, err := r.newGateway(gw, r.timeout)
	if err != nil {
		return fmt.Errorf("build payment gateway client: %w", err)
	}

	n, err := client.ParseNotification(ctx, payload)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return apperrors.ErrNotificationVerification.WithError(err)
		}
		return fmt.Errorf("verify notification: %w", err)
	}

	ctx = logger.WithCorrelationID(ctx, n.OrderID)
	log := logger.FromContext(ctx).With("gateway_transaction_id", n.TransactionID)

	txnID, err := payment.TransactionIDFromOrderID(n.OrderID)
	if err != nil {
		log.Warn("notification dropped: unparsable order id")
		return nil
	}

	res, err := r.apply(ctx, db, gw, txnID, n)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			log.Warn("notification dropped: transaction not found", "transaction_id", txnID)
			return nil
		}
		return err
	}

	log.Info("payment notification reconciled",
		"transaction_status", n.TransactionStatus,
		"fraud_status", n.FraudStatus,
		"booking_id", res.BookingID,
		"transaction_result", res.TransactionStatus,
		"booking_result", res.BookingStatus,
		"applied", res.Applied,
	)

	if res.BookingConfirmed {
		r.notifyConfirmed(ctx, db, res)
	}
	return nil
}

// apply сохраняет ссылку шлюза и статусы в одной транзакции БД.
func (r *webhookReconciler) apply(ctx context.Context, db *gorm.DB, gw *models.PaymentGateway, txnID uint, n *payment.Notification) (*ReconcileResult, error) {
	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("begin transaction: %w", tx.Error)
	}
	defer tx.Rollback()

	txn, err := r.txnRepo.FindByIDForUpdate(tx, txnID)
	if err != nil {
		return nil, err
	}

	booking, err := r.bookingRepo.FindByID(tx, txn.BookingID)
	if err != nil && !errors.Is(err, repositories.ErrBookingNotFound) {
		return nil, fmt.Errorf("load booking: %w", err)
	}

	res := &ReconcileResult{
		TransactionID:     txn.ID,
		BookingID:         txn.BookingID,
		TransactionStatus: txn.Status,
	}
	if booking != nil {
		res.BookingStatus = booking.Status
	}

	if n.TransactionID != "" {
		ref := n.TransactionID
		txn.ReferenceNumber = &ref
	}
	txn.LinkGateway(gw)
	if n.PaymentType != "" {
		txn.PaymentMethod = n.PaymentType
	}

	transition, ok := MapGatewayStatus(n.TransactionStatus, n.FraudStatus)
	if ok && CanTransitionTransaction(txn.Status, transition.Transaction) {
		txn.Status = transition.Transaction
		res.TransactionStatus = txn.Status
		res.Applied = true
	}

	if err := r.txnRepo.Save(tx, txn); err != nil {
		return nil, fmt.Errorf("save transaction: %w", err)
	}

	if res.Applied && booking != nil && CanTransitionBooking(booking.Status, transition.Booking) {
		wasConfirmed := booking.Status == models.BookingStatusConfirmed
		if err := r.bookingRepo.UpdateStatus(tx, booking.ID, transition.Booking); err != nil {
			return nil, fmt.Errorf("save booking: %w", err)
		}
		res.BookingStatus = transition.Booking
		res.BookingConfirmed = !wasConfirmed && transition.Booking == models.BookingStatusConfirmed
	}

	if err := tx.Commit().Error; err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return res, nil
}

// notifyConfirmed вызывается после коммита, ошибки только логируются.
func (r *webhookReconciler) notifyConfirmed(ctx context.Context, db *gorm.DB, res *ReconcileResult) {
	if r.notifier == nil {
		return
	}

	booking, err := r.bookingRepo.FindByIDWithTransactions(db, res.BookingID)
	if err != nil {
		logger.CtxWithError(ctx, "confirmation email skipped: booking not loaded", err, "booking_id", res.BookingID)
		return
	}
	user, err := r.userRepo.FindByID(db, booking.UserID)
	if err != nil {
		logger.CtxWithError(ctx, "confirmation email skipped: buyer not loaded", err, "booking_id", res.BookingID)
		return
	}

	var txn *models.Transaction
	for i := range booking.Transactions {
		if booking.Transactions[i].ID == res.TransactionID {
			txn = &booking.Transactions[i]
		}
	}

	if err := r.notifier.BookingConfirmed(user, booking, txn); err != nil {
		logger.CtxWithError(ctx, "failed to send booking confirmation email", err, "booking_id", res.BookingID)
		return
	}
	logger.CtxInfo(ctx, "booking confirmation email sent", "booking_id", res.BookingID)
}
