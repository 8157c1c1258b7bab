package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hajj_backend/internal/models"
	"hajj_backend/internal/payment"
	"hajj_backend/internal/services"
	"hajj_backend/internal/testutil"
	"hajj_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingNotifier запоминает отправленные подтверждения
type recordingNotifier struct {
	mu       sync.Mutex
	bookings []uint
	err      error
}

func (n *recordingNotifier) BookingConfirmed(user *models.User, booking *models.Booking, txn *models.Transaction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bookings = append(n.bookings, booking.ID)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.bookings)
}

type reconcileFixture struct {
	db         *gorm.DB
	booking    *models.Booking
	txn        *models.Transaction
	gateway    *models.PaymentGateway
	notifier   *recordingNotifier
	reconciler services.WebhookReconciler
}

func newReconcileFixture(t *testing.T) *reconcileFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "Ahmad Fauzi", "ahmad@example.com")
	pkg := testutil.CreatePackage(t, db, "Umrah Reguler 9 Hari", 1000)
	booking, txn := testutil.CreatePendingBooking(t, db, user, pkg, "1000.00")

	f := &reconcileFixture{
		db:       db,
		booking:  booking,
		txn:      txn,
		gateway:  testutil.CreateMidtransGateway(t, db),
		notifier: &recordingNotifier{},
	}
	// Настоящая фабрика: подпись проверяется тестовым server key
	f.reconciler = services.NewServiceContainer(testSettings, nil, f.notifier).WebhookReconciler
	return f
}

func (f *reconcileFixture) orderID() string {
	return payment.BuildOrderID(f.txn.ID, time.Unix(1700000000, 0))
}

func (f *reconcileFixture) notify(t *testing.T, n testutil.Notification) error {
	t.Helper()
	if n.OrderID == "" {
		n.OrderID = f.orderID()
	}
	if n.TransactionID == "" {
		n.TransactionID = "a1b2c3d4-midtrans"
	}
	return f.reconciler.Reconcile(context.Background(), f.db, testutil.SignedPayload(t, n))
}

func (f *reconcileFixture) reload(t *testing.T) (*models.Transaction, *models.Booking) {
	t.Helper()
	var txn models.Transaction
	require.NoError(t, f.db.First(&txn, f.txn.ID).Error)
	var booking models.Booking
	require.NoError(t, f.db.First(&booking, f.booking.ID).Error)
	return &txn, &booking
}

func TestReconcile_Settlement(t *testing.T) {
	// 1. Подготовка
	f := newReconcileFixture(t)

	// 2. Действие
	err := f.notify(t, testutil.Notification{TransactionStatus: "settlement", PaymentType: "bank_transfer"})

	// 3. Проверка
	require.NoError(t, err)
	txn, booking := f.reload(t)
	assert.Equal(t, models.TransactionStatusSuccess, txn.Status)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	require.NotNil(t, txn.ReferenceNumber)
	assert.Equal(t, "a1b2c3d4-midtrans", *txn.ReferenceNumber)
	assert.Equal(t, "bank_transfer", txn.PaymentMethod)
	require.NotNil(t, txn.GatewayableID)
	assert.Equal(t, f.gateway.ID, *txn.GatewayableID)
	assert.Equal(t, 1, f.notifier.count())
}

func TestReconcile_CaptureFraudStatus(t *testing.T) {
	t.Run("accept", func(t *testing.T) {
		f := newReconcileFixture(t)

		require.NoError(t, f.notify(t, testutil.Notification{TransactionStatus: "capture", FraudStatus: "accept"}))

		txn, booking := f.reload(t)
		assert.Equal(t, models.TransactionStatusSuccess, txn.Status)
		assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	})

	t.Run("challenge", func(t *testing.T) {
		f := newReconcileFixture(t)

		require.NoError(t, f.notify(t, testutil.Notification{TransactionStatus: "capture", FraudStatus: "challenge"}))

		txn, booking := f.reload(t)
		assert.Equal(t, models.TransactionStatusPending, txn.Status)
		assert.Equal(t, models.BookingStatusPendingPayment, booking.Status)
		require.NotNil(t, txn.ReferenceNumber, "ссылка шлюза сохраняется даже без смены статуса")
		assert.Equal(t, 0, f.notifier.count())
	})
}

func TestReconcile_FailedStatuses(t *testing.T) {
	for _, status := range []string{"deny", "expire", "cancel"} {
		t.Run(status, func(t *testing.T) {
			f := newReconcileFixture(t)

			require.NoError(t, f.notify(t, testutil.Notification{TransactionStatus: status}))

			txn, booking := f.reload(t)
			assert.Equal(t, models.TransactionStatusFailed, txn.Status)
			assert.Equal(t, models.BookingStatusCancelled, booking.Status)
			assert.Equal(t, 0, f.notifier.count())
		})
	}
}

func TestReconcile_Pending(t *testing.T) {
	f := newReconcileFixture(t)

	require.NoError(t, f.notify(t, testutil.Notification{TransactionStatus: "pending", StatusCode: "201"}))

	txn, booking := f.reload(t)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Equal(t, models.BookingStatusPendingPayment, booking.Status)
	require.NotNil(t, txn.ReferenceNumber)
}

func TestReconcile_UnknownTransactionIsIgnored(t *testing.T) {
	f := newReconcileFixture(t)

	err := f.notify(t, testutil.Notification{
		OrderID:           payment.BuildOrderID(f.txn.ID+500, time.Now()),
		TransactionStatus: "settlement",
	})

	require.NoError(t, err)
	txn, booking := f.reload(t)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Nil(t, txn.ReferenceNumber)
	assert.Equal(t, models.BookingStatusPendingPayment, booking.Status)
}

func TestReconcile_UnparsableOrderIDIsIgnored(t *testing.T) {
	f := newReconcileFixture(t)

	err := f.notify(t, testutil.Notification{OrderID: "ORDER-ABC", TransactionStatus: "settlement"})

	require.NoError(t, err)
	txn, _ := f.reload(t)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
}

func TestReconcile_InvalidSignature(t *testing.T) {
	f := newReconcileFixture(t)
	payload := []byte(`{
		"order_id": "` + f.orderID() + `",
		"transaction_status": "settlement",
		"status_code": "200",
		"gross_amount": "1000.00",
		"signature_key": "0000"
	}`)

	err := f.reconciler.Reconcile(context.Background(), f.db, payload)

	assert.ErrorIs(t, err, payment.ErrInvalidSignature)
	assert.ErrorIs(t, err, apperrors.ErrNotificationVerification)
	txn, booking := f.reload(t)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Equal(t, models.BookingStatusPendingPayment, booking.Status)
}

func TestReconcile_NoGatewayIsIgnored(t *testing.T) {
	f := newReconcileFixture(t)
	require.NoError(t, f.db.Delete(&models.PaymentGateway{}, f.gateway.ID).Error)

	err := f.notify(t, testutil.Notification{TransactionStatus: "settlement"})

	require.NoError(t, err)
	txn, _ := f.reload(t)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
}

func TestReconcile_RepeatedSettlementIsIdempotent(t *testing.T) {
	f := newReconcileFixture(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, f.notify(t, testutil.Notification{TransactionStatus: "settlement"}))
	}

	txn, booking := f.reload(t)
	assert.Equal(t, models.TransactionStatusSuccess, txn.Status)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, 1, f.notifier.count(), "письмо отправляется один раз")
}

func TestReconcile_LatePendingDoesNotRegress(t *testing.T) {
	f := newReconcileFixture(t)

	require.NoError(t, f.notify(t, testutil.Notification{TransactionStatus: "settlement"}))
	require.NoError(t, f.notify(t, testutil.Notification{TransactionStatus: "pending", StatusCode: "201"}))

	txn, booking := f.reload(t)
	assert.Equal(t, models.TransactionStatusSuccess, txn.Status)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
}

func TestReconcile_SettlementAfterExpire(t *testing.T) {
	f := newReconcileFixture(t)

	require.NoError(t, f.notify(t, testutil.Notification{TransactionStatus: "expire", StatusCode: "407"}))
	require.NoError(t, f.notify(t, testutil.Notification{TransactionStatus: "settlement"}))

	txn, booking := f.reload(t)
	assert.Equal(t, models.TransactionStatusSuccess, txn.Status)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, 1, f.notifier.count())
}

func TestReconcile_CompletedBookingIsNotChanged(t *testing.T) {
	f := newReconcileFixture(t)
	require.NoError(t, f.db.Model(&models.Booking{}).Where("id = ?", f.booking.ID).
		Update("status", models.BookingStatusCompleted).Error)

	require.NoError(t, f.notify(t, testutil.Notification{TransactionStatus: "cancel"}))

	_, booking := f.reload(t)
	assert.Equal(t, models.BookingStatusCompleted, booking.Status)
}

func TestReconcile_NotifierFailureDoesNotFailReconcile(t *testing.T) {
	f := newReconcileFixture(t)
	f.notifier.err = errors.New("smtp: connection refused")

	err := f.notify(t, testutil.Notification{TransactionStatus: "settlement"})

	require.NoError(t, err)
	_, booking := f.reload(t)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, 1, f.notifier.count())
}

func TestReconcile_MockGatewayFactory(t *testing.T) {
	f := newReconcileFixture(t)
	mock := &payment.MockGateway{}
	reconciler := services.NewServiceContainer(testSettings, payment.StaticFactory(mock), nil).WebhookReconciler
	payload := []byte(`{"order_id":"` + f.orderID() + `","transaction_id":"mock-1","transaction_status":"settlement"}`)

	require.NoError(t, reconciler.Reconcile(context.Background(), f.db, payload))

	txn, booking := f.reload(t)
	assert.Equal(t, models.TransactionStatusSuccess, txn.Status)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
}
