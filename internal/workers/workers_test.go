package workers_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"hajj_backend/internal/models"
	"hajj_backend/internal/payment"
	"hajj_backend/internal/queue"
	"hajj_backend/internal/services"
	"hajj_backend/internal/testutil"
	"hajj_backend/internal/workers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var settings = services.PaymentSettings{Provider: models.GatewayNameMidtrans, Timeout: time.Second}

func TestStalePaymentWorker_CheckOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "Ahmad Fauzi", "ahmad@example.com")
	pkg := testutil.CreatePackage(t, db, "Umrah Reguler 9 Hari", 1500000)

	old, _ := testutil.CreatePendingBooking(t, db, user, pkg, "1500000.00")
	testutil.CreatePendingBooking(t, db, user, pkg, "1500000.00")
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", old.ID).
		UpdateColumn("created_at", time.Now().Add(-72*time.Hour)).Error)

	container := services.NewServiceContainer(settings, nil, nil)
	w := workers.NewStalePaymentWorker(db, container.BookingService, 24*time.Hour, time.Minute)

	found, err := w.CheckOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, found)
}

func TestReconcileWorker_HandlesQueuedNotification(t *testing.T) {
	// 1. Подготовка: бронь ожидает оплаты, очередь в памяти
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "Ahmad Fauzi", "ahmad@example.com")
	pkg := testutil.CreatePackage(t, db, "Umrah Reguler 9 Hari", 1000)
	booking, txn := testutil.CreatePendingBooking(t, db, user, pkg, "1000.00")
	testutil.CreateMidtransGateway(t, db)

	container := services.NewServiceContainer(settings, nil, nil)
	q := queue.NewMemoryQueue(8, 1)

	done := make(chan error, 1)
	var once sync.Once
	w := workers.NewReconcileWorker(db, q, container.WebhookReconciler)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, q.Start(ctx, func(ctx context.Context, job queue.Job) error {
		err := w.Handle(ctx, job)
		once.Do(func() { done <- err })
		return err
	}))

	// 2. Действие
	payload := testutil.SignedPayload(t, testutil.Notification{
		OrderID:           payment.BuildOrderID(txn.ID, time.Now()),
		TransactionID:     "a1b2c3d4-midtrans",
		TransactionStatus: "settlement",
	})
	require.NoError(t, q.Enqueue(context.Background(), queue.NewJob(queue.JobTypeMidtransNotification, payload)))

	// 3. Проверка
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("уведомление не обработано")
	}
	require.NoError(t, q.Close())

	var stored models.Booking
	require.NoError(t, db.First(&stored, booking.ID).Error)
	assert.Equal(t, models.BookingStatusConfirmed, stored.Status)
}

func TestReconcileWorker_SkipsUnknownJobType(t *testing.T) {
	db := testutil.NewTestDB(t)
	container := services.NewServiceContainer(settings, nil, nil)
	w := workers.NewReconcileWorker(db, queue.NewMemoryQueue(1, 1), container.WebhookReconciler)

	err := w.Handle(context.Background(), queue.NewJob("xendit.notification", []byte(`{}`)))

	assert.NoError(t, err)
}
