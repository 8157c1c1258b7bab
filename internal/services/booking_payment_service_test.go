package services_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"hajj_backend/internal/models"
	"hajj_backend/internal/payment"
	"hajj_backend/internal/services"
	"hajj_backend/internal/services/dto"
	"hajj_backend/internal/testutil"
	"hajj_backend/pkg/apperrors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testSettings = services.PaymentSettings{
	Provider:  models.GatewayNameMidtrans,
	Timeout:   5 * time.Second,
	FinishURL: "https://hajj.example.com/bookings/finish",
}

type initiatorFixture struct {
	db      *gorm.DB
	user    *models.User
	pkg     *models.TravelPackage
	gateway *payment.MockGateway
	service services.BookingPaymentService
}

func newInitiatorFixture(t *testing.T, withGateway bool) *initiatorFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := &initiatorFixture{
		db:      db,
		user:    testutil.CreateUser(t, db, "Ahmad Fauzi", "ahmad@example.com"),
		pkg:     testutil.CreatePackage(t, db, "Umrah Reguler 9 Hari", 1500000),
		gateway: &payment.MockGateway{Token: "66e4fa55-fdac-4ef9-91b5-733b97d1b862"},
	}
	if withGateway {
		testutil.CreateMidtransGateway(t, db)
	}
	f.service = services.NewServiceContainer(testSettings, payment.StaticFactory(f.gateway), nil).BookingPaymentService
	return f
}

func amountPtr(v float64) *float64 { return &v }

func TestInitiateBookingPayment_Success(t *testing.T) {
	// 1. Подготовка
	f := newInitiatorFixture(t, true)
	notes := "Kamar quad"
	req := &dto.CreateBookingRequest{PackageID: f.pkg.ID, Amount: amountPtr(1500000), Notes: &notes}

	// 2. Действие
	resp, err := f.service.InitiateBookingPayment(context.Background(), f.db, f.user.ID, req)

	// 3. Проверка
	require.NoError(t, err)
	assert.Equal(t, "66e4fa55-fdac-4ef9-91b5-733b97d1b862", resp.SnapToken)
	assert.NotZero(t, resp.BookingID)

	var booking models.Booking
	require.NoError(t, f.db.First(&booking, resp.BookingID).Error)
	assert.Equal(t, models.BookingStatusPendingPayment, booking.Status)
	assert.Equal(t, f.user.ID, booking.UserID)
	assert.Equal(t, f.pkg.ID, booking.PackageID)
	assert.True(t, strings.HasPrefix(booking.Reference, "BK-"))
	require.NotNil(t, booking.Notes)
	assert.Equal(t, notes, *booking.Notes)

	var txns []models.Transaction
	require.NoError(t, f.db.Where("booking_id = ?", booking.ID).Find(&txns).Error)
	require.Len(t, txns, 1)
	txn := txns[0]
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Equal(t, models.PaymentMethodSnap, txn.PaymentMethod)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(1500000)), "amount = %s", txn.Amount)
	assert.Nil(t, txn.ReferenceNumber)
	require.NotNil(t, txn.GatewayableID)
	require.NotNil(t, txn.GatewayableType)
	assert.Equal(t, models.GatewayableTypePaymentGateway, *txn.GatewayableType)

	assert.Equal(t, int64(1), testutil.CountRows(t, f.db, &models.Booking{}))
	assert.Equal(t, int64(1), testutil.CountRows(t, f.db, &models.Transaction{}))

	require.Equal(t, 1, f.gateway.Calls())
	snapReq := f.gateway.Requests[0]
	assert.True(t, strings.HasPrefix(snapReq.OrderID, fmt.Sprintf("%d-", txn.ID)), "order_id = %s", snapReq.OrderID)
	assert.Equal(t, int64(1500000), snapReq.GrossAmount)
	assert.Equal(t, "Ahmad Fauzi", snapReq.CustomerName)
	assert.Equal(t, "ahmad@example.com", snapReq.CustomerEmail)
	assert.Equal(t, testSettings.FinishURL, snapReq.FinishURL)
	require.Len(t, snapReq.Items, 1)
	assert.Equal(t, strconv.FormatUint(uint64(f.pkg.ID), 10), snapReq.Items[0].ID)
	assert.Equal(t, "Package Booking", snapReq.Items[0].Name)
	assert.Equal(t, int64(1500000), snapReq.Items[0].Price)
	assert.Equal(t, int32(1), snapReq.Items[0].Quantity)

	id, err := payment.TransactionIDFromOrderID(snapReq.OrderID)
	require.NoError(t, err)
	assert.Equal(t, txn.ID, id)
}

func TestInitiateBookingPayment_FractionalAmount(t *testing.T) {
	f := newInitiatorFixture(t, true)
	req := &dto.CreateBookingRequest{PackageID: f.pkg.ID, Amount: amountPtr(2750000.75)}

	_, err := f.service.InitiateBookingPayment(context.Background(), f.db, f.user.ID, req)
	require.NoError(t, err)

	var txn models.Transaction
	require.NoError(t, f.db.First(&txn).Error)
	assert.True(t, txn.Amount.Equal(decimal.RequireFromString("2750000.75")), "amount = %s", txn.Amount)
	assert.Equal(t, int64(2750000), f.gateway.Requests[0].GrossAmount)
}

func TestInitiateBookingPayment_GatewayFailureLeavesNoRows(t *testing.T) {
	// 1. Подготовка: шлюз отвечает ошибкой
	f := newInitiatorFixture(t, true)
	f.gateway.Err = errors.New("midtrans snap: Access denied (status 401)")
	req := &dto.CreateBookingRequest{PackageID: f.pkg.ID, Amount: amountPtr(1500000)}

	// 2. Действие
	resp, err := f.service.InitiateBookingPayment(context.Background(), f.db, f.user.ID, req)

	// 3. Проверка
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, apperrors.ErrPaymentInitiationFailed)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode)
	assert.Equal(t, "Failed to create booking. Please try again.", appErr.Message)

	assert.Equal(t, 1, f.gateway.Calls())
	assert.Zero(t, testutil.CountRows(t, f.db, &models.Booking{}))
	assert.Zero(t, testutil.CountRows(t, f.db, &models.Transaction{}))
}

func TestInitiateBookingPayment_NoActiveGateway(t *testing.T) {
	t.Run("no gateway row", func(t *testing.T) {
		f := newInitiatorFixture(t, false)
		req := &dto.CreateBookingRequest{PackageID: f.pkg.ID, Amount: amountPtr(1500000)}

		_, err := f.service.InitiateBookingPayment(context.Background(), f.db, f.user.ID, req)

		assert.ErrorIs(t, err, apperrors.ErrPaymentUnavailable)
		appErr, _ := apperrors.AsAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, http.StatusServiceUnavailable, appErr.HTTPCode)
		assert.Zero(t, f.gateway.Calls())
		assert.Zero(t, testutil.CountRows(t, f.db, &models.Booking{}))
	})

	t.Run("inactive gateway row", func(t *testing.T) {
		f := newInitiatorFixture(t, true)
		require.NoError(t, f.db.Model(&models.PaymentGateway{}).Where("name = ?", models.GatewayNameMidtrans).
			Update("is_active", false).Error)
		req := &dto.CreateBookingRequest{PackageID: f.pkg.ID, Amount: amountPtr(1500000)}

		_, err := f.service.InitiateBookingPayment(context.Background(), f.db, f.user.ID, req)

		assert.ErrorIs(t, err, apperrors.ErrPaymentUnavailable)
		assert.Zero(t, testutil.CountRows(t, f.db, &models.Transaction{}))
	})
}

func TestInitiateBookingPayment_InvalidGatewayConfig(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "Siti Aminah", "siti@example.com")
	pkg := testutil.CreatePackage(t, db, "Hajj Plus", 9000000)

	gw := &models.PaymentGateway{Name: models.GatewayNameMidtrans, IsActive: true}
	require.NoError(t, gw.SetMidtransSettings(models.MidtransSettings{ClientKey: "client-only"}))
	require.NoError(t, db.Create(gw).Error)

	svc := services.NewServiceContainer(testSettings, nil, nil).BookingPaymentService
	req := &dto.CreateBookingRequest{PackageID: pkg.ID, Amount: amountPtr(9000000)}

	_, err := svc.InitiateBookingPayment(context.Background(), db, user.ID, req)

	assert.ErrorIs(t, err, apperrors.ErrPaymentUnavailable)
	assert.Zero(t, testutil.CountRows(t, db, &models.Booking{}))
}

func TestInitiateBookingPayment_UnknownPackage(t *testing.T) {
	f := newInitiatorFixture(t, true)
	req := &dto.CreateBookingRequest{PackageID: f.pkg.ID + 100, Amount: amountPtr(1500000)}

	_, err := f.service.InitiateBookingPayment(context.Background(), f.db, f.user.ID, req)

	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
	assert.Equal(t, http.StatusBadRequest, appErr.HTTPCode)
	assert.Contains(t, appErr.Details, "package_id")
	assert.Zero(t, f.gateway.Calls())
	assert.Zero(t, testutil.CountRows(t, f.db, &models.Booking{}))
}

func TestInitiateBookingPayment_UnknownUser(t *testing.T) {
	f := newInitiatorFixture(t, true)
	req := &dto.CreateBookingRequest{PackageID: f.pkg.ID, Amount: amountPtr(1500000)}

	_, err := f.service.InitiateBookingPayment(context.Background(), f.db, f.user.ID+100, req)

	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Zero(t, f.gateway.Calls())
}

func TestInitiateBookingPayment_RepeatedAttemptsGetDistinctOrders(t *testing.T) {
	f := newInitiatorFixture(t, true)

	for i := 0; i < 2; i++ {
		req := &dto.CreateBookingRequest{PackageID: f.pkg.ID, Amount: amountPtr(1500000)}
		_, err := f.service.InitiateBookingPayment(context.Background(), f.db, f.user.ID, req)
		require.NoError(t, err)
	}

	require.Equal(t, 2, f.gateway.Calls())
	assert.NotEqual(t, f.gateway.Requests[0].OrderID, f.gateway.Requests[1].OrderID)
	assert.Equal(t, int64(2), testutil.CountRows(t, f.db, &models.Booking{}))
}
