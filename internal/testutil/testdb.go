// Package testutil содержит общие помощники для тестов: БД в памяти и фикстуры.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"hajj_backend/internal/database"
	"hajj_backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const TestServerKey = "SB-Mid-server-test-key"

var dbCounter atomic.Int64

// NewTestDB создает отдельную SQLite БД в памяти для каждого теста
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", dbCounter.Add(1))
	db, err := database.Open("sqlite", dsn)
	require.NoError(t, err, "не удалось открыть тестовую БД")
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// CreateUser создает покупателя
func CreateUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: email, Role: models.UserRoleCustomer}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreatePackage создает активный пакет
func CreatePackage(t *testing.T, db *gorm.DB, name string, price int64) *models.TravelPackage {
	t.Helper()
	pkg := &models.TravelPackage{
		Name:     name,
		Type:     models.PackageTypeUmrah,
		Price:    decimal.NewFromInt(price),
		IsActive: true,
	}
	require.NoError(t, db.Create(pkg).Error)
	return pkg
}

// CreateMidtransGateway создает активную строку шлюза Midtrans
func CreateMidtransGateway(t *testing.T, db *gorm.DB) *models.PaymentGateway {
	t.Helper()
	gw := &models.PaymentGateway{Name: models.GatewayNameMidtrans, IsActive: true}
	require.NoError(t, gw.SetMidtransSettings(models.MidtransSettings{
		ServerKey: TestServerKey,
		ClientKey: "SB-Mid-client-test-key",
	}))
	require.NoError(t, db.Create(gw).Error)
	return gw
}

// CreatePendingBooking создает бронь в pending_payment с одной pending транзакцией
func CreatePendingBooking(t *testing.T, db *gorm.DB, user *models.User, pkg *models.TravelPackage, amount string) (*models.Booking, *models.Transaction) {
	t.Helper()
	booking := &models.Booking{
		Status:    models.BookingStatusPendingPayment,
		UserID:    user.ID,
		PackageID: pkg.ID,
	}
	require.NoError(t, db.Create(booking).Error)

	txn := &models.Transaction{
		Amount:        decimal.RequireFromString(amount),
		Status:        models.TransactionStatusPending,
		PaymentMethod: models.PaymentMethodSnap,
		BookingID:     booking.ID,
	}
	require.NoError(t, db.Create(txn).Error)
	return booking, txn
}

// CountRows считает строки таблицы модели, включая soft-deleted
func CountRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Unscoped().Model(model).Count(&n).Error)
	return n
}
