package database_test

import (
	"testing"

	"hajj_backend/internal/config"
	"hajj_backend/internal/database"
	"hajj_backend/internal/models"
	"hajj_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedConfig(serverKey string) *config.Config {
	cfg := &config.Config{}
	cfg.Payment.Provider = models.GatewayNameMidtrans
	cfg.Payment.Midtrans.ServerKey = serverKey
	cfg.Payment.Midtrans.ClientKey = "SB-Mid-client-seed"
	cfg.Payment.Midtrans.Is3DS = true
	return cfg
}

func TestSeedPaymentGateway(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, database.SeedPaymentGateway(db, seedConfig("SB-Mid-server-seed")))

	var gw models.PaymentGateway
	require.NoError(t, db.Where("name = ?", models.GatewayNameMidtrans).First(&gw).Error)
	assert.True(t, gw.IsActive)
	settings, err := gw.MidtransSettings()
	require.NoError(t, err)
	assert.Equal(t, "SB-Mid-server-seed", settings.ServerKey)
	assert.True(t, settings.Is3DS)
}

func TestSeedPaymentGateway_KeepsExistingRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateMidtransGateway(t, db)

	require.NoError(t, database.SeedPaymentGateway(db, seedConfig("SB-Mid-server-other")))

	assert.Equal(t, int64(1), testutil.CountRows(t, db, &models.PaymentGateway{}))
	var gw models.PaymentGateway
	require.NoError(t, db.First(&gw).Error)
	settings, err := gw.MidtransSettings()
	require.NoError(t, err)
	assert.Equal(t, testutil.TestServerKey, settings.ServerKey)
}

func TestSeedPaymentGateway_SkipsWithoutServerKey(t *testing.T) {
	db := testutil.NewTestDB(t)

	require.NoError(t, database.SeedPaymentGateway(db, seedConfig("")))

	assert.Zero(t, testutil.CountRows(t, db, &models.PaymentGateway{}))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open("oracle", "dsn")
	assert.Error(t, err)
}
