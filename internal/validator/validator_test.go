package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusRequest struct {
	BookingID         uint    `json:"booking_id" validate:"required"`
	Status            string  `json:"status" validate:"required,is-booking-status"`
	TransactionStatus *string `json:"transaction_status" validate:"omitempty,is-transaction-status"`
}

func TestValidate_CustomStatusRules(t *testing.T) {
	v := New()
	failed := "failed"
	unknown := "refunded"

	assert.NoError(t, v.Validate(&statusRequest{BookingID: 1, Status: "cancelled", TransactionStatus: &failed}))
	assert.NoError(t, v.Validate(&statusRequest{BookingID: 1, Status: "completed"}))

	err := v.Validate(&statusRequest{BookingID: 1, Status: "paid", TransactionStatus: &unknown})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "status")
	assert.Contains(t, vErr.Errors, "transaction_status")
}

func TestValidate_FieldNamesFromJSONTags(t *testing.T) {
	err := New().Validate(&statusRequest{})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "booking_id")
	assert.Contains(t, vErr.Errors, "status")
}

func TestVar_DriverRules(t *testing.T) {
	v := New()

	assert.NoError(t, v.Var("postgres", "is-db-driver"))
	assert.NoError(t, v.Var("sqlite", "is-db-driver"))
	assert.Error(t, v.Var("mongodb", "is-db-driver"))

	assert.NoError(t, v.Var("rabbitmq", "is-queue-driver"))
	assert.NoError(t, v.Var("memory", "is-queue-driver"))
	assert.Error(t, v.Var("kafka", "is-queue-driver"))
}
