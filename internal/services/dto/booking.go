package dto

import (
	"time"

	"hajj_backend/internal/models"

	"github.com/shopspring/decimal"
)

// CreateBookingRequest - тело POST /api/v1/bookings
type CreateBookingRequest struct {
	PackageID uint     `json:"package_id" validate:"required"`
	Amount    *float64 `json:"amount" validate:"required,min=0"`
	Notes     *string  `json:"notes" validate:"omitempty,max=1000"`
}

// BookingPaymentResponse - ответ после успешной инициации оплаты
type BookingPaymentResponse struct {
	SnapToken string `json:"snap_token"`
	BookingID uint   `json:"booking_id"`
}

// UpdateBookingStatusRequest - ручное изменение статуса (CLI для персонала)
type UpdateBookingStatusRequest struct {
	BookingID         uint    `json:"booking_id" validate:"required"`
	Status            string  `json:"status" validate:"required,is-booking-status"`
	TransactionStatus *string `json:"transaction_status" validate:"omitempty,is-transaction-status"`
}

type TransactionResponse struct {
	ID              uint                     `json:"id"`
	Amount          decimal.Decimal          `json:"amount"`
	Status          models.TransactionStatus `json:"status"`
	PaymentMethod   string                   `json:"payment_method"`
	ReferenceNumber *string                  `json:"reference_number,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// BookingResponse - состояние брони для опроса клиентом
type BookingResponse struct {
	ID           uint                  `json:"id"`
	Reference    string                `json:"reference"`
	Status       models.BookingStatus  `json:"status"`
	Notes        *string               `json:"notes,omitempty"`
	PackageID    uint                  `json:"package_id"`
	PackageName  string                `json:"package_name,omitempty"`
	Transactions []TransactionResponse `json:"transactions"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

func NewBookingResponse(b *models.Booking) *BookingResponse {
	resp := &BookingResponse{
		ID:           b.ID,
		Reference:    b.Reference,
		Status:       b.Status,
		Notes:        b.Notes,
		PackageID:    b.PackageID,
		Transactions: make([]TransactionResponse, 0, len(b.Transactions)),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
	if b.Package != nil {
		resp.PackageName = b.Package.Name
	}
	for _, t := range b.Transactions {
		resp.Transactions = append(resp.Transactions, TransactionResponse{
			ID:              t.ID,
			Amount:          t.Amount,
			Status:          t.Status,
			PaymentMethod:   t.PaymentMethod,
			ReferenceNumber: t.ReferenceNumber,
			CreatedAt:       t.CreatedAt,
			UpdatedAt:       t.UpdatedAt,
		})
	}
	return resp
}

// StaleBooking - бронь, зависшая в ожидании оплаты
type StaleBooking struct {
	ID        uint      `json:"id"`
	Reference string    `json:"reference"`
	UserID    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
