package apperrors

import "net/http"

// --- Payments ---

// ErrPaymentUnavailable - нет активной конфигурации платежного шлюза.
var ErrPaymentUnavailable = New(
	CodePaymentUnavailable,
	"payment",
	"Online payment is currently unavailable. Please try again later.",
	http.StatusServiceUnavailable, // 503
)

// ErrPaymentInitiationFailed - общее сообщение для клиента, детали только в логах.
var ErrPaymentInitiationFailed = New(
	CodePaymentInitiationFailed,
	"payment",
	"Failed to create booking. Please try again.",
	http.StatusInternalServerError, // 500
)

// ErrNotificationVerification - уведомление шлюза не прошло проверку подписи.
var ErrNotificationVerification = New(
	CodeNotificationVerification,
	"payment",
	"Payment notification could not be verified",
	http.StatusBadRequest,
)

// --- Bookings ---

var ErrBookingNotFound = New(
	CodeNotFound,
	"booking",
	"Booking not found",
	http.StatusNotFound,
)

// --- Auth ---

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrUserNotFound = New(
	CodeUnauthorized,
	"auth",
	"Authenticated user no longer exists",
	http.StatusUnauthorized,
)
