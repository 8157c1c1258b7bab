package services

import "hajj_backend/internal/models"

// Статусы Midtrans
const (
	GatewayStatusCapture    = "capture"
	GatewayStatusSettlement = "settlement"
	GatewayStatusPending    = "pending"
	GatewayStatusDeny       = "deny"
	GatewayStatusExpire     = "expire"
	GatewayStatusCancel     = "cancel"

	FraudStatusAccept = "accept"
)

// StatusTransition - целевые статусы после уведомления шлюза
type StatusTransition struct {
	Transaction models.TransactionStatus
	Booking     models.BookingStatus
}

// MapGatewayStatus переводит статус шлюза и fraud status во внутренние статусы.
// ok=false означает, что уведомление статусы не меняет.
func MapGatewayStatus(transactionStatus, fraudStatus string) (StatusTransition, bool) {
	switch transactionStatus {
	case GatewayStatusCapture:
		if fraudStatus == FraudStatusAccept {
			return StatusTransition{models.TransactionStatusSuccess, models.BookingStatusConfirmed}, true
		}
		return StatusTransition{}, false
	case GatewayStatusSettlement:
		return StatusTransition{models.TransactionStatusSuccess, models.BookingStatusConfirmed}, true
	case GatewayStatusPending:
		return StatusTransition{models.TransactionStatusPending, models.BookingStatusPendingPayment}, true
	case GatewayStatusDeny, GatewayStatusExpire, GatewayStatusCancel:
		return StatusTransition{models.TransactionStatusFailed, models.BookingStatusCancelled}, true
	default:
		return StatusTransition{}, false
	}
}

// CanTransitionTransaction: завершенный статус (success, failed) не откатывается в pending.
// Переход между завершенными статусами разрешен: settlement после expire дает success.
func CanTransitionTransaction(from, to models.TransactionStatus) bool {
	return !(from.IsTerminal() && !to.IsTerminal())
}

// CanTransitionBooking: completed не меняется никогда,
// confirmed и cancelled не возвращаются в ожидание оплаты.
func CanTransitionBooking(from, to models.BookingStatus) bool {
	if from == models.BookingStatusCompleted {
		return false
	}
	if to == models.BookingStatusPendingPayment || to == models.BookingStatusPending {
		return from != models.BookingStatusConfirmed && from != models.BookingStatusCancelled
	}
	return true
}
