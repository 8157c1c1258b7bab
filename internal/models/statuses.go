package models

type UserRole string
type PackageType string
type BookingStatus string
type TransactionStatus string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleStaff    UserRole = "staff"
	UserRoleAdmin    UserRole = "admin"

	PackageTypeHajj  PackageType = "hajj"
	PackageTypeUmrah PackageType = "umrah"

	BookingStatusPending        BookingStatus = "pending"
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusCancelled      BookingStatus = "cancelled"
	BookingStatusCompleted      BookingStatus = "completed"

	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// BookingStatuses - допустимые значения, используется валидатором
var BookingStatuses = []BookingStatus{
	BookingStatusPending,
	BookingStatusPendingPayment,
	BookingStatusConfirmed,
	BookingStatusCancelled,
	BookingStatusCompleted,
}

var TransactionStatuses = []TransactionStatus{
	TransactionStatusPending,
	TransactionStatusSuccess,
	TransactionStatusFailed,
}

func (s BookingStatus) IsValid() bool {
	for _, v := range BookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s TransactionStatus) IsValid() bool {
	for _, v := range TransactionStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal - статус транзакции, который уже не может вернуться в pending.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}
