package email

import (
	"fmt"

	"hajj_backend/internal/models"
)

// BookingNotifier отправляет покупателю письма о статусе брони
type BookingNotifier struct {
	provider Provider
}

func NewBookingNotifier(provider Provider) *BookingNotifier {
	return &BookingNotifier{provider: provider}
}

// BookingConfirmed отправляет письмо о подтверждении оплаты
func (n *BookingNotifier) BookingConfirmed(user *models.User, booking *models.Booking, txn *models.Transaction) error {
	if user == nil || user.Email == "" {
		return fmt.Errorf("booking %d: buyer has no email", booking.ID)
	}

	data := TemplateData{
		"Name":      user.Name,
		"Reference": booking.Reference,
	}
	if booking.Package != nil {
		data["PackageName"] = booking.Package.Name
	}
	if txn != nil {
		data["Amount"] = txn.Amount.StringFixed(2)
		if txn.ReferenceNumber != nil {
			data["PaymentReference"] = *txn.ReferenceNumber
		}
	}

	subject := fmt.Sprintf("Booking %s confirmed", booking.Reference)
	return n.provider.SendTemplate([]string{user.Email}, subject, TemplateBookingConfirmed, data)
}
