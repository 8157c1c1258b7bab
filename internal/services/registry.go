package services

import (
	"hajj_backend/internal/payment"
	"hajj_backend/internal/repositories"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	BookingPaymentService BookingPaymentService
	BookingService        BookingService
	WebhookReconciler     WebhookReconciler
}

// Repositories - набор репозиториев, общий для всех сервисов
type Repositories struct {
	Users    repositories.UserRepository
	Packages repositories.PackageRepository
	Bookings repositories.BookingRepository
	Txns     repositories.TransactionRepository
	Gateways repositories.PaymentGatewayRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		Users:    repositories.NewUserRepository(),
		Packages: repositories.NewPackageRepository(),
		Bookings: repositories.NewBookingRepository(),
		Txns:     repositories.NewTransactionRepository(),
		Gateways: repositories.NewPaymentGatewayRepository(),
	}
}

// NewServiceContainer собирает сервисы. newGateway позволяет подменить шлюз в тестах.
func NewServiceContainer(settings PaymentSettings, newGateway payment.Factory, notifier BookingNotifier) *ServiceContainer {
	if newGateway == nil {
		newGateway = payment.NewGateway
	}
	repos := NewRepositories()

	return &ServiceContainer{
		BookingPaymentService: NewBookingPaymentService(
			settings, newGateway,
			repos.Gateways, repos.Packages, repos.Users, repos.Bookings, repos.Txns,
		),
		BookingService: NewBookingService(repos.Bookings, repos.Txns),
		WebhookReconciler: NewWebhookReconciler(
			settings, newGateway,
			repos.Gateways, repos.Txns, repos.Bookings, repos.Users,
			notifier,
		),
	}
}
