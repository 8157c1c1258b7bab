package validator

import (
	"log"

	"hajj_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка времени запуска, работать дальше нельзя
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// Статусы из statuses.go
	mustRegister("is-booking-status", validateBookingStatus)
	mustRegister("is-transaction-status", validateTransactionStatus)

	// Значения конфигурации
	mustRegister("is-db-driver", validateDBDriver)
	mustRegister("is-queue-driver", validateQueueDriver)
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения проверяет 'required'
	}
	return models.BookingStatus(value).IsValid()
}

func validateTransactionStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.TransactionStatus(value).IsValid()
}

func validateDBDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "postgres", "mysql", "sqlite":
		return true
	default:
		return false
	}
}

func validateQueueDriver(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "memory", "rabbitmq":
		return true
	default:
		return false
	}
}
