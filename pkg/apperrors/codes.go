package apperrors

// ErrorCode - тип для кодов ошибок
type ErrorCode string

// Общие коды ошибок
const (
	// Системные ошибки
	CodeInternalError ErrorCode = "INTERNAL_ERROR"

	// Общие ошибки бизнес-логики
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Аутентификация и авторизация
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeInvalidToken ErrorCode = "INVALID_TOKEN"

	// Платежи
	CodePaymentUnavailable       ErrorCode = "PAYMENT_UNAVAILABLE"
	CodePaymentInitiationFailed  ErrorCode = "PAYMENT_INITIATION_FAILED"
	CodeNotificationVerification ErrorCode = "NOTIFICATION_VERIFICATION_FAILED"
)
