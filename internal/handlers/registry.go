package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	BookingHandler *BookingHandler
	WebhookHandler *WebhookHandler
	HealthHandler  *HealthHandler
}
