package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

const TemplateBookingConfirmed = "booking_confirmed"

const bookingConfirmedTemplate = `<!DOCTYPE html>
<html>
<body>
  <p>Assalamu alaikum {{.Name}},</p>
  <p>Your payment for booking <strong>{{.Reference}}</strong> has been received and the booking is now confirmed.</p>
  <table>
    <tr><td>Package</td><td>{{.PackageName}}</td></tr>
    <tr><td>Amount</td><td>{{.Amount}}</td></tr>
    <tr><td>Payment reference</td><td>{{.PaymentReference}}</td></tr>
  </table>
  <p>Our team will contact you with the travel documents checklist.</p>
</body>
</html>`

// TemplateManager реализует TemplateRenderer
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	// встроенный шаблон проверен тестами, ошибка здесь невозможна
	_ = tm.AddTemplate(TemplateBookingConfirmed, bookingConfirmedTemplate)
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// AddTemplate добавляет или заменяет шаблон
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Option("missingkey=zero").Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()

	return nil
}
