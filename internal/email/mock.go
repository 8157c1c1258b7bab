package email

import "sync"

// MockProvider используется в тестах и когда отправка писем выключена.
// Сохраняет отправленные письма в памяти.
type MockProvider struct {
	mu       sync.Mutex
	renderer TemplateRenderer
	Sent     []Email
	Err      error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{renderer: NewTemplateManager()}
}

func (m *MockProvider) Send(email *Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, *email)
	return nil
}

func (m *MockProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	body, err := m.renderer.Render(templateName, data)
	if err != nil {
		return err
	}
	return m.Send(&Email{To: to, Subject: subject, HTMLBody: body})
}

func (m *MockProvider) Validate() error { return nil }
func (m *MockProvider) Close() error    { return nil }

// Messages возвращает копию отправленных писем
func (m *MockProvider) Messages() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.Sent))
	copy(out, m.Sent)
	return out
}
