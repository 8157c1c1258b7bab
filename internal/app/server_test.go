package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hajj_backend/internal/app"
	"hajj_backend/internal/auth"
	"hajj_backend/internal/config"
	"hajj_backend/internal/email"
	"hajj_backend/internal/models"
	"hajj_backend/internal/payment"
	"hajj_backend/internal/queue"
	"hajj_backend/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "my_super_secret_key_for_tests_12345"

// TestServer - приложение на httptest с SQLite в памяти и шлюзом-заглушкой
type TestServer struct {
	Server  *httptest.Server
	DB      *gorm.DB
	App     *app.App
	Gateway *payment.MockGateway
	Queue   *queue.MemoryQueue
	Email   *email.MockProvider
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Database.Driver = "sqlite"
	cfg.JWT.Secret = testJWTSecret
	cfg.Payment.Provider = models.GatewayNameMidtrans
	cfg.Payment.TimeoutSeconds = 5
	cfg.Queue.Driver = "memory"
	cfg.Workers.StaleAfterHours = 24
	cfg.Workers.IntervalMinutes = 60
	return cfg
}

// NewTestServer поднимает приложение. Воркеры очереди не запускаются,
// тесты вызывают StartWorkers сами, когда нужна обработка уведомлений.
func NewTestServer(t *testing.T, opts ...func(*app.Options)) *TestServer {
	t.Helper()

	db := testutil.NewTestDB(t)
	ts := &TestServer{
		DB:      db,
		Gateway: &payment.MockGateway{Token: "66e4fa55-fdac-4ef9-91b5-733b97d1b862"},
		Queue:   queue.NewMemoryQueue(16, 1),
		Email:   email.NewMockProvider(),
	}

	options := app.Options{
		GatewayFactory: payment.StaticFactory(ts.Gateway),
		Queue:          ts.Queue,
		EmailProvider:  ts.Email,
	}
	for _, opt := range opts {
		opt(&options)
	}

	a, err := app.New(testConfig(), db, options)
	require.NoError(t, err)
	ts.App = a
	ts.Server = httptest.NewServer(a.Router())

	t.Cleanup(func() {
		ts.Server.Close()
		_ = a.Close()
	})
	return ts
}

// StartWorkers запускает обработку очереди до конца теста
func (ts *TestServer) StartWorkers(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, ts.App.StartWorkers(ctx))
}

// Token выпускает JWT для пользователя
func (ts *TestServer) Token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := auth.GenerateToken(user.ID, user.Role, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

// SendRequest отправляет запрос и возвращает ответ и тело
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	switch b := body.(type) {
	case nil:
	case []byte:
		reqBody = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err, "ошибка кодирования JSON для запроса")
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(raw)
}
