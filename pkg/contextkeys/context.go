package contextkeys

// Используем кастомный тип, чтобы избежать коллизий
type contextKey string

const (
	// DBContextKey - ключ, по которому хранится *gorm.DB в gin.Context
	DBContextKey = contextKey("db")

	// UserIDKey и RoleKey выставляет AuthMiddleware
	UserIDKey = "userID"
	RoleKey   = "role"

	// RequestIDKey - ключ request id в gin.Context
	RequestIDKey = "requestID"
)
