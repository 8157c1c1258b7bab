package models

// User - покупатель. Платежный конвейер только читает имя и email.
type User struct {
	BaseModelWithDeleted
	Name  string   `gorm:"size:255;not null" json:"name"`
	Email string   `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role  UserRole `gorm:"type:varchar(20);not null;default:'customer'" json:"role"`

	Bookings []Booking `gorm:"foreignKey:UserID" json:"-"`
}
