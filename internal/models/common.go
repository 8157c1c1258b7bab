package models

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel использует числовой автоинкремент: id транзакции входит в order_id шлюза.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type BaseModelWithDeleted struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// All возвращает все модели для AutoMigrate
func All() []interface{} {
	return []interface{}{
		&User{},
		&TravelPackage{},
		&PaymentGateway{},
		&Booking{},
		&Transaction{},
	}
}
