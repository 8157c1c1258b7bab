package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const bookingReferencePrefix = "BK-"

var ErrBookingReferenceImmutable = errors.New("booking reference cannot be changed")

type Booking struct {
	BaseModelWithDeleted
	Reference string        `gorm:"<-:create;size:32;uniqueIndex;not null" json:"reference"`
	Status    BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Notes     *string       `gorm:"type:text" json:"notes,omitempty"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	PackageID uint          `gorm:"not null;index" json:"package_id"`

	User         *User          `gorm:"foreignKey:UserID" json:"-"`
	Package      *TravelPackage `gorm:"foreignKey:PackageID" json:"package,omitempty"`
	Transactions []Transaction  `gorm:"foreignKey:BookingID" json:"transactions,omitempty"`
}

// NewBookingReference генерирует ссылку вида BK-XXXXXXXXXX
func NewBookingReference() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return bookingReferencePrefix + strings.ToUpper(raw[:10])
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Reference == "" {
		b.Reference = NewBookingReference()
	}
	return nil
}

// BeforeUpdate запрещает менять reference у уже сохраненной брони.
// Колонка и так пишется только при создании, хук делает попытку явной ошибкой.
func (b *Booking) BeforeUpdate(tx *gorm.DB) error {
	// Update("reference", ...) / Updates(map или структура)
	if tx.Statement.Changed("Reference") {
		return ErrBookingReferenceImmutable
	}

	// Save(b): модель сравнивается сама с собой, сверяем с базой
	if dest, ok := tx.Statement.Dest.(*Booking); !ok || dest != b || b.ID == 0 {
		return nil
	}
	var stored []string
	err := tx.Session(&gorm.Session{NewDB: true}).
		Unscoped().
		Model(&Booking{}).
		Where("id = ?", b.ID).
		Pluck("reference", &stored).Error
	if err != nil {
		return err
	}
	if len(stored) == 1 && stored[0] != b.Reference {
		return ErrBookingReferenceImmutable
	}
	return nil
}
