package repositories

import (
	"errors"
	"time"

	"hajj_backend/internal/models"

	"gorm.io/gorm"
)

var ErrBookingNotFound = errors.New("booking not found")

type BookingRepository interface {
	Create(db *gorm.DB, booking *models.Booking) error
	FindByID(db *gorm.DB, id uint) (*models.Booking, error)
	FindByIDWithTransactions(db *gorm.DB, id uint) (*models.Booking, error)
	UpdateStatus(db *gorm.DB, id uint, status models.BookingStatus) error
	HardDelete(db *gorm.DB, id uint) error
	FindStalePendingPayment(db *gorm.DB, olderThan time.Time, limit int) ([]models.Booking, error)
}

type BookingRepositoryImpl struct{}

func NewBookingRepository() BookingRepository {
	return &BookingRepositoryImpl{}
}

func (r *BookingRepositoryImpl) Create(db *gorm.DB, booking *models.Booking) error {
	return db.Create(booking).Error
}

func (r *BookingRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := db.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) FindByIDWithTransactions(db *gorm.DB, id uint) (*models.Booking, error) {
	var booking models.Booking
	err := db.Preload("Package").
		Preload("Transactions", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id ASC")
		}).
		First(&booking, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) UpdateStatus(db *gorm.DB, id uint, status models.BookingStatus) error {
	result := db.Model(&models.Booking{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// HardDelete удаляет запись физически, минуя soft delete.
func (r *BookingRepositoryImpl) HardDelete(db *gorm.DB, id uint) error {
	return db.Unscoped().Delete(&models.Booking{}, id).Error
}

func (r *BookingRepositoryImpl) FindStalePendingPayment(db *gorm.DB, olderThan time.Time, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := db.Where("status = ? AND created_at < ?", models.BookingStatusPendingPayment, olderThan).
		Order("created_at ASC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}
