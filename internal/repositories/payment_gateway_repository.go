package repositories

import (
	"errors"

	"hajj_backend/internal/models"

	"gorm.io/gorm"
)

var ErrGatewayNotFound = errors.New("active payment gateway not found")

type PaymentGatewayRepository interface {
	FindActiveByName(db *gorm.DB, name string) (*models.PaymentGateway, error)
	FindByName(db *gorm.DB, name string) (*models.PaymentGateway, error)
	Create(db *gorm.DB, gateway *models.PaymentGateway) error
}

type PaymentGatewayRepositoryImpl struct{}

func NewPaymentGatewayRepository() PaymentGatewayRepository {
	return &PaymentGatewayRepositoryImpl{}
}

func (r *PaymentGatewayRepositoryImpl) FindActiveByName(db *gorm.DB, name string) (*models.PaymentGateway, error) {
	var gateway models.PaymentGateway
	err := db.Where("name = ? AND is_active = ?", name, true).
		Order("id DESC").
		First(&gateway).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGatewayNotFound
		}
		return nil, err
	}
	return &gateway, nil
}

func (r *PaymentGatewayRepositoryImpl) FindByName(db *gorm.DB, name string) (*models.PaymentGateway, error) {
	var gateway models.PaymentGateway
	if err := db.Where("name = ?", name).First(&gateway).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGatewayNotFound
		}
		return nil, err
	}
	return &gateway, nil
}

func (r *PaymentGatewayRepositoryImpl) Create(db *gorm.DB, gateway *models.PaymentGateway) error {
	return db.Create(gateway).Error
}
