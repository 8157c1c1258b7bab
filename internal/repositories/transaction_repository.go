package repositories

import (
	"errors"

	"hajj_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrTransactionNotFound = errors.New("transaction not found")

type TransactionRepository interface {
	Create(db *gorm.DB, txn *models.Transaction) error
	FindByID(db *gorm.DB, id uint) (*models.Transaction, error)
	FindByIDForUpdate(db *gorm.DB, id uint) (*models.Transaction, error)
	Save(db *gorm.DB, txn *models.Transaction) error
	HardDelete(db *gorm.DB, id uint) error
}

type TransactionRepositoryImpl struct{}

func NewTransactionRepository() TransactionRepository {
	return &TransactionRepositoryImpl{}
}

func (r *TransactionRepositoryImpl) Create(db *gorm.DB, txn *models.Transaction) error {
	return db.Create(txn).Error
}

func (r *TransactionRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := db.First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// FindByIDForUpdate блокирует строку до конца транзакции (SELECT ... FOR UPDATE).
// SQLite не поддерживает FOR UPDATE, там блокировка обеспечивается самой транзакцией.
func (r *TransactionRepositoryImpl) FindByIDForUpdate(db *gorm.DB, id uint) (*models.Transaction, error) {
	q := db
	if db.Dialector.Name() != "sqlite" {
		q = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var txn models.Transaction
	if err := q.First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepositoryImpl) Save(db *gorm.DB, txn *models.Transaction) error {
	return db.Save(txn).Error
}

func (r *TransactionRepositoryImpl) HardDelete(db *gorm.DB, id uint) error {
	return db.Unscoped().Delete(&models.Transaction{}, id).Error
}
