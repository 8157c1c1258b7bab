package repositories

import (
	"errors"

	"hajj_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPackageNotFound = errors.New("package not found")

type PackageRepository interface {
	FindByID(db *gorm.DB, id uint) (*models.TravelPackage, error)
	Exists(db *gorm.DB, id uint) (bool, error)
	Create(db *gorm.DB, pkg *models.TravelPackage) error
}

type PackageRepositoryImpl struct{}

func NewPackageRepository() PackageRepository {
	return &PackageRepositoryImpl{}
}

func (r *PackageRepositoryImpl) FindByID(db *gorm.DB, id uint) (*models.TravelPackage, error) {
	var pkg models.TravelPackage
	if err := db.First(&pkg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPackageNotFound
		}
		return nil, err
	}
	return &pkg, nil
}

// Exists учитывает soft delete: удаленный пакет считается несуществующим.
func (r *PackageRepositoryImpl) Exists(db *gorm.DB, id uint) (bool, error) {
	var count int64
	err := db.Model(&models.TravelPackage{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *PackageRepositoryImpl) Create(db *gorm.DB, pkg *models.TravelPackage) error {
	return db.Create(pkg).Error
}
