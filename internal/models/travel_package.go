package models

import "github.com/shopspring/decimal"

type TravelPackage struct {
	BaseModelWithDeleted
	Name     string          `gorm:"size:255;not null" json:"name"`
	Type     PackageType     `gorm:"type:varchar(20);not null" json:"type"`
	Price    decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"price"`
	IsActive bool            `gorm:"not null;default:true" json:"is_active"`
}

func (TravelPackage) TableName() string {
	return "packages"
}
