package repository

import (
	"time"

	"github.com/mazenibra89-oss/Omni-POS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SalesSummary aggregates the sales ledger over a date range.
type SalesSummary struct {
	TransactionCount int64 `json:"transaction_count"`
	Revenue          int64 `json:"revenue"`
	TaxCollected     int64 `json:"tax_collected"`
	DiscountGiven    int64 `json:"discount_given"`
}

type SaleRepository interface {
	Create(tx *gorm.DB, sale *model.Sale) error
	FindAll() ([]model.Sale, error)
	FindByID(id uuid.UUID) (*model.Sale, error)
	Summary(startDate, endDate time.Time) (*SalesSummary, error)
}

type saleRepo struct {
	db *gorm.DB
}

func NewSaleRepo(db *gorm.DB) SaleRepository {
	return &saleRepo{db}
}

// Create appends the sale and its items inside the caller's transaction,
// so a failed stock mutation rolls the ledger entry back with it.
func (r *saleRepo) Create(tx *gorm.DB, sale *model.Sale) error {
	return tx.Create(sale).Error
}

func (r *saleRepo) FindAll() ([]model.Sale, error) {
	var sales []model.Sale
	err := r.db.Preload("Items").Order("date DESC").Find(&sales).Error
	return sales, err
}

func (r *saleRepo) FindByID(id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := r.db.Preload("Items").First(&sale, "id = ?", id).Error
	return &sale, err
}

func (r *saleRepo) Summary(startDate, endDate time.Time) (*SalesSummary, error) {
	var summary SalesSummary

	base := r.db.Model(&model.Sale{}).Where("date BETWEEN ? AND ?", startDate, endDate)
	if err := base.Count(&summary.TransactionCount).Error; err != nil {
		return nil, err
	}

	row := r.db.Model(&model.Sale{}).
		Where("date BETWEEN ? AND ?", startDate, endDate).
		Select("COALESCE(SUM(total), 0), COALESCE(SUM(tax), 0), COALESCE(SUM(discount_total), 0)").
		Row()
	if err := row.Scan(&summary.Revenue, &summary.TaxCollected, &summary.DiscountGiven); err != nil {
		return nil, err
	}

	return &summary, nil
}
