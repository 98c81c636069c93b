package repository

import (
	"github.com/mazenibra89-oss/Omni-POS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PurchaseRepository interface {
	Create(tx *gorm.DB, order *model.PurchaseOrder) error
	FindAll() ([]model.PurchaseOrder, error)
	FindByID(id uuid.UUID) (*model.PurchaseOrder, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error)
	UpdateStatus(tx *gorm.DB, order *model.PurchaseOrder) error
}

type purchaseRepo struct {
	db *gorm.DB
}

func NewPurchaseRepo(db *gorm.DB) PurchaseRepository {
	return &purchaseRepo{db}
}

func (r *purchaseRepo) Create(tx *gorm.DB, order *model.PurchaseOrder) error {
	return tx.Create(order).Error
}

func (r *purchaseRepo) FindAll() ([]model.PurchaseOrder, error) {
	var orders []model.PurchaseOrder
	err := r.db.Preload("Items").Order("date DESC").Find(&orders).Error
	return orders, err
}

func (r *purchaseRepo) FindByID(id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	err := r.db.Preload("Items").First(&order, "id = ?", id).Error
	return &order, err
}

// FindByIDForUpdate loads the order inside the caller's transaction so the
// status check and the later receive side effects see the same row state.
func (r *purchaseRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.PurchaseOrder, error) {
	var order model.PurchaseOrder
	err := tx.Set("gorm:query_option", "FOR UPDATE").Preload("Items").First(&order, "id = ?", id).Error
	return &order, err
}

func (r *purchaseRepo) UpdateStatus(tx *gorm.DB, order *model.PurchaseOrder) error {
	return tx.Model(&model.PurchaseOrder{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"status":        order.Status,
			"received_date": order.ReceivedDate,
			"updated_by":    order.UpdatedBy,
		}).Error
}
