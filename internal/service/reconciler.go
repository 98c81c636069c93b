package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mazenibra89-oss/Omni-POS/internal/apperr"
	"github.com/mazenibra89-oss/Omni-POS/internal/model"
	"github.com/mazenibra89-oss/Omni-POS/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reconciler is the only sanctioned mutator of product stock and cost
// basis. Sales, purchasing, and opname converge on it: each flow runs its
// whole effect (ledger append plus stock deltas) inside one Execute call,
// so an event either applies completely or not at all.
//
// A store-wide mutex serializes mutating operations on top of the DB
// transaction. The single-register model makes per-product granularity
// unnecessary, and the mutex closes the absolute-set vs relative-delta
// race between opname approval and concurrent sales.
type Reconciler struct {
	db   *gorm.DB
	mu   sync.Mutex
	logs repository.StockLogRepository
}

func NewReconciler(db *gorm.DB, logs repository.StockLogRepository) *Reconciler {
	return &Reconciler{db: db, logs: logs}
}

// Execute runs fn as one serialized, atomic stock-mutating operation.
func (r *Reconciler) Execute(fn func(tx *gorm.DB) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.db.Transaction(fn)
}

func (r *Reconciler) lockProduct(tx *gorm.DB, productID uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&product, "id = ?", productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load product %s: %w", productID, err)
	}
	return &product, nil
}

// ApplyDelta shifts a product's stock by delta (negative for outbound)
// and appends the matching stock log. A referenced product that does not
// exist fails the whole operation with an unknown-product error; a result
// below zero fails it with a negative-stock error.
func (r *Reconciler) ApplyDelta(tx *gorm.DB, productID uuid.UUID, delta int, logType model.StockLogType, refID, note string, actor Actor) (*model.Product, error) {
	product, err := r.lockProduct(tx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.UnknownProduct(productID)
		}
		return nil, err
	}

	newStock := product.Stock + delta
	if newStock < 0 {
		return nil, apperr.NegativeStock(product.Name, product.Stock, -delta)
	}

	if err := r.updateStock(tx, product, newStock, actor); err != nil {
		return nil, err
	}
	if err := r.appendLog(tx, productID, delta, logType, refID, note, actor); err != nil {
		return nil, err
	}

	return product, nil
}

// SetStock overwrites a product's stock with an absolute counted value.
// Used only by approved opname sessions; the implied delta is logged so
// the audit trail stays complete across the baseline reset.
func (r *Reconciler) SetStock(tx *gorm.DB, productID uuid.UUID, absolute int, refID, note string, actor Actor) (*model.Product, error) {
	if absolute < 0 {
		return nil, apperr.Validation("stock cannot be set below zero")
	}

	product, err := r.lockProduct(tx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", productID)
		}
		return nil, err
	}

	delta := absolute - product.Stock
	if err := r.updateStock(tx, product, absolute, actor); err != nil {
		return nil, err
	}
	if err := r.appendLog(tx, productID, delta, model.StockLogOpname, refID, note, actor); err != nil {
		return nil, err
	}

	return product, nil
}

// UpdateCostBasis overwrites the recorded buy price. The received purchase
// price replaces the prior cost basis, it is not averaged in.
func (r *Reconciler) UpdateCostBasis(tx *gorm.DB, productID uuid.UUID, buyPrice int64) error {
	if buyPrice < 0 {
		return apperr.Validation("buy price cannot be negative")
	}
	return tx.Model(&model.Product{}).
		Where("id = ?", productID).
		Update("buy_price", buyPrice).Error
}

func (r *Reconciler) updateStock(tx *gorm.DB, product *model.Product, newStock int, actor Actor) error {
	product.Stock = newStock
	product.UpdatedBy = actor.ID
	return tx.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"stock":      newStock,
			"updated_by": actor.ID,
		}).Error
}

func (r *Reconciler) appendLog(tx *gorm.DB, productID uuid.UUID, qty int, logType model.StockLogType, refID, note string, actor Actor) error {
	entry := &model.StockLog{
		ProductID:   productID,
		Type:        logType,
		Qty:         qty,
		ReferenceID: refID,
		Note:        note,
	}
	entry.CreatedBy = actor.ID
	entry.UpdatedBy = actor.ID
	return r.logs.Create(tx, entry)
}
