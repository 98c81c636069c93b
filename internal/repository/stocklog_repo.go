package repository

import (
	"time"

	"github.com/mazenibra89-oss/Omni-POS/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StockMovementData is one day of aggregated stock movement for charts.
type StockMovementData struct {
	Date     string `json:"date"`
	Inbound  int    `json:"inbound"`
	Outbound int    `json:"outbound"`
}

type StockLogRepository interface {
	Create(tx *gorm.DB, entry *model.StockLog) error
	FindByProduct(productID uuid.UUID) ([]model.StockLog, error)
	GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error)
}

type stockLogRepo struct {
	db *gorm.DB
}

func NewStockLogRepo(db *gorm.DB) StockLogRepository {
	return &stockLogRepo{db}
}

func (r *stockLogRepo) Create(tx *gorm.DB, entry *model.StockLog) error {
	return tx.Create(entry).Error
}

func (r *stockLogRepo) FindByProduct(productID uuid.UUID) ([]model.StockLog, error) {
	var logs []model.StockLog
	err := r.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&logs).Error
	return logs, err
}

// GetStockMovement aggregates signed log quantities per day. Qty > 0 is
// inbound (purchases, positive adjustments), Qty < 0 is outbound.
func (r *stockLogRepo) GetStockMovement(startDate, endDate time.Time) ([]StockMovementData, error) {
	var results []StockMovementData

	rows, err := r.db.Model(&model.StockLog{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(CASE WHEN qty > 0 THEN qty ELSE 0 END), 0) as inbound,
			COALESCE(SUM(CASE WHEN qty < 0 THEN -qty ELSE 0 END), 0) as outbound
		`).
		Where("created_at BETWEEN ? AND ?", startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data StockMovementData
		if err := rows.Scan(&data.Date, &data.Inbound, &data.Outbound); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
